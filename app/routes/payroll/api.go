package payroll

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"alnoor-schools/app/ledger"
	"alnoor-schools/app/models"
)

var validate = validator.New()

// SalaryPaymentRequest records a payout against one salary period.
type SalaryPaymentRequest struct {
	TeacherID     string             `json:"teacher_id" validate:"required"`
	SubjectID     string             `json:"subject_id"`
	PeriodYear    int                `json:"period_year" validate:"required"`
	PeriodMonth   int                `json:"period_month" validate:"gte=0,lte=12"`
	Amount        decimal.Decimal    `json:"amount" validate:"required"`
	PaymentDate   string             `json:"payment_date"`
	Meta          models.PaymentMeta `json:"meta"`
	ReceiptNumber string             `json:"receipt_number"`
	RecordedBy    string             `json:"recorded_by"`
}

// PaySalaryAPI records a salary payment. An amount above the period's
// pending total is not rejected: the overshoot is posted as credit and
// rolled onto the teacher's next unpaid periods, and the response
// reports exactly where it went.
func PaySalaryAPI(c *fiber.Ctx, eng *ledger.Engine) error {
	var req SalaryPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := req.Meta.Validate(); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	asOf := asOfDate(c)
	paymentDate := asOf
	if req.PaymentDate != "" {
		var err error
		paymentDate, err = time.Parse("2006-01-02", req.PaymentDate)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "payment_date must be YYYY-MM-DD")
		}
	}

	settlement, err := eng.PaySalary(ledger.SalaryPaymentRequest{
		TeacherID:     req.TeacherID,
		SubjectID:     req.SubjectID,
		PeriodYear:    req.PeriodYear,
		PeriodMonth:   req.PeriodMonth,
		Amount:        req.Amount,
		PaymentDate:   paymentDate,
		Meta:          req.Meta,
		ReceiptNumber: req.ReceiptNumber,
		RecordedBy:    req.RecordedBy,
	}, asOf)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    settlement,
	})
}

// TeacherLedgerAPI renders a teacher's salary ledger by period.
func TeacherLedgerAPI(c *fiber.Ctx, eng *ledger.Engine) error {
	teacherID := c.Params("teacherId")
	groups, err := eng.MonthlyLedger(teacherID, asOfDate(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    groups,
	})
}

// TeacherCreditsAPI lists a teacher's credit balances, consumed ones
// included, plus the open total.
func TeacherCreditsAPI(c *fiber.Ctx, eng *ledger.Engine) error {
	teacherID := c.Params("teacherId")

	credits, err := eng.CreditHistory(teacherID)
	if err != nil {
		return err
	}
	remaining, err := eng.RemainingCredit(teacherID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success":          true,
		"data":             credits,
		"remaining_credit": remaining,
	})
}

// ApplyCreditAPI re-runs credit application for a payer, e.g. after
// new periods were generated. Safe to call repeatedly.
func ApplyCreditAPI(c *fiber.Ctx, eng *ledger.Engine) error {
	teacherID := c.Params("teacherId")
	applied, err := eng.ApplyCredit(teacherID, asOfDate(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    applied,
	})
}

func asOfDate(c *fiber.Ctx) time.Time {
	if raw := c.Query("as_of"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			return t
		}
	}
	return time.Now()
}
