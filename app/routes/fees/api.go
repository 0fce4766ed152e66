package fees

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"alnoor-schools/app/ledger"
	"alnoor-schools/app/models"
)

var validate = validator.New()

// CollectFeeRequest is the clerk's fee-collection submission.
type CollectFeeRequest struct {
	PayerID       string             `json:"payer_id" validate:"required"`
	EntryIDs      []string           `json:"entry_ids" validate:"required,min=1,dive,required"`
	Amount        decimal.Decimal    `json:"amount" validate:"required"`
	PaymentDate   string             `json:"payment_date"`
	Meta          models.PaymentMeta `json:"meta"`
	ReceiptNumber string             `json:"receipt_number"`
	RecordedBy    string             `json:"recorded_by"`
}

// CollectFeeAPI applies a payment against the selected ledger entries.
func CollectFeeAPI(c *fiber.Ctx, eng *ledger.Engine) error {
	var req CollectFeeRequest
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
	paymentDate, err := parseDateOr(req.PaymentDate, asOf)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "payment_date must be YYYY-MM-DD")
	}

	result, err := eng.CollectFee(ledger.CollectFeeRequest{
		PayerID:       req.PayerID,
		EntryIDs:      req.EntryIDs,
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
		"data":    result,
	})
}

// GeneratePeriodsRequest asks the engine to materialize obligations
// for a payer/subject across a date range.
type GeneratePeriodsRequest struct {
	PayerID     string `json:"payer_id" validate:"required"`
	SubjectID   string `json:"subject_id" validate:"required"`
	SubjectType string `json:"subject_type" validate:"required"`
	RangeStart  string `json:"range_start" validate:"required"`
	RangeEnd    string `json:"range_end" validate:"required"`
}

// GeneratePeriodsAPI materializes billing periods on demand.
func GeneratePeriodsAPI(c *fiber.Ctx, eng *ledger.Engine) error {
	var req GeneratePeriodsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	start, err := time.Parse("2006-01-02", req.RangeStart)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "range_start must be YYYY-MM-DD")
	}
	end, err := time.Parse("2006-01-02", req.RangeEnd)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "range_end must be YYYY-MM-DD")
	}

	created, err := eng.GeneratePeriods(req.PayerID, req.SubjectID, models.SubjectType(req.SubjectType), start, end, asOfDate(c))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":       true,
		"created_count": len(created),
		"data":          created,
	})
}

// TripChargeRequest records one caller-driven transport trip charge.
type TripChargeRequest struct {
	PayerID   string `json:"payer_id" validate:"required"`
	SubjectID string `json:"subject_id" validate:"required"`
	TripDate  string `json:"trip_date" validate:"required"`
}

// TripChargeAPI materializes a per-trip charge.
func TripChargeAPI(c *fiber.Ctx, eng *ledger.Engine) error {
	var req TripChargeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	day, err := time.Parse("2006-01-02", req.TripDate)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "trip_date must be YYYY-MM-DD")
	}

	entry, err := eng.RecordTripCharge(req.PayerID, req.SubjectID, day, asOfDate(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    entry,
	})
}

// MonthlyLedgerAPI renders a payer's ledger grouped by period.
func MonthlyLedgerAPI(c *fiber.Ctx, eng *ledger.Engine) error {
	payerID := c.Params("payerId")
	groups, err := eng.MonthlyLedger(payerID, asOfDate(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    groups,
	})
}

// UnpaidSummaryAPI returns the payer's aggregate outstanding position.
func UnpaidSummaryAPI(c *fiber.Ctx, eng *ledger.Engine) error {
	payerID := c.Params("payerId")
	summary, err := eng.Unpaid(payerID, asOfDate(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    summary,
	})
}

// FeeConfigRequest attaches a subject to a payer with optional
// discount/exemption modifiers.
type FeeConfigRequest struct {
	PayerID     string          `json:"payer_id" validate:"required"`
	SubjectID   string          `json:"subject_id" validate:"required"`
	SubjectType string          `json:"subject_type" validate:"required"`
	Discount    decimal.Decimal `json:"discount"`
	Exempt      bool            `json:"exempt"`
	DueDay      int             `json:"due_day" validate:"gte=0,lte=31"`
	IsActive    *bool           `json:"is_active"`
}

// UpsertFeeConfigAPI creates or updates a payer's fee configuration.
func UpsertFeeConfigAPI(c *fiber.Ctx, eng *ledger.Engine) error {
	var req FeeConfigRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	subjectType := models.SubjectType(req.SubjectType)
	if !subjectType.Valid() {
		return fiber.NewError(fiber.StatusBadRequest, "unknown subject_type")
	}
	if req.Discount.IsNegative() {
		return fiber.NewError(fiber.StatusBadRequest, "discount cannot be negative")
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	cfg := &models.FeeConfig{
		ID:          uuidNew(),
		PayerID:     req.PayerID,
		SubjectID:   req.SubjectID,
		SubjectType: subjectType,
		Discount:    req.Discount,
		Exempt:      req.Exempt,
		DueDay:      req.DueDay,
		IsActive:    active,
	}
	if err := eng.Store().UpsertFeeConfig(cfg); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    cfg,
	})
}

// asOfDate reads the optional as_of query parameter, defaulting to
// today. The engine itself never touches the wall clock.
func asOfDate(c *fiber.Ctx) time.Time {
	if raw := c.Query("as_of"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			return t
		}
	}
	return time.Now()
}

func parseDateOr(raw string, fallback time.Time) (time.Time, error) {
	if raw == "" {
		return fallback, nil
	}
	return time.Parse("2006-01-02", raw)
}
