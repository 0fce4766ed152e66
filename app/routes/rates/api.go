package rates

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"alnoor-schools/app/ledger"
	"alnoor-schools/app/models"
)

var validate = validator.New()

// CreateRateRequest opens the first rate version for a subject.
type CreateRateRequest struct {
	SubjectID     string          `json:"subject_id" validate:"required"`
	SubjectType   string          `json:"subject_type" validate:"required"`
	Amount        decimal.Decimal `json:"amount" validate:"required"`
	Cycle         string          `json:"cycle" validate:"required"`
	EffectiveFrom string          `json:"effective_from" validate:"required"`
	Notes         string          `json:"notes"`
}

// CreateRateAPI registers a new billable subject's opening rate.
func CreateRateAPI(c *fiber.Ctx, eng *ledger.Engine) error {
	var req CreateRateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	from, err := time.Parse("2006-01-02", req.EffectiveFrom)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "effective_from must be YYYY-MM-DD")
	}

	v, err := eng.CreateRate(req.SubjectID, models.SubjectType(req.SubjectType), req.Amount,
		models.BillingCycle(req.Cycle), from, req.Notes)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    v,
	})
}

// HikeRequest raises (or lowers) a subject's rate from a future date.
type HikeRequest struct {
	Amount        decimal.Decimal `json:"amount" validate:"required"`
	EffectiveFrom string          `json:"effective_from" validate:"required"`
	Notes         string          `json:"notes"`
}

// HikeAPI supersedes the current rate version. Past bills are never
// touched; only periods materialized after the effective date pick up
// the new amount.
func HikeAPI(c *fiber.Ctx, eng *ledger.Engine) error {
	subjectID := c.Params("subjectId")

	var req HikeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	from, err := time.Parse("2006-01-02", req.EffectiveFrom)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "effective_from must be YYYY-MM-DD")
	}

	v, err := eng.Hike(subjectID, req.Amount, from, req.Notes)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    v,
	})
}

// HistoryAPI lists a subject's rate versions, oldest first.
func HistoryAPI(c *fiber.Ctx, eng *ledger.Engine) error {
	subjectID := c.Params("subjectId")
	versions, err := eng.RateHistory(subjectID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    versions,
	})
}
