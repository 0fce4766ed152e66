package fees

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alnoor-schools/app/ledger"
)

// SetupFeesRoutes mounts the fee-side API.
func SetupFeesRoutes(app *fiber.App, eng *ledger.Engine) {
	feesAPI := app.Group("/api/fees")

	feesAPI.Post("/collect", func(c *fiber.Ctx) error {
		return CollectFeeAPI(c, eng)
	})

	feesAPI.Post("/generate", func(c *fiber.Ctx) error {
		return GeneratePeriodsAPI(c, eng)
	})

	feesAPI.Post("/trip-charge", func(c *fiber.Ctx) error {
		return TripChargeAPI(c, eng)
	})

	feesAPI.Post("/config", func(c *fiber.Ctx) error {
		return UpsertFeeConfigAPI(c, eng)
	})

	feesAPI.Get("/ledger/:payerId", func(c *fiber.Ctx) error {
		return MonthlyLedgerAPI(c, eng)
	})

	feesAPI.Get("/summary/:payerId", func(c *fiber.Ctx) error {
		return UnpaidSummaryAPI(c, eng)
	})
}

func uuidNew() string {
	return uuid.NewString()
}
