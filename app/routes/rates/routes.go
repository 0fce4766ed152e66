package rates

import (
	"github.com/gofiber/fiber/v2"

	"alnoor-schools/app/ledger"
)

// SetupRatesRoutes mounts the rate-versioning API.
func SetupRatesRoutes(app *fiber.App, eng *ledger.Engine) {
	ratesAPI := app.Group("/api/rates")

	ratesAPI.Post("/", func(c *fiber.Ctx) error {
		return CreateRateAPI(c, eng)
	})

	ratesAPI.Post("/:subjectId/hike", func(c *fiber.Ctx) error {
		return HikeAPI(c, eng)
	})

	ratesAPI.Get("/:subjectId/history", func(c *fiber.Ctx) error {
		return HistoryAPI(c, eng)
	})
}
