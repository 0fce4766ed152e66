package payroll

import (
	"github.com/gofiber/fiber/v2"

	"alnoor-schools/app/ledger"
)

// SetupPayrollRoutes mounts the salary-side API.
func SetupPayrollRoutes(app *fiber.App, eng *ledger.Engine) {
	payrollAPI := app.Group("/api/payroll")

	payrollAPI.Post("/payments", func(c *fiber.Ctx) error {
		return PaySalaryAPI(c, eng)
	})

	payrollAPI.Get("/ledger/:teacherId", func(c *fiber.Ctx) error {
		return TeacherLedgerAPI(c, eng)
	})

	payrollAPI.Get("/credits/:teacherId", func(c *fiber.Ctx) error {
		return TeacherCreditsAPI(c, eng)
	})

	payrollAPI.Post("/credits/:teacherId/apply", func(c *fiber.Ctx) error {
		return ApplyCreditAPI(c, eng)
	})
}
