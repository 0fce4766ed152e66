package main

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"alnoor-schools/app/config"
	"alnoor-schools/app/database"
	"alnoor-schools/app/ledger"
	"alnoor-schools/app/routes/fees"
	"alnoor-schools/app/routes/payroll"
	"alnoor-schools/app/routes/rates"
	"alnoor-schools/app/services"
)

// engineErrorHandler translates engine errors into JSON responses so
// handlers can return them verbatim.
func engineErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var fiberErr *fiber.Error
	var validationErr *ledger.ValidationError
	var overAlloc *ledger.OverAllocationError

	switch {
	case errors.As(err, &fiberErr):
		code = fiberErr.Code
	case errors.As(err, &validationErr):
		code = fiber.StatusBadRequest
	case errors.As(err, &overAlloc):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success":     false,
			"error":       overAlloc.Error(),
			"max_payable": overAlloc.MaxPayable,
		})
	case errors.Is(err, ledger.ErrNoActiveRate), errors.Is(err, ledger.ErrEntryNotFound):
		code = fiber.StatusNotFound
	case errors.Is(err, ledger.ErrInvalidEffectiveDate),
		errors.Is(err, ledger.ErrFuturePeriodNotPayable),
		errors.Is(err, ledger.ErrPayerMismatch),
		errors.Is(err, ledger.ErrRateExists):
		code = fiber.StatusUnprocessableEntity
	case errors.Is(err, ledger.ErrConcurrentModification):
		code = fiber.StatusConflict
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   err.Error(),
		"code":    code,
	})
}

func main() {
	// Initialize database
	config.InitDB()
	defer config.GetDB().Close()

	// Run database migrations
	if err := database.RunMigrations(config.GetDB()); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	store := database.NewStore(config.GetDB())
	engine := ledger.NewWithDueDay(store, config.AppConfig.DueDay)

	// Start background billing tick
	services.StartScheduler(engine, config.AppConfig.TickHr)

	app := fiber.New(fiber.Config{
		AppName:      "Al-Noor Schools Ledger",
		ErrorHandler: engineErrorHandler,
	})

	app.Use(cors.New())
	app.Use(logger.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	fees.SetupFeesRoutes(app, engine)
	rates.SetupRatesRoutes(app, engine)
	payroll.SetupPayrollRoutes(app, engine)

	log.Printf("Starting server on port %s", config.AppConfig.Port)
	if err := app.Listen(":" + config.AppConfig.Port); err != nil {
		log.Fatal("Server failed to start:", err)
	}
}
