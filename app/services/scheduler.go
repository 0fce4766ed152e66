package services

import (
	"log"
	"time"

	"alnoor-schools/app/ledger"
)

// StartScheduler starts the background billing tick. Once a day at the
// configured hour it materializes the current period for every active
// fee configuration and re-applies open credit. Both operations are
// idempotent, so a missed or repeated tick is harmless; the tick is
// only a convenience trigger, the engine never depends on it.
func StartScheduler(eng *ledger.Engine, tickHour int) {
	go func() {
		log.Println("Billing scheduler started...")
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			now := time.Now()
			if now.Hour() == tickHour && now.Minute() == 0 {
				log.Printf("Triggering billing tick [%02d:00]...", tickHour)
				if err := MaterializeCurrentPeriods(eng, now); err != nil {
					log.Printf("Billing tick failed: %v", err)
				}
			}
		}
	}()
}

// MaterializeCurrentPeriods generates the current month's obligations
// for every active payer/subject pair, then consumes any open credit
// against the newly created entries.
func MaterializeCurrentPeriods(eng *ledger.Engine, asOf time.Time) error {
	configs, err := eng.Store().ActiveFeeConfigs()
	if err != nil {
		return err
	}

	monthStart := time.Date(asOf.Year(), asOf.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)

	generated := 0
	payers := make(map[string]bool)
	for _, cfg := range configs {
		created, err := eng.GeneratePeriods(cfg.PayerID, cfg.SubjectID, cfg.SubjectType, monthStart, monthEnd, asOf)
		if err != nil {
			// Per-trip and not-yet-rated subjects are expected here;
			// log and keep going so one bad config cannot stall the run.
			log.Printf("Skipping %s/%s: %v", cfg.PayerID, cfg.SubjectID, err)
			continue
		}
		generated += len(created)
		payers[cfg.PayerID] = true
	}

	for payerID := range payers {
		if _, err := eng.ApplyCredit(payerID, asOf); err != nil {
			log.Printf("Credit application failed for %s: %v", payerID, err)
		}
	}

	log.Printf("Billing tick completed. Materialized %d entries across %d payers.", generated, len(payers))
	return nil
}
