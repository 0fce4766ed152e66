package database

import (
	"database/sql"
	"log"
)

// RunMigrations applies the ledger schema. Every statement is
// idempotent so the app can run it on every boot.
func RunMigrations(db *sql.DB) error {
	log.Println("Running database migrations...")

	statements := []string{
		`CREATE TABLE IF NOT EXISTS rate_versions (
			id UUID PRIMARY KEY,
			subject_id TEXT NOT NULL,
			subject_type VARCHAR(20) NOT NULL,
			amount NUMERIC(12,2) NOT NULL,
			cycle VARCHAR(20) NOT NULL,
			effective_from DATE NOT NULL,
			effective_to DATE,
			version_number INT NOT NULL DEFAULT 1,
			notes TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_rate_versions_subject ON rate_versions (subject_id, effective_from)`,

		`CREATE TABLE IF NOT EXISTS ledger_entries (
			id UUID PRIMARY KEY,
			payer_id TEXT NOT NULL,
			subject_id TEXT NOT NULL,
			subject_type VARCHAR(20) NOT NULL,
			period_start DATE NOT NULL,
			period_year INT NOT NULL,
			period_month INT NOT NULL DEFAULT 0,
			assigned_amount NUMERIC(12,2) NOT NULL,
			paid_amount NUMERIC(12,2) NOT NULL DEFAULT 0,
			credit_applied_amount NUMERIC(12,2) NOT NULL DEFAULT 0,
			pending_amount NUMERIC(12,2) NOT NULL DEFAULT 0,
			due_date DATE NOT NULL,
			status VARCHAR(20) NOT NULL,
			rate_version_id UUID,
			version INT NOT NULL DEFAULT 1,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT pending_not_negative CHECK (pending_amount >= 0)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_ledger_entries_payer ON ledger_entries (payer_id, due_date)`,
		`CREATE INDEX IF NOT EXISTS idx_ledger_entries_subject ON ledger_entries (payer_id, subject_id, period_start)`,

		`CREATE TABLE IF NOT EXISTS payments (
			id UUID PRIMARY KEY,
			payer_id TEXT NOT NULL,
			entry_ids TEXT[] NOT NULL DEFAULT '{}',
			amount_submitted NUMERIC(12,2) NOT NULL,
			amount_allocated NUMERIC(12,2) NOT NULL,
			excess_amount NUMERIC(12,2) NOT NULL DEFAULT 0,
			payment_date DATE NOT NULL,
			mode VARCHAR(20) NOT NULL,
			cheque_number TEXT NOT NULL DEFAULT '',
			bank_name TEXT NOT NULL DEFAULT '',
			transaction_ref TEXT NOT NULL DEFAULT '',
			phone_number TEXT NOT NULL DEFAULT '',
			notes TEXT NOT NULL DEFAULT '',
			receipt_number VARCHAR(50) NOT NULL DEFAULT '',
			recorded_by VARCHAR(100) NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_payments_payer ON payments (payer_id, payment_date)`,

		`CREATE TABLE IF NOT EXISTS payment_allocations (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			payment_id UUID NOT NULL REFERENCES payments(id),
			entry_id UUID NOT NULL REFERENCES ledger_entries(id),
			amount NUMERIC(12,2) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_payment_allocations_payment ON payment_allocations (payment_id)`,

		`CREATE TABLE IF NOT EXISTS credit_balances (
			id UUID PRIMARY KEY,
			payer_id TEXT NOT NULL,
			amount NUMERIC(12,2) NOT NULL,
			remaining_amount NUMERIC(12,2) NOT NULL,
			source_payment_id UUID NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_credit_balances_payer ON credit_balances (payer_id, created_at)`,

		`CREATE TABLE IF NOT EXISTS fee_configs (
			id UUID PRIMARY KEY,
			payer_id TEXT NOT NULL,
			subject_id TEXT NOT NULL,
			subject_type VARCHAR(20) NOT NULL,
			discount NUMERIC(12,2) NOT NULL DEFAULT 0,
			exempt BOOLEAN NOT NULL DEFAULT FALSE,
			due_day INT NOT NULL DEFAULT 0,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (payer_id, subject_id)
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			log.Printf("Migration statement failed: %v", err)
			return err
		}
	}

	log.Println("Database migrations completed successfully")
	return nil
}
