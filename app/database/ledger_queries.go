package database

import (
	"database/sql"

	"github.com/lib/pq"

	"alnoor-schools/app/ledger"
	"alnoor-schools/app/models"
)

const entryColumns = `id, payer_id, subject_id, subject_type, period_start, period_year, period_month,
	assigned_amount, paid_amount, credit_applied_amount, due_date, status, COALESCE(rate_version_id::text, ''), version, created_at, updated_at`

func (s *Store) InsertEntry(e *models.LedgerEntry) error {
	query := `INSERT INTO ledger_entries
			  (id, payer_id, subject_id, subject_type, period_start, period_year, period_month,
			   assigned_amount, paid_amount, credit_applied_amount, pending_amount, due_date, status, rate_version_id, version, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NULLIF($14, '')::uuid, $15, NOW(), NOW())`
	_, err := s.db.Exec(query,
		e.ID, e.PayerID, e.SubjectID, string(e.SubjectType), e.PeriodStart, e.PeriodYear, e.PeriodMonth,
		e.Assigned, e.Paid, e.CreditApplied, e.Pending(), e.DueDate, string(e.Status), e.RateVersionID, e.Version,
	)
	return err
}

// UpdateEntry writes back an entry's mutable fields guarded by the
// optimistic version check. A stale version means another allocation
// got there first.
func (s *Store) UpdateEntry(e *models.LedgerEntry) error {
	query := `UPDATE ledger_entries
			  SET paid_amount = $1, credit_applied_amount = $2, pending_amount = $3,
			      status = $4, version = version + 1, updated_at = NOW()
			  WHERE id = $5 AND version = $6`
	result, err := s.db.Exec(query, e.Paid, e.CreditApplied, e.Pending(), string(e.Status), e.ID, e.Version)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		var exists bool
		if err := s.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM ledger_entries WHERE id = $1)`, e.ID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ledger.ErrEntryNotFound
		}
		return ledger.ErrConcurrentModification
	}
	e.Version++
	return nil
}

func (s *Store) EntryByID(id string) (*models.LedgerEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM ledger_entries WHERE id = $1`
	rows, err := s.db.Query(query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	entries, err := scanEntries(rows)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ledger.ErrEntryNotFound
	}
	return entries[0], nil
}

func (s *Store) EntriesByIDs(ids []string) ([]*models.LedgerEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM ledger_entries WHERE id = ANY($1) ORDER BY due_date ASC`
	rows, err := s.db.Query(query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEntries(rows)
}

func (s *Store) EntriesForPayer(payerID string) ([]*models.LedgerEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM ledger_entries WHERE payer_id = $1 ORDER BY due_date ASC, period_start ASC`
	rows, err := s.db.Query(query, payerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEntries(rows)
}

func (s *Store) EntriesForSubject(payerID, subjectID string) ([]*models.LedgerEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM ledger_entries
			  WHERE payer_id = $1 AND subject_id = $2 ORDER BY due_date ASC, period_start ASC`
	rows, err := s.db.Query(query, payerID, subjectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEntries(rows)
}

func (s *Store) OpenEntries(payerID string) ([]*models.LedgerEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM ledger_entries
			  WHERE payer_id = $1 AND pending_amount > 0 ORDER BY due_date ASC, period_start ASC`
	rows, err := s.db.Query(query, payerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]*models.LedgerEntry, error) {
	var entries []*models.LedgerEntry
	for rows.Next() {
		e := &models.LedgerEntry{}
		var subjectType, status string
		err := rows.Scan(
			&e.ID, &e.PayerID, &e.SubjectID, &subjectType, &e.PeriodStart, &e.PeriodYear, &e.PeriodMonth,
			&e.Assigned, &e.Paid, &e.CreditApplied, &e.DueDate, &status, &e.RateVersionID, &e.Version,
			&e.CreatedAt, &e.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		e.SubjectType = models.SubjectType(subjectType)
		e.Status = models.EntryStatus(status)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
