package database

import (
	"fmt"

	"github.com/lib/pq"

	"alnoor-schools/app/models"
)

// InsertPayment records the immutable payment audit row and its
// per-entry allocations in one transaction.
func (s *Store) InsertPayment(p *models.PaymentRecord, allocations []models.PaymentAllocation) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO payments
			  (id, payer_id, entry_ids, amount_submitted, amount_allocated, excess_amount, payment_date,
			   mode, cheque_number, bank_name, transaction_ref, phone_number, notes, receipt_number, recorded_by, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW())`
	_, err = tx.Exec(query,
		p.ID, p.PayerID, pq.Array(p.EntryIDs), p.AmountSubmitted, p.AmountAllocated, p.ExcessAmount, p.PaymentDate,
		string(p.Meta.Mode), p.Meta.ChequeNumber, p.Meta.BankName, p.Meta.TransactionRef, p.Meta.PhoneNumber,
		p.Meta.Notes, p.ReceiptNumber, p.RecordedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %v", err)
	}

	for _, a := range allocations {
		_, err = tx.Exec(`INSERT INTO payment_allocations (payment_id, entry_id, amount) VALUES ($1, $2, $3)`,
			p.ID, a.EntryID, a.Amount)
		if err != nil {
			return fmt.Errorf("failed to insert allocation: %v", err)
		}
	}

	return tx.Commit()
}

// PaymentsForPayer retrieves a payer's payment history, newest first.
func (s *Store) PaymentsForPayer(payerID string) ([]*models.PaymentRecord, error) {
	query := `SELECT id, payer_id, entry_ids, amount_submitted, amount_allocated, excess_amount, payment_date,
			  mode, cheque_number, bank_name, transaction_ref, phone_number, notes, receipt_number, recorded_by, created_at
			  FROM payments WHERE payer_id = $1 ORDER BY payment_date DESC, created_at DESC`
	rows, err := s.db.Query(query, payerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*models.PaymentRecord
	for rows.Next() {
		p := &models.PaymentRecord{}
		var mode string
		err := rows.Scan(
			&p.ID, &p.PayerID, pq.Array(&p.EntryIDs), &p.AmountSubmitted, &p.AmountAllocated, &p.ExcessAmount,
			&p.PaymentDate, &mode, &p.Meta.ChequeNumber, &p.Meta.BankName, &p.Meta.TransactionRef,
			&p.Meta.PhoneNumber, &p.Meta.Notes, &p.ReceiptNumber, &p.RecordedBy, &p.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		p.Meta.Mode = models.PaymentMode(mode)
		payments = append(payments, p)
	}
	return payments, rows.Err()
}
