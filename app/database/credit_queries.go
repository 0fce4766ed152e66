package database

import (
	"alnoor-schools/app/models"
)

func (s *Store) InsertCredit(c *models.CreditBalance) error {
	query := `INSERT INTO credit_balances (id, payer_id, amount, remaining_amount, source_payment_id, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, NOW(), NOW())`
	_, err := s.db.Exec(query, c.ID, c.PayerID, c.Amount, c.Remaining, c.SourcePaymentID)
	return err
}

func (s *Store) UpdateCredit(c *models.CreditBalance) error {
	query := `UPDATE credit_balances SET remaining_amount = $1, updated_at = NOW() WHERE id = $2`
	_, err := s.db.Exec(query, c.Remaining, c.ID)
	return err
}

func (s *Store) OpenCredits(payerID string) ([]*models.CreditBalance, error) {
	return s.credits(payerID, true)
}

func (s *Store) CreditsForPayer(payerID string) ([]*models.CreditBalance, error) {
	return s.credits(payerID, false)
}

func (s *Store) credits(payerID string, openOnly bool) ([]*models.CreditBalance, error) {
	query := `SELECT id, payer_id, amount, remaining_amount, source_payment_id, created_at, updated_at
			  FROM credit_balances WHERE payer_id = $1`
	if openOnly {
		query += ` AND remaining_amount > 0`
	}
	query += ` ORDER BY created_at ASC`

	rows, err := s.db.Query(query, payerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var credits []*models.CreditBalance
	for rows.Next() {
		c := &models.CreditBalance{}
		err := rows.Scan(&c.ID, &c.PayerID, &c.Amount, &c.Remaining, &c.SourcePaymentID, &c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			return nil, err
		}
		credits = append(credits, c)
	}
	return credits, rows.Err()
}
