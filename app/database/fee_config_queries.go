package database

import (
	"database/sql"

	"alnoor-schools/app/models"
)

func (s *Store) UpsertFeeConfig(c *models.FeeConfig) error {
	query := `INSERT INTO fee_configs (id, payer_id, subject_id, subject_type, discount, exempt, due_day, is_active, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
			  ON CONFLICT (payer_id, subject_id) DO UPDATE
			  SET discount = EXCLUDED.discount, exempt = EXCLUDED.exempt, due_day = EXCLUDED.due_day,
			      is_active = EXCLUDED.is_active, updated_at = NOW()`
	_, err := s.db.Exec(query,
		c.ID, c.PayerID, c.SubjectID, string(c.SubjectType), c.Discount, c.Exempt, c.DueDay, c.IsActive,
	)
	return err
}

func (s *Store) FeeConfig(payerID, subjectID string) (*models.FeeConfig, error) {
	query := `SELECT id, payer_id, subject_id, subject_type, discount, exempt, due_day, is_active, created_at, updated_at
			  FROM fee_configs WHERE payer_id = $1 AND subject_id = $2`
	c := &models.FeeConfig{}
	var subjectType string
	err := s.db.QueryRow(query, payerID, subjectID).Scan(
		&c.ID, &c.PayerID, &c.SubjectID, &subjectType, &c.Discount, &c.Exempt, &c.DueDay, &c.IsActive,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	c.SubjectType = models.SubjectType(subjectType)
	return c, nil
}

func (s *Store) ActiveFeeConfigs() ([]*models.FeeConfig, error) {
	query := `SELECT id, payer_id, subject_id, subject_type, discount, exempt, due_day, is_active, created_at, updated_at
			  FROM fee_configs WHERE is_active = true ORDER BY payer_id, subject_id`
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var configs []*models.FeeConfig
	for rows.Next() {
		c := &models.FeeConfig{}
		var subjectType string
		err := rows.Scan(
			&c.ID, &c.PayerID, &c.SubjectID, &subjectType, &c.Discount, &c.Exempt, &c.DueDay, &c.IsActive,
			&c.CreatedAt, &c.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		c.SubjectType = models.SubjectType(subjectType)
		configs = append(configs, c)
	}
	return configs, rows.Err()
}
