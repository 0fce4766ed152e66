package database

import (
	"database/sql"
	"time"

	"alnoor-schools/app/models"
)

const rateColumns = `id, subject_id, subject_type, amount, cycle, effective_from, effective_to, version_number, notes, created_at`

func (s *Store) InsertRateVersion(v *models.RateVersion) error {
	query := `INSERT INTO rate_versions (id, subject_id, subject_type, amount, cycle, effective_from, effective_to, version_number, notes, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())`
	_, err := s.db.Exec(query,
		v.ID, v.SubjectID, string(v.SubjectType), v.Amount, string(v.Cycle),
		v.EffectiveFrom, v.EffectiveTo, v.VersionNumber, v.Notes,
	)
	return err
}

func (s *Store) CloseRateVersion(id string, effectiveTo time.Time) error {
	query := `UPDATE rate_versions SET effective_to = $1 WHERE id = $2 AND effective_to IS NULL`
	_, err := s.db.Exec(query, effectiveTo, id)
	return err
}

func (s *Store) CurrentRateVersion(subjectID string) (*models.RateVersion, error) {
	query := `SELECT ` + rateColumns + ` FROM rate_versions
			  WHERE subject_id = $1 AND effective_to IS NULL
			  ORDER BY effective_from DESC LIMIT 1`
	return s.scanRate(s.db.QueryRow(query, subjectID))
}

func (s *Store) RateVersionOn(subjectID string, on time.Time) (*models.RateVersion, error) {
	query := `SELECT ` + rateColumns + ` FROM rate_versions
			  WHERE subject_id = $1 AND effective_from <= $2
			  AND (effective_to IS NULL OR effective_to >= $2)
			  ORDER BY effective_from DESC LIMIT 1`
	return s.scanRate(s.db.QueryRow(query, subjectID, on))
}

func (s *Store) RateHistory(subjectID string) ([]*models.RateVersion, error) {
	query := `SELECT ` + rateColumns + ` FROM rate_versions
			  WHERE subject_id = $1 ORDER BY effective_from ASC`
	rows, err := s.db.Query(query, subjectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var versions []*models.RateVersion
	for rows.Next() {
		v, err := scanRateRow(rows)
		if err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

func (s *Store) scanRate(row *sql.Row) (*models.RateVersion, error) {
	v := &models.RateVersion{}
	var subjectType, cycle string
	err := row.Scan(
		&v.ID, &v.SubjectID, &subjectType, &v.Amount, &cycle,
		&v.EffectiveFrom, &v.EffectiveTo, &v.VersionNumber, &v.Notes, &v.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	v.SubjectType = models.SubjectType(subjectType)
	v.Cycle = models.BillingCycle(cycle)
	return v, nil
}

func scanRateRow(rows *sql.Rows) (*models.RateVersion, error) {
	v := &models.RateVersion{}
	var subjectType, cycle string
	err := rows.Scan(
		&v.ID, &v.SubjectID, &subjectType, &v.Amount, &cycle,
		&v.EffectiveFrom, &v.EffectiveTo, &v.VersionNumber, &v.Notes, &v.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	v.SubjectType = models.SubjectType(subjectType)
	v.Cycle = models.BillingCycle(cycle)
	return v, nil
}
