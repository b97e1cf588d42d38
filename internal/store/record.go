package store

import (
	"context"

	"clinic-booking-api/internal/model"
)

const recordWithCreatorSelect = `
	SELECT r.id, r.patient_name, r.diagnosis, COALESCE(r.notes, ''), r.created_by, r.created_at,
	       u.id, u.name, u.email
	FROM records r
	JOIN users u ON u.id = r.created_by`

func scanRecordWithCreator(row interface{ Scan(dest ...any) error }) (*model.Record, error) {
	rec := &model.Record{CreatedBy: &model.UserSummary{}}
	err := row.Scan(
		&rec.ID, &rec.PatientName, &rec.Diagnosis, &rec.Notes, &rec.CreatedByID, &rec.CreatedAt,
		&rec.CreatedBy.ID, &rec.CreatedBy.Name, &rec.CreatedBy.Email,
	)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *Store) CreateRecord(ctx context.Context, rec *model.Record) error {
	return s.pool.QueryRow(ctx,
		`INSERT INTO records (id, patient_name, diagnosis, notes, created_by)
		 VALUES ($1,$2,$3,$4,$5)
		 RETURNING created_at`,
		rec.ID, rec.PatientName, rec.Diagnosis, rec.Notes, rec.CreatedByID,
	).Scan(&rec.CreatedAt)
}

func (s *Store) ListRecords(ctx context.Context) ([]model.Record, error) {
	rows, err := s.pool.Query(ctx, recordWithCreatorSelect+` ORDER BY r.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Record
	for rows.Next() {
		rec, err := scanRecordWithCreator(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

// SearchRecords does a case-insensitive patient-name search. The pattern is
// bound as a parameter; the search term never reaches the SQL text.
func (s *Store) SearchRecords(ctx context.Context, name string) ([]model.Record, error) {
	rows, err := s.pool.Query(ctx,
		recordWithCreatorSelect+` WHERE r.patient_name ILIKE '%' || $1 || '%'
		 ORDER BY r.created_at DESC`, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Record
	for rows.Next() {
		rec, err := scanRecordWithCreator(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

func (s *Store) RecordByID(ctx context.Context, id string) (*model.Record, error) {
	rec, err := scanRecordWithCreator(s.pool.QueryRow(ctx,
		recordWithCreatorSelect+` WHERE r.id = $1`, id))
	if err != nil {
		return nil, notFound("record", err)
	}
	return rec, nil
}
