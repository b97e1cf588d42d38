package store

import (
	"context"
	"fmt"
	"time"

	"clinic-booking-api/internal/httpx"
	"clinic-booking-api/internal/model"
)

const appointmentWithUsersSelect = `
	SELECT a.id, a.patient_id, a.doctor_id, a.start_time, a.duration_minutes,
	       a.status, COALESCE(a.notes, ''), a.created_at, a.updated_at,
	       p.id, p.name, p.email,
	       d.id, d.name, d.email
	FROM appointments a
	JOIN users p ON p.id = a.patient_id
	JOIN users d ON d.id = a.doctor_id`

func scanAppointmentWithUsers(row interface{ Scan(dest ...any) error }) (*model.Appointment, error) {
	a := &model.Appointment{Patient: &model.UserSummary{}, Doctor: &model.UserSummary{}}
	err := row.Scan(
		&a.ID, &a.PatientID, &a.DoctorID, &a.Start, &a.DurationMinutes,
		&a.Status, &a.Notes, &a.CreatedAt, &a.UpdatedAt,
		&a.Patient.ID, &a.Patient.Name, &a.Patient.Email,
		&a.Doctor.ID, &a.Doctor.Name, &a.Doctor.Email,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// CreateAppointment persists a new booking. The conflict check has already run
// in the scheduling engine; the exclusion constraint is the backstop that
// catches two racing inserts, which surfaces here as Conflict.
func (s *Store) CreateAppointment(ctx context.Context, a *model.Appointment) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO appointments (id, patient_id, doctor_id, start_time, duration_minutes, status, notes)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)
		 RETURNING created_at, updated_at`,
		a.ID, a.PatientID, a.DoctorID, a.Start, a.DurationMinutes, a.Status, a.Notes,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	if isPgErr(err, codeExclusionViolation) {
		return httpx.ErrConflict
	}
	return err
}

// ScheduledForDoctorBetween returns the doctor's SCHEDULED appointments whose
// start falls in [from, to). The caller widens the window so no overlapping
// candidate can be missed.
func (s *Store) ScheduledForDoctorBetween(ctx context.Context, doctorID string, from, to time.Time) ([]model.Appointment, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, start_time, duration_minutes
		 FROM appointments
		 WHERE doctor_id = $1 AND status = $2
		   AND start_time >= $3 AND start_time < $4`,
		doctorID, model.StatusScheduled, from, to,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Appointment
	for rows.Next() {
		var a model.Appointment
		if err := rows.Scan(&a.ID, &a.Start, &a.DurationMinutes); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) AppointmentByID(ctx context.Context, id string) (*model.Appointment, error) {
	a, err := scanAppointmentWithUsers(s.pool.QueryRow(ctx,
		appointmentWithUsersSelect+` WHERE a.id = $1`, id))
	if err != nil {
		return nil, notFound("appointment", err)
	}
	return a, nil
}

// ListAppointments applies the role scope and optional status/date filters.
// The WHERE clause is assembled with positional parameters only.
func (s *Store) ListAppointments(ctx context.Context, f model.AppointmentFilter) ([]model.Appointment, error) {
	q := appointmentWithUsersSelect + ` WHERE 1=1`
	var args []any

	add := func(clause string, v any) {
		args = append(args, v)
		q += fmt.Sprintf(clause, len(args))
	}
	if f.PatientID != "" {
		add(` AND a.patient_id = $%d`, f.PatientID)
	}
	if f.DoctorID != "" {
		add(` AND a.doctor_id = $%d`, f.DoctorID)
	}
	if f.Status != "" {
		add(` AND a.status = $%d`, f.Status)
	}
	if !f.DayStart.IsZero() {
		add(` AND a.start_time >= $%d`, f.DayStart)
		add(` AND a.start_time < $%d`, f.DayEnd)
	}
	q += ` ORDER BY a.start_time, a.id`

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Appointment
	for rows.Next() {
		a, err := scanAppointmentWithUsers(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// CancelScheduled flips SCHEDULED to CANCELLED in a single conditional update,
// so two racing cancels produce exactly one winner. The caller has already
// established that the appointment exists; zero rows updated means it lost the
// race (or was cancelled all along).
func (s *Store) CancelScheduled(ctx context.Context, id string) (*model.Appointment, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE appointments SET status = $1, updated_at = NOW()
		 WHERE id = $2 AND status = $3`,
		model.StatusCancelled, id, model.StatusScheduled,
	)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, httpx.ErrAlreadyCancelled
	}
	return s.AppointmentByID(ctx, id)
}
