// Package scheduling is the appointment engine: booking with conflict
// detection, role-scoped listing, and the cancel lifecycle.
package scheduling

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"clinic-booking-api/internal/authz"
	"clinic-booking-api/internal/httpx"
	"clinic-booking-api/internal/model"
)

const DefaultDurationMinutes = 30

// Store is the data-store collaborator. Implementations must uphold the
// transactional contract: CreateAppointment fails with Conflict when a racing
// insert would double-book a doctor, and CancelScheduled updates status
// conditionally so concurrent cancels produce one winner.
type Store interface {
	DoctorByID(ctx context.Context, id string) (*model.UserSummary, error)
	ScheduledForDoctorBetween(ctx context.Context, doctorID string, from, to time.Time) ([]model.Appointment, error)
	CreateAppointment(ctx context.Context, a *model.Appointment) error
	AppointmentByID(ctx context.Context, id string) (*model.Appointment, error)
	ListAppointments(ctx context.Context, f model.AppointmentFilter) ([]model.Appointment, error)
	CancelScheduled(ctx context.Context, id string) (*model.Appointment, error)
}

type Engine struct {
	store       Store
	maxDuration time.Duration
	now         func() time.Time
}

func New(store Store, maxDurationMinutes int) *Engine {
	return &Engine{
		store:       store,
		maxDuration: time.Duration(maxDurationMinutes) * time.Minute,
		now:         time.Now,
	}
}

// Overlaps reports whether two half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Back-to-back slots sharing a boundary do not.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

type BookingRequest struct {
	DoctorID        string
	Start           time.Time
	DurationMinutes int // 0 means the default
	Notes           string
}

// ProposeBooking validates the request, checks the doctor's schedule for a
// conflicting slot, and persists the appointment.
//
// Candidate fetch uses the window [start - maxDuration, end): any SCHEDULED
// appointment overlapping the proposal must start inside it, including ones
// spanning midnight, so the pre-filter can never hide a conflict.
func (e *Engine) ProposeBooking(ctx context.Context, p model.Principal, req BookingRequest) (*model.Appointment, error) {
	if !authz.CanCreateAppointment(p) {
		return nil, fmt.Errorf("only patients can book appointments: %w", httpx.ErrForbidden)
	}

	duration := req.DurationMinutes
	if duration == 0 {
		duration = DefaultDurationMinutes
	}
	if duration < 0 {
		return nil, fmt.Errorf("%w: duration must be a positive integer", httpx.ErrValidation)
	}
	if time.Duration(duration)*time.Minute > e.maxDuration {
		return nil, fmt.Errorf("%w: duration must be at most %d minutes", httpx.ErrValidation, int(e.maxDuration.Minutes()))
	}
	if !req.Start.After(e.now()) {
		return nil, fmt.Errorf("%w: dateTime must be a future date and time", httpx.ErrValidation)
	}

	doctor, err := e.store.DoctorByID(ctx, req.DoctorID)
	if err != nil {
		return nil, err
	}

	start := req.Start.UTC()
	end := start.Add(time.Duration(duration) * time.Minute)

	existing, err := e.store.ScheduledForDoctorBetween(ctx, req.DoctorID, start.Add(-e.maxDuration), end)
	if err != nil {
		return nil, err
	}
	for i := range existing {
		if Overlaps(existing[i].Start, existing[i].End(), start, end) {
			return nil, httpx.ErrConflict
		}
	}

	a := &model.Appointment{
		ID:              uuid.New().String(),
		PatientID:       p.ID,
		DoctorID:        req.DoctorID,
		Start:           start,
		DurationMinutes: duration,
		Status:          model.StatusScheduled,
		Notes:           req.Notes,
		Doctor:          doctor,
	}
	// the storage backstop turns a lost race into Conflict here
	if err := e.store.CreateAppointment(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

type ListQuery struct {
	Status model.AppointmentStatus // optional
	Date   *time.Time              // optional, a UTC calendar day
}

// List returns the appointments the principal may see, ordered by start time
// with id as the tie-break. Role scoping is applied before any client filter
// and cannot be widened by query parameters.
func (e *Engine) List(ctx context.Context, p model.Principal, q ListQuery) ([]model.Appointment, error) {
	var f model.AppointmentFilter
	switch p.Role {
	case model.RolePatient:
		f.PatientID = p.ID
	case model.RoleDoctor:
		f.DoctorID = p.ID
	case model.RoleAdmin:
	default:
		return nil, httpx.ErrForbidden
	}

	if q.Status != "" {
		if !q.Status.Valid() {
			return nil, fmt.Errorf("%w: status must be one of SCHEDULED, CANCELLED", httpx.ErrValidation)
		}
		f.Status = q.Status
	}
	if q.Date != nil {
		day := q.Date.UTC().Truncate(24 * time.Hour)
		f.DayStart = day
		f.DayEnd = day.Add(24 * time.Hour)
	}

	out, err := e.store.ListAppointments(ctx, f)
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Start.Equal(out[j].Start) {
			return out[i].ID < out[j].ID
		}
		return out[i].Start.Before(out[j].Start)
	})
	return out, nil
}

// GetByID returns one appointment with resolved patient/doctor summaries,
// gated by the ownership predicate.
func (e *Engine) GetByID(ctx context.Context, p model.Principal, id string) (*model.Appointment, error) {
	a, err := e.store.AppointmentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanView(p, a) {
		return nil, httpx.ErrForbidden
	}
	return a, nil
}

// Cancel transitions SCHEDULED to CANCELLED. A second cancel on the same
// appointment fails with AlreadyCancelled rather than succeeding silently.
func (e *Engine) Cancel(ctx context.Context, p model.Principal, id string) (*model.Appointment, error) {
	a, err := e.store.AppointmentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanCancel(p, a) {
		return nil, httpx.ErrForbidden
	}
	if a.Status == model.StatusCancelled {
		return nil, httpx.ErrAlreadyCancelled
	}
	// conditional update; a concurrent cancel that got there first surfaces
	// as AlreadyCancelled from the store
	return e.store.CancelScheduled(ctx, id)
}
