// Package authz is the access-control evaluator: pure decision functions over
// (principal, resource) pairs. No state, no side effects.
package authz

import "clinic-booking-api/internal/model"

// CanCreateAppointment is a role gate, not an ownership gate: only patients
// book appointments, and no appointment exists yet to own.
func CanCreateAppointment(p model.Principal) bool {
	return p.Role == model.RolePatient
}

// Owns reports whether the principal owns the appointment: admins own
// everything, patients own their own bookings, doctors own their own schedule.
func Owns(p model.Principal, a *model.Appointment) bool {
	switch p.Role {
	case model.RoleAdmin:
		return true
	case model.RolePatient:
		return p.ID == a.PatientID
	case model.RoleDoctor:
		return p.ID == a.DoctorID
	}
	return false
}

// CanView and CanCancel are deliberately the same predicate. Keeping a single
// definition stops the two checks from drifting apart.
var (
	CanView   = Owns
	CanCancel = Owns
)

// CanAccessRecords gates the medical-records module to clinical staff.
func CanAccessRecords(p model.Principal) bool {
	return p.Role == model.RoleDoctor || p.Role == model.RoleAdmin
}
