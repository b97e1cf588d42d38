package model

import "time"

type Role string

const (
	RolePatient Role = "PATIENT"
	RoleDoctor  Role = "DOCTOR"
	RoleAdmin   Role = "ADMIN"
)

func (r Role) Valid() bool {
	switch r {
	case RolePatient, RoleDoctor, RoleAdmin:
		return true
	}
	return false
}

type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "SCHEDULED"
	StatusCancelled AppointmentStatus = "CANCELLED"
)

func (s AppointmentStatus) Valid() bool {
	return s == StatusScheduled || s == StatusCancelled
}

// Principal is the authenticated actor for the current request,
// derived once from a verified token.
type Principal struct {
	ID   string
	Role Role
}

type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Summary returns the public-safe view of a user.
func (u *User) Summary() *UserSummary {
	return &UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}

type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Appointment struct {
	ID              string            `json:"id"`
	PatientID       string            `json:"patientId"`
	DoctorID        string            `json:"doctorId"`
	Start           time.Time         `json:"dateTime"`
	DurationMinutes int               `json:"duration"`
	Status          AppointmentStatus `json:"status"`
	Notes           string            `json:"notes,omitempty"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`

	Patient *UserSummary `json:"patient,omitempty"`
	Doctor  *UserSummary `json:"doctor,omitempty"`
}

// End is the exclusive upper bound of the appointment's time slot.
func (a *Appointment) End() time.Time {
	return a.Start.Add(time.Duration(a.DurationMinutes) * time.Minute)
}

// AppointmentFilter scopes a listing query. PatientID/DoctorID come from the
// principal's role, never from client input.
type AppointmentFilter struct {
	PatientID string
	DoctorID  string
	Status    AppointmentStatus
	DayStart  time.Time
	DayEnd    time.Time
}

type Record struct {
	ID          string       `json:"id"`
	PatientName string       `json:"patientName"`
	Diagnosis   string       `json:"diagnosis"`
	Notes       string       `json:"notes,omitempty"`
	CreatedByID string       `json:"createdById"`
	CreatedAt   time.Time    `json:"createdAt"`
	CreatedBy   *UserSummary `json:"createdBy,omitempty"`
}
