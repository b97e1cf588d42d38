package authz_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"clinic-booking-api/internal/authz"
	"clinic-booking-api/internal/model"
)

func TestCanCreateAppointment(t *testing.T) {
	assert.True(t, authz.CanCreateAppointment(model.Principal{ID: "p1", Role: model.RolePatient}))
	assert.False(t, authz.CanCreateAppointment(model.Principal{ID: "d1", Role: model.RoleDoctor}))
	assert.False(t, authz.CanCreateAppointment(model.Principal{ID: "a1", Role: model.RoleAdmin}))
	assert.False(t, authz.CanCreateAppointment(model.Principal{ID: "x", Role: "INTERN"}))
}

func TestOwnership(t *testing.T) {
	appt := &model.Appointment{ID: "appt1", PatientID: "p1", DoctorID: "d1"}

	tests := []struct {
		name string
		p    model.Principal
		want bool
	}{
		{"owning patient", model.Principal{ID: "p1", Role: model.RolePatient}, true},
		{"other patient", model.Principal{ID: "p2", Role: model.RolePatient}, false},
		{"owning doctor", model.Principal{ID: "d1", Role: model.RoleDoctor}, true},
		{"other doctor", model.Principal{ID: "d2", Role: model.RoleDoctor}, false},
		{"admin", model.Principal{ID: "a1", Role: model.RoleAdmin}, true},
		{"patient id matching doctor side", model.Principal{ID: "d1", Role: model.RolePatient}, false},
		{"doctor id matching patient side", model.Principal{ID: "p1", Role: model.RoleDoctor}, false},
		{"unknown role", model.Principal{ID: "p1", Role: "GUEST"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, authz.Owns(tt.p, appt))
			// view and cancel must agree with ownership, always
			assert.Equal(t, tt.want, authz.CanView(tt.p, appt))
			assert.Equal(t, tt.want, authz.CanCancel(tt.p, appt))
		})
	}
}

func TestCanAccessRecords(t *testing.T) {
	assert.False(t, authz.CanAccessRecords(model.Principal{ID: "p1", Role: model.RolePatient}))
	assert.True(t, authz.CanAccessRecords(model.Principal{ID: "d1", Role: model.RoleDoctor}))
	assert.True(t, authz.CanAccessRecords(model.Principal{ID: "a1", Role: model.RoleAdmin}))
}
