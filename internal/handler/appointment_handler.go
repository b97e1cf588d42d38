package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"clinic-booking-api/internal/httpx"
	"clinic-booking-api/internal/middleware"
	"clinic-booking-api/internal/model"
	"clinic-booking-api/internal/scheduling"
)

type createAppointmentRequest struct {
	DoctorID string    `json:"doctorId" validate:"required,uuid"`
	DateTime time.Time `json:"dateTime" validate:"required"`
	Duration *int      `json:"duration" validate:"omitempty,gt=0"`
	Notes    string    `json:"notes"`
}

func (h *Handler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "missing or invalid authorization header")
		return
	}

	var req createAppointmentRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "malformed JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	booking := scheduling.BookingRequest{
		DoctorID: req.DoctorID,
		Start:    req.DateTime,
		Notes:    req.Notes,
	}
	if req.Duration != nil {
		booking.DurationMinutes = *req.Duration
	}

	a, err := h.engine.ProposeBooking(r.Context(), p, booking)
	if err != nil {
		httpx.RespondError(h.log, w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, a)
}

func (h *Handler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "missing or invalid authorization header")
		return
	}

	q := scheduling.ListQuery{
		Status: model.AppointmentStatus(r.URL.Query().Get("status")),
	}
	if raw := r.URL.Query().Get("date"); raw != "" {
		day, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
		if err != nil {
			httpx.Error(w, http.StatusBadRequest, "invalid request: date must be in YYYY-MM-DD format")
			return
		}
		q.Date = &day
	}

	out, err := h.engine.List(r.Context(), p, q)
	if err != nil {
		httpx.RespondError(h.log, w, err)
		return
	}
	if out == nil {
		out = []model.Appointment{}
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "missing or invalid authorization header")
		return
	}

	a, err := h.engine.GetByID(r.Context(), p, chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(h.log, w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, a)
}

func (h *Handler) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "missing or invalid authorization header")
		return
	}

	a, err := h.engine.Cancel(r.Context(), p, chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(h.log, w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, a)
}
