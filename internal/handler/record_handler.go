package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"clinic-booking-api/internal/httpx"
	"clinic-booking-api/internal/middleware"
	"clinic-booking-api/internal/model"
)

type createRecordRequest struct {
	PatientName string `json:"patientName" validate:"required"`
	Diagnosis   string `json:"diagnosis" validate:"required"`
	Notes       string `json:"notes"`
}

func (h *Handler) CreateRecord(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "missing or invalid authorization header")
		return
	}

	var req createRecordRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "malformed JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	rec := &model.Record{
		ID:          uuid.New().String(),
		PatientName: req.PatientName,
		Diagnosis:   req.Diagnosis,
		Notes:       req.Notes,
		CreatedByID: p.ID,
	}
	if err := h.store.CreateRecord(r.Context(), rec); err != nil {
		httpx.RespondError(h.log, w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, rec)
}

func (h *Handler) ListRecords(w http.ResponseWriter, r *http.Request) {
	out, err := h.store.ListRecords(r.Context())
	if err != nil {
		httpx.RespondError(h.log, w, err)
		return
	}
	if out == nil {
		out = []model.Record{}
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) SearchRecords(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		httpx.Error(w, http.StatusBadRequest, "search parameter 'name' is required")
		return
	}

	out, err := h.store.SearchRecords(r.Context(), name)
	if err != nil {
		httpx.RespondError(h.log, w, err)
		return
	}
	if out == nil {
		out = []model.Record{}
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) GetRecord(w http.ResponseWriter, r *http.Request) {
	rec, err := h.store.RecordByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(h.log, w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rec)
}
