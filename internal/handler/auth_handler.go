package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"clinic-booking-api/internal/auth"
	"clinic-booking-api/internal/httpx"
	"clinic-booking-api/internal/middleware"
	"clinic-booking-api/internal/model"
)

const refreshCookie = "refresh_token"

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=PATIENT DOCTOR ADMIN"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "malformed JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		httpx.RespondError(h.log, w, err)
		return
	}

	u := &model.User{
		ID:           uuid.New().String(),
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
		Role:         model.Role(req.Role),
	}
	if err := h.store.CreateUser(r.Context(), u); err != nil {
		httpx.RespondError(h.log, w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, map[string]any{
		"id": u.ID, "email": u.Email, "name": u.Name, "role": u.Role,
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "malformed JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	// same response for unknown email and wrong password
	u, err := h.store.UserByEmail(r.Context(), req.Email)
	if err != nil || !auth.CheckPassword(u.PasswordHash, req.Password) {
		httpx.Error(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	token, err := auth.MakeToken(u, h.cfg.JWTSecret, h.cfg.AccessTokenTTL)
	if err != nil {
		httpx.RespondError(h.log, w, err)
		return
	}

	if err := h.issueRefreshCookie(w, r, u.ID); err != nil {
		httpx.RespondError(h.log, w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  map[string]any{"id": u.ID, "email": u.Email, "name": u.Name, "role": u.Role},
	})
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshCookie)
	if err != nil {
		httpx.Error(w, http.StatusUnauthorized, "missing refresh token")
		return
	}

	rt, err := h.store.RefreshTokenByHash(r.Context(), auth.HashRefreshToken(cookie.Value))
	if err != nil || !rt.Usable(time.Now()) {
		httpx.Error(w, http.StatusUnauthorized, "invalid refresh token")
		return
	}

	u, err := h.store.UserByID(r.Context(), rt.UserID)
	if err != nil {
		httpx.Error(w, http.StatusUnauthorized, "invalid refresh token")
		return
	}

	raw, hash, err := auth.GenerateRefreshToken()
	if err != nil {
		httpx.RespondError(h.log, w, err)
		return
	}
	if _, err := h.store.RotateRefreshToken(r.Context(), rt.ID, rt.UserID, hash, time.Now().Add(h.cfg.RefreshTokenTTL)); err != nil {
		httpx.RespondError(h.log, w, err)
		return
	}
	h.setRefreshCookie(w, raw)

	token, err := auth.MakeToken(u, h.cfg.JWTSecret, h.cfg.AccessTokenTTL)
	if err != nil {
		httpx.RespondError(h.log, w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"token": token})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "missing or invalid authorization header")
		return
	}

	if err := h.store.RevokeAllRefreshTokens(r.Context(), claims.Subject); err != nil {
		httpx.RespondError(h.log, w, err)
		return
	}
	if err := h.denylist.Revoke(r.Context(), claims.ID, middleware.TokenTTL(claims)); err != nil {
		// the refresh tokens are gone either way; the access token just
		// keeps working until its short TTL runs out
		h.log.Warn("denylist revoke failed", zap.Error(err))
	}

	h.clearRefreshCookie(w)
	httpx.JSON(w, http.StatusOK, map[string]any{"loggedOut": true})
}

func (h *Handler) issueRefreshCookie(w http.ResponseWriter, r *http.Request, userID string) error {
	raw, hash, err := auth.GenerateRefreshToken()
	if err != nil {
		return err
	}
	if _, err := h.store.CreateRefreshToken(r.Context(), userID, hash, time.Now().Add(h.cfg.RefreshTokenTTL)); err != nil {
		return err
	}
	h.setRefreshCookie(w, raw)
	return nil
}

func (h *Handler) setRefreshCookie(w http.ResponseWriter, raw string) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookie,
		Value:    raw,
		Path:     "/auth",
		HttpOnly: true,
		Secure:   h.cfg.IsProduction(),
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(h.cfg.RefreshTokenTTL.Seconds()),
	})
}

func (h *Handler) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookie,
		Value:    "",
		Path:     "/auth",
		HttpOnly: true,
		MaxAge:   -1,
	})
}
