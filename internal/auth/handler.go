// AngelaMos | 2026
// handler.go

package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/releasetrack/internal/core"
	"github.com/carterperez-dev/releasetrack/internal/middleware"
)

type Handler struct {
	service  *Service
	validate *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:  service,
		validate: core.NewValidator(),
	}
}

// RegisterRoutes mounts the auth surface. /register and /login are public;
// /me runs behind the verifier.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authn func(http.Handler) http.Handler,
) {
	r.Post("/register", h.Register)
	r.Post("/login", h.Login)

	r.Group(func(r chi.Router) {
		r.Use(authn)
		r.Get("/me", h.Me)
	})
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}
	req.Normalize()

	if err := h.validate.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	resp, err := h.service.Register(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrAdminSignupDisabled):
			core.Forbidden(w, "admin signup is disabled")
		case errors.Is(err, ErrEmailExists):
			core.BadRequest(w, "email already registered")
		default:
			core.JSONError(w, err)
		}
		return
	}

	core.Created(w, resp)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	resp, err := h.service.Login(r.Context(), req)
	if err != nil {
		var mismatch *RoleMismatchError
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			core.Unauthorized(w, "invalid email or password")
		case errors.As(err, &mismatch):
			core.JSONError(
				w,
				core.ForbiddenError("role mismatch").
					WithExtra("actual_role", mismatch.Actual),
			)
		default:
			core.JSONError(w, err)
		}
		return
	}

	core.OK(w, resp)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.JSONError(w, core.MissingTokenError())
		return
	}

	profile, err := h.service.Me(r.Context(), userID)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, MeResponse{User: *profile})
}
