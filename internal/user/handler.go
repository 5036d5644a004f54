// AngelaMos | 2026
// handler.go

package user

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

type updateRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

// RegisterRoutes mounts the admin user-management surface. Everything here
// sits behind the verifier plus the admin role gate.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authn func(http.Handler) http.Handler,
) {
	r.Route("/admin/users", func(r chi.Router) {
		r.Use(authn)
		r.Use(middleware.RequireAdmin)

		r.Get("/", h.List)
		r.Delete("/{userID}", h.Delete)
		r.Patch("/{userID}/role", h.UpdateRole)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.List(r.Context())
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, map[string]any{"users": users})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		core.BadRequest(w, "user id is required")
		return
	}

	if err := h.service.Delete(r.Context(), userID); err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, map[string]any{"deleted": true, "id": userID})
}

func (h *Handler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		core.BadRequest(w, "user id is required")
		return
	}

	var req updateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	updated, err := h.service.UpdateRole(r.Context(), userID, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidRole):
			core.BadRequest(w, "invalid role")
		case errors.Is(err, ErrAdminPromotionDisabled):
			core.Forbidden(w, "promoting to admin is disabled")
		case errors.Is(err, core.ErrNotFound):
			// The patch matched no rows. Echo the intended assignment; the
			// store does not distinguish a missing id from a no-op patch.
			core.OK(w, map[string]any{
				"user": map[string]any{"id": userID, "role": req.Role},
			})
		default:
			core.JSONError(w, err)
		}
		return
	}

	core.OK(w, map[string]any{"user": updated})
}
