// AngelaMos | 2026
// handler.go

package release

import (
	"encoding/json"
	"net/http"
	"strconv"

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

// RegisterRoutes mounts the release surface behind the verifier. Creation is
// additionally admin-gated; everything else scopes by role inside the
// service.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authn func(http.Handler) http.Handler,
) {
	r.Route("/releases", func(r chi.Router) {
		r.Use(authn)

		r.Get("/", h.List)
		r.With(middleware.RequireAdmin).Post("/", h.Create)
		r.Post("/import-scan", h.ImportScan)
		r.Patch("/{releaseID}", h.UpdateStatus)
		r.Delete("/{releaseID}", h.Delete)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, role := middleware.GetIdentity(r.Context())

	releases, err := h.service.List(r.Context(), userID, role)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, releases)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req CreateReleaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}
	req.Normalize()
	if err := h.validate.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	created, err := h.service.Create(r.Context(), userID, req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, created)
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID, role := middleware.GetIdentity(r.Context())

	id, ok := parseReleaseID(w, r)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}
	req.Normalize()
	if err := h.validate.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	updated, found, err := h.service.UpdateStatus(
		r.Context(),
		userID,
		role,
		id,
		req.Status,
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}
	if !found {
		core.OK(w, map[string]any{"success": true})
		return
	}

	core.OK(w, updated)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	id, ok := parseReleaseID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), userID, id); err != nil {
		core.JSONError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) ImportScan(w http.ResponseWriter, r *http.Request) {
	userID, role := middleware.GetIdentity(r.Context())

	var req ImportScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "rows[] required")
		return
	}
	if len(req.Rows) == 0 {
		core.BadRequest(w, "rows[] required")
		return
	}

	results, err := h.service.ImportScan(r.Context(), userID, role, req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, results)
}

func parseReleaseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "releaseID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		core.BadRequest(w, "invalid release id")
		return 0, false
	}
	return id, true
}
