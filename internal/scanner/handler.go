// AngelaMos | 2026
// handler.go

package scanner

import (
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/releasetrack/internal/core"
)

// maxManifestSize caps the uploaded manifest; dependency files are tiny.
const maxManifestSize = 1 << 20

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authn func(http.Handler) http.Handler,
) {
	r.Group(func(r chi.Router) {
		r.Use(authn)
		r.Post("/scan", h.Scan)
	})
}

// Scan accepts a multipart upload under the "file" field and returns the
// enriched dependency listing. Only requirements files and pyproject.toml
// are understood; the filename extension decides the parser.
func (h *Handler) Scan(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		core.BadRequest(w, "file is required")
		return
	}
	defer file.Close() //nolint:errcheck // upload drain

	filename := filepath.Base(strings.TrimSpace(header.Filename))
	if filename == "" || filename == "." || filename == "/" {
		core.BadRequest(w, "filename is required")
		return
	}

	content, err := io.ReadAll(io.LimitReader(file, maxManifestSize))
	if err != nil {
		core.BadRequest(w, "failed to read file")
		return
	}

	var deps []Dependency
	switch {
	case strings.HasSuffix(filename, ".txt"):
		deps = ParseRequirements(string(content))
	case strings.HasSuffix(filename, ".toml"):
		deps, err = ParsePyproject(content)
		if err != nil {
			core.BadRequest(w, "failed to parse pyproject.toml")
			return
		}
	default:
		core.BadRequest(w, "Only requirements.txt or pyproject.toml are supported")
		return
	}

	core.OK(w, h.service.Scan(r.Context(), deps))
}
