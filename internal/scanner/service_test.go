// AngelaMos | 2026
// service_test.go

package scanner

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/releasetrack/internal/config"
)

func pypiPayload(version string) string {
	return fmt.Sprintf(`{
		"info": {
			"version": %q,
			"home_page": "https://flask.palletsprojects.com",
			"project_urls": {
				"Source Code": "https://github.com/pallets/flask",
				"Documentation": "https://flask.palletsprojects.com/docs"
			}
		},
		"releases": {
			%q: [{"upload_time_iso_8601": "2026-02-01T12:00:00Z"}]
		}
	}`, version, version)
}

func newTestEnricher(t *testing.T, handler http.HandlerFunc) *Enricher {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewEnricher(config.ScannerConfig{PyPIBaseURL: srv.URL})
}

func TestEnrichMetadata(t *testing.T) {
	enricher := newTestEnricher(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pypi/flask/json", r.URL.Path)
		_, _ = w.Write([]byte(pypiPayload("2.3.2")))
	})

	meta := enricher.Enrich(context.Background(), "flask")

	assert.Equal(t, "2.3.2", meta.LatestVersion)
	assert.Equal(t, "2026-02-01T12:00:00Z", meta.ReleaseDate)
	assert.Equal(t, "https://flask.palletsprojects.com", meta.Homepage)
	assert.Equal(t, "https://github.com/pallets/flask", meta.RepoURL)
	assert.Contains(t, meta.PyPIURL, "/project/flask/")
}

func TestEnrichUnknownPackage(t *testing.T) {
	enricher := newTestEnricher(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	meta := enricher.Enrich(context.Background(), "nosuchpackage")
	assert.Equal(t, Metadata{}, meta)
}

func TestPickRepoURL(t *testing.T) {
	tests := []struct {
		name string
		urls map[string]string
		want string
	}{
		{
			name: "preferred label wins over forge fallback",
			urls: map[string]string{
				"Tracker":    "https://github.com/org/issues",
				"Repository": "https://example.org/repo",
			},
			want: "https://example.org/repo",
		},
		{
			name: "label matching is case-insensitive",
			urls: map[string]string{
				"source code": "https://github.com/org/repo",
			},
			want: "https://github.com/org/repo",
		},
		{
			name: "forge fallback",
			urls: map[string]string{
				"Tracker": "https://gitlab.com/org/repo/-/issues",
			},
			want: "https://gitlab.com/org/repo/-/issues",
		},
		{
			name: "no candidates",
			urls: map[string]string{
				"Documentation": "https://docs.example.org",
			},
			want: "",
		},
		{
			name: "empty values skipped",
			urls: map[string]string{
				"Source": "",
				"Code":   "https://bitbucket.com/org/repo",
			},
			want: "https://bitbucket.com/org/repo",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pickRepoURL(tt.urls))
		})
	}
}

func TestScanDeduplicatesCaseInsensitive(t *testing.T) {
	var requested []string
	enricher := newTestEnricher(t, func(w http.ResponseWriter, r *http.Request) {
		requested = append(requested, r.URL.Path)
		_, _ = w.Write([]byte(pypiPayload("1.0.0")))
	})
	svc := NewService(enricher)

	results := svc.Scan(context.Background(), []Dependency{
		{Name: "Flask", Spec: "==2.3.2"},
		{Name: "flask", Spec: ">=2.0"},
		{Name: "requests", Spec: ""},
		{Name: "  ", Spec: "ignored"},
	})

	require.Len(t, results, 2)
	assert.Equal(t, "Flask", results[0].Name)
	assert.Equal(t, "==2.3.2", results[0].Spec)
	assert.Equal(t, "requests", results[1].Name)

	// One index lookup per unique package.
	assert.Len(t, requested, 2)
}

func TestScanEmptyMetadataIsNull(t *testing.T) {
	enricher := newTestEnricher(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	svc := NewService(enricher)

	results := svc.Scan(context.Background(), []Dependency{
		{Name: "ghost", Spec: ""},
	})

	require.Len(t, results, 1)
	assert.Nil(t, results[0].LatestVersion)
	assert.Nil(t, results[0].PyPIURL)
}
