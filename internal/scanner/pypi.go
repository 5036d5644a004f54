// AngelaMos | 2026
// pypi.go

package scanner

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/carterperez-dev/releasetrack/internal/config"
)

const defaultEnrichTimeout = 10 * time.Second

// Metadata is what the package index knows about a package. The zero value
// means the lookup failed or returned nothing; enrichment failures never fail
// a scan.
type Metadata struct {
	LatestVersion string
	ReleaseDate   string
	Homepage      string
	RepoURL       string
	PyPIURL       string
}

// repoURLKeys are the project_urls labels treated as pointing at source
// hosting, checked in this order.
var repoURLKeys = []string{
	"source", "source code", "repository", "code", "home", "homepage",
}

var forgeRe = regexp.MustCompile(`(?i)(github|gitlab|bitbucket)\.com/\S+`)

// Enricher queries the PyPI JSON API for package metadata.
type Enricher struct {
	base string
	http *http.Client
}

func NewEnricher(cfg config.ScannerConfig) *Enricher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultEnrichTimeout
	}

	return &Enricher{
		base: strings.TrimRight(cfg.PyPIBaseURL, "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

type pypiInfo struct {
	Version     string            `json:"version"`
	HomePage    string            `json:"home_page"`
	ProjectURLs map[string]string `json:"project_urls"`
}

type pypiFile struct {
	UploadTimeISO8601 string `json:"upload_time_iso_8601"`
	UploadTime        string `json:"upload_time"`
}

type pypiResponse struct {
	Info     pypiInfo              `json:"info"`
	Releases map[string][]pypiFile `json:"releases"`
}

// Enrich looks up one package. Any failure is logged and reported as empty
// metadata.
func (e *Enricher) Enrich(ctx context.Context, name string) Metadata {
	endpoint := fmt.Sprintf("%s/pypi/%s/json", e.base, name)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		slog.Warn("pypi enrich failed", "package", name, "error", err)
		return Metadata{}
	}

	resp, err := e.http.Do(req)
	if err != nil {
		slog.Warn("pypi enrich failed", "package", name, "error", err)
		return Metadata{}
	}
	defer resp.Body.Close() //nolint:errcheck // response body drain

	if resp.StatusCode != http.StatusOK {
		return Metadata{}
	}

	var payload pypiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		slog.Warn("pypi enrich failed", "package", name, "error", err)
		return Metadata{}
	}

	meta := Metadata{
		LatestVersion: payload.Info.Version,
		Homepage:      payload.Info.HomePage,
		RepoURL:       pickRepoURL(payload.Info.ProjectURLs),
		PyPIURL:       fmt.Sprintf("%s/project/%s/", e.base, name),
	}

	if meta.Homepage == "" {
		meta.Homepage = payload.Info.ProjectURLs["Homepage"]
	}

	if files := payload.Releases[meta.LatestVersion]; len(files) > 0 {
		meta.ReleaseDate = files[0].UploadTimeISO8601
		if meta.ReleaseDate == "" {
			meta.ReleaseDate = files[0].UploadTime
		}
	}

	return meta
}

// pickRepoURL prefers labels that conventionally mean "source hosting", then
// falls back to any URL on a known forge. Candidates are scanned in sorted
// key order so the pick is stable.
func pickRepoURL(urls map[string]string) string {
	keys := make([]string, 0, len(urls))
	for k := range urls {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, preferred := range repoURLKeys {
		for _, k := range keys {
			if strings.ToLower(k) == preferred && urls[k] != "" {
				return urls[k]
			}
		}
	}

	for _, k := range keys {
		if urls[k] != "" && forgeRe.MatchString(urls[k]) {
			return urls[k]
		}
	}

	return ""
}
