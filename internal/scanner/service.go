// AngelaMos | 2026
// service.go

package scanner

import (
	"context"
	"strings"
)

// Result is one scanned dependency with whatever the package index had on
// it. Metadata fields are null on the wire when the lookup came up empty.
type Result struct {
	Name          string  `json:"name"`
	Spec          string  `json:"spec"`
	LatestVersion *string `json:"latest_version"`
	ReleaseDate   *string `json:"release_date"`
	Homepage      *string `json:"homepage"`
	RepoURL       *string `json:"repo_url"`
	PyPIURL       *string `json:"pypi_url"`
}

type Service struct {
	enricher *Enricher
}

func NewService(enricher *Enricher) *Service {
	return &Service{enricher: enricher}
}

// Scan deduplicates the parsed dependencies by case-insensitive name (first
// occurrence wins, keeping its spec) and enriches each survivor from the
// package index.
func (s *Service) Scan(ctx context.Context, deps []Dependency) []Result {
	seen := make(map[string]struct{}, len(deps))
	unique := make([]Dependency, 0, len(deps))
	for _, dep := range deps {
		name := strings.TrimSpace(dep.Name)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, Dependency{Name: name, Spec: dep.Spec})
	}

	results := make([]Result, 0, len(unique))
	for _, dep := range unique {
		meta := s.enricher.Enrich(ctx, dep.Name)
		results = append(results, Result{
			Name:          dep.Name,
			Spec:          dep.Spec,
			LatestVersion: optString(meta.LatestVersion),
			ReleaseDate:   optString(meta.ReleaseDate),
			Homepage:      optString(meta.Homepage),
			RepoURL:       optString(meta.RepoURL),
			PyPIURL:       optString(meta.PyPIURL),
		})
	}

	return results
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
