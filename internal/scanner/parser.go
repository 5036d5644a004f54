// AngelaMos | 2026
// parser.go

// Package scanner turns Python dependency manifests into enriched package
// listings. It understands pip requirements files and pyproject.toml in both
// the poetry and PEP 621 layouts.
package scanner

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Dependency is one declared package: the name and whatever version
// constraint followed it, verbatim.
type Dependency struct {
	Name string
	Spec string
}

var requirementRe = regexp.MustCompile(`^([A-Za-z0-9_\-.]+)\s*(.*)$`)

// ParseRequirements reads a pip requirements file. Comments, blank lines,
// editable installs and VCS references are skipped.
func ParseRequirements(text string) []Dependency {
	var deps []Dependency
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "-") || strings.HasPrefix(line, "git+") {
			continue
		}

		m := requirementRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		deps = append(deps, Dependency{
			Name: m[1],
			Spec: strings.TrimSpace(m[2]),
		})
	}
	return deps
}

type pyprojectFile struct {
	Tool struct {
		Poetry struct {
			Dependencies map[string]any `toml:"dependencies"`
		} `toml:"poetry"`
	} `toml:"tool"`
	Project struct {
		Dependencies []string `toml:"dependencies"`
	} `toml:"project"`
}

// ParsePyproject reads a pyproject.toml. Poetry dependencies come first in
// name order (the python interpreter pin is not a dependency), then PEP 621
// project dependencies in declaration order.
func ParsePyproject(content []byte) ([]Dependency, error) {
	var file pyprojectFile
	if err := toml.Unmarshal(content, &file); err != nil {
		return nil, fmt.Errorf("parse pyproject: %w", err)
	}

	var deps []Dependency

	poetryNames := make([]string, 0, len(file.Tool.Poetry.Dependencies))
	for name := range file.Tool.Poetry.Dependencies {
		if strings.EqualFold(name, "python") {
			continue
		}
		poetryNames = append(poetryNames, name)
	}
	sort.Strings(poetryNames)

	for _, name := range poetryNames {
		spec := ""
		// Poetry specs may be tables ({version = "...", extras = [...]});
		// only plain string constraints are carried through.
		if s, ok := file.Tool.Poetry.Dependencies[name].(string); ok {
			spec = s
		}
		deps = append(deps, Dependency{Name: name, Spec: spec})
	}

	for _, dep := range file.Project.Dependencies {
		m := requirementRe.FindStringSubmatch(strings.TrimSpace(dep))
		if m == nil {
			continue
		}
		deps = append(deps, Dependency{
			Name: m[1],
			Spec: strings.TrimSpace(m[2]),
		})
	}

	return deps, nil
}
