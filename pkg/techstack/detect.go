package techstack

import "strings"

// Stack groups detected technologies into buckets. Every bucket holds
// de-duplicated display labels in first-seen order.
type Stack struct {
	Frontend   []string `json:"frontend"`
	Backend    []string `json:"backend"`
	Database   []string `json:"database"`
	Frameworks []string `json:"frameworks"`
	Tools      []string `json:"tools"`
}

// Total returns the number of technologies across all buckets.
func (s Stack) Total() int {
	return len(s.Frontend) + len(s.Backend) + len(s.Database) + len(s.Frameworks) + len(s.Tools)
}

// HasContainerTool reports whether the tools bucket contains a
// containerization tool such as Docker.
func (s Stack) HasContainerTool() bool {
	for _, t := range s.Tools {
		if containerTools[t] {
			return true
		}
	}
	return false
}

// ManifestFiles lists the manifest filenames worth fetching for dependency
// inspection, in detection priority order.
var ManifestFiles = []string{
	"package.json",
	"requirements.txt",
	"go.mod",
	"Cargo.toml",
	"pyproject.toml",
	"Gemfile",
	"composer.json",
}

// Detect builds a Stack from a repository's top-level file listing and the
// contents of any manifests that could be fetched. The manifests map is
// keyed by filename as it appears in the listing; missing or empty entries
// are skipped, and manifests that fail to parse contribute nothing.
func Detect(files []string, manifests map[string]string) Stack {
	var s Stack
	seen := map[string]map[string]bool{}

	add := func(bucket *[]string, name, label string) {
		if seen[name] == nil {
			seen[name] = map[string]bool{}
		}
		if seen[name][label] {
			return
		}
		seen[name][label] = true
		*bucket = append(*bucket, label)
	}

	for _, f := range files {
		key := strings.ToLower(f)
		if label, ok := ecosystemMarkers[key]; ok {
			add(&s.Backend, "backend", label)
		}
		if label, ok := frameworkMarkers[key]; ok {
			add(&s.Frameworks, "frameworks", label)
		}
		if label, ok := toolMarkers[key]; ok {
			add(&s.Tools, "tools", label)
		}
	}

	for name, content := range manifests {
		if content == "" {
			continue
		}
		for _, dep := range parseDependencies(name, content) {
			if label, ok := frontendDeps[dep]; ok {
				add(&s.Frontend, "frontend", label)
			}
			if label, ok := backendDeps[dep]; ok {
				add(&s.Backend, "backend", label)
			}
			if label, ok := databaseDeps[dep]; ok {
				add(&s.Database, "database", label)
			}
			if label, ok := toolingDeps[dep]; ok {
				add(&s.Tools, "tools", label)
			}
		}
	}

	return s
}
