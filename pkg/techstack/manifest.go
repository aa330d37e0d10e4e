package techstack

import (
	"bufio"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
)

var (
	pythonDepRE = regexp.MustCompile(`^([a-zA-Z0-9][-a-zA-Z0-9._]*)`)
	gemRE       = regexp.MustCompile(`^\s*gem\s+['"]([^'"]+)['"]`)
)

// parseDependencies extracts direct dependency names from a manifest.
// Names are lowercased so they can be matched against the lookup tables.
// A manifest that cannot be parsed yields nil.
func parseDependencies(filename, content string) []string {
	switch strings.ToLower(filename) {
	case "package.json":
		return parsePackageJSON(content)
	case "requirements.txt":
		return parseRequirements(content)
	case "go.mod":
		return parseGoMod(content)
	case "cargo.toml":
		return parseCargoToml(content)
	case "pyproject.toml":
		return parsePyproject(content)
	case "gemfile":
		return parseGemfile(content)
	case "composer.json":
		return parseComposerJSON(content)
	}
	return nil
}

func parsePackageJSON(content string) []string {
	var pkg struct {
		Dependencies     map[string]string `json:"dependencies"`
		DevDependencies  map[string]string `json:"devDependencies"`
		PeerDependencies map[string]string `json:"peerDependencies"`
	}
	if err := json.Unmarshal([]byte(content), &pkg); err != nil {
		return nil
	}
	return collect(pkg.Dependencies, pkg.DevDependencies, pkg.PeerDependencies)
}

func parseComposerJSON(content string) []string {
	var pkg struct {
		Require    map[string]string `json:"require"`
		RequireDev map[string]string `json:"require-dev"`
	}
	if err := json.Unmarshal([]byte(content), &pkg); err != nil {
		return nil
	}
	return collect(pkg.Require, pkg.RequireDev)
}

func parseRequirements(content string) []string {
	seen := make(map[string]bool)
	var deps []string

	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' || line[0] == '-' {
			continue
		}
		if strings.Contains(line, "://") || strings.HasPrefix(line, "git+") {
			continue
		}
		if m := pythonDepRE.FindStringSubmatch(line); len(m) > 1 {
			name := normalizePython(m[1])
			if !seen[name] {
				seen[name] = true
				deps = append(deps, name)
			}
		}
	}
	return deps
}

func parseGoMod(content string) []string {
	seen := make(map[string]bool)
	var deps []string
	inRequire := false

	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if strings.HasPrefix(line, "require (") || line == "require(" {
			inRequire = true
			continue
		}
		if inRequire && line == ")" {
			inRequire = false
			continue
		}
		if strings.HasPrefix(line, "require ") && !strings.Contains(line, "(") {
			line = strings.TrimPrefix(line, "require ")
		} else if !inRequire {
			continue
		}

		if dep := parseRequireLine(line); dep != "" && !seen[dep] {
			seen[dep] = true
			deps = append(deps, dep)
		}
	}
	return deps
}

func parseRequireLine(line string) string {
	if strings.Contains(line, "// indirect") {
		return ""
	}
	if idx := strings.Index(line, "//"); idx != -1 {
		line = line[:idx]
	}
	fields := strings.Fields(strings.TrimSpace(line))
	if len(fields) >= 1 {
		return strings.ToLower(fields[0])
	}
	return ""
}

func parseCargoToml(content string) []string {
	var cargo struct {
		Dependencies      map[string]any `toml:"dependencies"`
		DevDependencies   map[string]any `toml:"dev-dependencies"`
		BuildDependencies map[string]any `toml:"build-dependencies"`
	}
	if err := toml.Unmarshal([]byte(content), &cargo); err != nil {
		return nil
	}
	var deps []string
	for name := range cargo.Dependencies {
		deps = append(deps, strings.ToLower(name))
	}
	for name := range cargo.DevDependencies {
		deps = append(deps, strings.ToLower(name))
	}
	for name := range cargo.BuildDependencies {
		deps = append(deps, strings.ToLower(name))
	}
	return deps
}

func parsePyproject(content string) []string {
	var pyproject struct {
		Project struct {
			Dependencies []string `toml:"dependencies"`
		} `toml:"project"`
		Tool struct {
			Poetry struct {
				Dependencies map[string]any `toml:"dependencies"`
			} `toml:"poetry"`
		} `toml:"tool"`
	}
	if err := toml.Unmarshal([]byte(content), &pyproject); err != nil {
		return nil
	}

	var deps []string
	for _, spec := range pyproject.Project.Dependencies {
		if m := pythonDepRE.FindStringSubmatch(strings.TrimSpace(spec)); len(m) > 1 {
			deps = append(deps, normalizePython(m[1]))
		}
	}
	for name := range pyproject.Tool.Poetry.Dependencies {
		if strings.EqualFold(name, "python") {
			continue
		}
		deps = append(deps, normalizePython(name))
	}
	return deps
}

func parseGemfile(content string) []string {
	var deps []string
	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		if m := gemRE.FindStringSubmatch(scanner.Text()); len(m) > 1 {
			deps = append(deps, strings.ToLower(m[1]))
		}
	}
	return deps
}

// normalizePython applies PEP 503 name normalization so lookups are
// insensitive to underscore/dot/dash and case variants.
func normalizePython(name string) string {
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, "_", "-")
	name = strings.ReplaceAll(name, ".", "-")
	return name
}

func collect(maps ...map[string]string) []string {
	var deps []string
	for _, m := range maps {
		for name := range m {
			deps = append(deps, strings.ToLower(name))
		}
	}
	return deps
}
