package analyzer

import (
	"regexp"
	"strings"
)

// maxFeatures caps the extracted feature list.
const maxFeatures = 10

// featureIndicators are the section names that open a feature section when
// they appear in a heading or emphasized line.
var featureIndicators = []string{"features", "functionality", "capabilities", "what it does"}

var (
	bulletRE   = regexp.MustCompile(`^\s*[-*+]\s+(.+)$`)
	numberedRE = regexp.MustCompile(`^\s*\d+\.\s+(.+)$`)
)

// ExtractFeatures scans README text for a feature section and returns up to
// maxFeatures bullet or numbered items from it, in document order. The scan
// enters a section on a heading or emphasized line naming one of the
// indicators and leaves it on the next heading that names none. No section
// found yields an empty list.
func ExtractFeatures(readme string) []string {
	features := []string{}
	if readme == "" {
		return features
	}

	inSection := false
	for _, line := range strings.Split(readme, "\n") {
		if inSection {
			if text := itemText(line); text != "" {
				features = append(features, text)
				if len(features) == maxFeatures {
					break
				}
				continue
			}
		}
		if isHeading(line) {
			inSection = namesFeatureSection(line)
		}
	}
	return features
}

func isHeading(line string) bool {
	return strings.Contains(line, "#") || strings.Contains(line, "**")
}

func namesFeatureSection(line string) bool {
	lower := strings.ToLower(line)
	for _, indicator := range featureIndicators {
		if strings.Contains(lower, indicator) {
			return true
		}
	}
	return false
}

func itemText(line string) string {
	if m := bulletRE.FindStringSubmatch(line); len(m) > 1 {
		return strings.TrimSpace(m[1])
	}
	if m := numberedRE.FindStringSubmatch(line); len(m) > 1 {
		return strings.TrimSpace(m[1])
	}
	return ""
}
