package analyzer

import (
	"math"
	"time"

	"github.com/repolens/repolens/pkg/github"
	"github.com/repolens/repolens/pkg/techstack"
)

// PrimaryUnknown is the primary-language placeholder used when the language
// histogram is empty or could not be fetched.
const PrimaryUnknown = "Unknown"

// Languages is the language-byte histogram fact plus derived shares.
type Languages struct {
	Bytes   map[string]int64   `json:"bytes"`
	Percent map[string]float64 `json:"percent"`
	Primary string             `json:"primary"`
}

// Activity holds repository activity counters. A failed analytics fetch
// leaves all counters at zero.
type Activity struct {
	Commits      int `json:"commits"`
	Contributors int `json:"contributors"`
	Releases     int `json:"releases"`
}

// Analysis is the derived scoring block computed from a CompositeRecord.
type Analysis struct {
	Complexity    string `json:"complexity"`
	Category      string `json:"category"`
	Deployability string `json:"deployability"`
	QualityScore  int    `json:"quality_score"`
}

// CompositeRecord is the merged result of all fact gathering for one
// repository. It is the unit of caching.
type CompositeRecord struct {
	Metadata    github.Metadata `json:"metadata"`
	Readme      *github.Readme  `json:"readme,omitempty"`
	Languages   Languages       `json:"languages"`
	Stack       techstack.Stack `json:"stack"`
	Activity    Activity        `json:"activity"`
	Analysis    Analysis        `json:"analysis"`
	Features    []string        `json:"features"`
	GeneratedAt time.Time       `json:"generated_at"`
}

// deriveLanguages computes percentage shares and picks the primary language
// from a byte histogram. An empty or nil histogram yields PrimaryUnknown.
func deriveLanguages(bytes map[string]int64) Languages {
	langs := Languages{
		Bytes:   map[string]int64{},
		Percent: map[string]float64{},
		Primary: PrimaryUnknown,
	}
	if len(bytes) == 0 {
		return langs
	}

	var total int64
	for _, n := range bytes {
		total += n
	}
	if total == 0 {
		return langs
	}

	var best int64 = -1
	for name, n := range bytes {
		langs.Bytes[name] = n
		langs.Percent[name] = math.Round(float64(n)/float64(total)*1000) / 10
		if n > best || (n == best && name < langs.Primary) {
			best = n
			langs.Primary = name
		}
	}
	return langs
}
