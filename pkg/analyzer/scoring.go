package analyzer

import (
	"math"
	"time"
)

// Quality score weights. Stars and forks saturate linearly, recency decays
// linearly to zero at recencyZeroDays, contributors add a fixed amount each,
// and description/homepage each add a fixed bonus.
const (
	starsMax         = 40.0
	starsPerPoint    = 25.0
	forksMax         = 20.0
	forksPerPoint    = 5.0
	recencyMax       = 20.0
	recencyZeroDays  = 140.0
	contributorsMax  = 10.0
	perContributor   = 2.0
	descriptionBonus = 5.0
	homepageBonus    = 5.0
)

// Complexity tier thresholds over 10 points per language plus 5 per detected
// technology.
const (
	complexityModerate = 30
	complexityComplex  = 60
)

// deployableFrontend marks frontend frameworks that imply a hostable site.
var deployableFrontend = map[string]bool{
	"React":   true,
	"Preact":  true,
	"Vue":     true,
	"Angular": true,
	"Svelte":  true,
	"Next.js": true,
	"Nuxt":    true,
	"Gatsby":  true,
	"Remix":   true,
	"Astro":   true,
	"SolidJS": true,
}

// Score derives the analysis block from a composite record. It is a pure
// function over the record and the supplied clock reading.
func Score(rec *CompositeRecord, now time.Time) Analysis {
	return Analysis{
		Complexity:    complexityTier(rec),
		Category:      categorize(rec),
		Deployability: deployability(rec),
		QualityScore:  qualityScore(rec, now),
	}
}

func complexityTier(rec *CompositeRecord) string {
	score := 10*len(rec.Languages.Bytes) + 5*rec.Stack.Total()
	switch {
	case score < complexityModerate:
		return "Simple"
	case score < complexityComplex:
		return "Moderate"
	default:
		return "Complex"
	}
}

// categorize applies an ordered rule list; the first matching rule wins.
func categorize(rec *CompositeRecord) string {
	frontend := len(rec.Stack.Frontend) > 0
	backend := len(rec.Stack.Backend) > 0

	switch {
	case frontend && backend:
		return "Full-Stack Application"
	case frontend:
		return "Frontend Application"
	case backend:
		return "Backend Service"
	case rec.Stack.HasContainerTool():
		return "DevOps/Infrastructure"
	}
	if p := rec.Languages.Primary; p != "" && p != PrimaryUnknown {
		return p + " Project"
	}
	return "General Project"
}

func deployability(rec *CompositeRecord) string {
	for _, label := range rec.Stack.Frontend {
		if deployableFrontend[label] {
			return "High"
		}
	}
	for _, label := range rec.Stack.Frameworks {
		if deployableFrontend[label] {
			return "High"
		}
	}
	if rec.Stack.HasContainerTool() {
		return "High"
	}
	if len(rec.Stack.Backend) > 0 {
		return "Medium"
	}
	return "Low"
}

func qualityScore(rec *CompositeRecord, now time.Time) int {
	meta := rec.Metadata

	stars := math.Min(starsMax, float64(meta.Stars)/starsPerPoint)
	forks := math.Min(forksMax, float64(meta.Forks)/forksPerPoint)

	recency := 0.0
	if !meta.UpdatedAt.IsZero() {
		days := math.Max(0, now.Sub(meta.UpdatedAt).Hours()/24)
		recency = math.Max(0, recencyMax*(1-days/recencyZeroDays))
	}

	contributors := math.Min(contributorsMax, perContributor*float64(rec.Activity.Contributors))

	bonus := 0.0
	if meta.Description != "" {
		bonus += descriptionBonus
	}
	if meta.Homepage != "" {
		bonus += homepageBonus
	}

	score := math.Round(stars + forks + recency + contributors + bonus)
	return int(math.Max(0, math.Min(100, score)))
}
