package analyzer

import (
	"testing"
	"time"

	"github.com/repolens/repolens/pkg/github"
	"github.com/repolens/repolens/pkg/techstack"
)

func TestQualityScoreFullMarks(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	rec := &CompositeRecord{
		Metadata: github.Metadata{
			Stars:       1000,
			Forks:       100,
			UpdatedAt:   now,
			Description: "a description",
			Homepage:    "https://example.com",
		},
		Activity: Activity{Contributors: 5},
	}

	if got := qualityScore(rec, now); got != 100 {
		t.Errorf("qualityScore = %d, want 100", got)
	}
}

func TestQualityScoreDegenerate(t *testing.T) {
	rec := &CompositeRecord{}
	if got := qualityScore(rec, time.Now()); got != 0 {
		t.Errorf("qualityScore = %d, want 0 for empty record", got)
	}
}

func TestQualityScoreBounds(t *testing.T) {
	now := time.Now()
	records := []*CompositeRecord{
		{},
		{Metadata: github.Metadata{Stars: -5, Forks: -5}},
		{
			Metadata: github.Metadata{
				Stars: 1 << 30, Forks: 1 << 30,
				UpdatedAt:   now.Add(time.Hour), // clock skew upstream
				Description: "d", Homepage: "h",
			},
			Activity: Activity{Contributors: 1 << 20},
		},
		{Metadata: github.Metadata{UpdatedAt: now.AddDate(-10, 0, 0)}},
	}
	for i, rec := range records {
		got := qualityScore(rec, now)
		if got < 0 || got > 100 {
			t.Errorf("record %d: qualityScore = %d, want within [0,100]", i, got)
		}
	}
}

func TestQualityScoreRecencyDecay(t *testing.T) {
	now := time.Now()
	cases := []struct {
		daysAgo int
		want    int
	}{
		{0, 20},
		{70, 10},
		{140, 0},
		{400, 0},
	}
	for _, tc := range cases {
		rec := &CompositeRecord{
			Metadata: github.Metadata{UpdatedAt: now.AddDate(0, 0, -tc.daysAgo)},
		}
		if got := qualityScore(rec, now); got != tc.want {
			t.Errorf("daysAgo=%d: qualityScore = %d, want %d", tc.daysAgo, got, tc.want)
		}
	}
}

func TestComplexityTier(t *testing.T) {
	cases := []struct {
		name  string
		langs int
		techs int
		want  string
	}{
		{"empty", 0, 0, "Simple"},
		{"two langs", 2, 1, "Simple"},
		{"boundary moderate", 3, 0, "Moderate"},
		{"mixed", 3, 5, "Moderate"},
		{"boundary complex", 6, 0, "Complex"},
		{"big", 4, 10, "Complex"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := &CompositeRecord{
				Languages: Languages{Bytes: fakeLangs(tc.langs)},
				Stack:     techstack.Stack{Tools: fakeLabels(tc.techs)},
			}
			if got := complexityTier(rec); got != tc.want {
				t.Errorf("complexityTier = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestCategorize(t *testing.T) {
	cases := []struct {
		name string
		rec  CompositeRecord
		want string
	}{
		{
			"full stack",
			CompositeRecord{Stack: techstack.Stack{Frontend: []string{"React"}, Backend: []string{"Express"}}},
			"Full-Stack Application",
		},
		{
			"frontend only",
			CompositeRecord{Stack: techstack.Stack{Frontend: []string{"Vue"}}},
			"Frontend Application",
		},
		{
			"backend only",
			CompositeRecord{Stack: techstack.Stack{Backend: []string{"Go"}}},
			"Backend Service",
		},
		{
			"container only",
			CompositeRecord{Stack: techstack.Stack{Tools: []string{"Docker"}}},
			"DevOps/Infrastructure",
		},
		{
			"language fallback",
			CompositeRecord{Languages: Languages{Primary: "Rust"}},
			"Rust Project",
		},
		{
			"nothing known",
			CompositeRecord{Languages: Languages{Primary: PrimaryUnknown}},
			"General Project",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := categorize(&tc.rec); got != tc.want {
				t.Errorf("categorize = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestDeployability(t *testing.T) {
	cases := []struct {
		name string
		rec  CompositeRecord
		want string
	}{
		{"frontend framework", CompositeRecord{Stack: techstack.Stack{Frontend: []string{"React"}}}, "High"},
		{"framework config", CompositeRecord{Stack: techstack.Stack{Frameworks: []string{"Next.js"}}}, "High"},
		{"container", CompositeRecord{Stack: techstack.Stack{Tools: []string{"Docker"}}}, "High"},
		{"backend only", CompositeRecord{Stack: techstack.Stack{Backend: []string{"Flask"}}}, "Medium"},
		{"bare", CompositeRecord{}, "Low"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := deployability(&tc.rec); got != tc.want {
				t.Errorf("deployability = %q, want %q", got, tc.want)
			}
		})
	}
}

func fakeLangs(n int) map[string]int64 {
	m := map[string]int64{}
	for i := 0; i < n; i++ {
		m[string(rune('A'+i))] = 100
	}
	return m
}

func fakeLabels(n int) []string {
	labels := make([]string, n)
	for i := range labels {
		labels[i] = string(rune('a' + i))
	}
	return labels
}
