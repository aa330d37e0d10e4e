package analyzer

import (
	"fmt"
	"strings"
	"testing"
)

func TestExtractFeatures(t *testing.T) {
	readme := `# myproject

Some intro text.

## Features

- Fast startup
* Pluggable storage
+ Colorized output
1. First-class CLI

## Install

- not a feature
`
	got := ExtractFeatures(readme)
	want := []string{"Fast startup", "Pluggable storage", "Colorized output", "First-class CLI"}

	if len(got) != len(want) {
		t.Fatalf("ExtractFeatures() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("feature[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestExtractFeaturesEmphasisHeading(t *testing.T) {
	readme := `**What it does**

- Parses manifests
- Scores repositories
`
	got := ExtractFeatures(readme)
	if len(got) != 2 {
		t.Fatalf("ExtractFeatures() = %v, want 2 items", got)
	}
}

func TestExtractFeaturesCap(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("## Capabilities\n")
	for i := 0; i < 25; i++ {
		fmt.Fprintf(&sb, "- feature %d\n", i)
	}

	got := ExtractFeatures(sb.String())
	if len(got) != 10 {
		t.Errorf("len = %d, want cap of 10", len(got))
	}
	if got[0] != "feature 0" || got[9] != "feature 9" {
		t.Errorf("items out of document order: %v", got)
	}
}

func TestExtractFeaturesNoSection(t *testing.T) {
	got := ExtractFeatures("# readme\n\n- a bullet outside any feature section\n")
	if len(got) != 0 {
		t.Errorf("ExtractFeatures() = %v, want empty", got)
	}
	if got == nil {
		t.Error("want empty slice, not nil")
	}
}

func TestExtractFeaturesEmptyInput(t *testing.T) {
	if got := ExtractFeatures(""); len(got) != 0 {
		t.Errorf("ExtractFeatures(\"\") = %v, want empty", got)
	}
}

func TestExtractFeaturesBoldBulletsStayInSection(t *testing.T) {
	readme := `## Features

- **Fast**: cold starts under a second
- **Small**: single binary
`
	got := ExtractFeatures(readme)
	if len(got) != 2 {
		t.Fatalf("ExtractFeatures() = %v, want both bold bullets", got)
	}
}

func TestExtractFeaturesCaseInsensitiveIndicator(t *testing.T) {
	got := ExtractFeatures("## FUNCTIONALITY\n- works uppercase\n")
	if len(got) != 1 || got[0] != "works uppercase" {
		t.Errorf("ExtractFeatures() = %v", got)
	}
}
