package chunkers

import "testing"

func TestParseStrategy(t *testing.T) {
	cases := []struct {
		name string
		want Strategy
	}{
		{"sentence_aware", StrategySentenceAware},
		{"sentence-aware", StrategySentenceAware},
		{"Sentence_Aware", StrategySentenceAware},
		{"sentence", StrategySentenceAware},
		{"hierarchical", StrategyHierarchical},
		{"HIERARCHICAL", StrategyHierarchical},
		{" adaptive ", StrategyAdaptive},
	}
	for _, tc := range cases {
		got, err := ParseStrategy(tc.name)
		if err != nil {
			t.Errorf("ParseStrategy(%q): unexpected error: %v", tc.name, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseStrategy(%q) = %s, want %s", tc.name, got, tc.want)
		}
	}

	if _, err := ParseStrategy("semantic"); err == nil {
		t.Error("expected an error for an unknown strategy name")
	}
}

func TestGetStrategyDescriptors(t *testing.T) {
	descriptors := GetStrategyDescriptors()
	if len(descriptors) != len(SupportedStrategies()) {
		t.Fatalf("got %d descriptors, want %d", len(descriptors), len(SupportedStrategies()))
	}

	seen := make(map[Strategy]bool)
	for _, d := range descriptors {
		if !IsValidStrategy(d.Strategy) {
			t.Errorf("descriptor for unknown strategy %s", d.Strategy)
		}
		if d.Name == "" || d.Description == "" {
			t.Errorf("descriptor for %s missing name or description", d.Strategy)
		}
		seen[d.Strategy] = true
	}
	for _, s := range SupportedStrategies() {
		if !seen[s] {
			t.Errorf("no descriptor for strategy %s", s)
		}
	}
}
