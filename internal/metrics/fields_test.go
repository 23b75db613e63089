package metrics

import "testing"

func TestMetricFieldKeysAreStable(t *testing.T) {
	keys := []string{AttrMethod, AttrPath, AttrStatus, AttrProvider, AttrOperation, AttrOutcome}
	seen := make(map[string]bool, len(keys))
	for _, key := range keys {
		if key == "" {
			t.Fatalf("expected metric attribute keys to be non-empty")
		}
		if seen[key] {
			t.Fatalf("duplicate metric attribute key %q", key)
		}
		seen[key] = true
	}
}
