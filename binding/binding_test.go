package binding

import (
	"encoding/json"
	"testing"
)

func mustJSON(t *testing.T, s string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	return v
}

func TestInterpolateUsesData(t *testing.T) {
	data := mustJSON(t, `{"predictor":"AI Use","levels":[{"sd":-1},{"sd":1}]}`)
	got := Interpolate("Low ${predictor} (${levels[0].sd} SD)", data)
	if got != "Low AI Use (-1 SD)" {
		t.Fatalf("unexpected interpolation: %q", got)
	}
}

func TestInterpolateFallsBackToDefault(t *testing.T) {
	cases := []struct {
		name string
		data any
	}{
		{"nil data", nil},
		{"missing key", mustJSON(t, `{"outcome":"x"}`)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Interpolate("High ${predictor|AI Use} (+1 SD)", tc.data)
			if got != "High AI Use (+1 SD)" {
				t.Fatalf("expected default to be used, got %q", got)
			}
		})
	}
}

func TestInterpolateKeepsUnknownPlaceholder(t *testing.T) {
	got := Interpolate("${missing.path}", mustJSON(t, `{}`))
	if got != "${missing.path}" {
		t.Fatalf("placeholder should be kept, got %q", got)
	}
	if got := Interpolate("plain text", nil); got != "plain text" {
		t.Fatalf("plain text changed: %q", got)
	}
}

func TestLookupOutOfRange(t *testing.T) {
	data := mustJSON(t, `{"ys":[2.6,3.84]}`)
	if _, ok := Lookup(data, "ys[2]"); ok {
		t.Fatalf("index 2 should be out of range")
	}
	v, ok := Lookup(data, "ys[1]")
	if !ok || v.(float64) != 3.84 {
		t.Fatalf("unexpected lookup result: %v %v", v, ok)
	}
	if got := Interpolate("${ys[0]}", data); got != "2.6" {
		t.Fatalf("number formatting: %q", got)
	}
}

func TestLookupRejectsMalformedPath(t *testing.T) {
	data := mustJSON(t, `{"grid":[[1,2],[3,4]],"name":"x"}`)
	if v, ok := Lookup(data, "grid[1][0]"); !ok || v.(float64) != 3 {
		t.Fatalf("nested index lookup failed: %v %v", v, ok)
	}
	for _, path := range []string{"grid[x]", "grid[1", "grid[0]z", "name[0]", "grid.name", ""} {
		if _, ok := Lookup(data, path); ok {
			t.Fatalf("path %q should not resolve", path)
		}
	}
}
