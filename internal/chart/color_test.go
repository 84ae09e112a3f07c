package chart

import "testing"

func TestColorHex(t *testing.T) {
	c := Color{R: 0x5a, G: 0x67, B: 0xf2, A: 0xff}
	if got := c.Hex(); got != "#5a67f2" {
		t.Fatalf("expected #5a67f2, got %s", got)
	}
}

func TestPaletteColorDeterministic(t *testing.T) {
	if PaletteColor(0) != PaletteColor(0) {
		t.Fatalf("palette assignment must be deterministic")
	}
	if PaletteColor(1) == PaletteColor(2) {
		t.Fatalf("adjacent palette entries must differ")
	}
	// Wraps around for long datasets.
	if PaletteColor(len(palette)) != PaletteColor(0) {
		t.Fatalf("expected palette to wrap")
	}
}

func TestResolveFill(t *testing.T) {
	assigned := PaletteColor(0)
	cases := []struct {
		selected, name string
		want           Color
	}{
		{"", "A", assigned},   // no selection: assigned color
		{"A", "A", assigned},  // selected wedge keeps its color
		{"A", "B", Dimmed},    // everything else dims
		{"missing", "A", Dimmed}, // selection not in dataset still dims others
	}
	for _, tc := range cases {
		if got := ResolveFill(tc.selected, tc.name, assigned); got != tc.want {
			t.Fatalf("ResolveFill(%q, %q): expected %+v, got %+v", tc.selected, tc.name, tc.want, got)
		}
	}
}
