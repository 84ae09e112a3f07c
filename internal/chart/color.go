package chart

import "fmt"

// Color is an opaque display color. The geometry never interprets it; it
// only flows through to the rendering surface.
type Color struct {
	R, G, B uint8
	A       uint8
}

// Hex renders the color as a #rrggbb string for SVG and CSS fills.
// Alpha is exposed separately via Opacity.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Opacity returns the alpha channel as a 0-1 fill opacity.
func (c Color) Opacity() float64 {
	return float64(c.A) / 255
}

// Dimmed is the fixed neutral color non-selected wedges render with when
// a category is highlighted.
var Dimmed = Color{R: 0xd6, G: 0xd6, B: 0xdb, A: 0xff}

// palette holds the display colors assigned to categories in breakdown
// order. It wraps around for datasets with more categories than colors.
var palette = []Color{
	{R: 0x5a, G: 0x67, B: 0xf2, A: 0xff}, // indigo
	{R: 0xf2, G: 0x99, B: 0x3e, A: 0xff}, // orange
	{R: 0x3e, G: 0xc6, B: 0x8f, A: 0xff}, // green
	{R: 0xee, G: 0x5d, B: 0x6c, A: 0xff}, // red
	{R: 0x46, G: 0xb1, B: 0xe1, A: 0xff}, // sky
	{R: 0xa8, G: 0x6c, B: 0xf5, A: 0xff}, // violet
	{R: 0xf5, G: 0xc5, B: 0x45, A: 0xff}, // yellow
	{R: 0x52, G: 0x5c, B: 0x6e, A: 0xff}, // slate
}

// PaletteColor returns the display color for the category at index i.
// Assignment is deterministic for a given breakdown ordering.
func PaletteColor(i int) Color {
	if i < 0 {
		i = -i
	}
	return palette[i%len(palette)]
}

// ResolveFill picks the fill color for a wedge under an optional
// selection. An empty selection keeps every wedge's assigned color; with
// a selection, only the matching wedge keeps its color and all others
// render dimmed. This never affects angle geometry.
func ResolveFill(selected, name string, assigned Color) Color {
	if selected == "" || selected == name {
		return assigned
	}
	return Dimmed
}
