package chart

import (
	"fmt"
	"strconv"
	"strings"
)

// RenderSVG draws the shares as a standalone SVG donut. It is the
// built-in rendering surface for the wedge geometry: one <path> per
// wedge, filled with the share's color resolved against the optional
// selected category name. Wedge order follows input order, so later
// wedges paint over earlier ones at shared seams.
func RenderSVG(shares []CategoryShare, layout Layout, width, height float64, selected string) ([]byte, error) {
	wedges, err := layout.Wedges(shares, width, height)
	if err != nil {
		return nil, err
	}

	cx, cy := width/2, height/2

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`,
		fnum(width), fnum(height), fnum(width), fnum(height))
	b.WriteString("\n")
	for i, w := range wedges {
		fill := ResolveFill(selected, shares[i].Name, shares[i].Color)
		fmt.Fprintf(&b, `<path d="%s" fill="%s"`, wedgePathData(w, cx, cy), fill.Hex())
		if fill.A < 0xff {
			fmt.Fprintf(&b, ` fill-opacity="%s"`, fnum(fill.Opacity()))
		}
		fmt.Fprintf(&b, ` data-name="%s"/>`, svgEscape(shares[i].Name))
		b.WriteString("\n")
	}
	b.WriteString("</svg>\n")
	return []byte(b.String()), nil
}

// wedgePathData emits the wedge boundary as SVG path data using native
// elliptical-arc commands. Arcs are chunked into spans of at most 180°
// so the large-arc flag is never needed and a single 100% wedge (a full
// 360° ring) still renders; SVG collapses an arc whose start and end
// points coincide.
func wedgePathData(w WedgeGeometry, cx, cy float64) string {
	var b strings.Builder

	x, y := pointOnCircle(cx, cy, w.OuterRadius, w.StartAngle)
	fmt.Fprintf(&b, "M %s %s", fnum(x), fnum(y))

	// Outer arc, sweeping clockwise (sweep flag 1 in y-down coords).
	appendArcChunks(&b, cx, cy, w.OuterRadius, w.StartAngle, w.EndAngle, 1)

	x, y = pointOnCircle(cx, cy, w.InnerRadius, w.EndAngle)
	fmt.Fprintf(&b, " L %s %s", fnum(x), fnum(y))

	// Inner arc back, counter-clockwise.
	appendArcChunks(&b, cx, cy, w.InnerRadius, w.EndAngle, w.StartAngle, 0)

	b.WriteString(" Z")
	return b.String()
}

func appendArcChunks(b *strings.Builder, cx, cy, r, from, to float64, sweepFlag int) {
	const maxChunk = 180.0
	remaining := to - from
	dir := 1.0
	if remaining < 0 {
		dir = -1
		remaining = -remaining
	}
	angle := from
	for remaining > 0 {
		step := remaining
		if step > maxChunk {
			step = maxChunk
		}
		angle += dir * step
		x, y := pointOnCircle(cx, cy, r, angle)
		fmt.Fprintf(b, " A %s %s 0 0 %d %s %s", fnum(r), fnum(r), sweepFlag, fnum(x), fnum(y))
		remaining -= step
	}
}

// fnum formats a coordinate with enough precision for seam alignment
// without bloating the document.
func fnum(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

// svgEscape makes a string safe for XML text and attribute content.
func svgEscape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;", "'", "&#39;")
	return r.Replace(s)
}
