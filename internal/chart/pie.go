// Package chart turns a breakdown into a three-slice pie chart.
package chart

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/dustin/go-humanize"

	"budget/internal/core"
)

// Slice is one proportional wedge of the pie.
type Slice struct {
	Label    string
	Color    string
	Amount   core.Money
	Fraction float64
}

// Percent formats the slice share with one decimal, e.g. "62.5%".
func (s Slice) Percent() string {
	return fmt.Sprintf("%.1f%%", s.Fraction*100)
}

// Fixed labels and colors, in drawing order.
var palette = []struct {
	label string
	color string
}{
	{"Income", "#DE7ED1"},
	{"Expenses", "#1D83FF"},
	{"Savings", "#FFA857"},
}

const (
	size       = 400.0
	radius     = 150.0
	startAngle = math.Pi / 2
)

// Slices returns Income, Expenses and Savings wedges, or nil when there is
// nothing to chart. Zero-valued wedges are kept so callers can rely on order.
func Slices(b core.Breakdown) []Slice {
	if b.NoData() {
		return nil
	}
	amounts := []core.Money{b.Income, b.Expenses, b.Savings}
	total := float64(b.Income.Cents + b.Expenses.Cents + b.Savings.Cents)

	out := make([]Slice, len(palette))
	for i, p := range palette {
		out[i] = Slice{
			Label:    p.label,
			Color:    p.color,
			Amount:   amounts[i],
			Fraction: float64(amounts[i].Cents) / total,
		}
	}
	return out
}

// RenderSVG writes the pie as a standalone SVG document. Wedges run
// counter-clockwise from twelve o'clock. With no data the document is empty.
func RenderSVG(w io.Writer, b core.Breakdown) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" width="%g" height="%g" viewBox="0 0 %g %g">`, size, size, size, size)
	sb.WriteString("\n")

	c := size / 2
	angle := startAngle
	for _, s := range Slices(b) {
		if s.Fraction == 0 {
			continue
		}
		title := fmt.Sprintf("%s: %s (%s)", s.Label, humanize.CommafWithDigits(s.Amount.Float(), 2), s.Percent())
		if s.Fraction >= 1 {
			fmt.Fprintf(&sb, `<circle class="slice" cx="%g" cy="%g" r="%g" fill="%s"><title>%s</title></circle>`,
				c, c, radius, s.Color, title)
		} else {
			end := angle + 2*math.Pi*s.Fraction
			x0, y0 := point(c, radius, angle)
			x1, y1 := point(c, radius, end)
			largeArc := 0
			if s.Fraction > 0.5 {
				largeArc = 1
			}
			fmt.Fprintf(&sb, `<path class="slice" d="M %.2f %.2f L %.2f %.2f A %g %g 0 %d 0 %.2f %.2f Z" fill="%s"><title>%s</title></path>`,
				c, c, x0, y0, radius, radius, largeArc, x1, y1, s.Color, title)
		}
		sb.WriteString("\n")

		mid := angle + math.Pi*s.Fraction
		lx, ly := point(c, radius*1.15, mid)
		fmt.Fprintf(&sb, `<text x="%.2f" y="%.2f" text-anchor="middle" font-size="12">%s</text>`, lx, ly, s.Label)
		sb.WriteString("\n")
		px, py := point(c, radius*0.6, mid)
		fmt.Fprintf(&sb, `<text x="%.2f" y="%.2f" text-anchor="middle" font-size="12">%s</text>`, px, py, s.Percent())
		sb.WriteString("\n")

		angle += 2 * math.Pi * s.Fraction
	}

	sb.WriteString("</svg>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

// point converts a polar angle (radians, counter-clockwise from three
// o'clock) to SVG coordinates, whose y axis points down.
func point(c, r, a float64) (float64, float64) {
	return c + r*math.Cos(a), c - r*math.Sin(a)
}
