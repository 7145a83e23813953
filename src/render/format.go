package render

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	ArrowUp   = "▲"
	ArrowDown = "▼"
	ClassUp   = "up"
	ClassDown = "down"
)

// Chart palette, picked by the sign of the day change.
const (
	upLine         = "#16a34a"
	upGradTop      = "rgba(22, 163, 74, 0.35)"
	upGradBottom   = "rgba(22, 163, 74, 0)"
	downLine       = "#dc2626"
	downGradTop    = "rgba(220, 38, 38, 0.35)"
	downGradBottom = "rgba(220, 38, 38, 0)"
)

var printer = message.NewPrinter(language.MustParse("en-IN"))

// -----------------------------------------------------------------------------

// round2 rounds half away from zero to two decimals.
func round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// FormatNumber renders a price with Indian grouping and two decimals, e.g. 26,147.10.
func FormatNumber(v float64) string {
	return printer.Sprint(number.Decimal(round2(v), number.Scale(2)))
}

// FormatSigned renders a change with an explicit sign, e.g. +98.40.
func FormatSigned(v float64) string {
	r := round2(v)
	if r > 0 {
		return "+" + FormatNumber(r)
	}
	return FormatNumber(r)
}

// FormatFlow renders a net flow in crores, e.g. +1,234.50 Cr, with its class.
// A zero flow is classed up.
func FormatFlow(v float64) (text, class string) {
	class = ClassUp
	if round2(v) < 0 {
		class = ClassDown
	}
	return FormatSigned(v) + " Cr", class
}

// FormatPercent renders a percent move, e.g. +0.45%.
func FormatPercent(p float64) string {
	r := round2(p)
	s := decimal.NewFromFloat(r).StringFixed(2) + "%"
	if r > 0 {
		return "+" + s
	}
	return s
}

// -----------------------------------------------------------------------------

// Direction returns the CSS class and arrow for a move. A flat move counts as up.
func Direction(change, percent float64) (class, arrow string) {
	v := change
	if v == 0 {
		v = percent
	}
	if v < 0 {
		return ClassDown, ArrowDown
	}
	return ClassUp, ArrowUp
}

// ChangeText renders "▲ +98.40 (+0.45%)".
func ChangeText(change, percent float64) string {
	_, arrow := Direction(change, percent)
	return arrow + " " + FormatSigned(change) + " (" + FormatPercent(percent) + ")"
}

// ChartColors returns line, gradient start and gradient end colours.
func ChartColors(change float64) (line, start, end string) {
	if change < 0 {
		return downLine, downGradTop, downGradBottom
	}
	return upLine, upGradTop, upGradBottom
}
