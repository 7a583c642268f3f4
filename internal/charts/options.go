// Package charts turns energy aggregates into classification levels and
// pixel-space layouts for the calendar heatmap, the weekly stacked bar chart
// and the half-hourly heatmap. Everything here is pure: the same inputs
// always produce the same geometry.
package charts

import (
	"strconv"
	"time"
)

// Options holds the drawing sizes shared by all layouts
type Options struct {
	Width            float64 // viewBox width of the weekly and half-hourly charts
	WeeklyHeight     float64
	HalfHourlyHeight float64
	CellSize         float64 // calendar cell edge
	CellGap          float64 // gap between calendar cells
}

// DefaultOptions returns the stock chart sizes
func DefaultOptions() Options {
	return Options{
		Width:            700,
		WeeklyHeight:     180,
		HalfHourlyHeight: 300,
		CellSize:         10,
		CellGap:          2.5,
	}
}

// WithDefaults fills zero fields from DefaultOptions
func (o Options) WithDefaults() Options {
	d := DefaultOptions()
	if o.Width <= 0 {
		o.Width = d.Width
	}
	if o.WeeklyHeight <= 0 {
		o.WeeklyHeight = d.WeeklyHeight
	}
	if o.HalfHourlyHeight <= 0 {
		o.HalfHourlyHeight = d.HalfHourlyHeight
	}
	if o.CellSize <= 0 {
		o.CellSize = d.CellSize
	}
	if o.CellGap <= 0 {
		o.CellGap = d.CellGap
	}
	return o
}

// Padding is the space reserved around a plot area for axis labels
type Padding struct {
	Left, Right, Top, Bottom float64
}

var (
	calendarPadding   = Padding{Left: 28, Right: 4, Top: 16, Bottom: 22}
	weeklyPadding     = Padding{Left: 38, Right: 4, Top: 4, Bottom: 22}
	halfHourlyPadding = Padding{Left: 36, Right: 4, Top: 4, Bottom: 22}
)

// Label anchors
const (
	AnchorStart = "start"
	AnchorEnd   = "end"
)

// Label is a text label positioned in chart coordinates
type Label struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Text   string  `json:"text"`
	Anchor string  `json:"anchor"`
}

// Line is a straight line segment in chart coordinates
type Line struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// formatKWh renders a value with the shortest exact representation, the
// way the figures appear in tooltips
func formatKWh(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// shortDate renders "Jan 2"
func shortDate(t time.Time) string {
	return t.Format("Jan 2")
}
