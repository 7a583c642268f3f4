package charts

import (
	"fmt"
	"math"
	"time"

	"github.com/jgoulah/gridstats/pkg/models"
)

// yDivisions is the number of equal vertical divisions of the weekly scale
const yDivisions = 4

// Segment is one fuel's share of a weekly bar
type Segment struct {
	Fuel   models.FuelKey `json:"fuel"`
	Label  string         `json:"label"`
	Color  string         `json:"color"`
	Pct    float64        `json:"pct"`
	KWh    float64        `json:"kwh"`
	X      float64        `json:"x"`
	Y      float64        `json:"y"`
	Width  float64        `json:"width"`
	Height float64        `json:"height"`
	Title  string         `json:"title"`
}

// Bar is the stacked bar of one week column
type Bar struct {
	Week      int       `json:"week"`
	WeekStart time.Time `json:"week_start"`
	KWh       float64   `json:"kwh"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"` // top of the stack
	Width     float64   `json:"width"`
	Height    float64   `json:"height"` // sum of the segment heights
	Segments  []Segment `json:"segments"`
}

// Tick is a horizontal gridline with its axis label
type Tick struct {
	KWh   float64 `json:"kwh"`
	Line  Line    `json:"line"`
	Label Label   `json:"label"`
}

// WeeklyStack is the stacked weekly consumption-by-source chart
type WeeklyStack struct {
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	MaxKWh      float64 `json:"max_kwh"` // vertical scale, a multiple of 10
	BarWidth    float64 `json:"bar_width"`
	Bars        []Bar   `json:"bars"`
	Ticks       []Tick  `json:"ticks"`
	MonthLabels []Label `json:"month_labels"`
}

// ScaleMax returns the smallest multiple of 10 that is >= v
func ScaleMax(v float64) float64 {
	return math.Ceil(v/10) * 10
}

// BuildWeeklyStack lays out one stacked bar per calendar week column that has
// data. Segments follow the fuel table order regardless of their size.
func BuildWeeklyStack(cal *Calendar, weekly []models.WeeklyUsage, opts Options) WeeklyStack {
	opts = opts.WithDefaults()
	pad := weeklyPadding
	innerW := opts.Width - pad.Left - pad.Right
	innerH := opts.WeeklyHeight - pad.Top - pad.Bottom

	byWeek := make(map[string]*models.WeeklyUsage, len(weekly))
	for i := range weekly {
		byWeek[models.DateKey(weekly[i].WeekStart)] = &weekly[i]
	}

	slots := make([]*models.WeeklyUsage, cal.NumWeeks())
	var maxWeek float64
	for w, sunday := range cal.WeekStarts {
		slots[w] = byWeek[models.DateKey(sunday)]
		if slots[w] != nil {
			maxWeek = math.Max(maxWeek, slots[w].ConsumptionKWh)
		}
	}

	chart := WeeklyStack{
		Width:       opts.Width,
		Height:      opts.WeeklyHeight,
		MaxKWh:      ScaleMax(maxWeek),
		BarWidth:    1,
		Bars:        make([]Bar, 0),
		MonthLabels: make([]Label, 0, len(cal.Months)),
	}
	if n := cal.NumWeeks(); n > 0 {
		chart.BarWidth = innerW / float64(n)
	}

	x := func(col int) float64 { return pad.Left + float64(col)*chart.BarWidth }
	y := func(kwh float64) float64 {
		if chart.MaxKWh <= 0 {
			return pad.Top + innerH
		}
		return pad.Top + innerH - kwh/chart.MaxKWh*innerH
	}

	for i := 0; i <= yDivisions; i++ {
		kwh := math.Round(chart.MaxKWh / yDivisions * float64(i))
		chart.Ticks = append(chart.Ticks, Tick{
			KWh:   kwh,
			Line:  Line{X1: pad.Left, Y1: y(kwh), X2: opts.Width - pad.Right, Y2: y(kwh)},
			Label: Label{X: pad.Left - 4, Y: y(kwh) + 1, Text: formatKWh(kwh), Anchor: AnchorEnd},
		})
	}

	segWidth := math.Max(chart.BarWidth-0.5, 0.5)
	for w, week := range slots {
		if week == nil {
			continue
		}

		bar := Bar{
			Week:      w,
			WeekStart: week.WeekStart,
			KWh:       week.ConsumptionKWh,
			X:         x(w),
			Width:     segWidth,
			Segments:  make([]Segment, 0, len(fuelTable)),
		}
		var cum float64
		for _, f := range fuelTable {
			pct := week.Value(f.Key)
			if pct <= 0 {
				continue
			}
			kwh := pct / 100 * week.ConsumptionKWh
			top := y(cum + kwh)
			bar.Segments = append(bar.Segments, Segment{
				Fuel:   f.Key,
				Label:  f.Label,
				Color:  f.Color,
				Pct:    pct,
				KWh:    kwh,
				X:      bar.X,
				Y:      top,
				Width:  segWidth,
				Height: math.Max(y(cum)-top, 0),
				Title:  fmt.Sprintf("%s %.1f kWh (%s%%)", f.Label, kwh, formatKWh(pct)),
			})
			cum += kwh
		}
		bar.Y = y(cum)
		for _, s := range bar.Segments {
			bar.Height += s.Height
		}
		chart.Bars = append(chart.Bars, bar)
	}

	for _, m := range cal.Months {
		chart.MonthLabels = append(chart.MonthLabels, Label{
			X:      x(m.Index),
			Y:      opts.WeeklyHeight - 4,
			Text:   m.Label,
			Anchor: AnchorStart,
		})
	}

	return chart
}
