package charts

import (
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/jgoulah/gridstats/pkg/models"
)

// SlotsPerDay is the number of 30-minute slots in a day
const SlotsPerDay = 48

// hourLabelEvery is the row spacing of the hour labels (4 hours)
const hourLabelEvery = 8

var timeSlots = func() [SlotsPerDay]string {
	var slots [SlotsPerDay]string
	for i := range slots {
		slots[i] = fmt.Sprintf("%02d:%02d", i/2, i%2*30)
	}
	return slots
}()

// TimeSlots returns the 48 slot labels "00:00" .. "23:30"
func TimeSlots() []string {
	return slices.Clone(timeSlots[:])
}

// HeatCell is one classified (date, slot) reading
type HeatCell struct {
	Column int       `json:"column"`
	Row    int       `json:"row"`
	Date   time.Time `json:"date"`
	Slot   string    `json:"slot"`
	KWh    float64   `json:"kwh"`
	Level  int       `json:"level"`
	X      float64   `json:"x"`
	Y      float64   `json:"y"`
	Width  float64   `json:"width"`
	Height float64   `json:"height"`
	Title  string    `json:"title"`
}

// HalfHourlyHeatmap is the date by time-of-day heatmap
type HalfHourlyHeatmap struct {
	Width       float64       `json:"width"`
	Height      float64       `json:"height"`
	Dates       []time.Time   `json:"dates"` // one column per date present in the data
	Slots       []string      `json:"slots"`
	Thresholds  Thresholds    `json:"thresholds"`
	CellWidth   float64       `json:"cell_width"`
	CellHeight  float64       `json:"cell_height"`
	Cells       []HeatCell    `json:"cells"`
	Months      []MonthMarker `json:"months"`
	HourLabels  []Label       `json:"hour_labels"`
	MonthLabels []Label       `json:"month_labels"`
}

// BuildHalfHourly lays out the half-hourly readings with one column per
// distinct date and one row per slot. Missing readings leave no cell.
func BuildHalfHourly(rows []models.HalfHourlyUsage, opts Options) HalfHourlyHeatmap {
	opts = opts.WithDefaults()
	pad := halfHourlyPadding

	byKey := make(map[string]float64, len(rows))
	seen := make(map[string]bool)
	values := make([]float64, 0, len(rows))
	dates := make([]time.Time, 0)
	for _, r := range rows {
		key := models.DateKey(r.Date)
		byKey[key+"|"+r.TimeSlot] = r.ConsumptionKWh
		values = append(values, r.ConsumptionKWh)
		if !seen[key] {
			seen[key] = true
			dates = append(dates, r.Date)
		}
	}
	slices.SortFunc(dates, func(a, b time.Time) int { return a.Compare(b) })

	hm := HalfHourlyHeatmap{
		Width:       opts.Width,
		Height:      opts.HalfHourlyHeight,
		Dates:       dates,
		Slots:       TimeSlots(),
		Thresholds:  NewThresholds(values),
		CellHeight:  (opts.HalfHourlyHeight - pad.Top - pad.Bottom) / SlotsPerDay,
		Months:      monthMarkers(dates),
		Cells:       make([]HeatCell, 0, len(rows)),
		MonthLabels: make([]Label, 0),
	}
	if len(dates) > 0 {
		hm.CellWidth = (opts.Width - pad.Left - pad.Right) / float64(len(dates))
	}

	for row := 0; row < SlotsPerDay; row += hourLabelEvery {
		hm.HourLabels = append(hm.HourLabels, Label{
			X:      pad.Left - 4,
			Y:      pad.Top + float64(row)*hm.CellHeight + hm.CellHeight/2,
			Text:   timeSlots[row],
			Anchor: AnchorEnd,
		})
	}

	w := math.Max(hm.CellWidth-0.3, 0.3)
	h := math.Max(hm.CellHeight-0.3, 0.3)
	for col, d := range dates {
		key := models.DateKey(d)
		for row, slot := range timeSlots {
			kwh, ok := byKey[key+"|"+slot]
			if !ok {
				continue
			}
			hm.Cells = append(hm.Cells, HeatCell{
				Column: col,
				Row:    row,
				Date:   d,
				Slot:   slot,
				KWh:    kwh,
				Level:  Level(kwh, hm.Thresholds),
				X:      pad.Left + float64(col)*hm.CellWidth,
				Y:      pad.Top + float64(row)*hm.CellHeight,
				Width:  w,
				Height: h,
				Title:  shortDate(d) + " " + slot + " · " + formatKWh(kwh) + " kWh",
			})
		}
	}

	for _, m := range hm.Months {
		hm.MonthLabels = append(hm.MonthLabels, Label{
			X:      pad.Left + float64(m.Index)*hm.CellWidth,
			Y:      opts.HalfHourlyHeight - 4,
			Text:   m.Label,
			Anchor: AnchorStart,
		})
	}

	return hm
}
