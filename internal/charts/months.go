package charts

import "time"

// MonthMarker labels the first column of each month on a date axis
type MonthMarker struct {
	Label string `json:"label"` // short month name
	Index int    `json:"index"` // column the month starts at
}

// monthMarkers emits a marker wherever the month differs from the previous
// column's; the first column is always marked
func monthMarkers(dates []time.Time) []MonthMarker {
	out := make([]MonthMarker, 0)
	var prev time.Month
	for i, d := range dates {
		if m := d.Month(); i == 0 || m != prev {
			out = append(out, MonthMarker{Label: d.Format("Jan"), Index: i})
			prev = m
		}
	}
	return out
}
