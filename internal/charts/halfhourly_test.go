package charts

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jgoulah/gridstats/pkg/models"
)

func slot(d, s string, kwh float64) models.HalfHourlyUsage {
	return models.HalfHourlyUsage{Date: date(d), TimeSlot: s, ConsumptionKWh: kwh}
}

func TestTimeSlots(t *testing.T) {
	slots := TimeSlots()
	require.Len(t, slots, SlotsPerDay)
	assert.Equal(t, "00:00", slots[0])
	assert.Equal(t, "00:30", slots[1])
	assert.Equal(t, "12:00", slots[24])
	assert.Equal(t, "23:30", slots[47])

	slots[0] = "changed"
	assert.Equal(t, "00:00", TimeSlots()[0])
}

func TestHalfHourlyMonthMarkers(t *testing.T) {
	rows := []models.HalfHourlyUsage{
		slot("2024-02-02", "00:00", 0.2),
		slot("2024-01-30", "00:30", 0.25),
		slot("2024-01-31", "10:00", 0.5),
		slot("2024-02-01", "23:30", 1.1),
	}

	hm := BuildHalfHourly(rows, DefaultOptions())

	assert.Equal(t, []time.Time{
		date("2024-01-30"), date("2024-01-31"), date("2024-02-01"), date("2024-02-02"),
	}, hm.Dates)
	assert.Equal(t, []MonthMarker{{"Jan", 0}, {"Feb", 2}}, hm.Months)

	assert.InDelta(t, 165, hm.CellWidth, 1e-9)
	require.Len(t, hm.MonthLabels, 2)
	assert.InDelta(t, 36, hm.MonthLabels[0].X, 1e-9)
	assert.InDelta(t, 36+2*165, hm.MonthLabels[1].X, 1e-9)
	assert.Equal(t, 296.0, hm.MonthLabels[1].Y)
}

func TestHalfHourlyAbsentPairs(t *testing.T) {
	rows := []models.HalfHourlyUsage{
		slot("2024-01-01", "00:00", 0.2),
		slot("2024-01-01", "08:30", 0.4),
		slot("2024-01-10", "23:30", 0.9),
	}

	hm := BuildHalfHourly(rows, DefaultOptions())

	// Gaps between dates do not add columns.
	require.Len(t, hm.Dates, 2)
	require.Len(t, hm.Cells, 3)

	c := hm.Cells[1]
	assert.Equal(t, 0, c.Column)
	assert.Equal(t, 17, c.Row)
	assert.Equal(t, "08:30", c.Slot)
	assert.Equal(t, 0.4, c.KWh)
	assert.Equal(t, "Jan 1 08:30 · 0.4 kWh", c.Title)

	c = hm.Cells[2]
	assert.Equal(t, 1, c.Column)
	assert.Equal(t, 47, c.Row)
	assert.InDelta(t, 36+330, c.X, 1e-9)
	assert.InDelta(t, 4+47*hm.CellHeight, c.Y, 1e-9)
	assert.InDelta(t, 330-0.3, c.Width, 1e-9)
	assert.InDelta(t, hm.CellHeight-0.3, c.Height, 1e-9)
}

func TestHalfHourlyLevels(t *testing.T) {
	rows := []models.HalfHourlyUsage{
		slot("2024-01-01", "00:00", 1),
		slot("2024-01-01", "00:30", 2),
		slot("2024-01-01", "01:00", 3),
		slot("2024-01-01", "01:30", 4),
		slot("2024-01-01", "02:00", 5),
	}

	hm := BuildHalfHourly(rows, DefaultOptions())
	require.Len(t, hm.Cells, 5)

	var levels []int
	for _, c := range hm.Cells {
		levels = append(levels, c.Level)
	}
	assert.Equal(t, []int{0, 1, 2, 3, 4}, levels)
}

func TestHalfHourlyThresholdsMatchDaily(t *testing.T) {
	values := []float64{0.3, 1.2, 0.05, 2.7, 0.9, 0.9, 4.1}

	var hh []models.HalfHourlyUsage
	var dd []models.DailyUsage
	for i, v := range values {
		d := date("2024-03-01").AddDate(0, 0, i)
		hh = append(hh, models.HalfHourlyUsage{Date: d, TimeSlot: "12:00", ConsumptionKWh: v})
		dd = append(dd, models.DailyUsage{Date: d, ConsumptionKWh: v})
	}

	hm := BuildHalfHourly(hh, DefaultOptions())
	cal := BuildCalendar(date("2024-03-31"), dd, DefaultOptions())
	assert.Equal(t, cal.Thresholds, hm.Thresholds)
}

func TestHalfHourlyHourLabels(t *testing.T) {
	hm := BuildHalfHourly(nil, DefaultOptions())

	var texts []string
	for _, l := range hm.HourLabels {
		texts = append(texts, l.Text)
		assert.Equal(t, 32.0, l.X)
		assert.Equal(t, AnchorEnd, l.Anchor)
	}
	assert.Equal(t, []string{"00:00", "04:00", "08:00", "12:00", "16:00", "20:00"}, texts)

	cellH := 274.0 / 48
	assert.InDelta(t, cellH, hm.CellHeight, 1e-9)
	assert.InDelta(t, 4+8*cellH+cellH/2, hm.HourLabels[1].Y, 1e-9)
}

func TestHalfHourlyEmpty(t *testing.T) {
	hm := BuildHalfHourly(nil, DefaultOptions())

	assert.Empty(t, hm.Dates)
	assert.Empty(t, hm.Cells)
	assert.Empty(t, hm.Months)
	assert.Empty(t, hm.MonthLabels)
	assert.Zero(t, hm.CellWidth)
	assert.Equal(t, Thresholds{}, hm.Thresholds)
	assert.Len(t, hm.Slots, SlotsPerDay)
}

func TestEmptyLayoutsEncodeCollections(t *testing.T) {
	cal := BuildCalendar(date("2024-10-16"), nil, DefaultOptions())

	for name, v := range map[string]any{
		"half-hourly": BuildHalfHourly(nil, DefaultOptions()),
		"weekly":      BuildWeeklyStack(&cal, nil, DefaultOptions()),
		"legend":      FuelShares(models.FuelMix{}),
	} {
		data, err := json.Marshal(v)
		require.NoError(t, err, name)
		assert.NotContains(t, string(data), "null", name)
	}

	data, err := json.Marshal(FuelShares(models.FuelMix{}))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}
