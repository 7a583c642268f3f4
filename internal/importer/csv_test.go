package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	input := `Interval_Start,Consumption_kWh,Carbon_Intensity,Wind_Pct,Gas_Pct,Nuclear_Pct
2024-01-17 10:00:00,0.25,120,40,35,25
2024-01-17 10:30,"1,000.5",130.5,,100,
not-a-date,0.5,100,100,0,0
2024-01-17T11:00:00Z,abc,100,100,0,0
2024-01-17T11:30:00+01:00,0.75,,,,
`

	res, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Skipped)
	require.Len(t, res.Intervals, 3)

	first := res.Intervals[0]
	assert.Equal(t, time.Date(2024, 1, 17, 10, 0, 0, 0, time.UTC), first.IntervalStart)
	assert.Equal(t, 0.25, first.ConsumptionKWh)
	assert.Equal(t, 120.0, first.CarbonIntensity)
	assert.Equal(t, 40.0, first.WindPct)
	assert.Equal(t, 35.0, first.GasPct)
	assert.Equal(t, 25.0, first.NuclearPct)
	assert.Zero(t, first.CoalPct)

	second := res.Intervals[1]
	assert.Equal(t, time.Date(2024, 1, 17, 10, 30, 0, 0, time.UTC), second.IntervalStart)
	assert.Equal(t, 1000.5, second.ConsumptionKWh)
	assert.Zero(t, second.WindPct)
	assert.Equal(t, 100.0, second.GasPct)

	third := res.Intervals[2]
	assert.Equal(t, time.Date(2024, 1, 17, 10, 30, 0, 0, time.UTC), third.IntervalStart)
	assert.Zero(t, third.CarbonIntensity)
}

func TestParseTimestampHeader(t *testing.T) {
	input := "timestamp,consumption_kwh\n2024-03-01 00:00:00,1.5\n"

	res, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, res.Intervals, 1)
	assert.Equal(t, 1.5, res.Intervals[0].ConsumptionKWh)
}

func TestParseMissingColumns(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "no consumption", input: "interval_start,carbon_intensity\n2024-01-01 00:00:00,100\n"},
		{name: "no timestamp", input: "consumption_kwh\n1.0\n"},
		{name: "empty", input: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestParseShortRows(t *testing.T) {
	input := "interval_start,consumption_kwh,coal_pct\n2024-01-01 00:00:00,2\n2024-01-01 00:30:00\n"

	res, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, res.Intervals, 1)
	assert.Zero(t, res.Intervals[0].CoalPct)
	assert.Equal(t, 1, res.Skipped)
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "usage.csv")
	require.NoError(t, os.WriteFile(path, []byte("interval_start,consumption_kwh\n2024-01-01 00:00:00,2\n"), 0644))

	res, err := ParseFile(path)
	require.NoError(t, err)
	assert.Len(t, res.Intervals, 1)

	_, err = ParseFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}
