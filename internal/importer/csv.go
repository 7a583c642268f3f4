// Package importer reads interval readings from CSV exports so they can be
// loaded into the energy store.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jgoulah/gridstats/pkg/models"
)

// timestampLayouts are tried in order for the interval_start column
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// Result is the outcome of parsing one CSV file
type Result struct {
	Intervals []models.EnergyInterval
	Skipped   int // rows dropped for a bad timestamp or consumption value
}

// columns maps the known fields to their header positions, -1 when absent
type columns struct {
	start       int
	consumption int
	carbon      int
	fuels       map[models.FuelKey]int
}

// ParseFile parses the CSV file at path
func ParseFile(path string) (*Result, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening CSV: %w", err)
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads interval rows from r. The header must name an interval_start
// (or timestamp) column and a consumption_kwh column; carbon_intensity and
// the <fuel>_pct columns are optional and default to 0.
func Parse(r io.Reader) (*Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	// Read header to find column indices
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	cols := findColumns(header)
	if cols.start == -1 || cols.consumption == -1 {
		return nil, fmt.Errorf("could not find required columns (interval_start and consumption_kwh) in CSV. Header: %v", header)
	}

	var res Result
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV row: %w", err)
		}

		interval, ok := parseRow(record, cols)
		if !ok {
			res.Skipped++
			continue
		}
		res.Intervals = append(res.Intervals, interval)
	}

	return &res, nil
}

func findColumns(header []string) columns {
	cols := columns{start: -1, consumption: -1, carbon: -1, fuels: make(map[models.FuelKey]int)}

	fuels := make(map[string]models.FuelKey, len(models.FuelKeys))
	for _, k := range models.FuelKeys {
		fuels[string(k)] = k
	}

	for i, col := range header {
		colLower := strings.ToLower(strings.TrimSpace(col))
		switch colLower {
		case "interval_start", "timestamp":
			cols.start = i
		case "consumption_kwh":
			cols.consumption = i
		case "carbon_intensity":
			cols.carbon = i
		default:
			if k, ok := fuels[colLower]; ok {
				cols.fuels[k] = i
			}
		}
	}
	return cols
}

func parseRow(record []string, cols columns) (models.EnergyInterval, bool) {
	var interval models.EnergyInterval

	start, err := parseTimestamp(field(record, cols.start))
	if err != nil {
		return interval, false
	}
	interval.IntervalStart = start

	kwh, err := parseNumber(field(record, cols.consumption))
	if err != nil {
		return interval, false
	}
	interval.ConsumptionKWh = kwh

	if interval.CarbonIntensity, err = parseOptional(field(record, cols.carbon)); err != nil {
		return interval, false
	}
	for k, i := range cols.fuels {
		v, err := parseOptional(field(record, i))
		if err != nil {
			return interval, false
		}
		interval.Set(k, v)
	}

	return interval, true
}

// field returns the trimmed value at i, or "" when the column is absent or
// the row is short
func field(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp: %q", s)
}

// parseNumber parses a value like "1,234.5"
func parseNumber(s string) (float64, error) {
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, fmt.Errorf("empty value")
	}
	return strconv.ParseFloat(s, 64)
}

// parseOptional treats an empty cell as 0
func parseOptional(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return parseNumber(s)
}
