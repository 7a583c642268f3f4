package database

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"github.com/jgoulah/gridstats/pkg/models"
)

//go:embed sql/summary.sql
var summarySQL string

//go:embed sql/fuel-mix.sql
var fuelMixSQL string

//go:embed sql/daily-usage.sql
var dailyUsageSQL string

//go:embed sql/weekly-usage.sql
var weeklyUsageSQL string

//go:embed sql/half-hourly-usage.sql
var halfHourlyUsageSQL string

// Summary returns whole-dataset totals. An empty store yields TotalDays == 0.
func (db *DB) Summary(ctx context.Context) (models.Summary, error) {
	var (
		s                models.Summary
		earliest, latest sql.NullString
	)

	err := db.conn.QueryRowContext(ctx, summarySQL).Scan(
		&s.TotalKWh,
		&s.AvgCarbonIntensity,
		&earliest,
		&latest,
		&s.TotalDays,
	)
	if err != nil {
		return models.Summary{}, unavailable("querying summary", err)
	}

	if s.Earliest, err = parseNullDate(earliest); err != nil {
		return models.Summary{}, fmt.Errorf("parsing earliest date: %w", err)
	}
	if s.Latest, err = parseNullDate(latest); err != nil {
		return models.Summary{}, fmt.Errorf("parsing latest date: %w", err)
	}

	return s, nil
}

// FuelMix returns the average fuel percentages across all intervals
func (db *DB) FuelMix(ctx context.Context) (models.FuelMix, error) {
	var mix models.FuelMix
	if err := db.conn.QueryRowContext(ctx, fuelMixSQL).Scan(fuelDest(&mix)...); err != nil {
		return models.FuelMix{}, unavailable("querying fuel mix", err)
	}
	return mix, nil
}

// DailyUsage returns one row per calendar date in ascending order
func (db *DB) DailyUsage(ctx context.Context) ([]models.DailyUsage, error) {
	rows, err := db.conn.QueryContext(ctx, dailyUsageSQL)
	if err != nil {
		return nil, unavailable("querying daily usage", err)
	}
	defer rows.Close()

	var results []models.DailyUsage
	for rows.Next() {
		var (
			d       models.DailyUsage
			dateStr string
		)
		dest := append([]any{&dateStr, &d.ConsumptionKWh, &d.AvgCarbonIntensity}, fuelDest(&d.FuelPcts)...)
		if err := rows.Scan(dest...); err != nil {
			return nil, unavailable("scanning daily row", err)
		}
		if d.Date, err = time.Parse(models.DateLayout, dateStr); err != nil {
			return nil, fmt.Errorf("parsing date: %w", err)
		}
		results = append(results, d)
	}

	if err := rows.Err(); err != nil {
		return nil, unavailable("reading daily usage", err)
	}
	return results, nil
}

// WeeklyUsage returns one row per Sunday-aligned week in ascending order
func (db *DB) WeeklyUsage(ctx context.Context) ([]models.WeeklyUsage, error) {
	rows, err := db.conn.QueryContext(ctx, weeklyUsageSQL)
	if err != nil {
		return nil, unavailable("querying weekly usage", err)
	}
	defer rows.Close()

	var results []models.WeeklyUsage
	for rows.Next() {
		var (
			w       models.WeeklyUsage
			weekStr string
		)
		dest := append([]any{&weekStr, &w.ConsumptionKWh, &w.AvgCarbonIntensity}, fuelDest(&w.FuelPcts)...)
		if err := rows.Scan(dest...); err != nil {
			return nil, unavailable("scanning weekly row", err)
		}
		if w.WeekStart, err = time.Parse(models.DateLayout, weekStr); err != nil {
			return nil, fmt.Errorf("parsing week_start: %w", err)
		}
		results = append(results, w)
	}

	if err := rows.Err(); err != nil {
		return nil, unavailable("reading weekly usage", err)
	}
	return results, nil
}

// HalfHourlyUsage returns one row per interval in chronological order
func (db *DB) HalfHourlyUsage(ctx context.Context) ([]models.HalfHourlyUsage, error) {
	rows, err := db.conn.QueryContext(ctx, halfHourlyUsageSQL)
	if err != nil {
		return nil, unavailable("querying half-hourly usage", err)
	}
	defer rows.Close()

	var results []models.HalfHourlyUsage
	for rows.Next() {
		var (
			h       models.HalfHourlyUsage
			dateStr string
		)
		if err := rows.Scan(&dateStr, &h.TimeSlot, &h.ConsumptionKWh); err != nil {
			return nil, unavailable("scanning half-hourly row", err)
		}
		if h.Date, err = time.Parse(models.DateLayout, dateStr); err != nil {
			return nil, fmt.Errorf("parsing date: %w", err)
		}
		results = append(results, h)
	}

	if err := rows.Err(); err != nil {
		return nil, unavailable("reading half-hourly usage", err)
	}
	return results, nil
}

// fuelDest returns scan destinations in models.FuelKeys order, matching the
// column order of every fuel query
func fuelDest(f *models.FuelPcts) []any {
	return []any{
		&f.WindPct, &f.GasPct, &f.NuclearPct, &f.SolarPct,
		&f.HydroPct, &f.BiomassPct, &f.ImportsPct, &f.CoalPct,
	}
}

func parseNullDate(s sql.NullString) (time.Time, error) {
	if !s.Valid || s.String == "" {
		return time.Time{}, nil
	}
	return time.Parse(models.DateLayout, s.String)
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrDataUnavailable, err)
}
