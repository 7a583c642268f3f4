// Package report runs one rendering pass: it loads every aggregate from the
// energy store and lays out all three charts against a single reference date.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jgoulah/gridstats/internal/charts"
	"github.com/jgoulah/gridstats/internal/database"
	"github.com/jgoulah/gridstats/pkg/models"
)

// Source loads the aggregates of one pass. *database.DB satisfies it.
type Source interface {
	Snapshot(ctx context.Context) (*database.Snapshot, error)
}

// Stats is the headline row shown above the charts
type Stats struct {
	TotalKWh           float64 `json:"total_kwh"`
	DailyAverage       float64 `json:"daily_average"`
	AvgCarbonIntensity float64 `json:"avg_carbon_intensity"`
	TotalDays          int     `json:"total_days"`
	DateRange          string  `json:"date_range"`
}

// Report is everything a page needs to draw the energy dashboard
type Report struct {
	PassID        string                   `json:"pass_id"`
	ReferenceDate time.Time                `json:"reference_date"`
	Summary       models.Summary           `json:"summary"`
	Stats         Stats                    `json:"stats"`
	FuelMix       models.FuelMix           `json:"fuel_mix"`
	Legend        []charts.FuelShare       `json:"legend"`
	Calendar      charts.Calendar          `json:"calendar"`
	Weekly        charts.WeeklyStack       `json:"weekly"`
	HalfHourly    charts.HalfHourlyHeatmap `json:"half_hourly"`
}

// Build loads a fresh snapshot from src and lays out every chart. Nothing is
// cached between calls.
func Build(ctx context.Context, src Source, referenceDate time.Time, opts charts.Options) (*Report, error) {
	passID := uuid.NewString()
	logger := slog.Default().With("pass_id", passID)
	started := time.Now()

	logger.Debug("report pass started", "reference_date", models.DateKey(referenceDate))

	snap, err := src.Snapshot(ctx)
	if err != nil {
		logger.Error("loading snapshot failed", "error", err)
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}

	cal := charts.BuildCalendar(referenceDate, snap.Daily, opts)
	r := &Report{
		PassID:        passID,
		ReferenceDate: models.CivilDate(referenceDate),
		Summary:       snap.Summary,
		Stats: Stats{
			TotalKWh:           snap.Summary.TotalKWh,
			DailyAverage:       snap.Summary.DailyAverage(),
			AvgCarbonIntensity: snap.Summary.AvgCarbonIntensity,
			TotalDays:          snap.Summary.TotalDays,
			DateRange:          snap.Summary.DateRange(),
		},
		FuelMix:    snap.FuelMix,
		Legend:     charts.FuelShares(snap.FuelMix),
		Calendar:   cal,
		Weekly:     charts.BuildWeeklyStack(&cal, snap.Weekly, opts),
		HalfHourly: charts.BuildHalfHourly(snap.HalfHourly, opts),
	}

	logger.Info("report pass finished",
		"days", len(snap.Daily),
		"weeks", len(r.Weekly.Bars),
		"half_hourly_cells", len(r.HalfHourly.Cells),
		"elapsed", time.Since(started))

	return r, nil
}
