package database

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/jgoulah/gridstats/pkg/models"
)

// Snapshot holds the five aggregates of one rendering pass
type Snapshot struct {
	Summary    models.Summary           `json:"summary"`
	FuelMix    models.FuelMix           `json:"fuel_mix"`
	Daily      []models.DailyUsage      `json:"daily"`
	Weekly     []models.WeeklyUsage     `json:"weekly"`
	HalfHourly []models.HalfHourlyUsage `json:"half_hourly"`
}

// Snapshot runs all aggregates concurrently. The queries are independent
// read-only projections, so any single failure fails the whole snapshot.
func (db *DB) Snapshot(ctx context.Context) (*Snapshot, error) {
	var snap Snapshot
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		snap.Summary, err = db.Summary(ctx)
		return err
	})
	g.Go(func() (err error) {
		snap.FuelMix, err = db.FuelMix(ctx)
		return err
	})
	g.Go(func() (err error) {
		snap.Daily, err = db.DailyUsage(ctx)
		return err
	})
	g.Go(func() (err error) {
		snap.Weekly, err = db.WeeklyUsage(ctx)
		return err
	})
	g.Go(func() (err error) {
		snap.HalfHourly, err = db.HalfHourlyUsage(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &snap, nil
}
