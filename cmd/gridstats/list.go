package main

import (
	"fmt"

	"github.com/jgoulah/gridstats/internal/charts"
	"github.com/jgoulah/gridstats/pkg/models"
	"github.com/spf13/cobra"
)

var (
	listWeekly bool
	listLimit  int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List daily or weekly usage",
	Long:  `Displays stored usage aggregated per day (or per Sunday-aligned week with --weekly), newest last.`,
	RunE:  runList,
}

func init() {
	listCmd.Flags().BoolVar(&listWeekly, "weekly", false, "Aggregate per week instead of per day")
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "Only show the most recent N rows (0 = no limit)")
	rootCmd.AddCommand(listCmd)
}

// row is one printable line of the list table
type row struct {
	date    string
	kwh     float64
	carbon  float64
	topFuel string
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	db, err := openDB(ctx)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	var rows []row
	heading := "Daily"
	if listWeekly {
		heading = "Weekly"
		weekly, err := db.WeeklyUsage(ctx)
		if err != nil {
			return err
		}
		for _, w := range weekly {
			rows = append(rows, row{models.DateKey(w.WeekStart), w.ConsumptionKWh, w.AvgCarbonIntensity, topFuel(w.FuelPcts)})
		}
	} else {
		daily, err := db.DailyUsage(ctx)
		if err != nil {
			return err
		}
		for _, d := range daily {
			rows = append(rows, row{models.DateKey(d.Date), d.ConsumptionKWh, d.AvgCarbonIntensity, topFuel(d.FuelPcts)})
		}
	}

	if len(rows) == 0 {
		fmt.Println("No energy data found")
		return nil
	}
	if listLimit > 0 && len(rows) > listLimit {
		rows = rows[len(rows)-listLimit:]
	}

	fmt.Printf("\n%s Usage Data:\n", heading)
	fmt.Println("--------------------------------------------------")
	fmt.Printf("%-12s  %10s  %10s  %-10s\n", "Date", "kWh", "gCO2/kWh", "Top fuel")
	fmt.Println("--------------------------------------------------")

	var total float64
	for _, r := range rows {
		fmt.Printf("%-12s  %10.2f  %10.1f  %-10s\n", r.date, r.kwh, r.carbon, r.topFuel)
		total += r.kwh
	}

	fmt.Println("--------------------------------------------------")
	fmt.Printf("Total: %.2f kWh (%d records)\n", total, len(rows))

	return nil
}

// topFuel returns the label of the largest fuel, or "-" when all are zero
func topFuel(p models.FuelPcts) string {
	shares := charts.FuelShares(p)
	if len(shares) == 0 {
		return "-"
	}
	return shares[0].Label
}
