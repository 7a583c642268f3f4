package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/jgoulah/gridstats/internal/charts"
	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show headline usage figures and the fuel mix",
	Long:  `Prints total consumption, the daily average, carbon intensity and the average generation fuel mix across all stored readings.`,
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	db, err := openDB(ctx)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	summary, err := db.Summary(ctx)
	if err != nil {
		return err
	}
	mix, err := db.FuelMix(ctx)
	if err != nil {
		return err
	}

	if summary.TotalDays == 0 {
		fmt.Println("No energy data found")
		return nil
	}

	fmt.Printf("Period:            %s\n", summary.DateRange())
	fmt.Printf("Days tracked:      %s\n", humanize.Comma(int64(summary.TotalDays)))
	fmt.Printf("Total usage:       %s kWh\n", humanize.CommafWithDigits(summary.TotalKWh, 2))
	fmt.Printf("Daily average:     %s kWh\n", humanize.CommafWithDigits(summary.DailyAverage(), 1))
	fmt.Printf("Carbon intensity:  %.1f gCO2/kWh\n", summary.AvgCarbonIntensity)
	fmt.Printf("Latest reading:    %s (%s)\n", summary.Latest.Format("2006-01-02"), humanize.Time(summary.Latest))

	fmt.Println("\nFuel mix:")
	fmt.Println("----------------------------------------")
	for _, share := range charts.FuelShares(mix) {
		fmt.Printf("%-10s %6.1f%%\n", share.Label, share.Value)
	}
	fmt.Println("----------------------------------------")

	return nil
}
