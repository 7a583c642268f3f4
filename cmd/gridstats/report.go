package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jgoulah/gridstats/internal/report"
	"github.com/jgoulah/gridstats/pkg/models"
	"github.com/spf13/cobra"
)

var (
	reportToday  string
	reportOut    string
	reportIndent bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Build the chart layouts as JSON",
	Long: `Runs one rendering pass over the database and writes the summary, the calendar heatmap,
the weekly stacked chart, the half-hourly heatmap and the fuel legend as a single JSON document.`,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportToday, "today", "", "Reference date for the calendar (YYYY-MM-DD, default: today)")
	reportCmd.Flags().StringVar(&reportOut, "out", "", "Output file (default: stdout)")
	reportCmd.Flags().BoolVar(&reportIndent, "indent", false, "Indent the JSON output")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	referenceDate := time.Now()
	if reportToday != "" {
		t, err := time.Parse(models.DateLayout, reportToday)
		if err != nil {
			return fmt.Errorf("parsing --today: %w", err)
		}
		referenceDate = t
	}

	db, err := openDB(ctx)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	r, err := report.Build(ctx, db, referenceDate, chartOptions())
	if err != nil {
		return err
	}

	var data []byte
	if reportIndent {
		data, err = json.MarshalIndent(r, "", "  ")
	} else {
		data, err = json.Marshal(r)
	}
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	data = append(data, '\n')

	if reportOut == "" {
		_, err = os.Stdout.Write(data)
		return err
	}

	if err := os.WriteFile(reportOut, data, 0644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	fmt.Printf("Wrote %s report to %s\n", humanize.Bytes(uint64(len(data))), reportOut)
	return nil
}
