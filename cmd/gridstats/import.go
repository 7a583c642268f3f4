package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/jgoulah/gridstats/internal/database"
	"github.com/jgoulah/gridstats/internal/importer"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Import interval readings from a CSV file",
	Long: `Reads a CSV with interval_start, consumption_kwh, carbon_intensity and <fuel>_pct columns
and stores the readings. Intervals that are already stored are left untouched.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	res, err := importer.ParseFile(args[0])
	if err != nil {
		return fmt.Errorf("parsing %s: %w", args[0], err)
	}
	if res.Skipped > 0 {
		logger.Warn("skipped unparsable rows", "file", args[0], "rows", res.Skipped)
	}
	if len(res.Intervals) == 0 {
		fmt.Println("No intervals found in file")
		return nil
	}

	db, err := database.OpenWritable(ctx, getDBPath(), dbOptions())
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	inserted, err := db.InsertIntervals(ctx, res.Intervals)
	if err != nil {
		return err
	}

	fmt.Printf("Imported %s new intervals (%s already stored, %s rows skipped)\n",
		humanize.Comma(int64(inserted)),
		humanize.Comma(int64(len(res.Intervals)-inserted)),
		humanize.Comma(int64(res.Skipped)))
	return nil
}
