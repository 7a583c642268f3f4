package main

import (
	"fmt"
	"time"

	"github.com/jgoulah/gridstats/internal/publisher"
	"github.com/spf13/cobra"
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish the summary to MQTT and Home Assistant",
	Long: `Reads the usage summary and fuel mix from the database and publishes them as retained
MQTT messages and/or a Home Assistant entity state, depending on which outputs are enabled in config.`,
	RunE: runPublish,
}

func init() {
	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	fmt.Printf("=== Publish started at %s ===\n", time.Now().Format("2006-01-02 15:04:05 MST"))

	if !cfg.MQTT.Enabled && !cfg.HomeAssistant.Enabled {
		return fmt.Errorf("neither mqtt nor home_assistant is enabled in config")
	}

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

	pub, err := publisher.New(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("creating publisher: %w", err)
	}
	defer pub.Close()

	if err := pub.Publish(ctx, summary, mix); err != nil {
		return fmt.Errorf("publishing: %w", err)
	}

	if cfg.MQTT.Enabled {
		fmt.Printf("Published %s/summary and %s/fuel_mix\n", cfg.GetTopicPrefix(), cfg.GetTopicPrefix())
	}
	if cfg.HomeAssistant.Enabled {
		fmt.Printf("Updated %s to %.2f kWh\n", cfg.HomeAssistant.EntityID, summary.TotalKWh)
	}
	return nil
}
