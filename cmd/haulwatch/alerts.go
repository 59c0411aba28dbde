package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/haulwatch/haulwatch/internal/cli"
)

func alertsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "Show volume alerts from a recorded run",
		Long: `Show the month-over-month volume alerts recorded by a run. Without --run,
the latest recorded run is used.`,
		RunE: runAlerts,
	}

	cmd.Flags().String("run", "", "Run ID (default: latest run)")
	_ = viper.BindPFlag("alerts.run", cmd.Flags().Lookup("run"))

	return cmd
}

func runAlerts(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := initStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	runID := viper.GetString("alerts.run")
	if runID == "" {
		latest, err := store.LatestRun(ctx)
		if err != nil {
			return fmt.Errorf("failed to find latest run: %w", err)
		}
		runID = latest.ID
	}

	alerts, err := store.RunAlerts(ctx, runID)
	if err != nil {
		return fmt.Errorf("failed to load alerts: %w", err)
	}

	fmt.Fprintln(os.Stdout, cli.FormatTitle(fmt.Sprintf("Alerts for run %s", runID)))
	cli.PrintAlerts(os.Stdout, alerts)
	return nil
}
