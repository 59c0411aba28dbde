package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/haulwatch/haulwatch/internal/cli"
	"github.com/haulwatch/haulwatch/internal/common"
	"github.com/haulwatch/haulwatch/internal/config"
	"github.com/haulwatch/haulwatch/internal/engine"
	"github.com/haulwatch/haulwatch/internal/export"
	"github.com/haulwatch/haulwatch/internal/ingest"
	"github.com/haulwatch/haulwatch/internal/model"
	"github.com/haulwatch/haulwatch/internal/report"
)

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Resolve an invoice batch and publish dashboard aggregates",
		Long: `Resolve every invoice in the batch onto the canonical vendor set, compute
the daily and monthly volume series, detect month-over-month volume alerts,
and publish the dashboard CSV files.

Inputs can be given as flags, in the config file, or as HAULWATCH_ environment
variables.`,
		RunE: runRun,
	}

	cmd.Flags().StringP("invoices", "i", "", "Invoice batch CSV")
	cmd.Flags().String("vendors", "", "Canonical vendor reference (.xlsx or .csv)")
	cmd.Flags().String("locations", "", "Location-to-vendor link table (.xlsx or .csv)")
	cmd.Flags().String("overrides", "", "Manual override map CSV (optional)")
	cmd.Flags().StringP("output", "o", "", "Output directory for dashboard files (default: reports)")
	cmd.Flags().String("reference-date", "", "Reference date for aggregation (format: 2006-01-02, default: today)")
	cmd.Flags().IntP("workers", "w", 0, "Worker fan-out for matching (0 = sequential)")
	cmd.Flags().Bool("dry-run", false, "Resolve and report without publishing files or recording the run")

	_ = viper.BindPFlag("inputs.invoices", cmd.Flags().Lookup("invoices"))
	_ = viper.BindPFlag("inputs.vendors", cmd.Flags().Lookup("vendors"))
	_ = viper.BindPFlag("inputs.locations", cmd.Flags().Lookup("locations"))
	_ = viper.BindPFlag("inputs.overrides", cmd.Flags().Lookup("overrides"))
	_ = viper.BindPFlag("output.dir", cmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("run.reference_date", cmd.Flags().Lookup("reference-date"))
	_ = viper.BindPFlag("run.workers", cmd.Flags().Lookup("workers"))
	_ = viper.BindPFlag("run.dry_run", cmd.Flags().Lookup("dry-run"))

	return cmd
}

func runRun(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	startedAt := time.Now().UTC()

	settings, err := config.LoadRunSettings()
	if err != nil {
		return err
	}

	refDate, err := parseReferenceDate(settings.ReferenceDate)
	if err != nil {
		return err
	}

	slog.Info(cli.FormatTitle("Resolving invoice batch"))
	slog.Info("Reference date", "date", refDate.Format("2006-01-02"))

	ref, err := loadReferenceData(settings)
	if err != nil {
		return err
	}

	invoices, skippedRows, err := readInvoiceBatch(settings.InvoicesPath)
	if err != nil {
		return err
	}
	slog.Info("Loaded invoice batch",
		"invoices", len(invoices),
		"skipped_rows", skippedRows,
		"vendors", len(ref.Vendors),
		"locations", len(ref.Locations),
		"overrides", len(ref.Overrides))

	bar := newResolveBar(len(invoices))
	eng, err := engine.New(ref, engine.Config{
		Workers: settings.Workers,
		OnProgress: func(done, _ int) {
			_ = bar.Set(done)
		},
	})
	if err != nil {
		return err
	}

	result, err := eng.Resolve(ctx, invoices)
	if err != nil {
		return err
	}
	_ = bar.Finish()

	agg := report.NewAggregator(refDate)
	daily, dailyBase := agg.DailySeries(result.Resolved)
	monthly := agg.MonthlySeries(result.Resolved)
	alerts := agg.DetectAlerts(monthly)

	summary := model.RunSummary{
		ID:            uuid.New().String(),
		StartedAt:     startedAt,
		ReferenceDate: refDate,
		TotalInvoices: len(invoices),
		Skipped:       skippedRows + result.Skipped + result.Excluded,
		Matched:       len(result.Resolved) - len(result.Residue),
		Unmatched:     len(result.Residue),
		AlertCount:    len(alerts),
		StageCounts:   result.StageCounts,
	}

	cli.PrintRunSummary(os.Stdout, summary)
	if dailyBase.WeekdayAvg > 0 || dailyBase.WeekendAvg > 0 {
		slog.Info("Trailing daily baseline",
			"weekday", fmt.Sprintf("%.1f", dailyBase.WeekdayAvg),
			"weekend", fmt.Sprintf("%.1f", dailyBase.WeekendAvg))
	}
	fmt.Fprintln(os.Stdout)
	cli.PrintAlerts(os.Stdout, alerts)

	if viper.GetBool("run.dry_run") {
		slog.Info(cli.FormatWarning("Dry run mode - not publishing files or recording the run"))
		return nil
	}

	if err := export.Write(settings.OutputDir, export.Outputs{
		Daily:   daily,
		Monthly: monthly,
		Alerts:  alerts,
		Residue: result.Residue,
	}); err != nil {
		return fmt.Errorf("failed to publish outputs: %w", err)
	}
	slog.Info(cli.FormatSuccess("Published dashboard files"), "dir", settings.OutputDir)

	return recordRun(ctx, summary, alerts, result.Residue)
}

func loadReferenceData(settings *config.RunSettings) (model.ReferenceData, error) {
	var ref model.ReferenceData
	var err error

	if ref.Vendors, err = ingest.ReadVendors(settings.VendorsPath); err != nil {
		return ref, err
	}
	if ref.Locations, err = ingest.ReadLocations(settings.LocationsPath); err != nil {
		return ref, err
	}

	if settings.OverridesPath != "" {
		f, err := os.Open(settings.OverridesPath)
		if err != nil {
			return ref, fmt.Errorf("override map %s: %w", settings.OverridesPath, err)
		}
		defer func() { _ = f.Close() }()

		if ref.Overrides, err = ingest.ReadOverrides(f); err != nil {
			return ref, fmt.Errorf("override map %s: %w", settings.OverridesPath, err)
		}
	}

	return ref, nil
}

func readInvoiceBatch(path string) ([]model.RawInvoice, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, common.NewUserError(fmt.Sprintf("could not read invoice batch %s", path), err)
	}
	defer func() { _ = f.Close() }()

	invoices, skipped, err := ingest.ReadInvoices(f)
	if err != nil {
		return nil, 0, fmt.Errorf("invoice batch %s: %w", path, err)
	}
	return invoices, skipped, nil
}

func recordRun(ctx context.Context, summary model.RunSummary, alerts []model.Alert, residue []model.ResolvedInvoice) error {
	store, err := initStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.SaveRun(ctx, summary, alerts, residue); err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	slog.Info(cli.FormatSuccess("Recorded run"), "id", summary.ID)
	return nil
}

func newResolveBar(total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Resolving vendors...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(os.Stderr)
		}),
	)
}
