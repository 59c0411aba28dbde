package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/haulwatch/haulwatch/internal/model"
)

// PrintRunSummary renders a completed run's headline numbers and stage
// breakdown as tables.
func PrintRunSummary(w io.Writer, summary model.RunSummary) {
	fmt.Fprintf(w, "Run %s (reference date %s)\n\n",
		summary.ID, summary.ReferenceDate.Format("2006-01-02"))

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Invoices", "Skipped", "Matched", "Unmatched", "Match Rate", "Alerts"})
	t.AppendRow(table.Row{
		summary.TotalInvoices,
		summary.Skipped,
		summary.Matched,
		summary.Unmatched,
		fmt.Sprintf("%.1f%%", summary.MatchRate()),
		alertCell(summary.AlertCount),
	})
	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.Render()

	if len(summary.StageCounts) > 0 {
		fmt.Fprintln(w)
		printStageCounts(w, summary.StageCounts)
	}
}

func printStageCounts(w io.Writer, counts map[model.ResolutionStage]int) {
	stages := make([]model.ResolutionStage, 0, len(counts))
	for stage := range counts {
		stages = append(stages, stage)
	}
	sort.Slice(stages, func(i, j int) bool { return stages[i] < stages[j] })

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Stage", "Count"})
	for _, stage := range stages {
		t.AppendRow(table.Row{string(stage), counts[stage]})
	}
	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
	})
	t.Render()
}

// PrintAlerts renders volume alerts, loudest deviations first within each
// direction.
func PrintAlerts(w io.Writer, alerts []model.Alert) {
	if len(alerts) == 0 {
		fmt.Fprintln(w, FormatSuccess("No volume alerts."))
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Vendor", "Prior", "Current", "Change"})
	for _, a := range alerts {
		t.AppendRow(table.Row{a.Vendor, a.PriorCount, a.CurrentCount, pctCell(a.Pct)})
	}
	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})
	t.Render()
}

// PrintRuns renders recorded runs, newest first.
func PrintRuns(w io.Writer, runs []model.RunSummary) {
	if len(runs) == 0 {
		fmt.Fprintln(w, FormatInfo("No recorded runs."))
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Run", "Started", "Reference", "Invoices", "Matched", "Unmatched", "Alerts"})
	for _, run := range runs {
		t.AppendRow(table.Row{
			run.ID,
			run.StartedAt.Format("2006-01-02 15:04"),
			run.ReferenceDate.Format("2006-01-02"),
			run.TotalInvoices,
			run.Matched,
			run.Unmatched,
			alertCell(run.AlertCount),
		})
	}
	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
		{Number: 7, Align: text.AlignRight},
	})
	t.Render()
}

func alertCell(count int) string {
	if count == 0 {
		return text.FgGreen.Sprint("0")
	}
	return text.FgYellow.Sprintf("%d", count)
}

func pctCell(pct float64) string {
	s := fmt.Sprintf("%.0f%%", pct)
	if pct < 100 {
		return text.FgRed.Sprint(s)
	}
	return text.FgYellow.Sprint(s)
}
