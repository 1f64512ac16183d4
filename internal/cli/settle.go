package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mmynk/dailysplit/internal/calculator"
	"github.com/mmynk/dailysplit/internal/models"
	"github.com/mmynk/dailysplit/internal/report"
	"github.com/mmynk/dailysplit/internal/service"
)

func (a *app) settleCommand() *cobra.Command {
	var week string
	var thisWeek bool

	cmd := &cobra.Command{
		Use:   "settle",
		Short: "Show who pays whom",
		Long: `Show the settlement matrix: each member pays every member who spent more
than them the difference of their equal shares. Without --week the whole history
is settled.`,
		Args: cobra.NoArgs,
	}
	cmd.RunE = a.authed(func(cmd *cobra.Command, _ []string) error {
		out := cmd.OutOrStdout()

		var result calculator.Result
		var err error
		switch {
		case week != "" || thisWeek:
			var d models.Date
			if week != "" {
				if d, err = models.ParseDate(week); err != nil {
					return &service.ValidationError{Field: "week", Reason: "must be YYYY-MM-DD"}
				}
			}
			var from, to models.Date
			result, from, to, err = a.session.SettlementForWeek(d)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Week %s .. %s\n", from, to)
		default:
			if result, err = a.session.Settlement(); err != nil {
				return err
			}
		}

		if a.session.IsSettlementDay() {
			fmt.Fprintln(out, "Today is settlement day.")
		}
		a.printSettlement(cmd, result)
		return nil
	})

	cmd.Flags().StringVar(&week, "week", "", "settle the Monday..Sunday week containing this date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&thisWeek, "this-week", false, "settle the current week")
	return cmd
}

func (a *app) printSettlement(cmd *cobra.Command, result calculator.Result) {
	out := cmd.OutOrStdout()
	currency := a.cfg.Report.Currency

	if !result.HasSpending() {
		fmt.Fprintln(out, "No expenses to settle.")
		return
	}

	fmt.Fprintf(out, "Total spent: %s\n", money(result.Stats.TotalSpent, currency))
	fmt.Fprintf(out, "Per person:  %s\n\n", money(result.Stats.AveragePerPerson, currency))

	tw := newTable(out)
	header := []string{"PAYS \\ TO"}
	for _, m := range result.Members {
		header = append(header, m.Name)
	}
	row(tw, header...)
	for i, m := range result.Members {
		cells := []string{m.Name}
		for j := range result.Members {
			cells = append(cells, result.Matrix[i][j].StringFixed(1))
		}
		row(tw, cells...)
	}
	_ = tw.Flush()
	fmt.Fprintln(out)

	for _, mr := range calculator.Relations(result) {
		for _, r := range mr.Pays {
			fmt.Fprintf(out, "%s pays %s %s\n", mr.Member.Name, r.Counterparty.Name, money(r.Amount, currency))
		}
	}
}

func (a *app) reportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Export the settlement as a PDF",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = a.authed(func(cmd *cobra.Command, _ []string) error {
		g, err := a.session.ActiveGroup()
		if err != nil {
			return err
		}
		doc, err := a.session.ExportReport(cmd.Context())
		if err != nil {
			return err
		}

		path := output
		if path == "" {
			path = filepath.Join(a.cfg.Report.Dir, report.FileName(g))
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
		if err := os.WriteFile(path, doc, 0o644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", path)
		return nil
	})

	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write (default REPORT_DIR/<group>-weekly-settlement.pdf)")
	return cmd
}
