package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mediway/mediway/internal/domain/report"
)

// filterFlags mirrors the dashboard's query parameters.
type filterFlags struct {
	from, to, period, status, doctor, spec string
}

func (ff *filterFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&ff.from, "from", "", "registrations from (YYYY-MM-DD)")
	cmd.Flags().StringVar(&ff.to, "to", "", "registrations to (YYYY-MM-DD)")
	cmd.Flags().StringVar(&ff.period, "period", "", "summary period: daily, weekly or monthly")
	cmd.Flags().StringVar(&ff.status, "status", "", "comma-separated statuses to show")
	cmd.Flags().StringVar(&ff.doctor, "doctor", "", "doctor name filter")
	cmd.Flags().StringVar(&ff.spec, "spec", "", "specialization filter")
}

func (ff *filterFlags) filters() (report.Filters, error) {
	q := url.Values{}
	for k, v := range map[string]string{
		"from": ff.from, "to": ff.to, "period": ff.period,
		"status": ff.status, "doctor": ff.doctor, "spec": ff.spec,
	} {
		if v != "" {
			q.Set(k, v)
		}
	}
	return report.ParseFilters(q)
}

func reportsCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "Admin reports dashboard",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := e.init(cmd); err != nil {
				return err
			}
			return requireAdmin(e)
		},
	}

	var ff filterFlags
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Load every report and print the dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := loadSnapshot(cmd.Context(), e, ff)
			if err != nil {
				return err
			}
			return printJSON(cmd, snap)
		},
	}
	ff.bind(showCmd)

	var exportFF filterFlags
	var out string
	exportCmd := &cobra.Command{
		Use:   "export <kind>",
		Short: "Download a CSV or PDF export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := report.ParseExportKind(args[0])
			if err != nil {
				return err
			}
			f, err := exportFF.filters()
			if err != nil {
				return err
			}
			path, err := report.SaveExport(cmd.Context(), e.app.ReportRepo, k, f, outDir(e, out))
			if err != nil {
				return err
			}
			printf(cmd, "%s\n", path)
			return nil
		},
	}
	exportFF.bind(exportCmd)
	exportCmd.Flags().StringVarP(&out, "out", "o", "", "output directory (defaults to EXPORT_DIR)")

	var chartFF filterFlags
	chartsCmd := &cobra.Command{
		Use:   "charts",
		Short: "Render every chart as an HTML page",
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := loadSnapshot(cmd.Context(), e, chartFF)
			if err != nil {
				return err
			}
			paths, err := report.SaveCharts(outDir(e, out), snap)
			if err != nil {
				return err
			}
			for _, p := range paths {
				printf(cmd, "%s\n", p)
			}
			return nil
		},
	}
	chartFF.bind(chartsCmd)
	chartsCmd.Flags().StringVarP(&out, "out", "o", "", "output directory (defaults to EXPORT_DIR)")

	var bookFF filterFlags
	workbookCmd := &cobra.Command{
		Use:   "workbook",
		Short: "Write every report into one spreadsheet",
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := loadSnapshot(cmd.Context(), e, bookFF)
			if err != nil {
				return err
			}
			dir := outDir(e, out)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create export dir: %w", err)
			}
			path := filepath.Join(dir, report.WorkbookFileName)
			f, err := os.Create(path)
			if err != nil {
				return err
			}
			if err := report.WriteWorkbook(f, snap); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			printf(cmd, "%s\n", path)
			return nil
		},
	}
	bookFF.bind(workbookCmd)
	workbookCmd.Flags().StringVarP(&out, "out", "o", "", "output directory (defaults to EXPORT_DIR)")

	var watchFF filterFlags
	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Refresh the dashboard on REPORT_REFRESH_INTERVAL and log the KPIs",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := watchFF.filters()
			if err != nil {
				return err
			}
			w := e.app.Watcher(f)
			if err := w.Start(); err != nil {
				return err
			}
			defer w.Stop()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			<-quit
			e.app.Logger.Info().Msg("report watcher stopping")
			return nil
		},
	}
	watchFF.bind(watchCmd)

	cmd.AddCommand(showCmd, exportCmd, chartsCmd, workbookCmd, watchCmd)
	return cmd
}

// loadSnapshot runs every report query once. A failed section is reported in
// the snapshot rather than as an error.
func loadSnapshot(ctx context.Context, e *env, ff filterFlags) (report.Snapshot, error) {
	f, err := ff.filters()
	if err != nil {
		return report.Snapshot{}, err
	}
	ctx, cancel := context.WithTimeout(ctx, e.app.Config.HTTPTimeout+5*time.Second)
	defer cancel()
	e.app.Dashboard.Load(ctx, f)
	if err := e.app.Dashboard.Wait(ctx); err != nil {
		return report.Snapshot{}, err
	}
	if err := e.app.Dashboard.Err(); err != nil {
		e.app.Logger.Warn().Err(err).Msg("some reports failed to load")
	}
	return e.app.Dashboard.Snapshot(time.Now()), nil
}

func outDir(e *env, out string) string {
	if out != "" {
		return out
	}
	return e.app.Config.ExportDir
}
