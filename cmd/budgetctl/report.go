package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"budgetdash/internal/report"
	"budgetdash/internal/render"
	"budgetdash/internal/services"
)

func newReportCmd(a *app) *cobra.Command {
	var chronological bool
	var outFile string

	reports := func() *services.ReportService {
		return services.NewReportService(a.client(), nil)
	}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render dashboard reports",
	}

	trend := &cobra.Command{
		Use:   "trend",
		Short: "Monthly spending trend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := withTimeout(cmd, a.timeout)
			defer cancel()
			s, err := reports().MonthlyTrend(ctx, chronological)
			if err != nil {
				return err
			}
			if a.asJSON {
				return a.printJSON(report.LineChart(s))
			}
			a.println(render.Series(report.TitleMonthlyTrend, s))
			return nil
		},
	}
	trend.Flags().BoolVar(&chronological, "chronological", false, "sort months by calendar order")

	download := &cobra.Command{
		Use:   "download",
		Short: "Download the detailed category report as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := withTimeout(cmd, a.timeout)
			defer cancel()
			body, err := a.client().DownloadReport(ctx)
			if err != nil {
				return err
			}
			if outFile == "" {
				_, err = a.out.Write(append(body, '\n'))
				return err
			}
			if err := os.WriteFile(outFile, body, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", outFile, err)
			}
			a.println(fmt.Sprintf("Report written to %s", outFile))
			return nil
		},
	}
	download.Flags().StringVarP(&outFile, "output", "o", "", "write to file instead of stdout")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "pie",
			Short: "Spend by category",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx, cancel := withTimeout(cmd, a.timeout)
				defer cancel()
				s, err := reports().CategoryPie(ctx)
				if err != nil {
					return err
				}
				if a.asJSON {
					return a.printJSON(report.PieChart(s))
				}
				a.println(render.Series(report.TitleCategoryPie, s))
				return nil
			},
		},
		trend,
		&cobra.Command{
			Use:   "matrix",
			Short: "Category spend per month",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx, cancel := withTimeout(cmd, a.timeout)
				defer cancel()
				m, err := reports().CategoryMonthly(ctx)
				if err != nil {
					return err
				}
				if a.asJSON {
					return a.printJSON(report.MatrixChart(m))
				}
				a.println(render.Matrix(report.TitleCategoryMonthly, m))
				return nil
			},
		},
		&cobra.Command{
			Use:   "merchants",
			Short: "Most frequent merchant keywords",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx, cancel := withTimeout(cmd, a.timeout)
				defer cancel()
				s, err := reports().Merchants(ctx)
				if err != nil {
					return err
				}
				if a.asJSON {
					return a.printJSON(report.BarChart(s))
				}
				a.println(render.Series(report.TitleMerchants, s))
				return nil
			},
		},
		&cobra.Command{
			Use:   "export",
			Short: "Queue a summary export job on the server",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx, cancel := withTimeout(cmd, a.timeout)
				defer cancel()
				job, err := a.client().RequestExport(ctx)
				if err != nil {
					return err
				}
				if a.asJSON {
					return a.printJSON(job)
				}
				a.println(fmt.Sprintf("Export job %s %s", job.ID, job.Status))
				return nil
			},
		},
		download,
	)
	return cmd
}
