package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"budgetdash/internal/amqp"
	"budgetdash/internal/axis"
	"budgetdash/internal/core"
	"budgetdash/internal/datasource"
	"budgetdash/internal/report"
)

// ErrExportUnavailable is returned when no job queue is configured.
var ErrExportUnavailable = errors.New("report export queue not configured")

// ExportPublisher queues export jobs.
type ExportPublisher interface {
	PublishReportExport(ctx context.Context, msg *amqp.ReportExportMessage) error
}

// ReportService shapes analytics from a source into chart series and exports.
type ReportService struct {
	source    datasource.AnalyticsSource
	publisher ExportPublisher
}

// NewReportService wires a source and an optional publisher.
func NewReportService(source datasource.AnalyticsSource, publisher ExportPublisher) *ReportService {
	return &ReportService{source: source, publisher: publisher}
}

func (s *ReportService) CategoryPie(ctx context.Context) (core.RenderableSeries, error) {
	p, err := s.source.Insights(ctx)
	if err != nil {
		return core.RenderableSeries{}, fmt.Errorf("fetch insights: %w", err)
	}
	return report.BuildCategoryPie(p)
}

// MonthlyTrend returns the monthly series, sorted by calendar period when
// chronological is set and in payload order otherwise.
func (s *ReportService) MonthlyTrend(ctx context.Context, chronological bool) (core.RenderableSeries, error) {
	p, err := s.source.Insights(ctx)
	if err != nil {
		return core.RenderableSeries{}, fmt.Errorf("fetch insights: %w", err)
	}
	if chronological && p.MonthlySummary != nil {
		p.MonthlySummary = axis.Chronological(p.MonthlySummary)
	}
	return report.BuildMonthlyTrend(p)
}

func (s *ReportService) CategoryMonthly(ctx context.Context) (core.Matrix, error) {
	p, err := s.source.Analytics(ctx)
	if err != nil {
		return core.Matrix{}, fmt.Errorf("fetch analytics: %w", err)
	}
	return report.BuildCategoryMonthlyMatrix(p)
}

func (s *ReportService) Merchants(ctx context.Context) (core.RenderableSeries, error) {
	p, err := s.source.Analytics(ctx)
	if err != nil {
		return core.RenderableSeries{}, fmt.Errorf("fetch analytics: %w", err)
	}
	return report.BuildMerchantFrequency(p)
}

// Dashboard fetches insights and analytics concurrently and builds every
// series from that single snapshot.
func (s *ReportService) Dashboard(ctx context.Context) (report.Dashboard, error) {
	var (
		insights  core.AnalyticsPayload
		analytics core.AdvancedAnalyticsPayload
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.source.Insights(gctx)
		if err != nil {
			return fmt.Errorf("fetch insights: %w", err)
		}
		insights = p
		return nil
	})
	g.Go(func() error {
		p, err := s.source.Analytics(gctx)
		if err != nil {
			return fmt.Errorf("fetch analytics: %w", err)
		}
		analytics = p
		return nil
	})
	if err := g.Wait(); err != nil {
		return report.Dashboard{}, err
	}

	return report.BuildDashboard(insights, analytics)
}

// SummaryCSV renders the summary export.
func (s *ReportService) SummaryCSV(ctx context.Context) (string, error) {
	p, err := s.source.Insights(ctx)
	if err != nil {
		return "", fmt.Errorf("fetch insights: %w", err)
	}
	return report.ExportSummaryCSV(p)
}

// DetailedCSV renders the per-category percentage export.
func (s *ReportService) DetailedCSV(ctx context.Context) (string, error) {
	p, err := s.source.Insights(ctx)
	if err != nil {
		return "", fmt.Errorf("fetch insights: %w", err)
	}
	return report.ExportDetailedCSV(p)
}

// Table returns the table behind an export kind.
func (s *ReportService) Table(ctx context.Context, kind string) (core.ReportTable, error) {
	p, err := s.source.Insights(ctx)
	if err != nil {
		return core.ReportTable{}, fmt.Errorf("fetch insights: %w", err)
	}
	switch kind {
	case amqp.KindDetailed:
		return report.DetailedTable(p)
	case amqp.KindSummary:
		return report.SummaryTable(p)
	default:
		return core.ReportTable{}, fmt.Errorf("unknown export kind %q", kind)
	}
}

// RequestExport queues an export job and returns it.
func (s *ReportService) RequestExport(ctx context.Context, kind string) (*amqp.ReportExportMessage, error) {
	if s.publisher == nil {
		return nil, ErrExportUnavailable
	}
	msg := amqp.NewReportExportMessage(kind)
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	if err := s.publisher.PublishReportExport(ctx, msg); err != nil {
		return nil, fmt.Errorf("queue export: %w", err)
	}
	slog.InfoContext(ctx, "Report export queued", "id", msg.ID, "kind", kind)
	return msg, nil
}
