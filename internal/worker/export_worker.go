package worker

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"budgetdash/internal/amqp"
	"budgetdash/internal/core"
	"budgetdash/internal/report"
)

// TableSource builds the table behind an export kind.
type TableSource interface {
	Table(ctx context.Context, kind string) (core.ReportTable, error)
}

// TablePublisher pushes a finished table to an external destination.
type TablePublisher interface {
	PublishTable(ctx context.Context, t core.ReportTable) error
}

// ExportWorker handles report export jobs from AMQP: it rebuilds the
// requested table, writes it as CSV under dir and optionally mirrors it to a
// TablePublisher.
type ExportWorker struct {
	source    TableSource
	dir       string
	publisher TablePublisher
}

// NewExportWorker creates a worker. publisher may be nil.
func NewExportWorker(source TableSource, dir string, publisher TablePublisher) *ExportWorker {
	return &ExportWorker{
		source:    source,
		dir:       dir,
		publisher: publisher,
	}
}

// HandleExportMessage processes a single export message. The consumer requeues
// the message on error unless the error wraps core.ErrMalformedPayload.
func (w *ExportWorker) HandleExportMessage(ctx context.Context, msg *amqp.ReportExportMessage) error {
	slog.InfoContext(ctx, "Processing report export",
		"job_id", msg.ID,
		"kind", msg.Kind,
		"requested_at", msg.RequestedAt)

	table, err := w.source.Table(ctx, msg.Kind)
	if err != nil {
		return fmt.Errorf("build %s table: %w", msg.Kind, err)
	}

	path, err := w.writeFile(msg, table)
	if err != nil {
		return err
	}

	if w.publisher != nil {
		if err := w.publisher.PublishTable(ctx, table); err != nil {
			return fmt.Errorf("publish %s table: %w", msg.Kind, err)
		}
	}

	slog.InfoContext(ctx, "Report export completed",
		"job_id", msg.ID,
		"kind", msg.Kind,
		"path", path,
		"rows", len(table.Rows),
		"published", w.publisher != nil)
	return nil
}

// ExportPath returns where the CSV for msg is written.
func (w *ExportWorker) ExportPath(msg *amqp.ReportExportMessage) string {
	name := report.SummaryFilename
	if msg.Kind == amqp.KindDetailed {
		name = report.DetailedFilename
	}
	return filepath.Join(w.dir, msg.ID+"-"+name)
}

// writeFile writes through a temp file so readers never see a partial export.
func (w *ExportWorker) writeFile(msg *amqp.ReportExportMessage, table core.ReportTable) (string, error) {
	body, err := report.EncodeCSV(table)
	if err != nil {
		return "", fmt.Errorf("encode %s csv: %w", msg.Kind, err)
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}

	tmp, err := os.CreateTemp(w.dir, ".export-*")
	if err != nil {
		return "", fmt.Errorf("create temp export: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(body); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write export: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close export: %w", err)
	}

	path := w.ExportPath(msg)
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("move export into place: %w", err)
	}
	return path, nil
}
