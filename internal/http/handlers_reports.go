package http

import (
	"errors"
	"net/http"

	"budgetdash/internal/amqp"
	applog "budgetdash/internal/log"
	"budgetdash/internal/report"
	"budgetdash/internal/services"
)

// wantsChart reports whether the caller asked for Chart.js shaped output.
func wantsChart(r *http.Request) bool {
	return r.URL.Query().Get("format") == "chart"
}

func (s *Server) handleCategoryPie(w http.ResponseWriter, r *http.Request) {
	series, err := s.deps.Reports.CategoryPie(r.Context())
	if err != nil {
		failReport(w, r, "category_pie", err)
		return
	}
	if wantsChart(r) {
		writeJSON(w, http.StatusOK, report.PieChart(series))
		return
	}
	writeJSON(w, http.StatusOK, series)
}

func (s *Server) handleMonthlyTrend(w http.ResponseWriter, r *http.Request) {
	chronological := r.URL.Query().Get("order") == "chronological"
	series, err := s.deps.Reports.MonthlyTrend(r.Context(), chronological)
	if err != nil {
		failReport(w, r, "monthly_trend", err)
		return
	}
	if wantsChart(r) {
		writeJSON(w, http.StatusOK, report.LineChart(series))
		return
	}
	writeJSON(w, http.StatusOK, series)
}

func (s *Server) handleCategoryMonthly(w http.ResponseWriter, r *http.Request) {
	m, err := s.deps.Reports.CategoryMonthly(r.Context())
	if err != nil {
		failReport(w, r, "category_monthly", err)
		return
	}
	if wantsChart(r) {
		writeJSON(w, http.StatusOK, report.MatrixChart(m))
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleMerchants(w http.ResponseWriter, r *http.Request) {
	series, err := s.deps.Reports.Merchants(r.Context())
	if err != nil {
		failReport(w, r, "merchants", err)
		return
	}
	if wantsChart(r) {
		writeJSON(w, http.StatusOK, report.BarChart(series))
		return
	}
	writeJSON(w, http.StatusOK, series)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := s.deps.Reports.Dashboard(r.Context())
	if err != nil {
		failReport(w, r, "dashboard", err)
		return
	}
	if wantsChart(r) {
		writeJSON(w, http.StatusOK, d.Charts())
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleSummaryCSV(w http.ResponseWriter, r *http.Request) {
	body, err := s.deps.Reports.SummaryCSV(r.Context())
	if err != nil {
		failReport(w, r, "summary_csv", err)
		return
	}
	applog.NewStructuredLogger(applog.FromContext(r.Context())).LogReportBuilt(r.Context(), amqp.KindSummary, len(body))
	writeAttachment(w, report.SummaryFilename, report.ContentTypeCSV, body)
}

// exportRequest is the optional body of POST /reports/summary/export.
type exportRequest struct {
	Kind string `json:"kind"`
}

func (s *Server) handleRequestExport(w http.ResponseWriter, r *http.Request) {
	req := exportRequest{Kind: amqp.KindSummary}
	if r.ContentLength > 0 {
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if req.Kind == "" {
			req.Kind = amqp.KindSummary
		}
	}

	msg, err := s.deps.Reports.RequestExport(r.Context(), req.Kind)
	switch {
	case errors.Is(err, services.ErrExportUnavailable):
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	case errors.Is(err, amqp.ErrInvalidMessage):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		s.logger.LogError(r.Context(), "Queueing export failed", err, applog.ComponentAMQP, applog.OpPublish, nil)
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{
		"id":     msg.ID,
		"kind":   msg.Kind,
		"status": "queued",
	})
}
