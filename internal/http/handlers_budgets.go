package http

import (
	"errors"
	"fmt"
	"net/http"

	"budgetdash/internal/core"
	"budgetdash/internal/ingest"
	applog "budgetdash/internal/log"
	"budgetdash/internal/report"
)

const maxUploadBytes = 10 << 20

func (s *Server) handleUploadCSV(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, _, err := r.FormFile("file")
	if err != nil {
		writeDetail(w, http.StatusBadRequest, fmt.Sprintf("Unable to read CSV: %v", err))
		return
	}
	defer file.Close()

	saved, err := s.deps.Imports.Import(r.Context(), file)
	if err != nil {
		if isUploadError(err) {
			writeDetail(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.LogError(r.Context(), "CSV import failed", err, applog.ComponentIngest, applog.OpImport, nil)
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}

	applog.NewStructuredLogger(applog.FromContext(r.Context())).LogTransactionsImported(r.Context(), saved)
	writeMessage(w, fmt.Sprintf("%d transactions uploaded, classified and saved.", saved))
}

func isUploadError(err error) bool {
	return errors.Is(err, ingest.ErrMissingColumns) ||
		errors.Is(err, ingest.ErrUnreadable) ||
		errors.Is(err, core.ErrInvalidAmount) ||
		errors.Is(err, core.ErrEmptyDescription)
}

func (s *Server) handleClearTransactions(w http.ResponseWriter, r *http.Request) {
	n, err := s.deps.Imports.Clear(r.Context())
	if err != nil {
		s.logger.LogError(r.Context(), "Clearing transactions failed", err, applog.ComponentStorage, applog.OpClear, nil)
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeMessage(w, fmt.Sprintf("Deleted %d transactions successfully.", n))
}

func (s *Server) handleSetBudget(w http.ResponseWriter, r *http.Request) {
	var b core.Budget
	if err := decodeJSON(w, r, &b); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	b.ID = 0

	saved, err := s.deps.Budgets.Set(r.Context(), b)
	if err != nil {
		s.writeBudgetError(w, r, err)
		return
	}
	applog.NewStructuredLogger(applog.FromContext(r.Context())).LogBudgetSet(r.Context(), saved.Category, saved.Limit)
	writeJSON(w, http.StatusOK, saved)
}

func (s *Server) handleSetBudgets(w http.ResponseWriter, r *http.Request) {
	var budgets []core.Budget
	if err := decodeJSON(w, r, &budgets); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	for i := range budgets {
		budgets[i].ID = 0
	}

	saved, err := s.deps.Budgets.SetBulk(r.Context(), budgets)
	if err != nil {
		s.writeBudgetError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (s *Server) writeBudgetError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, core.ErrEmptyCategory) || errors.Is(err, core.ErrInvalidLimit) {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	s.logger.LogError(r.Context(), "Saving budget failed", err, applog.ComponentBudget, applog.OpUpsert, nil)
	writeDetail(w, http.StatusInternalServerError, err.Error())
}

// budgetLimit is the /view representation of a budget.
type budgetLimit struct {
	Category    string  `json:"category"`
	BudgetLimit float64 `json:"budget_limit"`
}

func (s *Server) handleViewBudgets(w http.ResponseWriter, r *http.Request) {
	budgets, err := s.deps.Budgets.List(r.Context())
	if err != nil {
		s.logger.LogError(r.Context(), "Listing budgets failed", err, applog.ComponentBudget, applog.OpList, nil)
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}
	out := make([]budgetLimit, len(budgets))
	for i, b := range budgets {
		out[i] = budgetLimit{Category: b.Category, BudgetLimit: b.Limit}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleClearBudgets(w http.ResponseWriter, r *http.Request) {
	n, err := s.deps.Budgets.Clear(r.Context())
	if err != nil {
		s.logger.LogError(r.Context(), "Clearing budgets failed", err, applog.ComponentBudget, applog.OpClear, nil)
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeMessage(w, fmt.Sprintf("Cleared %d budget limits successfully.", n))
}

func (s *Server) handleComputeSpend(w http.ResponseWriter, r *http.Request) {
	summary, err := s.deps.Analytics.SpendSummary(r.Context())
	if err != nil {
		s.logger.LogError(r.Context(), "Computing spend failed", err, applog.ComponentBudget, applog.OpBuild, nil)
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"summary": summary})
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	p, err := s.deps.Analytics.Insights(r.Context())
	if err != nil {
		s.logger.LogError(r.Context(), "Computing insights failed", err, applog.ComponentReport, applog.OpBuild, nil)
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	p, err := s.deps.Analytics.Analytics(r.Context())
	if err != nil {
		s.logger.LogError(r.Context(), "Computing analytics failed", err, applog.ComponentReport, applog.OpBuild, nil)
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleDownloadReport(w http.ResponseWriter, r *http.Request) {
	body, err := s.deps.Analytics.DetailedReport(r.Context())
	if err != nil {
		s.logger.LogError(r.Context(), "Building detailed report failed", err, applog.ComponentReport, applog.OpExport, nil)
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeAttachment(w, report.DetailedFilename, report.ContentTypeCSV, body)
}
