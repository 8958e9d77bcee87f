package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"budgetdash/internal/amqp"
	"budgetdash/internal/core"
	"budgetdash/internal/datasource/memory"
	applog "budgetdash/internal/log"
	"budgetdash/internal/report"
	"budgetdash/internal/services"
)

const sampleCSV = "description,amount,date\n" +
	"Swiggy dinner,100,2025-02-03\n" +
	"Uber ride,50,2025-01-09\n" +
	"Random thing,25,2025-01-20\n"

type fakePublisher struct {
	published []*amqp.ReportExportMessage
	err       error
}

func (f *fakePublisher) PublishReportExport(_ context.Context, msg *amqp.ReportExportMessage) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, msg)
	return nil
}

type staticSource struct {
	insights  core.AnalyticsPayload
	analytics core.AdvancedAnalyticsPayload
}

func (s staticSource) Insights(context.Context) (core.AnalyticsPayload, error) {
	return s.insights, nil
}

func (s staticSource) Analytics(context.Context) (core.AdvancedAnalyticsPayload, error) {
	return s.analytics, nil
}

func quietLogger() *applog.Logger {
	return applog.New(applog.Config{Output: io.Discard})
}

func newTestServer(t *testing.T, publisher services.ExportPublisher) (*Server, *memory.Store) {
	t.Helper()
	store := memory.New()
	analytics := services.NewAnalyticsService(store)
	s := NewServer(":0", Deps{
		Imports:            services.NewImportService(store, nil),
		Budgets:            services.NewBudgetService(store),
		Analytics:          analytics,
		Reports:            services.NewReportService(analytics, publisher),
		Logger:             quietLogger(),
		RateLimitPerMinute: 1000,
		CORSAllowedOrigins: []string{"*"},
	})
	t.Cleanup(func() { s.rateLimiter.Stop() })
	return s, store
}

func do(t *testing.T, s *Server, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)
	return rec
}

func uploadRequest(t *testing.T, body string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "transactions.csv")
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	io.WriteString(part, body)
	mw.Close()
	req := httptest.NewRequest(http.MethodPost, "/budgets/upload-csv", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func seed(t *testing.T, s *Server) {
	t.Helper()
	rec := do(t, s, uploadRequest(t, sampleCSV))
	if rec.Code != http.StatusOK {
		t.Fatalf("upload status = %d body=%s", rec.Code, rec.Body.String())
	}
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestHealthAndReady(t *testing.T) {
	s, _ := newTestServer(t, nil)

	if rec := do(t, s, httptest.NewRequest(http.MethodGet, "/healthz", nil)); rec.Code != http.StatusOK {
		t.Fatalf("healthz = %d", rec.Code)
	}
	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("readyz = %d body=%s", rec.Code, rec.Body.String())
	}

	s.deps.Ready = func(context.Context) error { return errors.New("db down") }
	rec = do(t, s, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusServiceUnavailable || !strings.Contains(rec.Body.String(), "db down") {
		t.Fatalf("readyz = %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestUploadCSV(t *testing.T) {
	s, store := newTestServer(t, nil)

	rec := do(t, s, uploadRequest(t, sampleCSV))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	got := decode[map[string]string](t, rec)
	if got["message"] != "3 transactions uploaded, classified and saved." {
		t.Fatalf("message = %q", got["message"])
	}
	txns, _ := store.ListTransactions(context.Background())
	if len(txns) != 3 || txns[0].Category != "Food & Beverage" {
		t.Fatalf("stored transactions = %+v", txns)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatal("expected X-Request-ID header")
	}
}

func TestUploadCSVErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantDetail string
	}{
		{"missing columns", "name,value\nx,1\n", "CSV must have 'description' and 'amount' columns"},
		{"bad amount", "description,amount\nLunch,abc\n", "for description 'Lunch'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestServer(t, nil)
			rec := do(t, s, uploadRequest(t, tt.body))
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
			}
			got := decode[map[string]string](t, rec)
			if !strings.Contains(got["detail"], tt.wantDetail) {
				t.Fatalf("detail = %q, want containing %q", got["detail"], tt.wantDetail)
			}
		})
	}

	s, _ := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/budgets/upload-csv", strings.NewReader("not multipart"))
	if rec := do(t, s, req); rec.Code != http.StatusBadRequest {
		t.Fatalf("non-multipart upload status = %d", rec.Code)
	}
}

func TestClearTransactions(t *testing.T) {
	s, _ := newTestServer(t, nil)
	seed(t, s)

	rec := do(t, s, httptest.NewRequest(http.MethodDelete, "/budgets/transactions/clear", nil))
	if got := decode[map[string]string](t, rec); got["message"] != "Deleted 3 transactions successfully." {
		t.Fatalf("message = %q", got["message"])
	}
}

func TestBudgetEndpoints(t *testing.T) {
	s, _ := newTestServer(t, nil)
	seed(t, s)

	rec := do(t, s, httptest.NewRequest(http.MethodPost, "/budgets/", strings.NewReader(`{"category":"Food & Beverage","limit":90}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("set status = %d body=%s", rec.Code, rec.Body.String())
	}
	saved := decode[core.Budget](t, rec)
	if saved.ID == 0 || saved.Limit != 90 {
		t.Fatalf("saved = %+v", saved)
	}

	rec = do(t, s, httptest.NewRequest(http.MethodPost, "/budgets/bulk",
		strings.NewReader(`[{"category":"Transport","limit":100},{"category":"Food & Beverage","limit":120}]`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("bulk status = %d body=%s", rec.Code, rec.Body.String())
	}
	if got := decode[[]core.Budget](t, rec); len(got) != 2 || got[1].ID != saved.ID {
		t.Fatalf("bulk = %+v", got)
	}

	rec = do(t, s, httptest.NewRequest(http.MethodGet, "/budgets/view", nil))
	view := decode[[]budgetLimit](t, rec)
	if len(view) != 2 || view[0] != (budgetLimit{Category: "Food & Beverage", BudgetLimit: 120}) {
		t.Fatalf("view = %+v", view)
	}

	rec = do(t, s, httptest.NewRequest(http.MethodGet, "/budgets/compute_spend", nil))
	spend := decode[struct {
		Summary []core.BudgetStatus `json:"summary"`
	}](t, rec)
	if len(spend.Summary) != 3 {
		t.Fatalf("summary = %+v", spend.Summary)
	}
	if spend.Summary[0].Category != "Food & Beverage" || spend.Summary[0].Status != core.StatusCloseToLimit {
		t.Fatalf("first status = %+v", spend.Summary[0])
	}
	if last := spend.Summary[2]; last.Status != core.StatusNoBudget || last.SpentPercent != nil {
		t.Fatalf("unbudgeted status = %+v", last)
	}

	rec = do(t, s, httptest.NewRequest(http.MethodDelete, "/budgets/clear-limits", nil))
	if got := decode[map[string]string](t, rec); got["message"] != "Cleared 2 budget limits successfully." {
		t.Fatalf("message = %q", got["message"])
	}
}

func TestBudgetValidation(t *testing.T) {
	s, _ := newTestServer(t, nil)

	tests := []struct {
		name string
		path string
		body string
	}{
		{"invalid json", "/budgets/", `{"category":`},
		{"empty category", "/budgets/", `{"category":" ","limit":10}`},
		{"negative limit", "/budgets/", `{"category":"Food","limit":-1}`},
		{"bulk with one invalid", "/budgets/bulk", `[{"category":"Food","limit":10},{"category":"","limit":5}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, httptest.NewRequest(http.MethodPost, tt.path, strings.NewReader(tt.body)))
			if rec.Code != http.StatusUnprocessableEntity {
				t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
			}
		})
	}

	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/budgets/view", nil))
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("no budget should be stored, got %s", rec.Body.String())
	}
}

func TestInsightsAndAnalytics(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/budgets/analytics", nil))
	if got := decode[map[string]any](t, rec); got["message"] != "No transaction data available." {
		t.Fatalf("empty analytics = %v", got)
	}

	seed(t, s)
	rec = do(t, s, httptest.NewRequest(http.MethodGet, "/budgets/insights", nil))
	p, err := report.DecodeAnalytics(rec.Body.Bytes())
	if err != nil {
		t.Fatalf("DecodeAnalytics: %v", err)
	}
	if p.TotalSpent != 175 || strings.Join(core.Labels(p.CategoryBreakdown), "|") != "Food & Beverage|Transport|Uncategorized" {
		t.Fatalf("insights = %+v", p)
	}

	rec = do(t, s, httptest.NewRequest(http.MethodGet, "/budgets/analytics", nil))
	if _, err := report.DecodeAdvanced(rec.Body.Bytes()); err != nil {
		t.Fatalf("DecodeAdvanced: %v body=%s", err, rec.Body.String())
	}
}

func TestDownloadReport(t *testing.T) {
	s, _ := newTestServer(t, nil)
	seed(t, s)

	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/budgets/download-report", nil))
	if rec.Header().Get("Content-Type") != "text/csv" {
		t.Fatalf("content type = %q", rec.Header().Get("Content-Type"))
	}
	if rec.Header().Get("Content-Disposition") != "attachment; filename=insights_report.csv" {
		t.Fatalf("disposition = %q", rec.Header().Get("Content-Disposition"))
	}
	if !strings.HasPrefix(rec.Body.String(), "Category,Total Spent,Percentage\nFood & Beverage,100,57.14%") {
		t.Fatalf("body = %q", rec.Body.String())
	}
}

func TestReportSeries(t *testing.T) {
	s, _ := newTestServer(t, nil)
	seed(t, s)

	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/reports/category-pie", nil))
	pie := decode[core.RenderableSeries](t, rec)
	if strings.Join(pie.Labels, "|") != "Food & Beverage|Transport|Uncategorized" || pie.Values[0] != 100 {
		t.Fatalf("pie = %+v", pie)
	}

	rec = do(t, s, httptest.NewRequest(http.MethodGet, "/reports/category-pie?format=chart", nil))
	if chart := decode[report.Chart](t, rec); chart.Type != "pie" || len(chart.Datasets) != 1 {
		t.Fatalf("chart = %+v", chart)
	}

	rec = do(t, s, httptest.NewRequest(http.MethodGet, "/reports/monthly-trend?order=chronological", nil))
	trend := decode[core.RenderableSeries](t, rec)
	if strings.Join(trend.Labels, "|") != "2025-01|2025-02" || trend.Values[0] != 75 {
		t.Fatalf("trend = %+v", trend)
	}

	rec = do(t, s, httptest.NewRequest(http.MethodGet, "/reports/category-monthly", nil))
	m := decode[core.Matrix](t, rec)
	if strings.Join(m.Axis, "|") != "Feb 2025|Jan 2025" || len(m.Series) != 3 {
		t.Fatalf("matrix = %+v", m)
	}

	rec = do(t, s, httptest.NewRequest(http.MethodGet, "/reports/merchants", nil))
	if merchants := decode[core.RenderableSeries](t, rec); merchants.Len() == 0 {
		t.Fatalf("merchants = %+v", merchants)
	}

	rec = do(t, s, httptest.NewRequest(http.MethodGet, "/reports/dashboard?format=chart", nil))
	charts := decode[[]report.Chart](t, rec)
	if len(charts) != 4 || charts[3].Type != "bar" {
		t.Fatalf("charts = %+v", charts)
	}
}

func TestSummaryCSV(t *testing.T) {
	s, _ := newTestServer(t, nil)
	seed(t, s)

	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/reports/summary.csv", nil))
	if rec.Header().Get("Content-Disposition") != "attachment; filename=summary_report.csv" {
		t.Fatalf("disposition = %q", rec.Header().Get("Content-Disposition"))
	}
	if rec.Header().Get("Cache-Control") != "no-store" {
		t.Fatalf("cache control = %q", rec.Header().Get("Cache-Control"))
	}
	want := "Category,Amount\nFood & Beverage,100\nTransport,50\nUncategorized,25\n\nTotal Spent,175"
	if rec.Body.String() != want {
		t.Fatalf("body = %q, want %q", rec.Body.String(), want)
	}
}

func TestReportMalformedPayload(t *testing.T) {
	s := NewServer(":0", Deps{
		Reports: services.NewReportService(staticSource{}, nil),
		Logger:  quietLogger(),
	})
	defer s.rateLimiter.Stop()

	for _, path := range []string{"/reports/category-pie", "/reports/monthly-trend", "/reports/category-monthly", "/reports/merchants", "/reports/dashboard", "/reports/summary.csv"} {
		rec := do(t, s, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("%s status = %d body=%s", path, rec.Code, rec.Body.String())
		}
		if got := decode[map[string]string](t, rec); !strings.Contains(got["error"], "malformed payload") {
			t.Fatalf("%s error = %q", path, got["error"])
		}
	}
}

func TestRequestExport(t *testing.T) {
	s, _ := newTestServer(t, nil)
	rec := do(t, s, httptest.NewRequest(http.MethodPost, "/reports/summary/export", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("without publisher status = %d", rec.Code)
	}

	pub := &fakePublisher{}
	s, _ = newTestServer(t, pub)
	rec = do(t, s, httptest.NewRequest(http.MethodPost, "/reports/summary/export", nil))
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	got := decode[map[string]string](t, rec)
	if len(pub.published) != 1 || got["id"] != pub.published[0].ID || got["kind"] != amqp.KindSummary {
		t.Fatalf("reply = %v published = %v", got, pub.published)
	}

	rec = do(t, s, httptest.NewRequest(http.MethodPost, "/reports/summary/export", strings.NewReader(`{"kind":"pdf"}`)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown kind status = %d", rec.Code)
	}

	pub.err = errors.New("broker down")
	rec = do(t, s, httptest.NewRequest(http.MethodPost, "/reports/summary/export", strings.NewReader(`{"kind":"detailed"}`)))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("publish failure status = %d", rec.Code)
	}
}

func TestRateLimitAppliesToMutations(t *testing.T) {
	store := memory.New()
	s := NewServer(":0", Deps{
		Budgets:            services.NewBudgetService(store),
		Logger:             quietLogger(),
		RateLimitPerMinute: 1,
	})
	defer s.rateLimiter.Stop()

	for i := 0; i < 3; i++ {
		if rec := do(t, s, httptest.NewRequest(http.MethodGet, "/budgets/view", nil)); rec.Code != http.StatusOK {
			t.Fatalf("GET %d status = %d", i, rec.Code)
		}
	}
	do(t, s, httptest.NewRequest(http.MethodDelete, "/budgets/clear-limits", nil))
	rec := do(t, s, httptest.NewRequest(http.MethodDelete, "/budgets/clear-limits", nil))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second DELETE status = %d", rec.Code)
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded chain", map[string]string{"X-Forwarded-For": "1.1.1.1, 2.2.2.2"}, "3.3.3.3:1", "1.1.1.1"},
		{"real ip", map[string]string{"X-Real-IP": "4.4.4.4"}, "3.3.3.3:1", "4.4.4.4"},
		{"remote addr", nil, "3.3.3.3:1234", "3.3.3.3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := clientIP(r); got != tt.want {
				t.Fatalf("clientIP = %q, want %q", got, tt.want)
			}
		})
	}
}
