// Package remote is an HTTP client for the budget data service.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"budgetdash/internal/core"
	"budgetdash/internal/report"
)

// DefaultBaseURL is where a locally started server listens.
const DefaultBaseURL = "http://127.0.0.1:8000"

// ErrUnexpectedStatus is wrapped by every non-2xx response error.
var ErrUnexpectedStatus = errors.New("unexpected status")

// Client talks to the /budgets and /reports endpoints of a server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

type (
	// BudgetLimit is one entry of GET /budgets/view.
	BudgetLimit struct {
		Category    string  `json:"category"`
		BudgetLimit float64 `json:"budget_limit"`
	}

	// ExportJob is the reply to an export request.
	ExportJob struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}

	messageReply struct {
		Message string `json:"message"`
	}
)

// New creates a client using DefaultBaseURL.
func New() *Client {
	return NewWithBaseURL(DefaultBaseURL)
}

// NewWithBaseURL creates a client for the server at baseURL.
func NewWithBaseURL(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// UploadCSV posts a transactions CSV as the multipart "file" field.
func (c *Client) UploadCSV(ctx context.Context, filename string, r io.Reader) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("build upload form: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", fmt.Errorf("copy upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("close upload form: %w", err)
	}

	var out messageReply
	if err := c.do(ctx, http.MethodPost, "/budgets/upload-csv", mw.FormDataContentType(), &body, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// ClearTransactions calls DELETE /budgets/transactions/clear.
func (c *Client) ClearTransactions(ctx context.Context) (string, error) {
	var out messageReply
	if err := c.do(ctx, http.MethodDelete, "/budgets/transactions/clear", "", nil, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// SetBudget calls POST /budgets/.
func (c *Client) SetBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	var out core.Budget
	if err := c.postJSON(ctx, "/budgets/", b, &out); err != nil {
		return core.Budget{}, err
	}
	return out, nil
}

// SetBudgets calls POST /budgets/bulk.
func (c *Client) SetBudgets(ctx context.Context, budgets []core.Budget) ([]core.Budget, error) {
	var out []core.Budget
	if err := c.postJSON(ctx, "/budgets/bulk", budgets, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ViewBudgets calls GET /budgets/view.
func (c *Client) ViewBudgets(ctx context.Context) ([]BudgetLimit, error) {
	var out []BudgetLimit
	if err := c.do(ctx, http.MethodGet, "/budgets/view", "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ClearBudgets calls DELETE /budgets/clear-limits.
func (c *Client) ClearBudgets(ctx context.Context) (string, error) {
	var out messageReply
	if err := c.do(ctx, http.MethodDelete, "/budgets/clear-limits", "", nil, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// ComputeSpend calls GET /budgets/compute_spend.
func (c *Client) ComputeSpend(ctx context.Context) ([]core.BudgetStatus, error) {
	var out struct {
		Summary []core.BudgetStatus `json:"summary"`
	}
	if err := c.do(ctx, http.MethodGet, "/budgets/compute_spend", "", nil, &out); err != nil {
		return nil, err
	}
	return out.Summary, nil
}

// Insights implements datasource.AnalyticsSource over GET /budgets/insights.
func (c *Client) Insights(ctx context.Context) (core.AnalyticsPayload, error) {
	raw, err := c.raw(ctx, http.MethodGet, "/budgets/insights")
	if err != nil {
		return core.AnalyticsPayload{}, err
	}
	return report.DecodeAnalytics(raw)
}

// Analytics implements datasource.AnalyticsSource over GET /budgets/analytics.
func (c *Client) Analytics(ctx context.Context) (core.AdvancedAnalyticsPayload, error) {
	raw, err := c.raw(ctx, http.MethodGet, "/budgets/analytics")
	if err != nil {
		return core.AdvancedAnalyticsPayload{}, err
	}
	return report.DecodeAdvanced(raw)
}

// DownloadReport returns the detailed insights CSV.
func (c *Client) DownloadReport(ctx context.Context) ([]byte, error) {
	return c.raw(ctx, http.MethodGet, "/budgets/download-report")
}

// RequestExport asks the server to queue a summary export job.
func (c *Client) RequestExport(ctx context.Context) (ExportJob, error) {
	var out ExportJob
	if err := c.do(ctx, http.MethodPost, "/reports/summary/export", "", nil, &out); err != nil {
		return ExportJob{}, err
	}
	return out, nil
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, "application/json", bytes.NewReader(body), out)
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, out any) error {
	raw, err := c.send(ctx, method, path, contentType, body)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) raw(ctx context.Context, method, path string) ([]byte, error) {
	return c.send(ctx, method, path, "", nil)
}

func (c *Client) send(ctx context.Context, method, path, contentType string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build %s %s request: %w", method, path, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s %s response: %w", method, path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%s %s: %w %d: %s", method, path, ErrUnexpectedStatus, resp.StatusCode, errorDetail(raw))
	}
	return raw, nil
}

// errorDetail extracts {"error": ...} or {"detail": ...} from an error body.
func errorDetail(raw []byte) string {
	var body struct {
		Error  string `json:"error"`
		Detail string `json:"detail"`
	}
	if json.Unmarshal(raw, &body) == nil {
		if body.Error != "" {
			return body.Error
		}
		if body.Detail != "" {
			return body.Detail
		}
	}
	return strings.TrimSpace(string(raw))
}
