package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"budgetdash/internal/core"
	applog "budgetdash/internal/log"
)

const maxJSONBodyBytes = 1 << 20

// writeJSON encodes v as the response body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeError writes the {"error": msg} body used by the report API.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeDetail writes the {"detail": msg} body the data service API has always used.
func writeDetail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"detail": msg})
}

// writeMessage writes a {"message": msg} acknowledgement.
func writeMessage(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusOK, map[string]string{"message": msg})
}

// writeAttachment sends body as a downloadable file.
func writeAttachment(w http.ResponseWriter, filename, contentType, body string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, body)
}

// decodeJSON reads a size-limited JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// reportStatus maps report pipeline errors to a status code. Malformed
// upstream documents are 422; anything else is a failed dependency.
func reportStatus(err error) int {
	if errors.Is(err, core.ErrMalformedPayload) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadGateway
}

// failReport logs err and writes the matching report API error.
func failReport(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := reportStatus(err)
	logger := applog.FromContext(r.Context()).WithComponent(applog.ComponentReport)
	fields := applog.NewFields().WithOperation(op).WithError(err)
	if status == http.StatusUnprocessableEntity {
		logger.WarnContext(r.Context(), "Malformed analytics payload", fields.ToSlice()...)
	} else {
		logger.ErrorContext(r.Context(), "Report request failed", fields.ToSlice()...)
	}
	writeError(w, status, err.Error())
}

// clientIP returns the caller address, honouring proxy headers.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
