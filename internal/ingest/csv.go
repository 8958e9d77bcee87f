// Package ingest parses uploaded transaction CSV files.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"budgetdash/internal/core"
)

// ErrMissingColumns is returned when the header lacks description or amount.
var ErrMissingColumns = errors.New("CSV must have 'description' and 'amount' columns")

// ErrUnreadable wraps CSV syntax and read errors.
var ErrUnreadable = errors.New("unable to read CSV")

// DateLayouts are tried in order for the optional date column.
var DateLayouts = []string{"2006-01-02", "02-01-2006", "02/01/2006", "2006/01/02"}

// Row is one uploaded line before classification.
type Row struct {
	Description string
	Amount      float64
	Date        core.Date
}

// Parser reads transaction rows. Now supplies the date for rows without a
// usable date and defaults to core.Today.
type Parser struct {
	Now func() core.Date
}

// Parse reads every row of r. A bad amount or empty description aborts the
// whole upload with an error naming the offending row.
func (p Parser) Parse(r io.Reader) ([]Row, error) {
	now := p.Now
	if now == nil {
		now = core.Today
	}

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrMissingColumns
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}

	cols := columns(header)
	descIdx, okDesc := cols["description"]
	amountIdx, okAmount := cols["amount"]
	if !okDesc || !okAmount {
		return nil, ErrMissingColumns
	}
	dateIdx, hasDate := cols["date"]
	if !hasDate {
		dateIdx, hasDate = cols["Date"]
	}

	var rows []Row
	for line := 2; ; line++ {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
		}
		if blank(rec) {
			continue
		}

		desc := field(rec, descIdx)
		amount, err := core.ParseAmount(field(rec, amountIdx))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w for description '%s'", line, err, desc)
		}
		if strings.TrimSpace(desc) == "" {
			return nil, fmt.Errorf("line %d: %w", line, core.ErrEmptyDescription)
		}

		date := now()
		if hasDate {
			if d, ok := ParseDate(field(rec, dateIdx)); ok {
				date = d
			}
		}
		rows = append(rows, Row{Description: desc, Amount: amount, Date: date})
	}
	return rows, nil
}

// ParseDate tries each of DateLayouts.
func ParseDate(s string) (core.Date, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return core.Date{}, false
	}
	for _, layout := range DateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return core.Date{Time: t}, true
		}
	}
	return core.Date{}, false
}

func columns(header []string) map[string]int {
	out := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := out[h]; !dup {
			out[h] = i
		}
	}
	return out
}

func field(rec []string, i int) string {
	if i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
