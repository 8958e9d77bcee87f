package amqp

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Export kinds understood by the report worker.
const (
	KindSummary  = "summary"
	KindDetailed = "detailed"
)

// ErrInvalidMessage is wrapped by every message validation failure.
var ErrInvalidMessage = errors.New("invalid report export message")

// ReportExportMessage asks the worker to build and write one report export.
// The worker fetches fresh analytics when it handles the message.
type ReportExportMessage struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	RequestedAt time.Time `json:"requested_at"`
}

// NewReportExportMessage creates a message with a fresh job id.
func NewReportExportMessage(kind string) *ReportExportMessage {
	return &ReportExportMessage{
		ID:          uuid.NewString(),
		Kind:        kind,
		RequestedAt: time.Now().UTC(),
	}
}

func (m *ReportExportMessage) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("%w: missing job id", ErrInvalidMessage)
	}
	switch m.Kind {
	case KindSummary, KindDetailed:
		return nil
	default:
		return fmt.Errorf("%w: unknown export kind %q", ErrInvalidMessage, m.Kind)
	}
}

// ToJSON converts the message to JSON bytes
func (m *ReportExportMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ReportExportMessageFromJSON decodes and validates a message.
func ReportExportMessageFromJSON(data []byte) (*ReportExportMessage, error) {
	var msg ReportExportMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return &msg, nil
}
