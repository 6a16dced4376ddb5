package v1

import (
	"encoding/json"
	"errors"
	"time"
)

// ErrIncompleteEnvelope marks a JSON document that is not an event envelope.
var ErrIncompleteEnvelope = errors.New("event envelope requires event_type and data")

// Envelope is the versioned event envelope shared by the review service, its
// outbox and the upload notification feed. Fields must stay backward compatible.
type Envelope struct {
	EventID          string          `json:"event_id"`
	EventType        string          `json:"event_type"`
	OccurredAt       time.Time       `json:"occurred_at"`
	SourceService    string          `json:"source_service"`
	TraceID          string          `json:"trace_id"`
	SchemaVersion    int             `json:"schema_version"`
	PartitionKeyPath string          `json:"partition_key_path"`
	PartitionKey     string          `json:"partition_key"`
	Data             json.RawMessage `json:"data"`
}

// Complete reports whether the envelope names its type and carries a payload.
func (e Envelope) Complete() bool {
	return e.EventType != "" && len(e.Data) > 0
}

// Decode parses one serialized envelope and rejects documents without a type or payload.
func Decode(raw []byte) (Envelope, error) {
	var envelope Envelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return Envelope{}, err
	}
	if !envelope.Complete() {
		return Envelope{}, ErrIncompleteEnvelope
	}
	return envelope, nil
}
