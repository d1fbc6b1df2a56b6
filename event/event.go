// Package event defines the structured records the registry emits on
// every state transition and the Sink interface that consumes them.
// Events are fire-and-forget: the registry never reads them back and a
// sink must not fail an operation.
package event

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
)

// Envelope fields of the serialized event stream.
const (
	// Standard names the event schema family.
	Standard = "mintreg"

	// Version is the schema version of the records in this package.
	Version = "1.0.0"

	// LogPrefix marks serialized event lines in a log stream.
	LogPrefix = "EVENT_JSON:"
)

// Record is one typed registry event.
type Record interface {
	// Event returns the event name carried in the envelope.
	Event() string
}

// Sink consumes registry events.
type Sink interface {
	Emit(rec Record)
}

// envelope is the serialized wire form of a record.
type envelope struct {
	Standard string `json:"standard"`
	Version  string `json:"version"`
	Event    string `json:"event"`
	Data     Record `json:"data"`
}

// Marshal serializes a record into its JSON envelope.
func Marshal(rec Record) ([]byte, error) {
	data, err := json.Marshal(envelope{
		Standard: Standard,
		Version:  Version,
		Event:    rec.Event(),
		Data:     rec,
	})
	if err != nil {
		return nil, fmt.Errorf("event: marshal %s: %w", rec.Event(), err)
	}
	return data, nil
}

// NopSink discards every record.
type NopSink struct{}

func (NopSink) Emit(Record) {}

// LogSink writes each record as a prefixed JSON line, the way the
// registry's host environment logs events.
type LogSink struct {
	W io.Writer
}

func (s LogSink) Emit(rec Record) {
	data, err := Marshal(rec)
	if err != nil {
		return
	}
	fmt.Fprintf(s.W, "%s%s\n", LogPrefix, data)
}

// MemorySink retains every record in order. Safe for concurrent use.
type MemorySink struct {
	mu      sync.Mutex
	records []Record
}

func (s *MemorySink) Emit(rec Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
}

// Records returns a snapshot of the emitted records.
func (s *MemorySink) Records() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Record(nil), s.records...)
}

// ByEvent returns the emitted records with the given event name.
func (s *MemorySink) ByEvent(name string) []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Record
	for _, rec := range s.records {
		if rec.Event() == name {
			out = append(out, rec)
		}
	}
	return out
}
