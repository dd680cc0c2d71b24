package intake

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotConfigured is returned when the sink's connection configuration
// is missing. Handlers map it to a generic server error; the detail never
// reaches the caller.
var ErrNotConfigured = errors.New("sink configuration missing")

// FieldError is a single validation failure tied to a request field.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError aggregates every rule violation found in a submission,
// so the form can surface complete feedback in one round trip. Missing
// required fields are collected separately because they share a single
// enumerated message; format violations each carry their own.
type ValidationError struct {
	Missing       []string
	Fields        []FieldError
	missingPrefix string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Missing)+len(e.Fields))
	for _, name := range e.Missing {
		parts = append(parts, name+" is required")
	}
	for _, f := range e.Fields {
		parts = append(parts, f.Error())
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Message joins the caller-facing messages of every violation: one
// enumerated missing-fields message followed by each format message.
func (e *ValidationError) Message() string {
	msgs := make([]string, 0, 1+len(e.Fields))
	if len(e.Missing) > 0 {
		msgs = append(msgs, e.missingPrefix+strings.Join(e.Missing, ", "))
	}
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return strings.Join(msgs, " ")
}

// FieldNames lists every failing field, missing ones first.
func (e *ValidationError) FieldNames() []string {
	names := make([]string, 0, len(e.Missing)+len(e.Fields))
	names = append(names, e.Missing...)
	for _, f := range e.Fields {
		names = append(names, f.Field)
	}
	return names
}

// SinkStage identifies which step of the sink round-trip failed.
type SinkStage string

const (
	SinkStageAuth    SinkStage = "auth"
	SinkStageLookup  SinkStage = "lookup"
	SinkStageCreate  SinkStage = "create"
	SinkStageAppend  SinkStage = "append"
	SinkStageTimeout SinkStage = "timeout"
)

// SinkError wraps a failure from the external sink with the stage it
// occurred at. The stage is logged for diagnosis; callers only ever see
// a generic message.
type SinkError struct {
	Stage SinkStage
	Err   error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("sink %s failed: %v", e.Stage, e.Err)
}

func (e *SinkError) Unwrap() error {
	return e.Err
}
