package intake

import (
	"context"
	"sync"
)

// Sink is the external append-only store for accepted submissions. The
// production implementation writes rows to a Google Sheets spreadsheet;
// implementations must be safe for concurrent use.
type Sink interface {
	Append(ctx context.Context, rec *SubmissionRecord) error
}

// MemorySink stores records in memory. It backs local development runs
// and tests.
type MemorySink struct {
	mu      sync.RWMutex
	records []*SubmissionRecord
}

// NewMemorySink creates an empty in-memory sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// Append stores a copy of the record.
func (s *MemorySink) Append(_ context.Context, rec *SubmissionRecord) error {
	cp := *rec
	s.mu.Lock()
	s.records = append(s.records, &cp)
	s.mu.Unlock()
	return nil
}

// Records returns a snapshot of everything appended so far.
func (s *MemorySink) Records() []*SubmissionRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*SubmissionRecord, len(s.records))
	copy(out, s.records)
	return out
}
