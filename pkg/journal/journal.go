// Package journal keeps a small, bounded in-memory log of sync activity for
// the admin surface. The journal is a fixed-capacity ring: appends never
// fail, old entries fall off, and reads return most-recent-first. It is
// observability only and never consulted by the reconciliation logic.
package journal

import (
	"fmt"
	"sync"

	"github.com/agentstation/utc"

	"github.com/SophieMSL/hubspot-monday-sync/pkg/constants"
)

// Severity classifies a journal entry.
type Severity string

// String returns the string representation of a severity.
func (s Severity) String() string {
	return string(s)
}

// The severities.
const (
	SeverityInfo  Severity = "info"
	SeverityWarn  Severity = "warn"
	SeverityError Severity = "error"
)

// Entry is one journal line.
type Entry struct {
	Timestamp utc.Time `json:"timestamp"`
	Severity  Severity `json:"severity"`
	Message   string   `json:"message"`
}

// Journal is a thread-safe ring of log entries.
type Journal struct {
	mu       sync.RWMutex
	entries  []Entry // circular buffer, next is the write position
	next     int
	size     int
	capacity int
}

// New creates a journal with the standard capacity.
func New() *Journal {
	return NewWithCapacity(constants.JournalCapacity)
}

// NewWithCapacity creates a journal holding at most n entries.
func NewWithCapacity(n int) *Journal {
	if n < 1 {
		n = 1
	}
	return &Journal{
		entries:  make([]Entry, n),
		capacity: n,
	}
}

// Append adds an entry, stamping it with the current time. The oldest entry
// is dropped once the ring is full.
func (j *Journal) Append(severity Severity, message string) {
	j.AppendEntry(Entry{
		Timestamp: utc.Now(),
		Severity:  severity,
		Message:   message,
	})
}

// AppendEntry adds a fully formed entry.
func (j *Journal) AppendEntry(e Entry) {
	if e.Timestamp.IsZero() {
		e.Timestamp = utc.Now()
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries[j.next] = e
	j.next = (j.next + 1) % j.capacity
	if j.size < j.capacity {
		j.size++
	}
}

// Infof appends a formatted info entry.
func (j *Journal) Infof(format string, args ...any) {
	j.Append(SeverityInfo, fmt.Sprintf(format, args...))
}

// Warnf appends a formatted warning entry.
func (j *Journal) Warnf(format string, args ...any) {
	j.Append(SeverityWarn, fmt.Sprintf(format, args...))
}

// Errorf appends a formatted error entry.
func (j *Journal) Errorf(format string, args ...any) {
	j.Append(SeverityError, fmt.Sprintf(format, args...))
}

// Entries returns a copy of the journal, most recent first.
func (j *Journal) Entries() []Entry {
	j.mu.RLock()
	defer j.mu.RUnlock()

	out := make([]Entry, j.size)
	for i := 0; i < j.size; i++ {
		// Walk backwards from the slot before the write position
		idx := (j.next - 1 - i + j.capacity*2) % j.capacity
		out[i] = j.entries[idx]
	}
	return out
}

// Len returns the number of retained entries.
func (j *Journal) Len() int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.size
}

// Capacity returns the maximum number of retained entries.
func (j *Journal) Capacity() int {
	return j.capacity
}

// Clear removes all entries.
func (j *Journal) Clear() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.next = 0
	j.size = 0
}
