// Package history persists past calculations.
//
// A Store is an append-only log of (expression, result) pairs, listed oldest
// first. Entries older than the configured retention are pruned and hidden, in
// the spirit of the original one-day cookie expiry.
package history

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// DefaultRetention is how long entries are kept when Options.Retention is zero.
const DefaultRetention = 24 * time.Hour

// ErrNotFound is returned by Get for unknown IDs.
var ErrNotFound = errors.New("history entry not found")

// Entry is a single recorded calculation.
type Entry struct {
	ID         string    `json:"id" yaml:"id"`
	Expression string    `json:"expression" yaml:"expression"`
	Result     float64   `json:"result" yaml:"result"`
	CreatedAt  time.Time `json:"created_at" yaml:"created_at"`
}

// Store records and lists calculations.
type Store interface {
	// Record appends a calculation and prunes expired entries.
	Record(ctx context.Context, expression string, result float64) (*Entry, error)
	// List returns live entries, most recent last.
	List(ctx context.Context) ([]Entry, error)
	// Get returns a single live entry.
	Get(ctx context.Context, id string) (*Entry, error)
	// Clear removes every entry.
	Clear(ctx context.Context) error
	// Close releases resources held by the store.
	Close() error
}

// Options configures a Store.
type Options struct {
	Retention time.Duration    // zero means DefaultRetention, negative keeps entries forever
	Limit     int              // keep at most this many entries, zero for no limit
	Logger    *slog.Logger     // nil discards
	Now       func() time.Time // nil uses time.Now
}

func (o Options) withDefaults() Options {
	if o.Retention == 0 {
		o.Retention = DefaultRetention
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// cutoff returns the oldest creation time still visible, or the zero time
// when entries never expire.
func (o Options) cutoff() time.Time {
	if o.Retention < 0 {
		return time.Time{}
	}
	return o.Now().Add(-o.Retention)
}

func newEntry(o Options, expression string, result float64) Entry {
	return Entry{
		ID:         uuid.New().String(),
		Expression: expression,
		Result:     result,
		CreatedAt:  o.Now().UTC(),
	}
}

// Open returns a SQLite store at path, or an in-memory store when path is
// empty.
func Open(path string, opts Options) (Store, error) {
	if path == "" {
		return NewMemoryStore(opts), nil
	}

	s := NewSQLiteStore(opts)
	if err := s.Open(path); err != nil {
		return nil, err
	}
	if err := s.Migrate(); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}
