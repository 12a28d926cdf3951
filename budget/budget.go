// Package budget implements the wall-clock execution deadline polled
// cooperatively by the evaluator, the semantic indexer and document
// extractors. A Budget captures its start and deadline once at
// construction, mirroring the original interpreter's single allocation
// of a monotonic clock rather than repeated calls against a shared
// clock source.
package budget

import (
	"time"

	"github.com/filesdsl/filesdsl/fdslerr"
)

// Budget is a wall-clock deadline. The zero value is not usable;
// construct with New or Unbounded.
type Budget struct {
	start    time.Time
	deadline time.Time
	bounded  bool
}

// New creates a budget that expires timeout after now.
func New(timeout time.Duration) *Budget {
	now := time.Now()
	return &Budget{start: now, deadline: now.Add(timeout), bounded: true}
}

// Unbounded returns a budget that never expires.
func Unbounded() *Budget {
	return &Budget{bounded: false}
}

// Check reports a *fdslerr.TimeoutError tagged with phase if the
// deadline has passed; nil otherwise. Safe to call on a nil *Budget
// (treated as unbounded) so callers that did not request a timeout
// need no special case.
func (b *Budget) Check(phase string) error {
	if b == nil || !b.bounded {
		return nil
	}
	now := time.Now()
	if now.After(b.deadline) {
		return &fdslerr.TimeoutError{
			ElapsedS: now.Sub(b.start).Seconds(),
			Phase:    phase,
		}
	}
	return nil
}

// Elapsed returns time since the budget was constructed.
func (b *Budget) Elapsed() time.Duration {
	if b == nil {
		return 0
	}
	return time.Since(b.start)
}
