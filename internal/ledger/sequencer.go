// Package ledger provides the single-writer serialization point for mutating
// operations. Every create/submit/start-grading/grade call runs inside
// Sequencer.Apply, so each operation observes a consistent snapshot and
// commits fully before the next one begins.
package ledger

import (
	"context"
	"sync"
)

// Sequencer totally orders mutating operations.
type Sequencer struct {
	mu sync.Mutex
}

// New constructs a Sequencer.
func New() *Sequencer {
	return &Sequencer{}
}

// Apply runs op while holding the ledger lock. A context already cancelled
// before the lock is acquired aborts without running op; once op starts it
// runs to completion.
func (s *Sequencer) Apply(ctx context.Context, op func(ctx context.Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	return op(ctx)
}
