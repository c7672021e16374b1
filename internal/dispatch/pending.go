package dispatch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultPendingTTL bounds the lifetime of abandoned confirmations. The
// store never held one longer in practice anyway — confirmations are
// answered or forgotten within seconds.
const DefaultPendingTTL = 2 * time.Minute

// Step is one unit of a multi-step action sequence. Resuming a pending
// confirmation re-applies exactly the deferred step and then continues the
// originating sequence from the next one.
type Step struct {
	Name string
	Run  func(ctx context.Context) error
}

type pendingAction struct {
	prompt   string
	steps    []Step
	resumeAt int
	created  time.Time
}

// PendingStore holds deferred side-effecting operations awaiting user
// yes/no, keyed by an opaque id. Entries are cleared on response and
// expired lazily after the TTL.
type PendingStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]*pendingAction
}

// NewPendingStore creates a store with the given TTL (0 means default).
func NewPendingStore(ttl time.Duration) *PendingStore {
	if ttl <= 0 {
		ttl = DefaultPendingTTL
	}
	return &PendingStore{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]*pendingAction),
	}
}

// Add registers a deferred sequence and returns its opaque id.
func (p *PendingStore) Add(prompt string, steps []Step, resumeAt int) string {
	id := uuid.NewString()
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sweepLocked()
	p.entries[id] = &pendingAction{
		prompt:   prompt,
		steps:    steps,
		resumeAt: resumeAt,
		created:  p.now(),
	}
	return id
}

// Prompt returns the user-visible question for a pending id.
func (p *PendingStore) Prompt(id string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	entry, ok := p.takeableLocked(id)
	if !ok {
		return "", false
	}
	return entry.prompt, true
}

// Resolve answers a pending confirmation. Declining discards the action
// with no side effect; accepting runs the deferred step and every step
// after it. Either way the id is removed, so replaying it fails.
func (p *PendingStore) Resolve(ctx context.Context, id string, accept bool) Result {
	p.mu.Lock()
	entry, ok := p.takeableLocked(id)
	if ok {
		delete(p.entries, id)
	}
	p.mu.Unlock()

	if !ok {
		return Error(ErrKindNotFound, "confirmation not found")
	}
	if !accept {
		return Ok("canceled")
	}

	for i := entry.resumeAt; i < len(entry.steps); i++ {
		if err := entry.steps[i].Run(ctx); err != nil {
			return Error(errKindFor(ctx, err), fmt.Sprintf("%s: %v", entry.steps[i].Name, err))
		}
	}
	return Ok("done")
}

// Len reports the number of live (unexpired) entries.
func (p *PendingStore) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sweepLocked()
	return len(p.entries)
}

// takeableLocked fetches an entry, treating expired ones as absent.
func (p *PendingStore) takeableLocked(id string) (*pendingAction, bool) {
	entry, ok := p.entries[id]
	if !ok {
		return nil, false
	}
	if p.now().Sub(entry.created) > p.ttl {
		delete(p.entries, id)
		return nil, false
	}
	return entry, true
}

func (p *PendingStore) sweepLocked() {
	cutoff := p.now().Add(-p.ttl)
	for id, entry := range p.entries {
		if entry.created.Before(cutoff) {
			delete(p.entries, id)
		}
	}
}
