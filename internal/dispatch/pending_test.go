package dispatch

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendingResolveAcceptRunsStepsFromResumePoint(t *testing.T) {
	t.Parallel()

	var ran []string
	step := func(name string) Step {
		return Step{Name: name, Run: func(context.Context) error {
			ran = append(ran, name)
			return nil
		}}
	}

	p := NewPendingStore(0)
	id := p.Add("continue?", []Step{step("first"), step("second"), step("third")}, 1)

	prompt, ok := p.Prompt(id)
	require.True(t, ok)
	assert.Equal(t, "continue?", prompt)

	res := p.Resolve(context.Background(), id, true)
	require.Equal(t, StatusOk, res.Status)
	assert.Equal(t, []string{"second", "third"}, ran)
}

func TestPendingResolveDeclineDiscards(t *testing.T) {
	t.Parallel()

	ran := false
	p := NewPendingStore(0)
	id := p.Add("sure?", []Step{{Name: "x", Run: func(context.Context) error {
		ran = true
		return nil
	}}}, 0)

	res := p.Resolve(context.Background(), id, false)
	require.Equal(t, StatusOk, res.Status)
	assert.Equal(t, "canceled", res.Message)
	assert.False(t, ran)

	// Declined ids are gone for good
	res = p.Resolve(context.Background(), id, true)
	assert.Equal(t, ErrKindNotFound, res.Kind)
}

func TestPendingUnknownID(t *testing.T) {
	t.Parallel()

	p := NewPendingStore(0)
	res := p.Resolve(context.Background(), "nope", true)
	require.Equal(t, StatusError, res.Status)
	assert.Equal(t, ErrKindNotFound, res.Kind)
	assert.Equal(t, "confirmation not found", res.Message)
}

func TestPendingEntriesExpire(t *testing.T) {
	t.Parallel()

	now := time.Now()
	p := NewPendingStore(time.Minute)
	p.now = func() time.Time { return now }

	id := p.Add("stale?", []Step{{Name: "x", Run: func(context.Context) error { return nil }}}, 0)
	require.Equal(t, 1, p.Len())

	// Just inside the TTL the entry is still answerable
	now = now.Add(59 * time.Second)
	_, ok := p.Prompt(id)
	assert.True(t, ok)

	// Past the TTL it behaves exactly like an unknown id
	now = now.Add(2 * time.Minute)
	res := p.Resolve(context.Background(), id, true)
	assert.Equal(t, ErrKindNotFound, res.Kind)
	assert.Equal(t, 0, p.Len())
}

func TestPendingSweepDropsExpiredOnAdd(t *testing.T) {
	t.Parallel()

	now := time.Now()
	p := NewPendingStore(time.Minute)
	p.now = func() time.Time { return now }

	p.Add("old", nil, 0)
	now = now.Add(2 * time.Minute)
	p.Add("new", nil, 0)

	assert.Equal(t, 1, p.Len())
}

func TestPendingStepFailureSurfaces(t *testing.T) {
	t.Parallel()

	p := NewPendingStore(0)
	id := p.Add("run?", []Step{{Name: "start command", Run: func(context.Context) error {
		return assert.AnError
	}}}, 0)

	res := p.Resolve(context.Background(), id, true)
	require.Equal(t, StatusError, res.Status)
	assert.Contains(t, res.Message, "start command")
}
