package ui

import (
	"cmdpal/internal/dispatch"
	"cmdpal/internal/domain"
	"cmdpal/internal/eventbus"
)

// debounceMsg fires when a fetch debounce window elapses. The sequence
// number ties it to the input revision that scheduled it; a stale one is
// ignored.
type debounceMsg struct {
	seq uint64
}

// fetchResultMsg carries a completed candidate fetch back to the model.
// procs is non-nil when the fetch took a fresh process listing, so the
// model can refresh the session cache on the update loop.
type fetchResultMsg struct {
	seq        uint64
	query      string
	candidates []domain.Candidate
	procs      []domain.Process
	err        error
}

// dispatchDoneMsg carries a settled dispatch result.
type dispatchDoneMsg struct {
	res dispatch.Result
}

// confirmDoneMsg carries the result of resolving a pending confirmation.
type confirmDoneMsg struct {
	res dispatch.Result
}

// busEventMsg wraps a domain event forwarded from the event bus into the
// bubbletea loop (main pumps these through Program.Send).
type busEventMsg struct {
	event eventbus.DomainEvent
}

// pagerClosedMsg signals that the activity log pager has exited.
type pagerClosedMsg struct {
	err error
}

// BusEvent wraps a domain event for delivery via Program.Send.
func BusEvent(e eventbus.DomainEvent) interface{} {
	return busEventMsg{event: e}
}
