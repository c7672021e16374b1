// Package session owns the interactive suggestion lifecycle: debounced
// fetch planning, stale-result discard, keyboard navigation and selection,
// smart hints and dispatch suspension. It is a plain state machine with no
// knowledge of the UI framework; the bubbletea model drives it and renders
// whatever it exposes.
package session

import (
	"fmt"
	"time"

	"cmdpal/internal/domain"
	"cmdpal/internal/intent"
	"cmdpal/internal/rank"
)

// State is the presenter's primary lifecycle state.
type State int

const (
	StateIdle    State = iota // no text
	StatePending              // text present, fetch in flight or classification only
	StateShowing              // non-empty ranked list, one entry selected
)

// Options tune the presenter. Zero values fall back to defaults.
type Options struct {
	DebounceFast   time.Duration // app / switch fetches
	DebounceSlow   time.Duration // quit / recent fetches
	ProcessTTL     time.Duration // running-process cache freshness window
	VisibleHeight  int           // rows visible before the list scrolls
	SuggestionCap  int           // max suggestions kept after ranking
}

const (
	defaultDebounceFast  = 30 * time.Millisecond
	defaultDebounceSlow  = 80 * time.Millisecond
	defaultProcessTTL    = 3 * time.Second
	defaultVisibleHeight = 8
)

// FetchPlan tells the driver to fetch candidates after the debounce window.
// Seq and Query are captured at plan time; a resolution only applies if
// both still match the session (last-writer-wins keyed by input value).
type FetchPlan struct {
	Seq      uint64
	Query    string // raw input at plan time
	Intent   domain.Intent
	Debounce time.Duration
}

// Session is the suggestion presenter state machine.
type Session struct {
	opts   Options
	ranker *rank.Ranker

	state  State
	input  string
	intent domain.Intent

	list       []domain.Candidate
	cursor     int
	visibleTop int
	hint       string

	seq         uint64
	dispatching bool
	staleInput  bool // input changed while a dispatch was in flight

	procs *processCache
}

// New creates a presenter in the Idle state.
func New(opts Options) *Session {
	if opts.DebounceFast <= 0 {
		opts.DebounceFast = defaultDebounceFast
	}
	if opts.DebounceSlow <= 0 {
		opts.DebounceSlow = defaultDebounceSlow
	}
	if opts.ProcessTTL <= 0 {
		opts.ProcessTTL = defaultProcessTTL
	}
	if opts.VisibleHeight <= 0 {
		opts.VisibleHeight = defaultVisibleHeight
	}
	return &Session{
		opts:   opts,
		ranker: rank.New(opts.SuggestionCap),
		procs:  newProcessCache(opts.ProcessTTL),
	}
}

// State returns the current lifecycle state.
func (s *Session) State() State { return s.state }

// Input returns the current text buffer as the session last saw it.
func (s *Session) Input() string { return s.input }

// Intent returns the most recently classified intent.
func (s *Session) Intent() domain.Intent { return s.intent }

// Suggestions returns the visible ranked list.
func (s *Session) Suggestions() []domain.Candidate { return s.list }

// Cursor returns the selection cursor index.
func (s *Session) Cursor() int { return s.cursor }

// Hint returns the smart hint, or "" when the primary list takes precedence.
func (s *Session) Hint() string {
	if len(s.list) > 0 {
		return ""
	}
	return s.hint
}

// SetInput records a text change, reclassifies synchronously and returns a
// fetch plan when the new intent needs external candidates. Any in-flight
// fetch is implicitly invalidated by the bumped sequence number. While a
// dispatch is executing the change is recorded but produces no plan.
func (s *Session) SetInput(text string) *FetchPlan {
	s.input = text
	s.intent = intent.Classify(text)
	s.seq++

	if s.dispatching {
		s.staleInput = true
		return nil
	}
	return s.replan()
}

// replan recomputes list/hint/state for the current input and returns a
// fetch plan if external candidates are required.
func (s *Session) replan() *FetchPlan {
	if s.input == "" {
		s.clearList()
		s.hint = ""
		s.state = StateIdle
		return nil
	}

	if intent.NeedsFetch(s.intent.Kind) {
		s.state = StatePending
		return &FetchPlan{
			Seq:      s.seq,
			Query:    s.input,
			Intent:   s.intent,
			Debounce: s.debounceFor(s.intent.Kind),
		}
	}

	// No external data: rank synchronously (system commands may still
	// match even for gated intents) and fall back to a smart hint.
	s.replaceList(s.ranker.Rank(s.intent, nil, s.input))
	return nil
}

// debounceFor returns the debounce window for a fetching intent. App and
// switch benefit from perceived instantness; quit and recent can wait.
func (s *Session) debounceFor(kind domain.IntentKind) time.Duration {
	switch kind {
	case domain.IntentQuit, domain.IntentRecent:
		return s.opts.DebounceSlow
	default:
		return s.opts.DebounceFast
	}
}

// DebounceElapsed reports whether a debounce that fired for seq is still
// current. The driver starts the real fetch only when this returns true.
func (s *Session) DebounceElapsed(seq uint64) bool {
	return seq == s.seq && !s.dispatching
}

// ResolveFetch applies a completed fetch. Stale resolutions — a newer input
// exists, or the query no longer matches the current text — are discarded
// and the method reports false.
func (s *Session) ResolveFetch(seq uint64, query string, raw []domain.Candidate) bool {
	if seq != s.seq || query != s.input {
		return false
	}
	s.replaceList(s.ranker.Rank(s.intent, raw, s.input))
	return true
}

// FetchFailed degrades a failed fetch to an empty list; typing continues
// undisturbed.
func (s *Session) FetchFailed(seq uint64) {
	if seq != s.seq {
		return
	}
	s.replaceList(nil)
}

// replaceList swaps the suggestion list wholesale, resets the cursor and
// recomputes state and hint.
func (s *Session) replaceList(list []domain.Candidate) {
	s.list = list
	s.cursor = 0
	s.visibleTop = 0
	if len(list) > 0 {
		s.state = StateShowing
		s.hint = ""
		return
	}
	s.state = StatePending
	s.hint = smartHint(s.intent)
}

func (s *Session) clearList() {
	s.list = nil
	s.cursor = 0
	s.visibleTop = 0
}

// smartHint produces the single non-actionable hint shown when the primary
// list is empty and the intent is one of path/calculate/search/chat.
func smartHint(it domain.Intent) string {
	switch it.Kind {
	case domain.IntentCalculate:
		return fmt.Sprintf("Calculate: %s", it.Value)
	case domain.IntentPath:
		return fmt.Sprintf("Open path: %s", it.Value)
	case domain.IntentSearch:
		return fmt.Sprintf("Search the web: %s", it.Value)
	case domain.IntentChat:
		if it.Value == "" {
			return "Ask AI"
		}
		return fmt.Sprintf("Ask AI: %s", it.Value)
	default:
		return ""
	}
}

// MoveCursor moves the selection by delta, clamped to list bounds with no
// wraparound, and keeps the selected entry inside the visible window.
func (s *Session) MoveCursor(delta int) {
	s.SetCursor(s.cursor + delta)
}

// SetCursor moves the selection to index (hover and keyboard share it).
func (s *Session) SetCursor(index int) {
	if len(s.list) == 0 {
		s.cursor = 0
		return
	}
	if index < 0 {
		index = 0
	}
	if index > len(s.list)-1 {
		index = len(s.list) - 1
	}
	s.cursor = index
	s.scrollIntoView()
}

// scrollIntoView adjusts the visible window so the cursor stays on screen.
func (s *Session) scrollIntoView() {
	if s.cursor < s.visibleTop {
		s.visibleTop = s.cursor
	}
	if s.cursor >= s.visibleTop+s.opts.VisibleHeight {
		s.visibleTop = s.cursor - s.opts.VisibleHeight + 1
	}
	if s.visibleTop < 0 {
		s.visibleTop = 0
	}
}

// VisibleWindow returns the slice of suggestions currently on screen and
// the index of the first one.
func (s *Session) VisibleWindow() (top int, items []domain.Candidate) {
	if len(s.list) == 0 {
		return 0, nil
	}
	end := s.visibleTop + s.opts.VisibleHeight
	if end > len(s.list) {
		end = len(s.list)
	}
	return s.visibleTop, s.list[s.visibleTop:end]
}

// Confirm returns the selected candidate and hides the list immediately so
// no stale suggestions flash while the action dispatches. Returns false
// when the list is empty — the caller then executes the raw input directly.
func (s *Session) Confirm() (domain.Candidate, bool) {
	if len(s.list) == 0 {
		return domain.Candidate{}, false
	}
	c := s.list[s.cursor]
	s.clearList()
	s.state = StatePending
	return c, true
}

// Cancel clears and hides the suggestion list without touching the input.
func (s *Session) Cancel() {
	s.clearList()
	s.hint = ""
	if s.input == "" {
		s.state = StateIdle
	} else {
		s.state = StatePending
	}
}

// Reset returns the session to Idle with an empty buffer (window hidden).
func (s *Session) Reset() {
	s.input = ""
	s.intent = domain.Intent{Kind: domain.IntentUnknown}
	s.seq++
	s.dispatching = false
	s.staleInput = false
	s.hint = ""
	s.clearList()
	s.state = StateIdle
}

// BeginDispatch suspends automatic re-classification while an action runs.
func (s *Session) BeginDispatch() {
	s.dispatching = true
	s.staleInput = false
}

// EndDispatch resumes the session once a dispatch settles. If the input
// changed while suspended, the returned plan restarts the pipeline.
func (s *Session) EndDispatch() *FetchPlan {
	s.dispatching = false
	if !s.staleInput {
		return nil
	}
	s.staleInput = false
	return s.replan()
}

// Dispatching reports whether an action is currently executing.
func (s *Session) Dispatching() bool { return s.dispatching }

// CachedProcesses returns the running-process list if it is still fresh.
func (s *Session) CachedProcesses() ([]domain.Process, bool) {
	return s.procs.get()
}

// StoreProcesses caches a fresh running-process list for the TTL window.
func (s *Session) StoreProcesses(procs []domain.Process) {
	s.procs.put(procs)
}
