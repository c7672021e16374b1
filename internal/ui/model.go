// Package ui implements the bubbletea palette: a single-line prompt, the
// ranked suggestion list beneath it, inline confirmation prompts and an
// ov-backed activity log. All suggestion semantics live in the session
// package; this model only translates terminal events into session calls
// and renders what the session exposes.
package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"cmdpal/internal/dispatch"
	"cmdpal/internal/domain"
	"cmdpal/internal/eventbus"
	"cmdpal/internal/logging"
	"cmdpal/internal/rank"
	"cmdpal/internal/session"
)

// fetchTimeout bounds a single candidate fetch. Fetches are advisory — a
// slow one is discarded by the session anyway once the input moves on.
const fetchTimeout = 3 * time.Second

// Fetcher produces raw candidates for fetching intents.
type Fetcher interface {
	SearchInstalledApps(ctx context.Context, query string) ([]domain.Candidate, error)
	ListRunningProcesses(ctx context.Context) ([]domain.Process, error)
	ListRecentItems(ctx context.Context, filter domain.RecentFilter) ([]domain.RecentItem, error)
}

// confirmPrompt is the inline y/n question shown for a pending action.
type confirmPrompt struct {
	id     string
	prompt string
}

// Model is the bubbletea model for the palette window.
type Model struct {
	input   textinput.Model
	sess    *session.Session
	disp    *dispatch.Dispatcher
	fetcher Fetcher
	bus     eventbus.EventBus
	styles  *Styles

	width  int
	height int

	status    string
	statusErr bool
	confirm   *confirmPrompt

	log   *activityLog
	pager *pagerOps

	quitting bool
}

// New creates the palette model. A nil bus disables event publication.
func New(sess *session.Session, disp *dispatch.Dispatcher, fetcher Fetcher, bus eventbus.EventBus) Model {
	ti := textinput.New()
	ti.Placeholder = "Type a command…"
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = 512

	return Model{
		input:   ti,
		sess:    sess,
		disp:    disp,
		fetcher: fetcher,
		bus:     bus,
		styles:  NewStyles(),
		log:     newActivityLog(200),
		pager:   &pagerOps{},
	}
}

// AttachProgram hands the model the running program so the activity pager
// can release and restore the terminal. The pager ops struct is shared by
// pointer with the copy bubbletea holds.
func (m *Model) AttachProgram(p *tea.Program) {
	m.pager.program = p
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		// Hover and keyboard share one cursor.
		if msg.Action == tea.MouseActionMotion || msg.Action == tea.MouseActionPress {
			if idx, ok := m.rowToIndex(msg.Y); ok {
				m.sess.SetCursor(idx)
			}
		}
		return m, nil

	case debounceMsg:
		if !m.sess.DebounceElapsed(msg.seq) {
			return m, nil
		}
		return m, m.fetchCmd(msg.seq, m.sess.Intent(), m.sess.Input())

	case fetchResultMsg:
		if msg.procs != nil {
			m.sess.StoreProcesses(msg.procs)
		}
		if msg.err != nil {
			logging.L().Warn("candidate fetch failed", zap.Error(msg.err))
			m.sess.FetchFailed(msg.seq)
			return m, nil
		}
		if m.sess.ResolveFetch(msg.seq, msg.query, msg.candidates) {
			m.publish(domain.SuggestionsReadyEvent{Query: msg.query, Candidates: m.sess.Suggestions()})
		}
		return m, nil

	case dispatchDoneMsg:
		return m.handleDispatchDone(msg.res)

	case confirmDoneMsg:
		m.setStatus(msg.res.Message, msg.res.Status == dispatch.StatusError)
		return m, nil

	case busEventMsg:
		return m.handleBusEvent(msg.event)

	case pagerClosedMsg:
		if msg.err != nil {
			m.setStatus("could not open activity log: "+msg.err.Error(), true)
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// An open confirmation prompt captures y/n/esc before anything else.
	if m.confirm != nil {
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "y", "Y":
			return m.resolveConfirm(true)
		case "n", "N":
			return m.resolveConfirm(false)
		case "esc":
			// Leave the pending action to expire on its own.
			m.confirm = nil
			return m, nil
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "ctrl+l":
		return m, m.openActivityLog()

	case "up", "ctrl+p":
		m.sess.MoveCursor(-1)
		return m, nil

	case "down", "ctrl+n":
		m.sess.MoveCursor(1)
		return m, nil

	case "esc":
		if len(m.sess.Suggestions()) > 0 {
			m.sess.Cancel()
			m.publish(domain.SuggestionsClearedEvent{})
			return m, nil
		}
		m.input.SetValue("")
		m.sess.Reset()
		m.status = ""
		return m, nil

	case "enter":
		return m.handleEnter()
	}

	// Everything else edits the text buffer.
	var cmd tea.Cmd
	before := m.input.Value()
	m.input, cmd = m.input.Update(msg)
	if v := m.input.Value(); v != before {
		m.status = ""
		plan := m.sess.SetInput(v)
		m.publish(domain.QueryChangedEvent{Query: v, Intent: m.sess.Intent()})
		if plan != nil {
			return m, tea.Batch(cmd, debounceCmd(plan))
		}
	}
	return m, cmd
}

func (m Model) publish(e eventbus.DomainEvent) {
	if m.bus != nil {
		m.bus.Publish(e)
	}
}

// handleEnter confirms the selected suggestion, or executes the raw input
// directly when no suggestion is visible.
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	it := m.sess.Intent()
	if cand, ok := m.sess.Confirm(); ok {
		c := cand
		return m.startDispatch(it, &c)
	}
	if m.sess.Input() == "" {
		return m, nil
	}
	return m.startDispatch(it, nil)
}

func (m Model) startDispatch(it domain.Intent, cand *domain.Candidate) (tea.Model, tea.Cmd) {
	m.sess.BeginDispatch()
	disp := m.disp
	return m, func() tea.Msg {
		return dispatchDoneMsg{res: disp.Dispatch(context.Background(), it, cand)}
	}
}

// handleDispatchDone settles the UI after a dispatch: show the outcome,
// surface a confirmation prompt if one is pending, and clear the buffer
// unless the user kept typing while the action ran.
func (m Model) handleDispatchDone(res dispatch.Result) (tea.Model, tea.Cmd) {
	plan := m.sess.EndDispatch()
	m.setStatus(res.Message, res.Status == dispatch.StatusError)
	if res.Status == dispatch.StatusNeedsConfirmation {
		m.confirm = &confirmPrompt{id: res.PendingID, prompt: res.Message}
	}
	if plan != nil {
		// Input changed mid-dispatch; restart the pipeline for it.
		return m, debounceCmd(plan)
	}
	m.input.SetValue("")
	m.sess.SetInput("")
	return m, nil
}

func (m Model) resolveConfirm(accept bool) (tea.Model, tea.Cmd) {
	id := m.confirm.id
	m.confirm = nil
	disp := m.disp
	return m, func() tea.Msg {
		return confirmDoneMsg{res: disp.Resolve(context.Background(), id, accept)}
	}
}

// handleBusEvent records bus traffic in the activity log and reflects the
// few events the prompt itself cares about.
func (m Model) handleBusEvent(e domain.DomainEvent) (tea.Model, tea.Cmd) {
	switch ev := e.(type) {
	case domain.DispatchStartedEvent:
		m.log.addf("dispatch %s %q", ev.Intent.Kind, ev.Intent.Value)
	case domain.DispatchCompletedEvent:
		if ev.Ok {
			m.log.addf("done: %s", ev.Message)
		} else {
			m.log.addf("failed: %s", ev.Message)
		}
	case domain.ConfirmationRequestedEvent:
		m.log.addf("confirmation requested: %s", ev.Prompt)
	case domain.ConfirmationResolvedEvent:
		if ev.Accepted {
			m.log.addf("confirmation %s accepted", ev.PendingID)
		} else {
			m.log.addf("confirmation %s declined", ev.PendingID)
		}
	case domain.ConfigLoadedEvent:
		m.log.addf("configuration reloaded from %s", ev.Path)
		m.setStatus("Configuration reloaded", false)
	case domain.ErrorEvent:
		m.log.addf("error: %s", ev.Message)
	}
	return m, nil
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

// openActivityLog shows the activity ring buffer in the ov pager.
func (m Model) openActivityLog() tea.Cmd {
	pager := m.pager
	content := m.log.render()
	return func() tea.Msg {
		return pagerClosedMsg{err: pager.show(content)}
	}
}

// debounceCmd schedules the debounce tick for a fetch plan.
func debounceCmd(plan *session.FetchPlan) tea.Cmd {
	seq := plan.Seq
	return tea.Tick(plan.Debounce, func(time.Time) tea.Msg {
		return debounceMsg{seq: seq}
	})
}

// fetchCmd builds the asynchronous candidate fetch for the current intent.
// The running-process cache is consulted on the update loop so the command
// goroutine never touches session state.
func (m Model) fetchCmd(seq uint64, it domain.Intent, query string) tea.Cmd {
	var cached []domain.Process
	if it.Kind == domain.IntentSwitch || it.Kind == domain.IntentQuit {
		if procs, ok := m.sess.CachedProcesses(); ok {
			cached = procs
		}
	}
	fetcher := m.fetcher

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		switch it.Kind {
		case domain.IntentApp:
			cands, err := fetcher.SearchInstalledApps(ctx, it.Value)
			return fetchResultMsg{seq: seq, query: query, candidates: cands, err: err}

		case domain.IntentSwitch, domain.IntentQuit:
			procs := cached
			var fresh []domain.Process
			if procs == nil {
				p, err := fetcher.ListRunningProcesses(ctx)
				if err != nil {
					return fetchResultMsg{seq: seq, query: query, err: err}
				}
				procs, fresh = p, p
			}
			return fetchResultMsg{
				seq:        seq,
				query:      query,
				candidates: rank.ProcessCandidates(procs),
				procs:      fresh,
			}

		case domain.IntentRecent:
			filter, _ := rank.ParseRecentQuery(it.Value)
			items, err := fetcher.ListRecentItems(ctx, filter)
			if err != nil {
				return fetchResultMsg{seq: seq, query: query, err: err}
			}
			return fetchResultMsg{seq: seq, query: query, candidates: rank.RecentCandidates(items)}

		default:
			return fetchResultMsg{seq: seq, query: query}
		}
	}
}
