// Package dispatch routes a confirmed selection or a directly-typed command
// to exactly one external side-effecting operation. Collaborator errors are
// caught here and converted to displayable results; nothing propagates back
// into the classifier or ranker.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"cmdpal/internal/domain"
	"cmdpal/internal/eventbus"
	"cmdpal/internal/logging"
	"cmdpal/internal/rank"
)

// ErrPathMissing is reported by collaborators when a referenced filesystem
// path does not exist. The dispatcher converts it into a pending
// confirmation instead of failing outright.
var ErrPathMissing = errors.New("path does not exist")

// DefaultTimeout bounds every external call; a collaborator that hangs
// fails the call instead of freezing the palette.
const DefaultTimeout = 10 * time.Second

// Actions is the set of external operations the dispatcher can invoke.
type Actions interface {
	OpenApplication(ctx context.Context, c domain.Candidate) error
	OpenPath(ctx context.Context, path string) error
	CheckPath(ctx context.Context, path string) error
	FocusProcess(ctx context.Context, name string) error
	TerminateProcess(ctx context.Context, name string) error
	RunCalculation(ctx context.Context, expression string) (string, error)
	OpenWebSearchOrURL(ctx context.Context, text string) error
	RunSystemAction(ctx context.Context, actionID string) error
	RunCommand(ctx context.Context, workingDir, command string) error
	InvokeChat(ctx context.Context, text string) (domain.ChatReply, error)
	ListRunningProcesses(ctx context.Context) ([]domain.Process, error)
}

// Settings is the read-only configuration surface the dispatcher consumes.
type Settings interface {
	PreferredIDE() string
	DefaultPort() int
	Projects() []domain.ProjectShortcut
}

// Dispatcher maps intents and candidates to collaborator operations.
// At most one dispatch is in flight per session.
type Dispatcher struct {
	actions  Actions
	settings Settings
	pending  *PendingStore
	bus      eventbus.EventBus
	timeout  time.Duration
	inFlight atomic.Bool
}

// New creates a dispatcher. A nil bus disables event publication (tests).
func New(actions Actions, settings Settings, pending *PendingStore, bus eventbus.EventBus, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Dispatcher{
		actions:  actions,
		settings: settings,
		pending:  pending,
		bus:      bus,
		timeout:  timeout,
	}
}

// Dispatch executes the action for a confirmed candidate, or for the raw
// intent when cand is nil (direct execution). It always settles with a
// normalized Result.
func (d *Dispatcher) Dispatch(ctx context.Context, it domain.Intent, cand *domain.Candidate) Result {
	if !d.inFlight.CompareAndSwap(false, true) {
		return Error(ErrKindBusy, "an action is already in progress")
	}
	defer d.inFlight.Store(false)

	d.publish(domain.DispatchStartedEvent{Intent: it, Candidate: cand})

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	var res Result
	if cand != nil {
		res = d.dispatchCandidate(ctx, it, *cand)
	} else {
		res = d.dispatchIntent(ctx, it)
	}

	d.publish(domain.DispatchCompletedEvent{
		Intent:  it,
		Ok:      res.Status != StatusError,
		Message: res.Message,
	})
	if res.Status == StatusNeedsConfirmation {
		d.publish(domain.ConfirmationRequestedEvent{PendingID: res.PendingID, Prompt: res.Message})
	}
	logging.L().Debug("dispatch settled",
		zap.String("intent", string(it.Kind)),
		zap.Int("status", int(res.Status)),
		zap.String("message", res.Message))
	return res
}

// Resolve answers a pending confirmation by id.
func (d *Dispatcher) Resolve(ctx context.Context, id string, accept bool) Result {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	res := d.pending.Resolve(ctx, id, accept)
	d.publish(domain.ConfirmationResolvedEvent{PendingID: id, Accepted: accept})
	return res
}

func (d *Dispatcher) dispatchCandidate(ctx context.Context, it domain.Intent, c domain.Candidate) Result {
	switch c.Kind {
	case domain.CandidateApp:
		if err := d.actions.OpenApplication(ctx, c); err != nil {
			return d.failure(ctx, err, "could not open "+c.DisplayName)
		}
		return Ok("Opened " + c.DisplayName)
	case domain.CandidateProcess:
		if it.Kind == domain.IntentQuit {
			return d.terminate(ctx, c.ActionKey)
		}
		return d.focus(ctx, c.ActionKey)
	case domain.CandidateRecent:
		return d.openPath(ctx, c.ActionKey)
	case domain.CandidateSystem:
		if err := d.actions.RunSystemAction(ctx, c.ActionKey); err != nil {
			return d.failure(ctx, err, "system action failed")
		}
		return Ok(c.DisplayName)
	case domain.CandidateProject:
		return d.openProject(ctx, c.ActionKey)
	default:
		return Error(ErrKindFailed, "unknown candidate kind")
	}
}

func (d *Dispatcher) dispatchIntent(ctx context.Context, it domain.Intent) Result {
	switch it.Kind {
	case domain.IntentApp:
		// A typed project nickname takes precedence over an app launch.
		if p, ok := d.projectByNickname(it.Value); ok {
			return d.openProject(ctx, p.Nickname)
		}
		c := domain.Candidate{DisplayName: it.Value, ActionKey: it.Value, Kind: domain.CandidateApp}
		if err := d.actions.OpenApplication(ctx, c); err != nil {
			return d.failure(ctx, err, "could not open "+it.Value)
		}
		return Ok("Opened " + it.Value)
	case domain.IntentPath:
		return d.openPath(ctx, it.Value)
	case domain.IntentCalculate:
		out, err := d.actions.RunCalculation(ctx, it.Value)
		if err != nil {
			return d.failure(ctx, err, "could not calculate")
		}
		return Ok(fmt.Sprintf("%s = %s", it.Value, out))
	case domain.IntentURL, domain.IntentSearch:
		if err := d.actions.OpenWebSearchOrURL(ctx, it.Value); err != nil {
			return d.failure(ctx, err, "could not open browser")
		}
		return Ok("Opened in browser")
	case domain.IntentChat:
		return d.chat(ctx, it.Value)
	case domain.IntentSwitch:
		return d.focus(ctx, it.Value)
	case domain.IntentQuit:
		return d.terminate(ctx, it.Value)
	case domain.IntentRecent:
		return Error(ErrKindNotFound, "no recent item matched")
	default:
		return Error(ErrKindFailed, "nothing to do")
	}
}

// openPath opens a filesystem path; a missing target becomes a pending
// confirmation carrying the exact same open as its deferred step.
func (d *Dispatcher) openPath(ctx context.Context, path string) Result {
	err := d.actions.OpenPath(ctx, path)
	if err == nil {
		return Ok("Opened " + path)
	}
	if errors.Is(err, ErrPathMissing) {
		id := d.pending.Add(
			fmt.Sprintf("%s does not exist. Open anyway?", path),
			[]Step{{Name: "open " + path, Run: func(ctx context.Context) error {
				return d.actions.OpenPath(ctx, path)
			}}},
			0,
		)
		return NeedsConfirmation(id, fmt.Sprintf("%s does not exist. Open anyway?", path))
	}
	return d.failure(ctx, err, "could not open "+path)
}

// openProject runs the developer workflow for a configured shortcut:
// open the IDE at the project path, run the start command, open the
// browser on the project port. A missing project path defers the whole
// sequence behind a confirmation that resumes at the first step.
func (d *Dispatcher) openProject(ctx context.Context, nickname string) Result {
	p, ok := d.projectByNickname(nickname)
	if !ok {
		return Error(ErrKindNotFound, "unknown project "+nickname)
	}

	steps := d.projectSteps(p)
	if err := d.actions.CheckPath(ctx, p.Path); errors.Is(err, ErrPathMissing) {
		prompt := fmt.Sprintf("%s does not exist. Continue anyway?", p.Path)
		id := d.pending.Add(prompt, steps, 0)
		return NeedsConfirmation(id, prompt)
	}

	for i, step := range steps {
		if err := step.Run(ctx); err != nil {
			return Error(errKindFor(ctx, err), fmt.Sprintf("%s: %v", steps[i].Name, err))
		}
	}
	return Ok("Started " + p.Nickname)
}

func (d *Dispatcher) projectSteps(p domain.ProjectShortcut) []Step {
	ide := d.settings.PreferredIDE()
	port := p.Port
	if port == 0 {
		port = d.settings.DefaultPort()
	}

	steps := []Step{
		{Name: "open IDE", Run: func(ctx context.Context) error {
			// e.g. `code .` in the project directory
			return d.actions.RunCommand(ctx, p.Path, ide+" .")
		}},
	}
	if p.StartCommand != "" {
		steps = append(steps, Step{Name: "start command", Run: func(ctx context.Context) error {
			return d.actions.RunCommand(ctx, p.Path, p.StartCommand)
		}})
	}
	if port > 0 {
		url := fmt.Sprintf("http://localhost:%d", port)
		steps = append(steps, Step{Name: "open browser", Run: func(ctx context.Context) error {
			return d.actions.OpenWebSearchOrURL(ctx, url)
		}})
	}
	return steps
}

func (d *Dispatcher) focus(ctx context.Context, name string) Result {
	if err := d.actions.FocusProcess(ctx, name); err != nil {
		return d.processFailure(ctx, err, name, "could not focus "+name)
	}
	return Ok("Focused " + name)
}

func (d *Dispatcher) terminate(ctx context.Context, name string) Result {
	if err := d.actions.TerminateProcess(ctx, name); err != nil {
		return d.processFailure(ctx, err, name, "could not quit "+name)
	}
	return Ok("Quit " + name)
}

func (d *Dispatcher) chat(ctx context.Context, text string) Result {
	reply, err := d.actions.InvokeChat(ctx, text)
	if err != nil {
		return d.failure(ctx, err, "chat request failed")
	}
	if reply.NeedsConfirmation {
		// Key the deferred continuation in our own store; the chat
		// collaborator's id travels inside the resume step.
		chatID := reply.PendingID
		id := d.pending.Add(reply.Message, []Step{{
			Name: "confirm chat action",
			Run: func(ctx context.Context) error {
				_, err := d.actions.InvokeChat(ctx, "/confirm "+chatID)
				return err
			},
		}}, 0)
		return NeedsConfirmation(id, reply.Message)
	}
	return Ok(reply.Message)
}

// processFailure enriches a focus/terminate failure with the closest
// running process name when the target looks like a typo.
func (d *Dispatcher) processFailure(ctx context.Context, err error, name, message string) Result {
	res := d.failure(ctx, err, message)
	if res.Kind == ErrKindTimeout {
		return res
	}
	if procs, lerr := d.actions.ListRunningProcesses(ctx); lerr == nil {
		if closest := rank.ClosestName(name, procs); closest != "" && !strings.EqualFold(closest, name) {
			res.Message = fmt.Sprintf("%s — did you mean %s?", res.Message, closest)
		}
	}
	return res
}

// failure converts a collaborator error into a displayable result,
// treating timeouts identically to failures but labeling them.
func (d *Dispatcher) failure(ctx context.Context, err error, message string) Result {
	kind := errKindFor(ctx, err)
	if kind == ErrKindTimeout {
		return Error(kind, message+": timed out")
	}
	return Error(kind, fmt.Sprintf("%s: %v", message, err))
}

func errKindFor(ctx context.Context, err error) ErrorKind {
	if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
		return ErrKindTimeout
	}
	return ErrKindFailed
}

func (d *Dispatcher) projectByNickname(name string) (domain.ProjectShortcut, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	for _, p := range d.settings.Projects() {
		if strings.ToLower(p.Nickname) == needle {
			return p, true
		}
	}
	return domain.ProjectShortcut{}, false
}

func (d *Dispatcher) publish(e eventbus.DomainEvent) {
	if d.bus != nil {
		d.bus.Publish(e)
	}
}
