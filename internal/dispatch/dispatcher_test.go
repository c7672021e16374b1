package dispatch

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cmdpal/internal/domain"
)

// fakeActions records calls and returns scripted results.
type fakeActions struct {
	mu    sync.Mutex
	calls []string

	openAppErr   error
	openPathErr  error
	checkPathErr error
	focusErr     error
	focusDelay   time.Duration
	terminateErr error
	calcOut      string
	calcErr      error
	webErr       error
	sysErr       error
	runErr       error
	chatReply    domain.ChatReply
	chatErr      error
	procs        []domain.Process

	// release, when set, blocks OpenApplication until closed
	release chan struct{}
}

func (f *fakeActions) record(format string, args ...interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *fakeActions) recorded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

func (f *fakeActions) OpenApplication(ctx context.Context, c domain.Candidate) error {
	f.record("open-app %s", c.ActionKey)
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return f.openAppErr
}

func (f *fakeActions) OpenPath(ctx context.Context, path string) error {
	f.record("open-path %s", path)
	return f.openPathErr
}

func (f *fakeActions) CheckPath(ctx context.Context, path string) error {
	f.record("check-path %s", path)
	return f.checkPathErr
}

func (f *fakeActions) FocusProcess(ctx context.Context, name string) error {
	f.record("focus %s", name)
	if f.focusDelay > 0 {
		select {
		case <-time.After(f.focusDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return f.focusErr
}

func (f *fakeActions) TerminateProcess(ctx context.Context, name string) error {
	f.record("terminate %s", name)
	return f.terminateErr
}

func (f *fakeActions) RunCalculation(ctx context.Context, expression string) (string, error) {
	f.record("calc %s", expression)
	return f.calcOut, f.calcErr
}

func (f *fakeActions) OpenWebSearchOrURL(ctx context.Context, text string) error {
	f.record("web %s", text)
	return f.webErr
}

func (f *fakeActions) RunSystemAction(ctx context.Context, actionID string) error {
	f.record("system %s", actionID)
	return f.sysErr
}

func (f *fakeActions) RunCommand(ctx context.Context, workingDir, command string) error {
	f.record("run %s: %s", workingDir, command)
	return f.runErr
}

func (f *fakeActions) InvokeChat(ctx context.Context, text string) (domain.ChatReply, error) {
	f.record("chat %s", text)
	return f.chatReply, f.chatErr
}

func (f *fakeActions) ListRunningProcesses(ctx context.Context) ([]domain.Process, error) {
	return f.procs, nil
}

type fakeSettings struct {
	ide      string
	port     int
	projects []domain.ProjectShortcut
}

func (f fakeSettings) PreferredIDE() string {
	if f.ide == "" {
		return "code"
	}
	return f.ide
}

func (f fakeSettings) DefaultPort() int {
	if f.port == 0 {
		return 3000
	}
	return f.port
}

func (f fakeSettings) Projects() []domain.ProjectShortcut { return f.projects }

func newTestDispatcher(actions *fakeActions, settings fakeSettings) *Dispatcher {
	return New(actions, settings, NewPendingStore(0), nil, 0)
}

func TestDispatchOpensSelectedApp(t *testing.T) {
	t.Parallel()

	fa := &fakeActions{}
	d := newTestDispatcher(fa, fakeSettings{})

	it := domain.Intent{Kind: domain.IntentApp, Value: "fire", Confidence: 0.6}
	cand := domain.Candidate{DisplayName: "Firefox", ActionKey: "firefox.desktop", Kind: domain.CandidateApp}
	res := d.Dispatch(context.Background(), it, &cand)

	require.Equal(t, StatusOk, res.Status)
	assert.Equal(t, "Opened Firefox", res.Message)
	assert.Equal(t, []string{"open-app firefox.desktop"}, fa.recorded())
}

func TestDispatchDirectExecutionRoutesByIntent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		intent   domain.Intent
		wantCall string
	}{
		{domain.Intent{Kind: domain.IntentApp, Value: "spotify"}, "open-app spotify"},
		{domain.Intent{Kind: domain.IntentURL, Value: "https://x.com"}, "web https://x.com"},
		{domain.Intent{Kind: domain.IntentSearch, Value: "how to exit vim"}, "web how to exit vim"},
		{domain.Intent{Kind: domain.IntentSwitch, Value: "chrome"}, "focus chrome"},
		{domain.Intent{Kind: domain.IntentQuit, Value: "chrome"}, "terminate chrome"},
	}
	for _, tt := range tests {
		fa := &fakeActions{}
		d := newTestDispatcher(fa, fakeSettings{})
		res := d.Dispatch(context.Background(), tt.intent, nil)
		require.Equal(t, StatusOk, res.Status, "intent %s", tt.intent.Kind)
		assert.Equal(t, []string{tt.wantCall}, fa.recorded())
	}
}

func TestDispatchCalculate(t *testing.T) {
	t.Parallel()

	fa := &fakeActions{calcOut: "8"}
	d := newTestDispatcher(fa, fakeSettings{})

	it := domain.Intent{Kind: domain.IntentCalculate, Value: "2+2*3", Confidence: 0.85}
	res := d.Dispatch(context.Background(), it, nil)

	require.Equal(t, StatusOk, res.Status)
	assert.Equal(t, "2+2*3 = 8", res.Message)
}

func TestDispatchSystemCandidate(t *testing.T) {
	t.Parallel()

	fa := &fakeActions{}
	d := newTestDispatcher(fa, fakeSettings{})

	cand := domain.Candidate{DisplayName: "Shut Down", ActionKey: "shutdown", Kind: domain.CandidateSystem}
	res := d.Dispatch(context.Background(), domain.Intent{Kind: domain.IntentApp, Value: "shut"}, &cand)

	require.Equal(t, StatusOk, res.Status)
	assert.Equal(t, []string{"system shutdown"}, fa.recorded())
}

func TestDispatchProcessCandidateQuitTerminates(t *testing.T) {
	t.Parallel()

	fa := &fakeActions{}
	d := newTestDispatcher(fa, fakeSettings{})

	cand := domain.Candidate{DisplayName: "chrome", ActionKey: "chrome", Kind: domain.CandidateProcess}

	res := d.Dispatch(context.Background(), domain.Intent{Kind: domain.IntentQuit, Value: "chr"}, &cand)
	require.Equal(t, StatusOk, res.Status)

	res = d.Dispatch(context.Background(), domain.Intent{Kind: domain.IntentSwitch, Value: "chr"}, &cand)
	require.Equal(t, StatusOk, res.Status)

	assert.Equal(t, []string{"terminate chrome", "focus chrome"}, fa.recorded())
}

func TestDispatchBusyGuard(t *testing.T) {
	t.Parallel()

	fa := &fakeActions{release: make(chan struct{})}
	d := newTestDispatcher(fa, fakeSettings{})

	it := domain.Intent{Kind: domain.IntentApp, Value: "slow"}
	done := make(chan Result, 1)
	go func() {
		done <- d.Dispatch(context.Background(), it, nil)
	}()

	// Wait until the first dispatch is inside the collaborator call
	require.Eventually(t, func() bool {
		return len(fa.recorded()) == 1
	}, time.Second, time.Millisecond)

	res := d.Dispatch(context.Background(), it, nil)
	require.Equal(t, StatusError, res.Status)
	assert.Equal(t, ErrKindBusy, res.Kind)

	close(fa.release)
	first := <-done
	assert.Equal(t, StatusOk, first.Status)

	// The guard lifts once the first dispatch settles
	res = d.Dispatch(context.Background(), it, nil)
	assert.Equal(t, StatusOk, res.Status)
}

func TestDispatchTimeoutReportedAsTimeout(t *testing.T) {
	t.Parallel()

	fa := &fakeActions{focusDelay: time.Second}
	d := New(fa, fakeSettings{}, NewPendingStore(0), nil, 30*time.Millisecond)

	it := domain.Intent{Kind: domain.IntentSwitch, Value: "chrome", Confidence: 1.0}
	res := d.Dispatch(context.Background(), it, nil)

	require.Equal(t, StatusError, res.Status)
	assert.Equal(t, ErrKindTimeout, res.Kind)
	assert.Contains(t, res.Message, "timed out")
}

func TestOpenMissingPathDefersBehindConfirmation(t *testing.T) {
	t.Parallel()

	fa := &fakeActions{openPathErr: ErrPathMissing}
	d := newTestDispatcher(fa, fakeSettings{})

	it := domain.Intent{Kind: domain.IntentPath, Value: "/missing/file", Confidence: 0.9}
	res := d.Dispatch(context.Background(), it, nil)

	require.Equal(t, StatusNeedsConfirmation, res.Status)
	require.NotEmpty(t, res.PendingID)
	assert.Contains(t, res.Message, "/missing/file does not exist")

	// Accepting replays the open
	fa.openPathErr = nil
	resolved := d.Resolve(context.Background(), res.PendingID, true)
	require.Equal(t, StatusOk, resolved.Status)
	assert.Equal(t, []string{"open-path /missing/file", "open-path /missing/file"}, fa.recorded())

	// The id is single-use
	replayed := d.Resolve(context.Background(), res.PendingID, true)
	assert.Equal(t, ErrKindNotFound, replayed.Kind)
}

func TestDeclinedConfirmationHasNoSideEffect(t *testing.T) {
	t.Parallel()

	fa := &fakeActions{openPathErr: ErrPathMissing}
	d := newTestDispatcher(fa, fakeSettings{})

	it := domain.Intent{Kind: domain.IntentPath, Value: "/missing", Confidence: 0.9}
	res := d.Dispatch(context.Background(), it, nil)
	require.Equal(t, StatusNeedsConfirmation, res.Status)

	declined := d.Resolve(context.Background(), res.PendingID, false)
	require.Equal(t, StatusOk, declined.Status)
	assert.Equal(t, "canceled", declined.Message)

	// Only the original probe ran
	assert.Equal(t, []string{"open-path /missing"}, fa.recorded())

	// A declined id cannot be replayed into execution
	replayed := d.Resolve(context.Background(), res.PendingID, true)
	assert.Equal(t, ErrKindNotFound, replayed.Kind)
	assert.Equal(t, []string{"open-path /missing"}, fa.recorded())
}

func TestProjectShortcutRunsFullWorkflow(t *testing.T) {
	t.Parallel()

	fa := &fakeActions{}
	settings := fakeSettings{
		ide:  "code",
		port: 3000,
		projects: []domain.ProjectShortcut{
			{Nickname: "blog", Path: "/home/me/blog", StartCommand: "npm run dev", Port: 8080},
		},
	}
	d := newTestDispatcher(fa, settings)

	// The nickname is typed directly; it beats the app-launch fallback
	it := domain.Intent{Kind: domain.IntentApp, Value: "blog", Confidence: 0.6}
	res := d.Dispatch(context.Background(), it, nil)

	require.Equal(t, StatusOk, res.Status)
	assert.Equal(t, "Started blog", res.Message)
	assert.Equal(t, []string{
		"check-path /home/me/blog",
		"run /home/me/blog: code .",
		"run /home/me/blog: npm run dev",
		"web http://localhost:8080",
	}, fa.recorded())
}

func TestProjectShortcutFallsBackToDefaultPort(t *testing.T) {
	t.Parallel()

	fa := &fakeActions{}
	settings := fakeSettings{
		port: 4000,
		projects: []domain.ProjectShortcut{
			{Nickname: "api", Path: "/home/me/api"},
		},
	}
	d := newTestDispatcher(fa, settings)

	res := d.Dispatch(context.Background(), domain.Intent{Kind: domain.IntentApp, Value: "api"}, nil)
	require.Equal(t, StatusOk, res.Status)
	assert.Contains(t, fa.recorded(), "web http://localhost:4000")
}

func TestProjectMissingPathDefersWholeWorkflow(t *testing.T) {
	t.Parallel()

	fa := &fakeActions{checkPathErr: ErrPathMissing}
	settings := fakeSettings{
		projects: []domain.ProjectShortcut{
			{Nickname: "blog", Path: "/gone", Port: 8080},
		},
	}
	d := newTestDispatcher(fa, settings)

	res := d.Dispatch(context.Background(), domain.Intent{Kind: domain.IntentApp, Value: "blog"}, nil)
	require.Equal(t, StatusNeedsConfirmation, res.Status)
	assert.Equal(t, []string{"check-path /gone"}, fa.recorded())

	resolved := d.Resolve(context.Background(), res.PendingID, true)
	require.Equal(t, StatusOk, resolved.Status)
	assert.Equal(t, []string{
		"check-path /gone",
		"run /gone: code .",
		"web http://localhost:8080",
	}, fa.recorded())
}

func TestProcessFailureSuggestsClosestName(t *testing.T) {
	t.Parallel()

	fa := &fakeActions{
		focusErr: fmt.Errorf("no window matched"),
		procs:    []domain.Process{{Name: "chrome"}, {Name: "firefox"}},
	}
	d := newTestDispatcher(fa, fakeSettings{})

	it := domain.Intent{Kind: domain.IntentSwitch, Value: "chrme", Confidence: 1.0}
	res := d.Dispatch(context.Background(), it, nil)

	require.Equal(t, StatusError, res.Status)
	assert.Contains(t, res.Message, "did you mean chrome?")
}

func TestChatNeedsConfirmationRoundTrip(t *testing.T) {
	t.Parallel()

	fa := &fakeActions{
		chatReply: domain.ChatReply{
			Message:           "Close 3 windows?",
			NeedsConfirmation: true,
			PendingID:         "remote-42",
		},
	}
	d := newTestDispatcher(fa, fakeSettings{})

	it := domain.Intent{Kind: domain.IntentChat, Value: "close my windows", Confidence: 1.0}
	res := d.Dispatch(context.Background(), it, nil)

	require.Equal(t, StatusNeedsConfirmation, res.Status)
	assert.Equal(t, "Close 3 windows?", res.Message)

	fa.chatReply = domain.ChatReply{Message: "done"}
	resolved := d.Resolve(context.Background(), res.PendingID, true)
	require.Equal(t, StatusOk, resolved.Status)
	assert.Equal(t, []string{"chat close my windows", "chat /confirm remote-42"}, fa.recorded())
}

func TestDispatchRecentIntentWithoutCandidateFails(t *testing.T) {
	t.Parallel()

	fa := &fakeActions{}
	d := newTestDispatcher(fa, fakeSettings{})

	res := d.Dispatch(context.Background(), domain.Intent{Kind: domain.IntentRecent, Value: "files"}, nil)
	require.Equal(t, StatusError, res.Status)
	assert.Equal(t, ErrKindNotFound, res.Kind)
}
