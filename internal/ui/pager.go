package ui

import (
	"fmt"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/noborus/ov/oviewer"
)

// activityLog is a bounded ring of recent palette events, viewable in the
// pager. Appends happen on the update loop; the pager command renders a
// snapshot from its own goroutine, hence the mutex.
type activityLog struct {
	mu    sync.Mutex
	lines []string
	max   int
}

func newActivityLog(max int) *activityLog {
	return &activityLog{max: max}
}

func (l *activityLog) addf(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	line := time.Now().Format("15:04:05") + "  " + fmt.Sprintf(format, args...)
	l.lines = append(l.lines, line)
	if len(l.lines) > l.max {
		l.lines = l.lines[len(l.lines)-l.max:]
	}
}

func (l *activityLog) render() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.lines) == 0 {
		return "No activity yet."
	}
	return strings.Join(l.lines, "\n")
}

// pagerOps shows content in the ov pager, releasing the bubbletea terminal
// for the duration.
type pagerOps struct {
	program *tea.Program
}

func (p *pagerOps) show(content string) error {
	if p.program == nil {
		return fmt.Errorf("program not set")
	}

	if err := p.program.ReleaseTerminal(); err != nil {
		return err
	}
	defer func() {
		// Small delay to ensure ov has fully exited before restoring terminal
		time.Sleep(100 * time.Millisecond)
		_ = p.program.RestoreTerminal()
	}()

	root, err := oviewer.NewRoot(strings.NewReader(content))
	if err != nil {
		return err
	}

	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)

	return root.Run()
}
