package providers

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"strings"

	"cmdpal/internal/domain"
)

// OpenApplication launches an app candidate. A candidate with launch args
// is started directly; a bare name (directly-typed input) is resolved
// through the installed-app index first. The child is detached — the
// dispatch timeout bounds the launch, not the app's lifetime.
func (s *Service) OpenApplication(ctx context.Context, c domain.Candidate) error {
	args := c.LaunchArgs
	if len(args) == 0 {
		resolved, err := s.lookupApp(ctx, c.ActionKey)
		if err != nil {
			return err
		}
		args = resolved.LaunchArgs
		if c.WorkingDir == "" {
			c.WorkingDir = resolved.WorkingDir
		}
	}
	if len(args) == 0 {
		return fmt.Errorf("no launch command for %s", c.DisplayName)
	}
	return startDetached(args, c.WorkingDir)
}

// OpenPath opens a file or folder with the desktop's default handler.
func (s *Service) OpenPath(ctx context.Context, path string) error {
	if err := s.CheckPath(ctx, path); err != nil {
		return err
	}
	return startDetached([]string{"xdg-open", path}, "")
}

// FocusProcess raises the window of a running process by name.
func (s *Service) FocusProcess(ctx context.Context, name string) error {
	out, err := exec.CommandContext(ctx, "wmctrl", "-a", name).CombinedOutput()
	if err != nil {
		return fmt.Errorf("focus %s: %s", name, firstLine(out, err))
	}
	return nil
}

// TerminateProcess asks a process to exit by name.
func (s *Service) TerminateProcess(ctx context.Context, name string) error {
	out, err := exec.CommandContext(ctx, "pkill", "-x", name).CombinedOutput()
	if err != nil {
		return fmt.Errorf("quit %s: %s", name, firstLine(out, err))
	}
	return nil
}

// OpenWebSearchOrURL opens the text in the browser: URLs directly, anything
// else through the configured search engine.
func (s *Service) OpenWebSearchOrURL(_ context.Context, text string) error {
	target := strings.TrimSpace(text)
	if target == "" {
		return fmt.Errorf("nothing to open")
	}
	if !strings.Contains(target, "://") {
		if looksNavigable(target) {
			target = "https://" + target
		} else {
			target = strings.Replace(s.searchURL, "%s", url.QueryEscape(target), 1)
		}
	}
	return startDetached([]string{"xdg-open", target}, "")
}

// looksNavigable decides between navigating and searching for schemeless
// input: single token with a dot, or localhost.
func looksNavigable(text string) bool {
	if strings.ContainsAny(text, " \t") {
		return false
	}
	return strings.Contains(text, ".") || strings.HasPrefix(text, "localhost")
}

// RunSystemAction executes one of the fixed power actions.
func (s *Service) RunSystemAction(ctx context.Context, actionID string) error {
	var args []string
	switch actionID {
	case "restart":
		args = []string{"systemctl", "reboot"}
	case "shutdown":
		args = []string{"systemctl", "poweroff"}
	case "sleep":
		args = []string{"systemctl", "suspend"}
	case "hibernate":
		args = []string{"systemctl", "hibernate"}
	case "lock":
		args = []string{"loginctl", "lock-session"}
	case "signout":
		args = []string{"loginctl", "terminate-user", os.Getenv("USER")}
	default:
		return fmt.Errorf("unknown system action %q", actionID)
	}
	out, err := exec.CommandContext(ctx, args[0], args[1:]...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %s", actionID, firstLine(out, err))
	}
	return nil
}

// RunCommand runs a project start command in its working directory,
// detached from the palette's lifetime.
func (s *Service) RunCommand(_ context.Context, workingDir, command string) error {
	if strings.TrimSpace(command) == "" {
		return fmt.Errorf("empty command")
	}
	return startDetached([]string{"sh", "-c", command}, workingDir)
}

// startDetached starts a child process and releases it so it outlives the
// palette. Deliberately not CommandContext: the dispatch timeout must not
// kill the launched program.
func startDetached(args []string, workingDir string) error {
	cmd := exec.Command(args[0], args[1:]...)
	if workingDir != "" {
		cmd.Dir = workingDir
	}
	if err := cmd.Start(); err != nil {
		return err
	}
	return cmd.Process.Release()
}

func firstLine(out []byte, fallback error) string {
	line := strings.TrimSpace(strings.SplitN(string(out), "\n", 2)[0])
	if line == "" {
		return fallback.Error()
	}
	return line
}
