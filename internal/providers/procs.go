package providers

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cmdpal/internal/domain"
)

// ListRunningProcesses reads process names from /proc. Kernel threads and
// duplicate names are collapsed; the session caches the result for a few
// seconds so typing doesn't rescan per keystroke.
func (s *Service) ListRunningProcesses(ctx context.Context) ([]domain.Process, error) {
	dirs, err := os.ReadDir("/proc")
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var procs []domain.Process
	for _, d := range dirs {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !d.IsDir() || !isNumeric(d.Name()) {
			continue
		}
		comm, err := os.ReadFile(filepath.Join("/proc", d.Name(), "comm"))
		if err != nil {
			continue // process exited between ReadDir and ReadFile
		}
		name := strings.TrimSpace(string(comm))
		if name == "" || seen[name] {
			continue
		}
		// Kernel threads have an empty cmdline
		cmdline, err := os.ReadFile(filepath.Join("/proc", d.Name(), "cmdline"))
		if err != nil || len(cmdline) == 0 {
			continue
		}
		seen[name] = true
		procs = append(procs, domain.Process{Name: name})
	}

	sort.Slice(procs, func(i, j int) bool {
		return strings.ToLower(procs[i].Name) < strings.ToLower(procs[j].Name)
	})
	return procs, nil
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
