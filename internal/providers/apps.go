package providers

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"cmdpal/internal/domain"
)

// appIndex scans XDG application directories for .desktop entries and
// caches the parsed list. Installed apps change rarely; the cache TTL just
// keeps a long-running palette from going stale.
type appIndex struct {
	cache *expirable.LRU[string, []desktopEntry]
	dirs  []string
}

const (
	appCacheKey = "apps"
	appCacheTTL = 5 * time.Minute
)

type desktopEntry struct {
	Name       string
	Exec       string
	Path       string // working directory (Path= key)
	DesktopID  string
	IsPackaged bool
}

func newAppIndex() *appIndex {
	var dirs []string
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".local", "share", "applications"))
	}
	dirs = append(dirs,
		"/usr/local/share/applications",
		"/usr/share/applications",
		"/var/lib/flatpak/exports/share/applications",
	)
	return &appIndex{
		cache: expirable.NewLRU[string, []desktopEntry](1, nil, appCacheTTL),
		dirs:  dirs,
	}
}

// SearchInstalledApps returns every launchable app as an unscored raw
// candidate; the ranker filters and orders them against the query.
func (s *Service) SearchInstalledApps(ctx context.Context, _ string) ([]domain.Candidate, error) {
	entries, err := s.apps.entries(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Candidate, 0, len(entries))
	for _, e := range entries {
		out = append(out, domain.Candidate{
			DisplayName:   e.Name,
			ActionKey:     e.DesktopID,
			Kind:          domain.CandidateApp,
			IsPackagedApp: e.IsPackaged,
			WorkingDir:    e.Path,
			LaunchArgs:    execArgs(e.Exec),
		})
	}
	return out, nil
}

func (a *appIndex) entries(ctx context.Context) ([]desktopEntry, error) {
	if cached, ok := a.cache.Get(appCacheKey); ok {
		return cached, nil
	}

	seen := make(map[string]bool)
	var entries []desktopEntry
	for _, dir := range a.dirs {
		files, err := os.ReadDir(dir)
		if err != nil {
			continue // directory may not exist on this machine
		}
		for _, f := range files {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if f.IsDir() || !strings.HasSuffix(f.Name(), ".desktop") {
				continue
			}
			if seen[f.Name()] {
				continue // earlier dirs shadow later ones, like the desktop does
			}
			entry, ok := parseDesktopFile(filepath.Join(dir, f.Name()))
			if !ok {
				continue
			}
			seen[f.Name()] = true
			entries = append(entries, entry)
		}
	}
	a.cache.Add(appCacheKey, entries)
	return entries, nil
}

// parseDesktopFile extracts the launch-relevant keys from the main section
// of a .desktop file. Hidden and NoDisplay entries are skipped.
func parseDesktopFile(path string) (desktopEntry, bool) {
	f, err := os.Open(path)
	if err != nil {
		return desktopEntry{}, false
	}
	defer f.Close()

	entry := desktopEntry{DesktopID: filepath.Base(path)}
	inMain := false
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "[Desktop Entry]":
			inMain = true
			continue
		case strings.HasPrefix(line, "["):
			inMain = false
			continue
		}
		if !inMain {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		switch key {
		case "Name":
			if entry.Name == "" {
				entry.Name = value
			}
		case "Exec":
			entry.Exec = value
		case "Path":
			entry.Path = value
		case "NoDisplay", "Hidden":
			if value == "true" {
				return desktopEntry{}, false
			}
		case "Type":
			if value != "Application" {
				return desktopEntry{}, false
			}
		}
	}
	if entry.Name == "" || entry.Exec == "" {
		return desktopEntry{}, false
	}
	entry.IsPackaged = strings.Contains(entry.Exec, "flatpak run") ||
		strings.HasPrefix(entry.Exec, "/snap/") ||
		strings.Contains(path, "/flatpak/")
	return entry, true
}

// execArgs strips the %-field codes desktop files embed in Exec lines.
func execArgs(execLine string) []string {
	fields := strings.Fields(execLine)
	out := fields[:0:0]
	for _, f := range fields {
		if strings.HasPrefix(f, "%") {
			continue
		}
		out = append(out, f)
	}
	return out
}

// lookupApp finds an installed app by display name, case-insensitive.
func (s *Service) lookupApp(ctx context.Context, name string) (domain.Candidate, error) {
	cands, err := s.SearchInstalledApps(ctx, name)
	if err != nil {
		return domain.Candidate{}, err
	}
	needle := strings.ToLower(strings.TrimSpace(name))
	var prefix *domain.Candidate
	for i := range cands {
		n := strings.ToLower(cands[i].DisplayName)
		if n == needle {
			return cands[i], nil
		}
		if prefix == nil && strings.HasPrefix(n, needle) {
			prefix = &cands[i]
		}
	}
	if prefix != nil {
		return *prefix, nil
	}
	return domain.Candidate{}, fmt.Errorf("no installed application named %q", name)
}
