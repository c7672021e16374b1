// Package providers implements the external collaborators the palette core
// consumes: installed-app search, running-process listing, recent items,
// the calculator, browser/system actions and the chat endpoint. The core
// (classifier, ranker, session) never imports this package; only the
// dispatcher and the wiring in main do.
package providers

import (
	"context"
	"errors"
	"os"

	"cmdpal/internal/dispatch"
	"cmdpal/internal/domain"
)

// Searcher produces raw app candidates for a query.
type Searcher interface {
	SearchInstalledApps(ctx context.Context, query string) ([]domain.Candidate, error)
}

// ProcessLister lists running processes.
type ProcessLister interface {
	ListRunningProcesses(ctx context.Context) ([]domain.Process, error)
}

// RecentLister lists recent files/folders, optionally filtered by type.
type RecentLister interface {
	ListRecentItems(ctx context.Context, filter domain.RecentFilter) ([]domain.RecentItem, error)
}

// Service is the concrete collaborator set for a Linux desktop. It
// implements dispatch.Actions plus the fetch interfaces above.
type Service struct {
	apps      *appIndex
	chat      *chatClient
	searchURL string // web search URL with %s placeholder
}

// Config carries the knobs the collaborators need.
type Config struct {
	ChatEndpoint string
	SearchURL    string
}

const defaultSearchURL = "https://duckduckgo.com/?q=%s"

// NewService creates the collaborator set.
func NewService(cfg Config) *Service {
	searchURL := cfg.SearchURL
	if searchURL == "" {
		searchURL = defaultSearchURL
	}
	return &Service{
		apps:      newAppIndex(),
		chat:      newChatClient(cfg.ChatEndpoint),
		searchURL: searchURL,
	}
}

// CheckPath reports ErrPathMissing when the path does not exist. Any other
// stat failure is returned as-is.
func (s *Service) CheckPath(_ context.Context, path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return dispatch.ErrPathMissing
		}
		return err
	}
	return nil
}

var _ dispatch.Actions = (*Service)(nil)
var _ Searcher = (*Service)(nil)
var _ ProcessLister = (*Service)(nil)
var _ RecentLister = (*Service)(nil)
