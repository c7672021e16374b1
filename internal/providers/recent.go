package providers

import (
	"context"
	"encoding/xml"
	"net/url"
	"os"
	"path/filepath"
	"sort"

	"cmdpal/internal/domain"
)

// recentLimit caps how many entries the recent-items collaborator returns.
const recentLimit = 50

// xbel mirrors the GTK recently-used.xbel bookmark file.
type xbel struct {
	Bookmarks []xbelBookmark `xml:"bookmark"`
}

type xbelBookmark struct {
	Href     string `xml:"href,attr"`
	Modified string `xml:"modified,attr"`
}

// ListRecentItems reads the desktop's recently-used bookmark file, newest
// first, optionally narrowed to files or folders.
func (s *Service) ListRecentItems(ctx context.Context, filter domain.RecentFilter) ([]domain.RecentItem, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(home, ".local", "share", "recently-used.xbel"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // no recent items yet is not an error
		}
		return nil, err
	}

	var doc xbel
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	// The file is append-ordered; newest entries last
	sort.SliceStable(doc.Bookmarks, func(i, j int) bool {
		return doc.Bookmarks[i].Modified > doc.Bookmarks[j].Modified
	})

	var items []domain.RecentItem
	for _, b := range doc.Bookmarks {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		path, ok := hrefToPath(b.Href)
		if !ok {
			continue
		}
		info, err := os.Stat(path)
		if err != nil {
			continue // deleted since it was recorded
		}
		isFolder := info.IsDir()
		if filter == domain.RecentFiles && isFolder {
			continue
		}
		if filter == domain.RecentFolders && !isFolder {
			continue
		}
		items = append(items, domain.RecentItem{
			Name:     filepath.Base(path),
			Path:     path,
			IsFolder: isFolder,
		})
		if len(items) >= recentLimit {
			break
		}
	}
	return items, nil
}

func hrefToPath(href string) (string, bool) {
	u, err := url.Parse(href)
	if err != nil || u.Scheme != "file" {
		return "", false
	}
	return u.Path, true
}
