package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"cmdpal/internal/domain"
)

// Config represents the application configuration
type Config struct {
	Version        int       `toml:"version"`
	Debug          bool      `toml:"debug"`
	PreferredIDE   string    `toml:"preferred_ide"`
	DefaultPort    int       `toml:"default_port"`
	ChatEndpoint   string    `toml:"chat_endpoint"`
	SearchURL      string    `toml:"search_url"`
	MaxSuggestions int       `toml:"max_suggestions"`
	DebounceFastMs int       `toml:"debounce_fast_ms"`
	DebounceSlowMs int       `toml:"debounce_slow_ms"`
	Projects       []Project `toml:"projects"`
}

// Project is a named developer-workflow shortcut.
type Project struct {
	Nickname     string `toml:"nickname"`
	Path         string `toml:"path"`
	StartCommand string `toml:"start_command"`
	Port         int    `toml:"port"`
}

// DefaultPath returns the canonical settings file location.
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		home, herr := os.UserHomeDir()
		if herr != nil {
			home = "."
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "cmdpal", "config.toml")
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version:        1,
		PreferredIDE:   "code",
		DefaultPort:    3000,
		MaxSuggestions: 10,
	}
}

// Load reads configuration from path, creating the default file when none
// exists yet.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			if serr := Save(cfg, path); serr != nil {
				return cfg, nil // a read-only config dir is not fatal
			}
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.MaxSuggestions <= 0 {
		cfg.MaxSuggestions = DefaultConfig().MaxSuggestions
	}
	return &cfg, nil
}

// Save writes configuration to path.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Store holds the live configuration and serves reads from any goroutine.
// It implements the read-only settings surface the dispatcher consumes.
type Store struct {
	mu   sync.RWMutex
	path string
	cfg  *Config
}

// NewStore wraps a loaded config.
func NewStore(cfg *Config, path string) *Store {
	return &Store{cfg: cfg, path: path}
}

// Current returns the live configuration snapshot.
func (s *Store) Current() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return *s.cfg
}

// Replace swaps in a newly loaded configuration.
func (s *Store) Replace(cfg *Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg
}

// Path returns the settings file location backing the store.
func (s *Store) Path() string { return s.path }

// PreferredIDE returns the configured IDE command.
func (s *Store) PreferredIDE() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cfg.PreferredIDE == "" {
		return DefaultConfig().PreferredIDE
	}
	return s.cfg.PreferredIDE
}

// DefaultPort returns the fallback port for project shortcuts.
func (s *Store) DefaultPort() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cfg.DefaultPort == 0 {
		return DefaultConfig().DefaultPort
	}
	return s.cfg.DefaultPort
}

// Projects returns the configured shortcuts as domain values.
func (s *Store) Projects() []domain.ProjectShortcut {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.ProjectShortcut, 0, len(s.cfg.Projects))
	for _, p := range s.cfg.Projects {
		out = append(out, domain.ProjectShortcut{
			Nickname:     p.Nickname,
			Path:         p.Path,
			StartCommand: p.StartCommand,
			Port:         p.Port,
		})
	}
	return out
}
