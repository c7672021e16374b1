package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"cmdpal/internal/config"
	"cmdpal/internal/dispatch"
	"cmdpal/internal/eventbus"
	"cmdpal/internal/logging"
	"cmdpal/internal/providers"
	"cmdpal/internal/session"
	"cmdpal/internal/ui"
)

func main() {
	// Parse command line arguments
	var configPath string
	var debug bool
	flag.StringVar(&configPath, "config", "", "Path to the config file")
	flag.StringVar(&configPath, "c", "", "Path to the config file (shorthand)")
	flag.BoolVar(&debug, "debug", false, "Enable debug logging")
	flag.Parse()

	if configPath == "" {
		configPath = config.DefaultPath()
	}

	// Set up logging
	if _, err := logging.Init("", debug); err != nil {
		fmt.Printf("Could not open log file: %v\n", err)
	}
	defer logging.Sync()

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		logging.L().Warn("error loading config, using defaults", zap.Error(err))
		cfg = config.DefaultConfig()
	}
	store := config.NewStore(cfg, configPath)

	// Create event bus
	bus := eventbus.New()

	// Reload settings when the file changes on disk
	if err := config.Watch(ctx, store, bus); err != nil {
		logging.L().Warn("config watcher unavailable", zap.Error(err))
	}

	// Initialize collaborators and the dispatch pipeline
	svc := providers.NewService(providers.Config{
		ChatEndpoint: store.Current().ChatEndpoint,
		SearchURL:    store.Current().SearchURL,
	})
	pending := dispatch.NewPendingStore(dispatch.DefaultPendingTTL)
	dispatcher := dispatch.New(svc, store, pending, bus, dispatch.DefaultTimeout)

	sess := session.New(session.Options{
		SuggestionCap: store.Current().MaxSuggestions,
		DebounceFast:  millis(store.Current().DebounceFastMs),
		DebounceSlow:  millis(store.Current().DebounceSlowMs),
	})

	// Create UI model
	uiModel := ui.New(sess, dispatcher, svc, bus)

	// Create Bubble Tea program
	p := tea.NewProgram(uiModel, tea.WithAltScreen(), tea.WithMouseCellMotion())
	uiModel.AttachProgram(p)

	// Set up event forwarding to UI
	eventChan := make(chan eventbus.DomainEvent, 100)
	forward := func(e eventbus.DomainEvent) {
		select {
		case eventChan <- e:
		default:
			logging.L().Warn("event channel full, dropping event")
		}
	}
	bus.Subscribe(eventbus.EventDispatchStarted, forward)
	bus.Subscribe(eventbus.EventDispatchCompleted, forward)
	bus.Subscribe(eventbus.EventConfirmationRequested, forward)
	bus.Subscribe(eventbus.EventConfirmationResolved, forward)
	bus.Subscribe(eventbus.EventConfigLoaded, forward)
	bus.Subscribe(eventbus.EventError, forward)

	// Start forwarding events to UI in background
	go func() {
		for event := range eventChan {
			p.Send(ui.BusEvent(event))
		}
	}()

	// Run the UI
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}

	// Cleanup
	close(eventChan)
	cancel()
}

// millis converts a config debounce override to a duration; zero keeps the
// session default.
func millis(ms int) time.Duration {
	if ms <= 0 {
		return 0
	}
	return time.Duration(ms) * time.Millisecond
}
