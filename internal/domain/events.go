package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventQueryChanged          EventType = "QueryChanged"
	EventSuggestionsReady      EventType = "SuggestionsReady"
	EventSuggestionsCleared    EventType = "SuggestionsCleared"
	EventDispatchStarted       EventType = "DispatchStarted"
	EventDispatchCompleted     EventType = "DispatchCompleted"
	EventConfirmationRequested EventType = "ConfirmationRequested"
	EventConfirmationResolved  EventType = "ConfirmationResolved"
	EventConfigLoaded          EventType = "ConfigLoaded"
	EventError                 EventType = "Error"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// QueryChangedEvent is emitted on every accepted input change.
type QueryChangedEvent struct {
	Query  string
	Intent Intent
}

func (e QueryChangedEvent) Type() EventType { return EventQueryChanged }

// SuggestionsReadyEvent is emitted when a ranked list replaced the visible one.
type SuggestionsReadyEvent struct {
	Query      string
	Candidates []Candidate
}

func (e SuggestionsReadyEvent) Type() EventType { return EventSuggestionsReady }

// SuggestionsClearedEvent is emitted when the list is hidden.
type SuggestionsClearedEvent struct{}

func (e SuggestionsClearedEvent) Type() EventType { return EventSuggestionsCleared }

// DispatchStartedEvent is emitted when an action begins executing.
type DispatchStartedEvent struct {
	Intent    Intent
	Candidate *Candidate // nil for direct execution of raw input
}

func (e DispatchStartedEvent) Type() EventType { return EventDispatchStarted }

// DispatchCompletedEvent is emitted when an action settles.
type DispatchCompletedEvent struct {
	Intent  Intent
	Ok      bool
	Message string
}

func (e DispatchCompletedEvent) Type() EventType { return EventDispatchCompleted }

// ConfirmationRequestedEvent is emitted when an action needs explicit user
// approval before proceeding (e.g. target path does not exist).
type ConfirmationRequestedEvent struct {
	PendingID string
	Prompt    string
}

func (e ConfirmationRequestedEvent) Type() EventType { return EventConfirmationRequested }

// ConfirmationResolvedEvent is emitted when a pending confirmation is
// accepted, declined or expired.
type ConfirmationResolvedEvent struct {
	PendingID string
	Accepted  bool
}

func (e ConfirmationResolvedEvent) Type() EventType { return EventConfirmationResolved }

// ConfigLoadedEvent is emitted when settings are loaded or reloaded.
type ConfigLoadedEvent struct {
	Path string
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ErrorEvent is emitted when an error occurs
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }
