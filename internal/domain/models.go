package domain

// IntentKind identifies what the user probably means by the current input.
type IntentKind string

const (
	IntentPath      IntentKind = "path"
	IntentApp       IntentKind = "app"
	IntentCalculate IntentKind = "calculate"
	IntentSearch    IntentKind = "search"
	IntentChat      IntentKind = "chat"
	IntentQuit      IntentKind = "quit"
	IntentSwitch    IntentKind = "switch"
	IntentRecent    IntentKind = "recent"
	IntentURL       IntentKind = "url"
	IntentUnknown   IntentKind = "unknown"
)

// Intent is the classified purpose of a text input. Value carries the input
// with routing prefixes/keywords stripped. Immutable once computed.
type Intent struct {
	Kind       IntentKind
	Value      string
	Confidence float64
}

// CandidateKind identifies where a candidate came from and how it dispatches.
type CandidateKind string

const (
	CandidateApp     CandidateKind = "app"
	CandidateProcess CandidateKind = "process"
	CandidateRecent  CandidateKind = "recent"
	CandidateSystem  CandidateKind = "system"
	CandidateProject CandidateKind = "project"
)

// Candidate is one rankable actionable item shown to the user.
// Candidates are transient: rebuilt per query, never persisted.
type Candidate struct {
	DisplayName string
	ActionKey   string // launch path, process name or system action id
	Kind        CandidateKind
	Score       float64

	// App metadata
	IsPackagedApp bool
	WorkingDir    string
	LaunchArgs    []string

	// Recent-item metadata
	IsFolder bool
}

// Process is one running process as reported by the process lister.
type Process struct {
	Name        string
	WindowTitle string
}

// RecentItem is one entry from the recent files/folders collaborator.
type RecentItem struct {
	Name     string
	Path     string
	IsFolder bool
}

// RecentFilter narrows a recent-items query to one item type.
type RecentFilter string

const (
	RecentAll     RecentFilter = ""
	RecentFiles   RecentFilter = "files"
	RecentFolders RecentFilter = "folders"
)

// SystemAction is one of the fixed system power actions.
type SystemAction struct {
	ID    string // internal name, e.g. "shutdown"
	Label string // human display label, e.g. "Shut Down"
}

// SystemActions is the fixed enumerated set matched against every query.
var SystemActions = []SystemAction{
	{ID: "restart", Label: "Restart"},
	{ID: "shutdown", Label: "Shut Down"},
	{ID: "sleep", Label: "Sleep"},
	{ID: "hibernate", Label: "Hibernate"},
	{ID: "lock", Label: "Lock Screen"},
	{ID: "signout", Label: "Sign Out"},
}

// ProjectShortcut is a configured developer-workflow target: typing the
// nickname opens the project in the preferred IDE, runs the start command
// and opens the browser on the port.
type ProjectShortcut struct {
	Nickname     string
	Path         string
	StartCommand string
	Port         int
}

// ChatReply is the normalized response of the chat collaborator.
type ChatReply struct {
	Message           string
	NeedsConfirmation bool
	PendingID         string
}
