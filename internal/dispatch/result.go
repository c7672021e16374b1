package dispatch

// Status discriminates dispatch outcomes. Collaborators report ad hoc
// success/error shapes; everything is normalized into one Result consumed
// uniformly by the UI.
type Status int

const (
	StatusOk Status = iota
	StatusError
	StatusNeedsConfirmation
)

// ErrorKind classifies failures for display and logging.
type ErrorKind string

const (
	ErrKindFailed   ErrorKind = "failed"
	ErrKindTimeout  ErrorKind = "timeout"
	ErrKindNotFound ErrorKind = "not_found"
	ErrKindBusy     ErrorKind = "busy"
)

// Result is the normalized outcome of a dispatch.
type Result struct {
	Status    Status
	Message   string
	Kind      ErrorKind // set when Status is StatusError
	PendingID string    // set when Status is StatusNeedsConfirmation
}

// Ok builds a success result with a user-visible message.
func Ok(message string) Result {
	return Result{Status: StatusOk, Message: message}
}

// Error builds a failure result.
func Error(kind ErrorKind, message string) Result {
	return Result{Status: StatusError, Kind: kind, Message: message}
}

// NeedsConfirmation builds a deferred result awaiting user yes/no.
func NeedsConfirmation(id, prompt string) Result {
	return Result{Status: StatusNeedsConfirmation, PendingID: id, Message: prompt}
}
