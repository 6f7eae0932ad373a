package polls

import "fmt"

// ErrorKind names a validation failure surfaced to the caller. The
// transport layer maps kinds to HTTP statuses; messages travel verbatim.
type ErrorKind int

const (
	KindNotFound ErrorKind = iota
	KindAlreadyVoted
	KindPollClosed
	KindInvalidOption
	KindInvalidPayload
	KindNoOpUpdate
	KindConflict
	KindForbidden
)

type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// KindOf extracts the kind from an engine error.
func KindOf(err error) (ErrorKind, bool) {
	if e, ok := err.(*Error); ok {
		return e.Kind, true
	}
	return 0, false
}

var errInternalServer = fmt.Errorf("internal server error")
