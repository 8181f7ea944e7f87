package core

import "fmt"

// Code classifies session errors
type Code uint8

const (
	CodeUnknown Code = iota
	// CodeMissingReference: a required collaborator was not found at bind time
	CodeMissingReference
	// CodeDuplicateDestruction: destroy against an already destroyed block, always a no-op
	CodeDuplicateDestruction
	// CodeReplicationDesync: observer projection diverged from authority truth
	CodeReplicationDesync
	// CodeConfiguration: invalid grid dimensions, tuning or asset categories
	CodeConfiguration
	// CodeNotAuthority: an authority-only operation invoked on an observer
	CodeNotAuthority
	// CodeUnknownEntity: message referenced an entity that does not exist
	CodeUnknownEntity
	// CodeDecode: malformed wire payload
	CodeDecode
)

func (c Code) String() string {
	switch c {
	case CodeMissingReference:
		return "missing_reference"
	case CodeDuplicateDestruction:
		return "duplicate_destruction"
	case CodeReplicationDesync:
		return "replication_desync"
	case CodeConfiguration:
		return "configuration"
	case CodeNotAuthority:
		return "not_authority"
	case CodeUnknownEntity:
		return "unknown_entity"
	case CodeDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// Error is the session error type
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain traversal
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error with the same code, so sentinels work with errors.Is
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// Sentinels for errors.Is
var (
	ErrMissingReference     = &Error{Code: CodeMissingReference}
	ErrDuplicateDestruction = &Error{Code: CodeDuplicateDestruction}
	ErrReplicationDesync    = &Error{Code: CodeReplicationDesync}
	ErrConfiguration        = &Error{Code: CodeConfiguration}
	ErrNotAuthority         = &Error{Code: CodeNotAuthority}
	ErrUnknownEntity        = &Error{Code: CodeUnknownEntity}
	ErrDecode               = &Error{Code: CodeDecode}
)

// Errorf creates a coded error with a formatted message
func Errorf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a coded error around a cause
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}
