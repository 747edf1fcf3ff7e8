package mip

import "fmt"

// Kind categorizes mip errors per the taxonomy of spec.md §7.
type Kind int

const (
	// UsageError indicates invalid caller input (bad flags, malformed
	// transmission id, missing required parameter).
	UsageError Kind = iota

	// IoError indicates a local filesystem failure.
	IoError

	// NetworkError indicates a socket-level failure: connect/read/write
	// failure, unexpected connection close, deadline exceeded.
	NetworkError

	// ProtocolError indicates a peer response that violates the MIP
	// dialogue (bad ACK return code, unexpected record code where one
	// of the expected codes was required).
	ProtocolError

	// FramingError indicates malformed length-prefixed framing or a
	// malformed IPM container (bad RDW length, truncated block).
	FramingError

	// NotFoundError indicates a receive-side sequence scan ran from its
	// starting SS through 99 without the peer ever returning a 004
	// header. Inside the scan it also marks a single declined sequence.
	NotFoundError
)

func (k Kind) String() string {
	switch k {
	case UsageError:
		return "usage error"
	case IoError:
		return "I/O error"
	case NetworkError:
		return "network error"
	case ProtocolError:
		return "protocol error"
	case FramingError:
		return "framing error"
	case NotFoundError:
		return "not found"
	default:
		return "unknown error"
	}
}

// Error is the concrete error type returned by every mip operation.
type Error struct {
	Kind    Kind
	Message string

	// Fatal marks an error that must abort an enclosing retry loop
	// rather than be treated as "this attempt found nothing, try the
	// next one". Set by fatal() once a dialogue has committed to a
	// destination (e.g. a receive sequence scan after its 004 header
	// was found and payload bytes may already be written).
	Fatal bool
}

func (e *Error) Error() string {
	return fmt.Sprintf("mip %s: %s", e.Kind, e.Message)
}

// NewError builds an *Error of the given kind with a printf-formatted
// message.
func NewError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// IsKind reports whether err is a *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == kind
}

// IsNotFound reports whether err signals an exhausted receive scan.
func IsNotFound(err error) bool {
	return IsKind(err, NotFoundError)
}

// IsNetwork reports whether err signals a socket-level failure.
func IsNetwork(err error) bool {
	return IsKind(err, NetworkError)
}

// fatal marks err as unsuitable for "try the next attempt" recovery.
func fatal(err error) error {
	if e, ok := err.(*Error); ok {
		e.Fatal = true
		return e
	}
	return err
}

// IsFatal reports whether err was marked fatal, or is itself a
// socket-level failure (always fatal to a sequence scan).
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	if e, ok := err.(*Error); ok && e.Fatal {
		return true
	}
	return IsNetwork(err)
}
