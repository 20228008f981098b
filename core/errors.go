package core

import "github.com/pkg/errors"

// Sentinel causes wrapped by WrapError at buffer migration sites.
var (
	ErrDeviceNotAllocated = errors.New("device array not allocated")
	ErrHostNotAllocated   = errors.New("host array not allocated")
)

// Kind classifies the semantic category of an engine-level error. Callers
// that need to react differently to different failure modes (retry a
// transfer, abort a pipeline, report a misconfigured plugin) should switch
// on Kind rather than compare error strings.
type Kind int

const (
	// KindNone is the zero value and never appears on a returned error.
	KindNone Kind = iota
	// KindAllocationFailure marks a failure to obtain host or device memory.
	KindAllocationFailure
	// KindTransferFailure marks a failure while migrating a buffer between
	// the host and device locations.
	KindTransferFailure
	// KindTaskNotImplemented marks a virtual task method a plugin left
	// unimplemented (see task.BaseReducer).
	KindTaskNotImplemented
	// KindConnectionProblem marks a messenger transport failure.
	KindConnectionProblem
	// KindTaskFailure marks an error raised by a task body's own logic.
	KindTaskFailure
)

func (k Kind) String() string {
	switch k {
	case KindAllocationFailure:
		return "allocation failure"
	case KindTransferFailure:
		return "transfer failure"
	case KindTaskNotImplemented:
		return "task not implemented"
	case KindConnectionProblem:
		return "connection problem"
	case KindTaskFailure:
		return "task failure"
	default:
		return "none"
	}
}

// Error wraps an underlying cause with a Kind so callers can recover the
// classification with errors.As without parsing message text.
type Error struct {
	Kind  Kind
	cause error
}

func (e *Error) Error() string {
	if e.cause == nil {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.cause.Error()
}

func (e *Error) Unwrap() error { return e.cause }

// NewError builds a classified error, attaching a stack trace via
// pkg/errors so callers logging at the boundary can print one.
func NewError(kind Kind, msg string) error {
	return &Error{Kind: kind, cause: errors.New(msg)}
}

// WrapError classifies an existing error without losing its chain.
func WrapError(kind Kind, err error, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, cause: errors.Wrap(err, msg)}
}

// KindOf extracts the Kind from err, returning KindNone if err was not
// produced by NewError/WrapError.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindNone
}
