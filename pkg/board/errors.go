package board

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrLogic marks a broken calling contract, as opposed to a board state that
// simply does not allow the requested change.
var ErrLogic = errors.New("logic error")

var (
	ErrUnknownElement = fmt.Errorf("%w: unknown element", ErrLogic)
	ErrAlreadyAdded   = fmt.Errorf("%w: element is already added", ErrLogic)
	ErrNotAdded       = fmt.Errorf("%w: element is not added", ErrLogic)
	ErrDegenerateLine = fmt.Errorf("%w: line start and end are the same anchor", ErrLogic)
	ErrInvalidWidth   = fmt.Errorf("%w: line width must be positive", ErrLogic)
	ErrLayerMismatch  = fmt.Errorf("%w: line layer does not match anchor layer", ErrLogic)
	ErrForeignPad     = fmt.Errorf("%w: pad belongs to another net signal", ErrLogic)
	ErrAnchorInUse    = fmt.Errorf("%w: anchor still has lines attached", ErrLogic)

	ErrDuplicateUUID = errors.New("duplicate UUID")
	ErrNotCohesive   = errors.New("net segment is not cohesive")
)

// SegmentError describes a failed net segment mutation.
type SegmentError struct {
	Op      string    // e.g. "add", "remove"
	Entity  string    // "netpoint", "via", "line", "pad" or "segment"
	UUID    uuid.UUID // element or segment identity, if known
	Cause   error
	Context string
}

func (e *SegmentError) Error() string {
	msg := e.Op + " " + e.Entity
	if e.UUID != uuid.Nil {
		msg += " " + e.UUID.String()
	}
	if e.Context != "" {
		msg += " (" + e.Context + ")"
	}
	return fmt.Sprintf("%s: %v", msg, e.Cause)
}

func (e *SegmentError) Unwrap() error {
	return e.Cause
}

// ErrorBuilder builds SegmentErrors.
type ErrorBuilder struct {
	err SegmentError
}

func NewError(op string) *ErrorBuilder {
	return &ErrorBuilder{err: SegmentError{Op: op}}
}

func (b *ErrorBuilder) Entity(kind string, id uuid.UUID) *ErrorBuilder {
	b.err.Entity = kind
	b.err.UUID = id
	return b
}

func (b *ErrorBuilder) Context(format string, args ...any) *ErrorBuilder {
	b.err.Context = fmt.Sprintf(format, args...)
	return b
}

func (b *ErrorBuilder) Cause(err error) *ErrorBuilder {
	b.err.Cause = err
	return b
}

func (b *ErrorBuilder) Err() error {
	e := b.err
	return &e
}

// IsLogicError reports whether err is a contract violation.
func IsLogicError(err error) bool {
	return errors.Is(err, ErrLogic)
}
