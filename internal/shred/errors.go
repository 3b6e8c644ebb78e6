package shred

import (
	"context"
	"fmt"
	"strings"
	"syscall"

	"github.com/cockroachdb/errors"
)

// Kind classifies a failure by how the caller should treat it.
type Kind int

const (
	// KindInvalidInput means nothing was touched: bad path, bad pass count, or
	// a file that cannot be opened for writing.
	KindInvalidInput Kind = iota + 1
	// KindIO is fatal. The file may be partially overwritten, or overwritten
	// but still present under its original or intermediate name.
	KindIO
	// KindMetadata is non-fatal; the operation continued past it.
	KindMetadata
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid input"
	case KindIO:
		return "i/o error"
	case KindMetadata:
		return "metadata error"
	default:
		return "unknown error"
	}
}

// Stage names the step of a secure delete at which an error occurred.
type Stage string

const (
	StageValidate  Stage = "validate"
	StagePlan      Stage = "plan"
	StageOverwrite Stage = "overwrite"
	StageMetadata  Stage = "metadata"
	StageRename    Stage = "rename"
	StageUnlink    Stage = "unlink"
)

// Sentinels for errors.Is. An *Error matches the sentinel of its Kind.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrIO           = errors.New("i/o error")
	ErrMetadata     = errors.New("metadata error")
)

// Error is the typed error returned by the engine.
type Error struct {
	Kind  Kind
	Stage Stage
	// Path is the path being operated on at the time of failure. For unlink
	// failures this is the intermediate random name.
	Path string
	// Pass is the 1-based pass number, 0 when not in the overwrite stage.
	Pass int
	// Pattern is the name of the pattern being applied, if any.
	Pattern string
	// Chunk is the 1-based number of the failing chunk, 0 when not applicable.
	Chunk int
	Err   error
}

func (e *Error) Error() string {
	if e.Kind == KindInvalidInput {
		return fmt.Sprintf("invalid input: %v", e.Err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s failed", e.Stage)
	if e.Path != "" {
		fmt.Fprintf(&b, " for %s", e.Path)
	}

	var details []string
	if e.Pass > 0 {
		details = append(details, fmt.Sprintf("pass %d", e.Pass))
	}
	if e.Pattern != "" {
		details = append(details, "pattern "+e.Pattern)
	}
	if e.Chunk > 0 {
		details = append(details, fmt.Sprintf("chunk %d", e.Chunk))
	}
	if len(details) > 0 {
		fmt.Fprintf(&b, " (%s)", strings.Join(details, ", "))
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel for e's Kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrInvalidInput:
		return e.Kind == KindInvalidInput
	case ErrIO:
		return e.Kind == KindIO
	case ErrMetadata:
		return e.Kind == KindMetadata
	}
	return false
}

// Fatal reports whether the error stopped the operation.
func (e *Error) Fatal() bool {
	return e.Kind != KindMetadata
}

func invalidInput(stage Stage, path string, cause error, hint string) *Error {
	cause = errors.WithStack(cause)
	if hint != "" {
		cause = errors.WithHint(cause, hint)
	}
	return &Error{Kind: KindInvalidInput, Stage: stage, Path: path, Err: cause}
}

// overwriteHint picks the user-facing hint for a failed overwrite.
func overwriteHint(cause error) string {
	switch {
	case errors.Is(cause, syscall.ENOSPC):
		return "the disk is full; the file is partially overwritten and still present under its original name"
	case errors.Is(cause, syscall.EACCES), errors.Is(cause, syscall.EPERM):
		return "write permission was lost mid-operation; the file is partially overwritten"
	case errors.Is(cause, context.Canceled), errors.Is(cause, context.DeadlineExceeded):
		return "the operation was interrupted; the file is partially overwritten and still present under its original name"
	default:
		return "the file is partially overwritten and still present under its original name; rerun thermite on it"
	}
}
