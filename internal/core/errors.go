package core

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindNotFound            Kind = "not_found"
	KindInvalidInput        Kind = "invalid_input"
	KindIoFailure           Kind = "io_failure"
	KindExternalToolFailure Kind = "external_tool_failure"
)

var (
	ErrPrinterNotFound = errors.New("printer not found")
	ErrEmptyTarget     = errors.New("printer name is empty")
	ErrInvalidEncoding = errors.New("text is not valid UTF-8")
	ErrLaunchFailed    = errors.New("print command could not be launched")
	ErrNonZeroExit     = errors.New("print command exited with non-zero status")
	ErrShortWrite      = errors.New("device accepted fewer bytes than submitted")
)

// Error is the single failure shape returned by every submission path.
// Detail carries the OS or subprocess message verbatim.
type Error struct {
	Kind   Kind
	Op     string
	Target string
	Detail string
	Err    error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Op != "" {
		msg += ": " + e.Op
	}
	if e.Target != "" {
		msg += " " + e.Target
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func notFound(name string) *Error {
	return &Error{Kind: KindNotFound, Op: "lookup", Target: name, Detail: ErrPrinterNotFound.Error(), Err: ErrPrinterNotFound}
}

func invalidInput(op string, err error) *Error {
	return &Error{Kind: KindInvalidInput, Op: op, Detail: err.Error(), Err: err}
}

func ioFailure(op, target string, err error) *Error {
	return &Error{Kind: KindIoFailure, Op: op, Target: target, Detail: err.Error(), Err: err}
}

func toolFailure(op, target, detail string, err error) *Error {
	return &Error{Kind: KindExternalToolFailure, Op: op, Target: target, Detail: detail, Err: err}
}

// NewInvalidInput builds the boundary-layer failure used when text crossing
// into the core is missing or malformed.
func NewInvalidInput(op string, err error) error {
	return invalidInput(op, err)
}

// KindOf reports the failure kind of err, or "" when err is not a core failure.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func IsNotFound(err error) bool            { return KindOf(err) == KindNotFound }
func IsInvalidInput(err error) bool        { return KindOf(err) == KindInvalidInput }
func IsIoFailure(err error) bool           { return KindOf(err) == KindIoFailure }
func IsExternalToolFailure(err error) bool { return KindOf(err) == KindExternalToolFailure }

// nativeError formats a spooler failure with its numeric code kept visible.
func nativeError(step string, code uintptr, err error) error {
	return fmt.Errorf("%s failed (code %d): %w", step, code, err)
}
