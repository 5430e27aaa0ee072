// Package gberr defines the error taxonomy shared by every core component.
package gberr

import "fmt"

// Kind mirrors the numeric error codes of the original implementation
// (ERR_NONE, ERR_IO, ...) so callers can still branch on the kind of
// failure rather than just its text.
type Kind int

const (
	None Kind = iota
	IO
	BadParameter
	Address
	Instr
	NotImplemented
	Mem
)

func (k Kind) String() string {
	switch k {
	case None:
		return "none"
	case IO:
		return "io"
	case BadParameter:
		return "bad parameter"
	case Address:
		return "address"
	case Instr:
		return "instr"
	case NotImplemented:
		return "not implemented"
	case Mem:
		return "mem"
	default:
		return "unknown"
	}
}

// Error is the concrete error type every public operation returns.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// New builds an *Error of the given kind with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Is reports whether err carries the given Kind, so callers can write
// errors.Is(err, gberr.Address) style checks via a sentinel comparison.
func Is(err error, kind Kind) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == kind
}
