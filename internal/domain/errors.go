package domain

import (
	"errors"
	"fmt"
)

// Kind classifies agent errors so the run loop can log them uniformly.
type Kind int

const (
	KindUnknown Kind = iota
	KindConfig
	KindFormat
	KindIO
	KindNetwork
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindFormat:
		return "format"
	case KindIO:
		return "io"
	case KindNetwork:
		return "network"
	}
	return "unknown"
}

type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return e.Err.Error()
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewError(kind Kind, op string, err error) error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func Errorf(kind Kind, op string, format string, args ...any) error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the kind of the outermost *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// OpOf returns the operation of the outermost *Error in err's chain.
func OpOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Op
	}
	return ""
}

func IsFatal(err error) bool {
	return KindOf(err) == KindConfig
}
