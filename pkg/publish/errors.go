package publish

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a publish failed.
type ErrorKind int

const (
	// InputError means no usable post id or file; nothing was sent.
	InputError ErrorKind = iota + 1
	// RemoteReadError means the existing post could not be fetched or was
	// missing required metadata.
	RemoteReadError
	// RemoteWriteError means the new version was rejected.
	RemoteWriteError
)

func (k ErrorKind) String() string {
	switch k {
	case InputError:
		return "input error"
	case RemoteReadError:
		return "remote read error"
	case RemoteWriteError:
		return "remote write error"
	default:
		return "unknown error"
	}
}

var (
	// ErrMissingPostID is returned when neither an explicit id nor a
	// first-line marker is available.
	ErrMissingPostID = errors.New("no post id given and no id marker found on the first line")

	// ErrMalformedMarker is returned when the first line has an id marker
	// comment without a usable value.
	ErrMalformedMarker = errors.New("unparseable id marker")

	// ErrMissingVersion is returned when the fetched post has no version number.
	ErrMissingVersion = errors.New("post has no version number")

	// ErrMissingSpaceKey is returned when the fetched post has no space key.
	ErrMissingSpaceKey = errors.New("post has no space key")
)

// Error is returned by Publisher.Publish. State is the last state reached
// before the failure.
type Error struct {
	Kind  ErrorKind
	State State
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s after %s: %v", e.Kind, e.State, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the ErrorKind of err, or 0 if err is not a publish error.
func KindOf(err error) ErrorKind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return 0
}
