package httpserver

import (
	"errors"
	"fmt"
)

var (
	// ErrBind matches every *BindError.
	ErrBind = errors.New("httpserver: bind failed")
	// ErrShutdown matches every *ShutdownError.
	ErrShutdown = errors.New("httpserver: shutdown failed")

	ErrAlreadyStarted = errors.New("httpserver: already started")
	ErrNotStarted     = errors.New("httpserver: not started")
	ErrClosed         = errors.New("httpserver: closed")
)

// BindError is returned by Start when the listening socket could not be opened.
type BindError struct {
	Addr string
	Err  error
}

func (e *BindError) Error() string {
	return fmt.Sprintf("httpserver: bind %s: %v", e.Addr, e.Err)
}

func (e *BindError) Unwrap() error        { return e.Err }
func (e *BindError) Is(target error) bool { return target == ErrBind }

// ShutdownError is returned by Close: the server was never started, is
// already closed, or the drain or the serve task failed.
type ShutdownError struct {
	Err error
}

func (e *ShutdownError) Error() string {
	return fmt.Sprintf("httpserver: close: %v", e.Err)
}

func (e *ShutdownError) Unwrap() error        { return e.Err }
func (e *ShutdownError) Is(target error) bool { return target == ErrShutdown }
