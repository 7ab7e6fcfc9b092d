package service

import "errors"

var ErrNotConnected = errors.New("no active database connection")

// ExecError is a database failure reduced to a primary message and an
// optional underlying cause.
type ExecError struct {
	Message string
	Cause   error
}

func (e *ExecError) Error() string {
	return e.Message
}

func (e *ExecError) Unwrap() error {
	return e.Cause
}
