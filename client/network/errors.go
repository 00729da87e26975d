package network

import (
	"errors"
	"fmt"
)

// ErrUnexpectedStatus is returned when the server answers with a non-2xx status
type ErrUnexpectedStatus struct {
	StatusCode int
	Message    string
}

func (e *ErrUnexpectedStatus) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Message)
}

func IsUnexpectedStatus(err error) bool {
	var e *ErrUnexpectedStatus
	return errors.As(err, &e)
}

// ErrSessionAbandoned is reported when the world has not been fetched successfully for too long
type ErrSessionAbandoned struct {
	Code string
}

func (e *ErrSessionAbandoned) Error() string {
	return fmt.Sprintf("session %s abandoned: server stopped responding", e.Code)
}

func IsSessionAbandoned(err error) bool {
	var e *ErrSessionAbandoned
	return errors.As(err, &e)
}

// ErrSchedulerStarted is returned when Start is called more than once
type ErrSchedulerStarted struct{}

func (e *ErrSchedulerStarted) Error() string {
	return "scheduler already started"
}
