package synchronizer

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrBusy            = errors.New("another change is still in progress")
	ErrStaleResponse   = errors.New("response superseded by a newer load")
	ErrUnknownToken    = errors.New("unknown or expired delete token")
	ErrNonJSONResponse = errors.New("server returned a non-JSON response")
)

type ValidationError struct {
	Resource string
	Field    string
}

func (e *ValidationError) Error() string {
	if e.Field == MediaField {
		return fmt.Sprintf("%s: an image is required", e.Resource)
	}
	return fmt.Sprintf("%s: %s is required", e.Resource, e.Field)
}

type NotFoundError struct {
	Resource string
	ID       int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: record %d not found", e.Resource, e.ID)
}

type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ServerError covers non-2xx answers and {success:false} envelopes.
type ServerError struct {
	Op         string
	StatusCode int
	Message    string
	NonJSON    bool
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *ServerError) Unwrap() error {
	if e.NonJSON {
		return ErrNonJSONResponse
	}
	return nil
}

// Message is the text shown to the user for err.
func Message(err error) string {
	var serverErr *ServerError
	if errors.As(err, &serverErr) {
		return serverErr.Message
	}
	return err.Error()
}

func serverMessage(message string, status int) string {
	if message != "" {
		return message
	}
	if status >= http.StatusOK && status < http.StatusMultipleChoices {
		return "request was not successful"
	}
	return fmt.Sprintf("HTTP %d", status)
}
