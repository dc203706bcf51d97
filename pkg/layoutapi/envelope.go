package layoutapi

import (
	"fmt"
	"net/http"
)

// Envelope is the response wrapper used by every layout API endpoint.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// OK wraps data in a successful envelope.
func OK[T any](data T, message string) Envelope[T] {
	return Envelope[T]{Success: true, Data: data, Message: message}
}

// Failure builds an error envelope.
func Failure(message string, err error) Envelope[any] {
	env := Envelope[any]{Success: false, Message: message}
	if err != nil {
		env.Error = err.Error()
	}
	return env
}

// Error is a non-2xx response whose message is meant for the user.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("layoutapi: remote error %d (%s)", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("layoutapi: remote error %d: %s", e.Status, e.Message)
}

// ServerMessage returns the message reported by the server.
func (e *Error) ServerMessage() string {
	return e.Message
}
