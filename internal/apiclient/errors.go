package apiclient

import (
	"errors"
	"fmt"
)

// ErrUnauthorized is wrapped by every error produced from a 401 response.
var ErrUnauthorized = errors.New("unauthorized")

const fallbackMessage = "An unexpected error occurred"

// Error — нормализованная ошибка запроса к бэкенду: одна строка сообщения
// и код статуса (0, если ответа не было).
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// IsUnauthorized reports whether err came from a 401 response.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// Message returns the text that pages show inline for err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallbackMessage
}

// normalize picks the message in order: server message, transport error, fallback.
func normalize(status int, serverMessage string, cause error) *Error {
	msg := serverMessage
	if msg == "" && cause != nil {
		msg = cause.Error()
	}
	if msg == "" {
		msg = fallbackMessage
	}
	e := &Error{Status: status, Message: msg, Err: cause}
	if status == 401 {
		e.Err = ErrUnauthorized
	}
	return e
}

func statusError(status int) error {
	return fmt.Errorf("Request failed with status code %d", status)
}
