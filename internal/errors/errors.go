// Package errors carries the coded errors shown to whoever starts the
// monitor: what failed, the underlying cause, and what to check.
package errors

import (
	"errors"
	"strings"
)

// Codes group errors by the part of the system that failed.
const (
	ErrConfig  = "CONFIG"
	ErrSensor  = "SENSOR"
	ErrDisplay = "DISPLAY"
)

// Error prints as
//
//	✗ <Message>
//
//	  <Cause>
//
//	  <Suggestion>
//
// with the cause and suggestion paragraphs left out when empty.
type Error struct {
	Code       string
	Message    string
	Suggestion string
	Cause      error
}

func New(code, message, suggestion string) *Error {
	return &Error{Code: code, Message: message, Suggestion: suggestion}
}

// Wrap reports a hardware fault: err under the SENSOR code.
func Wrap(err error, message, suggestion string) *Error {
	return WrapWithCode(err, ErrSensor, message, suggestion)
}

func WrapWithCode(err error, code, message, suggestion string) *Error {
	return &Error{Code: code, Message: message, Suggestion: suggestion, Cause: err}
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("✗ " + e.Message + "\n")
	for _, para := range []string{causeText(e.Cause), e.Suggestion} {
		if para != "" {
			b.WriteString("\n  " + para + "\n")
		}
	}
	return b.String()
}

func causeText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// IsCode reports whether err, or an error it wraps, is an *Error with code.
func IsCode(err error, code string) bool {
	var coded *Error
	return errors.As(err, &coded) && coded.Code == code
}
