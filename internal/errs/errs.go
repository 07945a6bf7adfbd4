// Package errs defines the error taxonomy shared across the notification
// pipeline. Submission-time failures (BadData, NotFound) surface to the
// caller synchronously; delivery-time failures are classified so the
// dispatch consumer can decide between acknowledging, redelivering, and
// dead-lettering a message.
package errs

import (
	"errors"
	"fmt"
)

// BadDataError reports malformed caller input: an invalid locale tag, an
// email layout referencing undeclared inputs, a malformed localization
// document, or a message parameter that is missing or of the wrong type.
type BadDataError struct {
	Message string
}

func (e *BadDataError) Error() string { return e.Message }

// BadData builds a BadDataError from a format string.
func BadData(format string, args ...any) error {
	return &BadDataError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError reports that a referenced template, layout, or message does
// not exist.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// NotFound builds a NotFoundError from a format string.
func NotFound(format string, args ...any) error {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// UnprocessableError reports a permanent per-recipient delivery failure:
// unknown user, missing communication preferences, unsupported channel,
// missing layout, missing locale variant, or a permanent provider
// rejection. Messages failing this way are never redelivered.
type UnprocessableError struct {
	Message string
}

func (e *UnprocessableError) Error() string { return e.Message }

// Unprocessable builds an UnprocessableError from a format string.
func Unprocessable(format string, args ...any) error {
	return &UnprocessableError{Message: fmt.Sprintf(format, args...)}
}

// TemplateCompilationError wraps the underlying compiler error for a
// malformed template or layout content string.
type TemplateCompilationError struct {
	Template string
	Err      error
}

func (e *TemplateCompilationError) Error() string {
	return fmt.Sprintf("error compiling template %q: %v", e.Template, e.Err)
}

func (e *TemplateCompilationError) Unwrap() error { return e.Err }

// MessageParsingError reports a malformed queue payload. These are fatal
// for the delivery in question and routed to the dead-letter queue without
// redelivery.
type MessageParsingError struct {
	Err error
}

func (e *MessageParsingError) Error() string {
	return fmt.Sprintf("error parsing queued message: %v", e.Err)
}

func (e *MessageParsingError) Unwrap() error { return e.Err }

// IsBadData reports whether err is a BadDataError.
func IsBadData(err error) bool {
	var target *BadDataError
	return errors.As(err, &target)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsUnprocessable reports whether err is an UnprocessableError.
func IsUnprocessable(err error) bool {
	var target *UnprocessableError
	return errors.As(err, &target)
}

// IsTemplateCompilation reports whether err is a TemplateCompilationError.
func IsTemplateCompilation(err error) bool {
	var target *TemplateCompilationError
	return errors.As(err, &target)
}

// IsMessageParsing reports whether err is a MessageParsingError.
func IsMessageParsing(err error) bool {
	var target *MessageParsingError
	return errors.As(err, &target)
}
