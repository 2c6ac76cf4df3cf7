// Package quizerr defines the typed error taxonomy of the quiz client.
// Every failure a component surfaces carries one of the codes below so
// callers can branch on kind without string matching.
package quizerr

import (
	"errors"
	"fmt"
)

// Code is a typed error code enum for consistent failure classification.
type Code string

const (
	// ─── Local (caught before any network call) ───────────────────────
	CodeMissingInput     Code = "MISSING_INPUT"
	CodeNotVerified      Code = "NOT_VERIFIED"
	CodeAlreadySubmitted Code = "ALREADY_SUBMITTED"

	// ─── Remote ───────────────────────────────────────────────────────
	CodeValidation  Code = "VALIDATION_ERROR"
	CodeNetwork     Code = "NETWORK_ERROR"
	CodeServerLogic Code = "SERVER_LOGIC"
)

// fallbackMessage returns the generic user-facing message for a code,
// used when the server supplies no message of its own.
func fallbackMessage(code Code) string {
	switch code {
	case CodeMissingInput:
		return "Vui lòng điền đầy đủ thông tin!"
	case CodeNotVerified:
		return "Mã truy cập chưa được xác nhận."
	case CodeAlreadySubmitted:
		return "Bài thi đã được nộp."
	case CodeValidation:
		return "Yêu cầu không hợp lệ."
	case CodeNetwork:
		return "Không thể kết nối đến máy chủ. Vui lòng thử lại."
	case CodeServerLogic:
		return "Máy chủ báo lỗi."
	default:
		return "Đã xảy ra lỗi không xác định."
	}
}

// Error is a classified failure. Message is safe to show to the student;
// server-supplied text passes through verbatim, everything else uses the
// code's fallback.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New creates an Error with the code's fallback message.
func New(code Code) *Error {
	return &Error{Code: code, Message: fallbackMessage(code)}
}

// NewMessage creates an Error carrying a server-supplied message. An
// empty message falls back to the generic one for the code.
func NewMessage(code Code, message string) *Error {
	if message == "" {
		message = fallbackMessage(code)
	}
	return &Error{Code: code, Message: message}
}

// Wrap creates an Error around an underlying cause.
func Wrap(code Code, cause error) *Error {
	return &Error{Code: code, Message: fallbackMessage(code), cause: cause}
}

// CodeOf extracts the Code from err, or "" if err carries none.
func CodeOf(err error) Code {
	var qe *Error
	if errors.As(err, &qe) {
		return qe.Code
	}
	return ""
}

// MessageOf extracts the user-facing message from err, falling back to
// err.Error() for unclassified errors.
func MessageOf(err error) string {
	var qe *Error
	if errors.As(err, &qe) {
		return qe.Message
	}
	if err != nil {
		return err.Error()
	}
	return ""
}
