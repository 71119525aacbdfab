package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeValidation Code = "VALIDATION"
	CodeNotFound   Code = "NOT_FOUND"
	CodeConflict   Code = "CONFLICT"
	CodeAuth       Code = "AUTH"
	CodeInvariant  Code = "INVARIANT"
	CodeStorage    Code = "STORAGE"
)

type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %s", e.Code, e.Message) }

func Validation(msg string) *Error { return &Error{Code: CodeValidation, Message: msg} }
func NotFound(msg string) *Error   { return &Error{Code: CodeNotFound, Message: msg} }
func Conflict(msg string) *Error   { return &Error{Code: CodeConflict, Message: msg} }
func Invariant(msg string) *Error  { return &Error{Code: CodeInvariant, Message: msg} }

// Auth failures are generic on purpose so callers can't probe credentials.
func Auth() *Error { return &Error{Code: CodeAuth, Message: "authentication failed"} }

// Storage wraps a commit/transaction failure. The message keeps the cause
// because the caller may retry the whole operation.
func Storage(err error) *Error {
	return &Error{Code: CodeStorage, Message: err.Error()}
}

func IsCode(err error, code Code) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

func ToHTTPStatus(err error) int {
	var e *Error
	if errors.As(err, &e) {
		switch e.Code {
		case CodeValidation:
			return http.StatusBadRequest
		case CodeNotFound:
			return http.StatusNotFound
		case CodeConflict:
			return http.StatusConflict
		case CodeAuth:
			return http.StatusUnauthorized
		case CodeInvariant:
			return http.StatusUnprocessableEntity
		default:
			return http.StatusInternalServerError
		}
	}
	return http.StatusInternalServerError
}
