package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeValidation = "validation_error"
	CodeNotFound   = "not_found"
	CodeInternal   = "internal_error"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func Validation(format string, args ...interface{}) *Error {
	return New(http.StatusBadRequest, CodeValidation, fmt.Errorf(format, args...))
}

func NotFound(format string, args ...interface{}) *Error {
	return New(http.StatusNotFound, CodeNotFound, fmt.Errorf(format, args...))
}

func Internal(err error) *Error {
	return New(http.StatusInternalServerError, CodeInternal, err)
}

// From maps any error onto an *Error, wrapping unclassified errors as
// internal so handlers always have a status to write.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return Internal(err)
}

func IsValidation(err error) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Code == CodeValidation
}

func IsNotFound(err error) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Code == CodeNotFound
}
