package serverutils

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes carried in ErrorResponse.Code.
const (
	CodeBadRequest          = "BAD_REQUEST"
	CodeNotFound            = "NOT_FOUND"
	CodeUpstreamUnavailable = "UPSTREAM_UNAVAILABLE"
	CodeSubmissionFailed    = "SUBMISSION_FAILED"
	CodeInternal            = "INTERNAL_ERROR"
)

// AppError is an error that knows how it should be rendered over HTTP.
type AppError struct {
	Code    string
	Status  int
	Message string
	Details interface{}
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

func NewBadRequest(message string, details interface{}) *AppError {
	return &AppError{Code: CodeBadRequest, Status: http.StatusBadRequest, Message: message, Details: details}
}

func NewNotFound(message string) *AppError {
	return &AppError{Code: CodeNotFound, Status: http.StatusNotFound, Message: message}
}

func NewUpstreamUnavailable(err error) *AppError {
	return &AppError{
		Code:    CodeUpstreamUnavailable,
		Status:  http.StatusBadGateway,
		Message: "Portfolio service is unavailable",
		Err:     err,
	}
}

// NewSubmissionFailed echoes the submitted form in Details so the client can
// offer a manual retry.
func NewSubmissionFailed(form interface{}, err error) *AppError {
	return &AppError{
		Code:    CodeSubmissionFailed,
		Status:  http.StatusBadGateway,
		Message: "Briefing could not be submitted, please try again",
		Details: form,
		Err:     err,
	}
}

// AsAppError unwraps err into an *AppError when one is in the chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
