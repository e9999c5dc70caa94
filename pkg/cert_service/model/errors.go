package model

import (
	"errors"
	"fmt"
	"net/http"
)

var ErrInvalidInput = errors.New("")  // Base error for malformed names, addresses or access levels.
var ErrForbidden = errors.New("")     // Base error for permission-evaluator rejections.
var ErrConflict = errors.New("")      // Base error for "certificate already exists".
var ErrPersistence = errors.New("")   // Base error for metadata/identity-backend write failures.
var ErrNotConfigured = errors.New("") // Base error for absent approles/roles.
var ErrTransport = errors.New("")     // Base error for network faults talking to the certificate manager.

// UpstreamError carries the certificate manager's own reported status so
// the caller sees the CA failure as-is.
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("certificate manager returned %d: %s", e.Status, e.Message)
}

func NewUpstreamError(status int, message string) error {
	return &UpstreamError{Status: status, Message: message}
}

func ErrToHttpStatus(err error) int {
	upstream := &UpstreamError{}
	if errors.As(err, &upstream) {
		return upstream.Status
	}

	if errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrConflict) || errors.Is(err, ErrTransport) {
		return http.StatusBadRequest
	} else if errors.Is(err, ErrForbidden) {
		return http.StatusForbidden
	} else if errors.Is(err, ErrNotConfigured) {
		return http.StatusUnprocessableEntity
	} else if errors.Is(err, ErrPersistence) {
		return http.StatusInternalServerError
	}

	return http.StatusInternalServerError
}
