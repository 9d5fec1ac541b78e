package server

import (
	"net/http"

	"github.com/teranos/kin/errors"
)

// statusFor maps an error to an HTTP status code
func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, errors.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, errors.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.IsAny(err, errors.ErrUnknownRelation, errors.ErrStepRelation):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// NewInvalidRequestError creates an invalid-request error with a formatted message
func NewInvalidRequestError(format string, args ...interface{}) error {
	return errors.Wrap(errors.ErrInvalidRequest, errors.Newf(format, args...).Error())
}
