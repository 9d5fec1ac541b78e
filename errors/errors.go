// Package errors provides error handling for kin.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - User-facing hints
//
// Usage:
//
//	// Wrap with context
//	if err := relation.Validate(); err != nil {
//	    return errors.Wrap(err, "invalid canonical relation")
//	}
//
//	// Check parse outcomes
//	if errors.Is(err, errors.ErrStepRelation) {
//	    // marriage-based relation, not modelled
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is            = crdb.Is
	IsAny         = crdb.IsAny
	As            = crdb.As
	Unwrap        = crdb.Unwrap
	UnwrapAll     = crdb.UnwrapAll
	GetAllHints   = crdb.GetAllHints
	FlattenHints  = crdb.FlattenHints
	GetAllDetails = crdb.GetAllDetails
)

// Sentinel errors for relation parsing and the algebra.
// Use these with errors.Is(); wrap them with errors.Wrap() to add context.
var (
	// ErrUnknownRelation indicates a phrase that is not a valid relation chain
	ErrUnknownRelation = New("unknown relation")

	// ErrStepRelation indicates a relation through marriage, which is not modelled
	ErrStepRelation = New("step relations are not supported")

	// ErrAmbiguity indicates a phrase with more than one valid reading
	ErrAmbiguity = New("ambiguous relation")

	// ErrDoubleIndeterminate indicates a composition of two multi-ancestor relations
	ErrDoubleIndeterminate = New("cannot compose two relations that both have multiple common ancestors")

	// ErrInvalidRequest indicates the request was malformed or invalid
	ErrInvalidRequest = New("invalid request")

	// ErrRateLimited indicates the caller exceeded the configured request rate
	ErrRateLimited = New("rate limit exceeded")
)

// IsUnknownRelationError checks if an error is or wraps ErrUnknownRelation
func IsUnknownRelationError(err error) bool {
	return err != nil && Is(err, ErrUnknownRelation)
}

// IsStepRelationError checks if an error is or wraps ErrStepRelation
func IsStepRelationError(err error) bool {
	return err != nil && Is(err, ErrStepRelation)
}

// IsInvalidRequestError checks if an error is or wraps ErrInvalidRequest
func IsInvalidRequestError(err error) bool {
	return err != nil && Is(err, ErrInvalidRequest)
}

// NewInvalidRequestError creates an invalid-request error with a formatted message
func NewInvalidRequestError(format string, args ...interface{}) error {
	return Wrap(ErrInvalidRequest, Newf(format, args...).Error())
}

// NewUnknownRelationError creates an unknown-relation error with a formatted message
func NewUnknownRelationError(format string, args ...interface{}) error {
	return Wrap(ErrUnknownRelation, Newf(format, args...).Error())
}
