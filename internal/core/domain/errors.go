package domain

import (
	"fmt"
	"strings"
)

// ValidationError reports a business-rule violation tagged with the offending field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %q: %s", e.Field, e.Reason)
}

// NewValidationError builds a field-tagged validation error.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// NotFoundError indicates the referenced entity does not exist.
type NotFoundError struct {
	Entity     string
	Identifier string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", strings.ToLower(e.Entity), e.Identifier)
}

// NewNotFoundError builds a not-found error for the given entity and identifier.
func NewNotFoundError(entity, identifier string) *NotFoundError {
	return &NotFoundError{Entity: entity, Identifier: identifier}
}

// ConflictError indicates a unique field already holds the supplied value.
type ConflictError struct {
	Entity string
	Field  string
	Value  string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s with %s %q already exists", strings.ToLower(e.Entity), e.Field, e.Value)
}

// NewConflictError builds a duplicate-unique-field error.
func NewConflictError(entity, field, value string) *ConflictError {
	return &ConflictError{Entity: entity, Field: field, Value: value}
}

// ForbiddenError indicates the operation is not allowed on the target entity.
type ForbiddenError struct {
	Operation string
	Entity    string
	Reason    string
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("%s %s forbidden: %s", e.Operation, strings.ToLower(e.Entity), e.Reason)
}

// NewForbiddenError builds a forbidden error.
func NewForbiddenError(operation, entity, reason string) *ForbiddenError {
	return &ForbiddenError{Operation: operation, Entity: entity, Reason: reason}
}

// UnauthorizedError signals an authentication failure. The rendered message is
// identical for every cause so callers cannot distinguish an unknown account
// from a wrong password or a deactivated one.
type UnauthorizedError struct {
	reason string
}

func (e *UnauthorizedError) Error() string {
	return "invalid credentials"
}

// InternalReason exposes the underlying cause for logging. It must never be serialized.
func (e *UnauthorizedError) InternalReason() string {
	return e.reason
}

// NewUnauthorizedError builds an unauthorized error carrying an internal-only reason.
func NewUnauthorizedError(reason string) *UnauthorizedError {
	return &UnauthorizedError{reason: reason}
}
