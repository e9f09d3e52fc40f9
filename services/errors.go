package services

import (
	"fmt"
	"strings"
)

// ValidationError reports malformed input. Nothing was written.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a missing mission, provider, service or hold.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// ConflictError is returned when the requested slots are no longer free.
// Alternatives lists start labels of blocks of the same length that are
// still bookable on that date.
type ConflictError struct {
	ProviderID   string
	Date         string
	Times        []string
	Alternatives []string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("slots %s on %s are no longer available for provider %s",
		strings.Join(e.Times, ","), e.Date, e.ProviderID)
}

// GuardError is returned when an action is not allowed for the actor or
// the mission's current status.
type GuardError struct {
	Action    string
	Reason    string
	Forbidden bool // the actor lacks the right, rather than the state being wrong
}

func (e *GuardError) Error() string {
	return fmt.Sprintf("%s not allowed: %s", e.Action, e.Reason)
}

func NewGuardError(action, reason string) error {
	return &GuardError{Action: action, Reason: reason}
}

func NewForbiddenError(action, reason string) error {
	return &GuardError{Action: action, Reason: reason, Forbidden: true}
}

// ExternalCallError wraps a failure of the payment gateway, payout gateway
// or another remote collaborator.
type ExternalCallError struct {
	Op  string
	Err error
}

func (e *ExternalCallError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *ExternalCallError) Unwrap() error {
	return e.Err
}
