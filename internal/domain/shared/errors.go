package shared

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrorKind classifies a domain error for transport mapping
type ErrorKind string

const (
	KindValidation   ErrorKind = "VALIDATION"
	KindUnauthorized ErrorKind = "UNAUTHORIZED"
	KindForbidden    ErrorKind = "FORBIDDEN"
	KindNotFound     ErrorKind = "NOT_FOUND"
	KindConflict     ErrorKind = "CONFLICT"
	KindUnavailable  ErrorKind = "UNAVAILABLE"

	// KindInternal is reported for errors that carry no domain classification
	KindInternal ErrorKind = "INTERNAL"
)

// Machine-readable error codes surfaced to clients
const (
	CodeValidation          = "VALIDATION_FAILED"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeForbidden           = "FORBIDDEN"
	CodeNotFound            = "NOT_FOUND"
	CodeUnavailable         = "STORE_UNAVAILABLE"
	CodeBudgetExceeded      = "BUDGET_EXCEEDED"
	CodeRoleAlreadyClaimed  = "ROLE_ALREADY_CLAIMED"
	CodeDuplicateCaptain    = "DUPLICATE_CAPTAIN"
	CodeAlreadyReviewed     = "ALREADY_REVIEWED"
	CodeDuplicateSignup     = "DUPLICATE_SIGNUP"
	CodeDuplicateVouch      = "DUPLICATE_VOUCH"
	CodeRoleHasApproved     = "ROLE_HAS_APPROVED_SIGNUP"
	CodeInvalidTransition   = "INVALID_TRANSITION"
	CodeCooldownActive      = "COOLDOWN_ACTIVE"
	CodeApplicationPending  = "APPLICATION_PENDING"
	CodeActiveSetupConflict = "ACTIVE_SETUP_CONFLICT"
	CodeOrderTaken          = "ORDER_TAKEN"
)

// DomainError is the base error type for all domain errors
type DomainError struct {
	Kind    ErrorKind
	Code    string
	Message string
	// Fields lists offending input fields for validation errors
	Fields []string
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is matches another DomainError by code, so errors.Is(err, NewRoleAlreadyClaimedError(""))
// succeeds regardless of the message detail
func (e *DomainError) Is(target error) bool {
	var other *DomainError
	if !errors.As(target, &other) {
		return false
	}
	return other.Code == e.Code
}

func NewDomainError(kind ErrorKind, code, message string) *DomainError {
	return &DomainError{Kind: kind, Code: code, Message: message}
}

// KindOf classifies an error, walking the wrap chain
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// CodeOf returns the machine-readable code of a domain error, or "" for foreign errors
func CodeOf(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// IsKind reports whether err classifies as kind
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}

// Generic errors

func NewValidationError(field, message string) *DomainError {
	return &DomainError{
		Kind:    KindValidation,
		Code:    CodeValidation,
		Message: fmt.Sprintf("%s: %s", field, message),
		Fields:  []string{field},
	}
}

// NewMultiValidationError reports several missing or malformed fields at once
func NewMultiValidationError(fields []string, message string) *DomainError {
	return &DomainError{
		Kind:    KindValidation,
		Code:    CodeValidation,
		Message: fmt.Sprintf("%s: %s", strings.Join(fields, ", "), message),
		Fields:  fields,
	}
}

func NewUnauthorizedError(message string) *DomainError {
	return NewDomainError(KindUnauthorized, CodeUnauthorized, message)
}

func NewForbiddenError(message string) *DomainError {
	return NewDomainError(KindForbidden, CodeForbidden, message)
}

func NewNotFoundError(entity, id string) *DomainError {
	return NewDomainError(KindNotFound, CodeNotFound, fmt.Sprintf("%s not found: %s", entity, id))
}

func NewUnavailableError(cause error) *DomainError {
	msg := "persistent store unavailable"
	if cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, cause)
	}
	return NewDomainError(KindUnavailable, CodeUnavailable, msg)
}

func NewConflictError(code, message string) *DomainError {
	return NewDomainError(KindConflict, code, message)
}

// Signup-related conflicts

func NewRoleAlreadyClaimedError(roleID string) *DomainError {
	return NewConflictError(CodeRoleAlreadyClaimed, fmt.Sprintf("role %s already has an active signup", roleID))
}

func NewDuplicateCaptainError(battleID string) *DomainError {
	return NewConflictError(CodeDuplicateCaptain, fmt.Sprintf("captain already holds an active signup in battle %s", battleID))
}

func NewAlreadyReviewedError(entity, id string, status ReviewStatus) *DomainError {
	return NewConflictError(CodeAlreadyReviewed, fmt.Sprintf("%s %s was already reviewed (%s)", entity, id, status))
}

func NewDuplicateSignupError(fleetID string) *DomainError {
	return NewConflictError(CodeDuplicateSignup, fmt.Sprintf("already signed up for screening fleet %s", fleetID))
}

func NewDuplicateVouchError(applicationID string) *DomainError {
	return NewConflictError(CodeDuplicateVouch, fmt.Sprintf("reviewer already vouched on application %s", applicationID))
}

func NewRoleHasApprovedSignupError(roleID string) *DomainError {
	return NewConflictError(CodeRoleHasApproved, fmt.Sprintf("role %s has an approved signup; deny it before removing the role", roleID))
}

// BudgetExceededError reports a fleet composition that would exceed the battle's BR limit
type BudgetExceededError struct {
	*DomainError
	Limit     int
	Current   int
	Requested int
	Overage   int
}

func NewBudgetExceededError(limit, current, requested int) *BudgetExceededError {
	overage := current + requested - limit
	return &BudgetExceededError{
		DomainError: &DomainError{
			Kind:    KindValidation,
			Code:    CodeBudgetExceeded,
			Message: fmt.Sprintf("BR budget exceeded: limit %d, current %d, requested %d (over by %d)", limit, current, requested, overage),
			Fields:  []string{"shipName"},
		},
		Limit:     limit,
		Current:   current,
		Requested: requested,
		Overage:   overage,
	}
}

func (e *BudgetExceededError) Unwrap() error { return e.DomainError }

// InvalidTransitionError reports an illegal status transition
type InvalidTransitionError struct {
	*DomainError
	From string
	To   string
}

func NewInvalidTransitionError(from, to string) *InvalidTransitionError {
	return &InvalidTransitionError{
		DomainError: NewConflictError(CodeInvalidTransition, fmt.Sprintf("cannot transition from %s to %s", from, to)),
		From:        from,
		To:          to,
	}
}

func (e *InvalidTransitionError) Unwrap() error { return e.DomainError }

// CodeRejectedError reports a captains code that cannot be used for a signup
type CodeRejectedError struct {
	*DomainError
	CaptainsCode string
	Reason       string
}

func NewCodeRejectedError(code, reason string) *CodeRejectedError {
	return &CodeRejectedError{
		DomainError: &DomainError{
			Kind:    KindValidation,
			Code:    reason,
			Message: fmt.Sprintf("captains code %q rejected: %s", code, strings.ToLower(reason)),
			Fields:  []string{"captainsCode"},
		},
		CaptainsCode: code,
		Reason:       reason,
	}
}

func (e *CodeRejectedError) Unwrap() error { return e.DomainError }

// CooldownActiveError reports an application submitted before the cooldown elapsed
type CooldownActiveError struct {
	*DomainError
	IdentityKey  string
	CanReapplyAt time.Time
	Reason       string
}

func NewCooldownActiveError(identityKey string, canReapplyAt time.Time, reason string) *CooldownActiveError {
	return &CooldownActiveError{
		DomainError: NewConflictError(CodeCooldownActive,
			fmt.Sprintf("applicant %s may reapply at %s", identityKey, canReapplyAt.UTC().Format(time.RFC3339))),
		IdentityKey:  identityKey,
		CanReapplyAt: canReapplyAt,
		Reason:       reason,
	}
}

func (e *CooldownActiveError) Unwrap() error { return e.DomainError }
