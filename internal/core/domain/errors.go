package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies every error returned across package boundaries. Callers
// switch on the kind, never on message text.
type Kind string

const (
	KindValidation Kind = "validation"
	KindState      Kind = "state"
	KindPermission Kind = "permission"
	KindNotFound   Kind = "not_found"
	KindStore      Kind = "store"
)

// Code is a machine-readable error code.
type Code string

const (
	CodeValidationFailed    Code = "VALIDATION_FAILED"
	CodeInvalidTransition   Code = "INVALID_TRANSITION"
	CodeCampaignDateRange   Code = "CAMPAIGN_DATE_RANGE"
	CodeClearanceDiscount   Code = "CLEARANCE_DISCOUNT"
	CodeBundleTooFew        Code = "BUNDLE_TOO_FEW_PRODUCTS"
	CodeBundlePriceExceeds  Code = "BUNDLE_PRICE_EXCEEDS_SUM"
	CodeInsufficientStock   Code = "INSUFFICIENT_STOCK"
	CodeCannotActivate      Code = "CANNOT_ACTIVATE"
	CodeContentNotApproved  Code = "CONTENT_NOT_APPROVED"
	CodeContentArchived     Code = "CONTENT_ARCHIVED"
	CodePermissionDenied    Code = "PERMISSION_DENIED"
	CodeUnauthenticated     Code = "UNAUTHENTICATED"
	CodeNotFound            Code = "NOT_FOUND"
	CodeStoreFailure        Code = "STORE_FAILURE"
	CodeAliasAlreadyClaimed Code = "ALIAS_ALREADY_CLAIMED"
	CodeCampaignCompleted   Code = "CAMPAIGN_COMPLETED"
)

// FieldError names one offending input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is the single error type produced by services and adapters.
type Error struct {
	Kind    Kind
	Code    Code
	Message string
	Fields  []FieldError
	// From and To are set for state errors.
	From  string
	To    string
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return e.Message + " (" + strings.Join(parts, "; ") + ")"
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// KindOf returns the kind of the first *Error in the chain. Untyped errors are
// reported as store failures.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindStore
}

// CodeOf returns the code of the first *Error in the chain.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// Sentinels usable with errors.Is.
var (
	ErrInvalidTransition = &Error{Kind: KindState, Code: CodeInvalidTransition}
	ErrValidationFailed  = &Error{Kind: KindValidation, Code: CodeValidationFailed}
	ErrPermissionDenied  = &Error{Kind: KindPermission, Code: CodePermissionDenied}
	ErrNotFound          = &Error{Kind: KindNotFound, Code: CodeNotFound}
	ErrCannotActivate    = &Error{Kind: KindState, Code: CodeCannotActivate}
	ErrInsufficientStock = &Error{Kind: KindState, Code: CodeInsufficientStock}
)

// Validation builds a validation error with an explicit code.
func Validation(code Code, message string, fields ...FieldError) *Error {
	return &Error{Kind: KindValidation, Code: code, Message: message, Fields: fields}
}

// ValidationFailed builds a generic field-level validation error.
func ValidationFailed(message string, fields ...FieldError) *Error {
	return Validation(CodeValidationFailed, message, fields...)
}

// InvalidTransition reports an edge missing from a transition table.
func InvalidTransition(entity, from, to string) *Error {
	return &Error{
		Kind:    KindState,
		Code:    CodeInvalidTransition,
		Message: fmt.Sprintf("invalid %s transition from %s to %s", entity, from, to),
		From:    from,
		To:      to,
	}
}

// StateError builds a state error with a custom code and message.
func StateError(code Code, message, from, to string) *Error {
	return &Error{Kind: KindState, Code: code, Message: message, From: from, To: to}
}

// NotFound reports an unresolved id.
func NotFound(entity, id string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s %s not found", entity, id),
	}
}

// PermissionDenied never says which permission was missing.
func PermissionDenied() *Error {
	return &Error{Kind: KindPermission, Code: CodePermissionDenied, Message: "insufficient permissions"}
}

// Unauthenticated reports a call without an acting user.
func Unauthenticated() *Error {
	return &Error{Kind: KindPermission, Code: CodeUnauthenticated, Message: "authentication required"}
}

// Store wraps a driver error behind a stable message.
func Store(message string, cause error) *Error {
	return &Error{Kind: KindStore, Code: CodeStoreFailure, Message: message, Cause: cause}
}
