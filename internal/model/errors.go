package model

import (
	"errors"
	"fmt"
)

// ErrNotFound is the store-level sentinel for a missing record. Services
// translate it into a typed NotFoundError before it reaches a boundary.
var ErrNotFound = errors.New("not found")

// ValidationError reports malformed or missing input. The caller can
// recover by correcting the input.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// NewErrValidation creates a ValidationError with the given reason.
func NewErrValidation(reason string) *ValidationError {
	return &ValidationError{Reason: reason}
}

// ConflictError reports a uniqueness violation on the named field.
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s already taken", e.Field)
}

// NewErrEmailTaken reports a duplicate email.
func NewErrEmailTaken() *ConflictError {
	return &ConflictError{Field: "email"}
}

// NewErrUsernameTaken reports a duplicate username.
func NewErrUsernameTaken() *ConflictError {
	return &ConflictError{Field: "username"}
}

// NotFoundError reports a reference to an entity that does not exist.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// NewErrUserNotFound reports a missing user.
func NewErrUserNotFound(id int64) *NotFoundError {
	return &NotFoundError{Entity: "user", ID: id}
}

// NewErrPostNotFound reports a missing post.
func NewErrPostNotFound(id int64) *NotFoundError {
	return &NotFoundError{Entity: "post", ID: id}
}

// AuthReason discriminates authentication failures.
type AuthReason string

const (
	AuthInvalidCredentials AuthReason = "invalid credentials"
	AuthInvalidToken       AuthReason = "invalid token"
	AuthUnverified         AuthReason = "verification required"
)

// AuthError reports an authentication failure. For AuthUnverified it
// carries the user id and preferred channel so the boundary can prompt
// for verification.
type AuthError struct {
	Reason  AuthReason
	UserID  int64
	Channel Channel
}

func (e *AuthError) Error() string {
	return string(e.Reason)
}

// NewErrInvalidCredentials reports a failed email/password check. The
// same value is used for an unknown email and a wrong password.
func NewErrInvalidCredentials() *AuthError {
	return &AuthError{Reason: AuthInvalidCredentials}
}

// NewErrInvalidToken reports a malformed, forged or expired token.
func NewErrInvalidToken() *AuthError {
	return &AuthError{Reason: AuthInvalidToken}
}

// NewErrUnverified reports a login attempt before the preferred channel
// was confirmed.
func NewErrUnverified(userID int64, channel Channel) *AuthError {
	return &AuthError{Reason: AuthUnverified, UserID: userID, Channel: channel}
}

// VerificationReason discriminates code-consumption failures.
type VerificationReason string

const (
	VerificationCodeNotFound VerificationReason = "code not found"
	VerificationCodeExpired  VerificationReason = "code expired"
	VerificationCodeMismatch VerificationReason = "code mismatch"
)

// VerificationError reports a failed one-time-code consumption. The
// caller recovers by requesting a new code.
type VerificationError struct {
	Reason VerificationReason
}

func (e *VerificationError) Error() string {
	return string(e.Reason)
}

// NewErrCodeNotFound reports that no live code exists for the pair.
func NewErrCodeNotFound() *VerificationError {
	return &VerificationError{Reason: VerificationCodeNotFound}
}

// NewErrCodeExpired reports a code past its expiry window.
func NewErrCodeExpired() *VerificationError {
	return &VerificationError{Reason: VerificationCodeExpired}
}

// NewErrCodeMismatch reports a wrong submitted code.
func NewErrCodeMismatch() *VerificationError {
	return &VerificationError{Reason: VerificationCodeMismatch}
}
