package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Gate services wrap these so handlers can map to HTTP status codes and
// result messages without leaking collaborator details.
var (
	ErrAlreadyExists       = errors.New("already exists")
	ErrAlreadyPending      = errors.New("verification already pending")
	ErrNotFound            = errors.New("not found")
	ErrInvalidCode         = errors.New("invalid or expired verification code")
	ErrNoSuchAccount       = errors.New("no such account")
	ErrEmailNotVerified    = errors.New("email not verified")
	ErrEmailDelivery       = errors.New("email delivery failed")
	ErrAccountInconsistent = errors.New("account state inconsistent")
	ErrResendCooldown      = errors.New("resend cooldown active")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrBadRequest          = errors.New("bad request")
)
