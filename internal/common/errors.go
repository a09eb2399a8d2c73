// Package common defines shared constants and sentinel errors used across
// FitTrack components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// ErrorTransient wraps driver failures (connection loss, statement
	// timeout). The transport edge reports it as retriable, unlike
	// ErrorInternal which marks a programming or crypto failure.
	ErrorTransient = errors.New("db error")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")

	// Token errors. All of them collapse to a single unauthenticated
	// response at the transport edge; the distinction exists for logs,
	// metrics and tests.
	ErrorMalformedToken   = errors.New("malformed token")
	ErrorInvalidSignature = errors.New("invalid token signature")
	ErrorTokenExpired     = errors.New("token expired")
	ErrorUserNotFound     = errors.New("token subject not found")

	ErrorRefreshTokenExpired = errors.New("refresh token expired")

	// Config errors are fatal at startup and never surface at request time.
	ErrorConfig = errors.New("invalid configuration")
)
