package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound             = errors.New("entity not found")
	ErrAlreadyExists        = errors.New("entity already exists")
	ErrInvalidArgument      = errors.New("invalid argument")
	ErrOperationFailed      = errors.New("operation failed")
	ErrReadDatabaseRow      = errors.New("failed to read database row")
	ErrInvalidExecContext   = errors.New("invalid execution context")
	ErrDuplicateTransaction = errors.New("duplicate transaction")

	// Configuration errors. These are fatal for a callback and are never
	// turned into a business envelope.
	ErrUnknownEndpoint      = errors.New("unknown callback endpoint")
	ErrHandlerNotConfigured = errors.New("callback handler not configured")
	ErrSigningUnavailable   = errors.New("token signing unavailable")
)
