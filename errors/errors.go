package errors

import "fmt"

var (
	// Token verification. A failed verification closes the connection
	// before it is ever registered.
	ErrTokenMalformed = fmt.Errorf("token is malformed")
	ErrTokenSignature = fmt.Errorf("token signature is invalid")
	ErrTokenExpired   = fmt.Errorf("token is expired")

	// Relay.
	ErrDuplicateConnection = fmt.Errorf("connection id already registered")
	ErrBacklogUnavailable  = fmt.Errorf("backlog unavailable")
	ErrPersistFailure      = fmt.Errorf("message could not be persisted")

	// Accounts.
	ErrUserAlreadyExists  = fmt.Errorf("user already exists")
	ErrInvalidCredentials = fmt.Errorf("username or password is invalid")
	ErrInvalidPassword    = fmt.Errorf("password does not meet complexity requirements")
	ErrTokenGeneration    = fmt.Errorf("token generation failed")

	ErrWorkerPanic = fmt.Errorf("worker panic")
)
