// Package domain contains core concepts of the relay.
// No runtime, network, or UI logic should be added here.
package domain

// Identity is the projection of a verified credential. It is bound to a
// connection at admission time and immutable for the life of the session.
type Identity struct {
	UserID   string
	Username string
}
