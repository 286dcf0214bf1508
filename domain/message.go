// Package domain contains core concepts of the relay.
// This file defines chat messages and related rules.
// Messages are immutable once persisted.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage is the canonical record handed out for replay and broadcast.
// CreatedAt is assigned by the persistence layer, never by the caller.
type ChatMessage struct {
	ID        uuid.UUID
	AuthorID  string
	Author    string
	Content   string
	CreatedAt time.Time
}
