//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type IMessageRepository interface {
	CreateMessage(authorID, author, content string) (DiskMessage, error)
	ListMessages() ([]DiskMessage, error)
}

type MessageRepository struct {
	db            *badger.DB
	log           *slog.Logger
	limitMessages *int
}

func NewMessageRepository(db *badger.DB, log *slog.Logger, limitMessages *int) MessageRepository {
	return MessageRepository{db: db, log: log, limitMessages: limitMessages}
}

// DiskMessage is the stored representation of a chat message. The repository
// owns CreatedAt assignment: callers never pick a timestamp.
type DiskMessage struct {
	ID       uuid.UUID `json:"id"`
	AuthorID string    `json:"author_id"`
	Author   string    `json:"author"`
	Content  string    `json:"content"`
	At       time.Time `json:"at"`
}

// messageKey formats the BadgerDB key as "msg:{timestamp_padded}:{uuid}" to:
//  1. Ensure chronological sorting using 19-digit zero padding
//     (lexicographical order).
//  2. Prevent data loss by using UUID as a collision disconnector if two
//     messages arrive at the same nanosecond.
func messageKey(m DiskMessage) []byte {
	return []byte(fmt.Sprintf("msg:%019d:%s", m.At.UnixNano(), m.ID))
}

// CreateMessage assigns the canonical identifier and timestamp, persists the
// message and returns the stored record. Timestamps are taken here, so as
// long as callers serialize their writes, CreatedAt is non-decreasing in
// acceptance order.
func (m MessageRepository) CreateMessage(authorID, author, content string) (DiskMessage, error) {
	message := DiskMessage{
		ID:       uuid.New(),
		AuthorID: authorID,
		Author:   author,
		Content:  content,
		At:       time.Now().UTC(),
	}

	bytes, err := json.Marshal(message)
	if err != nil {
		return DiskMessage{}, err
	}

	err = m.db.Update(func(txn *badger.Txn) error {
		return txn.Set(messageKey(message), bytes)
	})
	if err != nil {
		return DiskMessage{}, err
	}
	return message, nil
}

// ListMessages retrieves the full history using a prefix scan. Thanks to the
// padded timestamp in the key, messages are naturally sorted ascending by
// creation time. When limitMessages is configured, only the most recent
// messages are returned, still in ascending order.
func (m MessageRepository) ListMessages() ([]DiskMessage, error) {
	var messages []DiskMessage
	err := m.db.View(func(txn *badger.Txn) error {
		prefix := []byte("msg:")
		options := badger.DefaultIteratorOptions
		it := txn.NewIterator(options)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(value []byte) error {
				var message DiskMessage
				if err := json.Unmarshal(value, &message); err != nil {
					return err
				}
				messages = append(messages, message)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if m.limitMessages != nil && len(messages) > *m.limitMessages {
		m.log.Debug(fmt.Sprintf("Maximum of %d backlog messages reached", *m.limitMessages))
		messages = messages[len(messages)-*m.limitMessages:]
	}
	return messages, nil
}
