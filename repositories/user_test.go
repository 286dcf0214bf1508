package repositories

import (
	apperrors "chat-relay/errors"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Create_And_Get_User(t *testing.T) {
	req := require.New(t)
	repository := NewUserRepository(openTestDB(t))

	// When a user is created
	id, err := repository.CreateUser("alice", "$argon2id$fake-hash")
	req.NoError(err)
	req.NotEmpty(id)

	// Then it can be fetched by username
	user, err := repository.GetUserByUsername("alice")
	req.NoError(err)
	req.Equal(id, user.ID)
	req.Equal("alice", user.Username)
	req.Equal("$argon2id$fake-hash", user.PasswordHash)
}

func Test_Create_User_Twice(t *testing.T) {
	req := require.New(t)
	repository := NewUserRepository(openTestDB(t))

	_, err := repository.CreateUser("alice", "hash-1")
	req.NoError(err)

	// Second registration with the same username is rejected
	_, err = repository.CreateUser("alice", "hash-2")
	req.True(errors.Is(err, apperrors.ErrUserAlreadyExists))

	// And the original account is untouched
	user, err := repository.GetUserByUsername("alice")
	req.NoError(err)
	req.Equal("hash-1", user.PasswordHash)
}

func Test_Get_Unknown_User(t *testing.T) {
	req := require.New(t)
	repository := NewUserRepository(openTestDB(t))

	_, err := repository.GetUserByUsername("nobody")
	req.Error(err)
}
