package rest

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"chat-relay/auth"
	apperrors "chat-relay/errors"
	"chat-relay/services"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

type stubAuthService struct {
	registerToken services.Token
	registerErr   error
	loginToken    services.Token
	loginErr      error
}

func (s *stubAuthService) Register(username, password string) (services.Token, error) {
	return s.registerToken, s.registerErr
}

func (s *stubAuthService) Login(username, password string) (services.Token, error) {
	return s.loginToken, s.loginErr
}

func postJSON(t *testing.T, handler http.HandlerFunc, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(payload))
	handler(recorder, request)
	return recorder
}

func TestRegister_Success(t *testing.T) {
	req := require.New(t)
	handler := NewAuthHandler(logs.GetLoggerFromLevel(slog.LevelDebug),
		&stubAuthService{registerToken: "issued-token"})

	recorder := postJSON(t, handler.Register,
		map[string]string{"username": "alice", "password": "ComplexPass123!"})

	req.Equal(http.StatusCreated, recorder.Code)
	var body map[string]string
	req.NoError(json.Unmarshal(recorder.Body.Bytes(), &body))
	req.Equal("issued-token", body["token"])
}

func TestRegister_Conflict(t *testing.T) {
	req := require.New(t)
	handler := NewAuthHandler(logs.GetLoggerFromLevel(slog.LevelDebug),
		&stubAuthService{registerErr: apperrors.ErrUserAlreadyExists})

	recorder := postJSON(t, handler.Register,
		map[string]string{"username": "alice", "password": "ComplexPass123!"})

	req.Equal(http.StatusConflict, recorder.Code)
}

func TestLogin_Invalid_Credentials(t *testing.T) {
	req := require.New(t)
	handler := NewAuthHandler(logs.GetLoggerFromLevel(slog.LevelDebug),
		&stubAuthService{loginErr: apperrors.ErrInvalidCredentials})

	recorder := postJSON(t, handler.Login,
		map[string]string{"username": "alice", "password": "nope"})

	req.Equal(http.StatusUnauthorized, recorder.Code)
	var body map[string]string
	req.NoError(json.Unmarshal(recorder.Body.Bytes(), &body))
	req.Equal(apperrors.ErrInvalidCredentials.Error(), body["error"])
}

func TestLogin_Bad_Body(t *testing.T) {
	req := require.New(t)
	handler := NewAuthHandler(logs.GetLoggerFromLevel(slog.LevelDebug), &stubAuthService{})

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte("not json")))
	handler.Login(recorder, request)

	req.Equal(http.StatusBadRequest, recorder.Code)
}

func TestLogin_Issued_Token_Verifies(t *testing.T) {
	req := require.New(t)
	verifier := auth.NewVerifier("rest-test-secret", time.Hour)
	token, err := verifier.Issue("user-1", "alice")
	req.NoError(err)

	handler := NewAuthHandler(logs.GetLoggerFromLevel(slog.LevelDebug),
		&stubAuthService{loginToken: services.Token(token)})

	recorder := postJSON(t, handler.Login,
		map[string]string{"username": "alice", "password": "ComplexPass123!"})
	req.Equal(http.StatusOK, recorder.Code)

	var body map[string]string
	req.NoError(json.Unmarshal(recorder.Body.Bytes(), &body))
	identity, err := verifier.Verify(body["token"])
	req.NoError(err)
	req.Equal("alice", identity.Username)
}
