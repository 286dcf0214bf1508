package auth

import (
	apperrors "chat-relay/errors"
	"errors"
	"fmt"
	"time"

	"chat-relay/domain"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "chat-relay"

// Claims defines the structure of the data stored inside the JWT.
// The token is the sole source of truth for identity during a connection's
// lifetime: no database lookup happens at verification time.
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Verifier validates and issues signed bearer tokens. The HMAC secret is
// injected configuration, never a literal in code.
type Verifier struct {
	secret        []byte
	tokenDuration time.Duration
}

func NewVerifier(secret string, tokenDuration time.Duration) *Verifier {
	return &Verifier{secret: []byte(secret), tokenDuration: tokenDuration}
}

// Issue creates a signed JWT for a specific user using the HS256 algorithm.
func (v *Verifier) Issue(userID, username string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(v.tokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(v.secret)
}

// Verify parses and validates the signature and expiration of a credential
// and extracts the identity carried by its claims. Expiry is checked here
// only: an already admitted session is not re-checked.
//
// Verify has no side effects and is safe to call concurrently from many
// sessions.
func (v *Verifier) Verify(credential string) (domain.Identity, error) {
	if credential == "" {
		return domain.Identity{}, fmt.Errorf("%w: empty credential", apperrors.ErrTokenMalformed)
	}

	token, err := jwt.ParseWithClaims(credential, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return domain.Identity{}, fmt.Errorf("%w: %v", apperrors.ErrTokenExpired, err)
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return domain.Identity{}, fmt.Errorf("%w: %v", apperrors.ErrTokenSignature, err)
		default:
			return domain.Identity{}, fmt.Errorf("%w: %v", apperrors.ErrTokenMalformed, err)
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return domain.Identity{}, apperrors.ErrTokenSignature
	}

	return domain.Identity{UserID: claims.UserID, Username: claims.Username}, nil
}
