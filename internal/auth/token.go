package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is the fixed lifetime of an access token.
const TokenTTL = 7 * 24 * time.Hour

const tokenKindAccess = "access"

// ErrInvalidToken is returned for every token that fails verification.
// Callers cannot tell a forged token from an expired one.
var ErrInvalidToken = errors.New("invalid token")

// Identity is the authenticated principal carried by a token.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

type claims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	Type  string `json:"type"`
	jwt.RegisteredClaims
}

// Codec signs and verifies HS256 access tokens.
type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewCodec(secret string) *Codec {
	return &Codec{
		secret: []byte(secret),
		ttl:    TokenTTL,
		now:    time.Now,
	}
}

// Sign issues a token for the identity that expires TokenTTL from now.
func (c *Codec) Sign(id Identity) (string, error) {
	now := c.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Email: id.Email,
		Name:  id.Name,
		Role:  id.Role,
		Type:  tokenKindAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	})
	return token.SignedString(c.secret)
}

// Verify checks signature, expiry and token kind and returns the identity.
func (c *Codec) Verify(tokenString string) (Identity, error) {
	var cl claims
	token, err := jwt.ParseWithClaims(
		tokenString,
		&cl,
		func(*jwt.Token) (any, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil || !token.Valid {
		return Identity{}, ErrInvalidToken
	}
	if cl.Type != tokenKindAccess || strings.TrimSpace(cl.Subject) == "" {
		return Identity{}, ErrInvalidToken
	}
	return Identity{
		ID:    cl.Subject,
		Email: cl.Email,
		Name:  cl.Name,
		Role:  cl.Role,
	}, nil
}
