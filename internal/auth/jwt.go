// Package auth provides JWT token generation/validation, bcrypt password
// hashing, and the HTTP middleware that guards protected routes.
//
// AUTHENTICATION FLOW OVERVIEW:
// 1. Client registers via POST /api/createuser (bcrypt hash stored)
// 2. Client logs in via POST /api/login → server issues a signed JWT
// 3. Client sends "Authorization: Bearer <token>" on protected requests
// 4. Middleware validates the JWT and puts the embedded identity in the
//    request context
//
// WHY JWT?
// JWT is stateless — the server keeps no session store. Everything needed
// (user id, email, username, expiry) is inside the signed token, and the
// HMAC signature ensures nobody can tamper with it without the secret key.
// "Logout" is therefore just a client-side token discard.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is how long an issued token stays valid. After expiry the client
// must log in again.
const TokenTTL = time.Hour

const issuer = "restro-server"

// Identity is the caller identity embedded in a token, recovered by
// Validate. Everything downstream ownership checks need, nothing more.
type Identity struct {
	UserID   string
	Email    string
	Username string
}

// TokenService handles JWT creation and validation. It holds the HMAC
// secret used for both signing and verifying.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
// The secret should be at least 32 bytes of random data in production,
// e.g. JWT_SECRET=$(openssl rand -hex 32).
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// claims is the JWT payload. The user ID rides in the standard "sub"
// (Subject) claim; email and username are custom claims so the frontend can
// display who is logged in without an extra lookup.
type claims struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Generate creates and signs a JWT for the given identity, valid for
// TokenTTL (one hour).
//
// Signing algorithm: HS256 (HMAC-SHA256) — symmetric, same key signs and
// verifies. Fine for a single-server deployment.
func (s *TokenService) Generate(id Identity) (string, error) {
	return s.GenerateWithDuration(id, TokenTTL)
}

// GenerateWithDuration creates a token with a custom expiry. Used by tests
// to mint already-expired or short-lived tokens.
func (s *TokenService) GenerateWithDuration(id Identity, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		Email:    id.Email,
		Username: id.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a JWT string and returns the identity it
// encodes.
//
// Checks performed (by the jwt library, given the options below):
//   - signature is valid (not tampered with)
//   - token is not expired
//   - issuer matches (rejects tokens minted by other apps)
//   - algorithm is HS256 — passing jwt.WithValidMethods prevents the
//     classic algorithm-confusion attack where a token claims alg "none"
func (s *TokenService) Validate(tokenStr string) (*Identity, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("auth: token expired")
		}
		return nil, fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("auth: invalid token claims")
	}
	if c.Subject == "" {
		return nil, fmt.Errorf("auth: token has no subject")
	}

	return &Identity{
		UserID:   c.Subject,
		Email:    c.Email,
		Username: c.Username,
	}, nil
}
