// Package auth provides JWT token handling, password hashing, and the
// authentication middleware for the job board API.
//
// AUTHENTICATION FLOW OVERVIEW:
// 1. User registers or logs in with email + password
// 2. Server verifies credentials and issues a JWT carrying the user's ID and role
// 3. The token is returned in the JSON body AND set as an HttpOnly cookie —
//    the body copy feeds client-side fetches (Authorization: Bearer ...),
//    the cookie keeps the browser session alive across page loads
// 4. On each request, middleware resolves the token (header first, cookie as
//    fallback), validates it, and loads the user into the request context
//
// WHY JWT?
// JWT (JSON Web Token) is stateless — the server doesn't need to store session
// data. All the information needed (userID, role, expiry) is inside the signed
// token. The signature ensures nobody can tamper with it without the secret key.
// There is no revocation list: a token is valid until its embedded expiry.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "jobboard"

// TokenService handles JWT creation and validation.
//
// It holds the HMAC secret key used to sign and verify tokens and the token
// lifetime. The same secret must be used for both operations — keep it safe,
// rotate it periodically in production.
type TokenService struct {
	secret []byte
	expiry time.Duration
}

// NewTokenService creates a TokenService with the given secret and token
// lifetime. The secret should be at least 32 bytes of random data in
// production. Example: JWT_SECRET=$(openssl rand -hex 32)
func NewTokenService(secret string, expiry time.Duration) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	if expiry <= 0 {
		expiry = 24 * time.Hour
	}
	return &TokenService{secret: []byte(secret), expiry: expiry}, nil
}

// Expiry returns the configured token lifetime. Handlers use it to set a
// matching MaxAge on the session cookie.
func (s *TokenService) Expiry() time.Duration {
	return s.expiry
}

// claims is the JWT payload. It embeds jwt.RegisteredClaims (Subject,
// ExpiresAt, IssuedAt, Issuer) and adds the account role so the admin gate
// can reject non-admins without a database round trip.
//
// "sub" holds the internal user ID — the standard claim for identifying who
// the token belongs to.
type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Generate creates and signs a new JWT access token for the given user.
//
// Signing algorithm: HS256 (HMAC-SHA256)
// - Symmetric: same key for signing and verifying
// - Fast and simple — good for single-server deployments
func (s *TokenService) Generate(userID, role string) (string, error) {
	return s.GenerateWithDuration(userID, role, s.expiry)
}

// GenerateWithDuration creates a token with a custom expiry duration.
// Used in tests to mint already-expired tokens.
func (s *TokenService) GenerateWithDuration(userID, role string, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
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

// Validate parses and verifies a JWT string.
// Returns the userID ("sub") and role claims if the token is valid.
//
// VALIDATION CHECKS (performed by the jwt library):
//   - Signature is valid (wasn't tampered with)
//   - Token is not expired (ExpiresAt is in the future)
//   - Issuer matches (prevents tokens from other apps signed with the same key)
//   - Algorithm is HS256 (prevents algorithm confusion attacks)
func (s *TokenService) Validate(tokenStr string) (userID, role string, err error) {
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
			return "", "", fmt.Errorf("auth: token expired")
		}
		return "", "", fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return "", "", fmt.Errorf("auth: invalid token claims")
	}

	if c.Subject == "" {
		return "", "", fmt.Errorf("auth: token has no subject")
	}

	return c.Subject, c.Role, nil
}
