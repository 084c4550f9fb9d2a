// Package claims decodes the payload of the portal's bearer tokens without
// verifying the signature. Decoded claims are advisory: they drive display and
// routing decisions only, the backend remains the authority on whether a token
// is accepted.
package claims

import (
	"errors"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// ErrMalformedToken is returned when a token cannot be decoded. Callers treat
// it the same as "no valid session".
var ErrMalformedToken = errors.New("malformed token")

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Claims is the decoded, unverified view of an access token.
type Claims struct {
	SubjectID   int64
	Role        Role
	DisplayName string // optional, empty when the token carries no username
	ExpiresAt   int64  // unix seconds, 0 when the token carries no exp
}

// tokenPayload mirrors the claim names minted by the backend. Current tokens
// carry "rol"; tokens issued before the role rename used "role".
type tokenPayload struct {
	UserID   int64  `json:"user_id"`
	Rol      string `json:"rol"`
	Role     string `json:"role"`
	Username string `json:"username"`
	jwtlib.RegisteredClaims
}

// Decode splits and decodes the token's payload segment and maps its fields
// into Claims. Any failure (wrong segment count, invalid encoding, invalid
// embedded JSON) yields ErrMalformedToken.
func Decode(token string) (*Claims, error) {
	var payload tokenPayload
	if _, _, err := jwtlib.NewParser().ParseUnverified(token, &payload); err != nil {
		return nil, ErrMalformedToken
	}

	role := payload.Rol
	if role == "" {
		role = payload.Role
	}

	var expiresAt int64
	if payload.ExpiresAt != nil {
		expiresAt = payload.ExpiresAt.Unix()
	}

	return &Claims{
		SubjectID:   payload.UserID,
		Role:        Role(role),
		DisplayName: payload.Username,
		ExpiresAt:   expiresAt,
	}, nil
}

// IsExpired reports whether the token should be considered expired locally:
// true when decoding fails, when the token carries no expiry, or when the
// expiry is not strictly in the future. It is an optimisation to avoid a
// doomed request, never a substitute for the backend's own validation.
func IsExpired(token string) bool {
	decoded, err := Decode(token)
	if err != nil {
		return true
	}
	if decoded.ExpiresAt == 0 {
		return true
	}
	return decoded.ExpiresAt*1000 <= NowTimeFunc().UnixMilli()
}
