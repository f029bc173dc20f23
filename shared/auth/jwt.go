package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for every verification failure. Bad signature,
// expiry, and malformed tokens are deliberately indistinguishable to callers.
var ErrInvalidToken = errors.New("invalid token")

// SessionClaims carries the authenticated user's identity inside a signed
// token.
type SessionClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies the bearer tokens used for login sessions
// and password-reset links. Issuance is pure: no I/O beyond the clock.
type TokenIssuer struct {
	secret     string
	issuer     string
	sessionTTL time.Duration
	resetTTL   time.Duration
}

// NewTokenIssuer creates a TokenIssuer signing HS256 tokens with the given
// server-held secret.
func NewTokenIssuer(secret, issuer string, sessionTTL, resetTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret:     secret,
		issuer:     issuer,
		sessionTTL: sessionTTL,
		resetTTL:   resetTTL,
	}
}

// IssueSessionToken issues a token proving an authenticated session for the
// given user.
func (i *TokenIssuer) IssueSessionToken(userID string) (string, error) {
	return i.issue(userID, i.sessionTTL)
}

// IssueResetToken issues a short-lived token embedded in password-reset
// links.
func (i *TokenIssuer) IssueResetToken(userID string) (string, error) {
	return i.issue(userID, i.resetTTL)
}

func (i *TokenIssuer) issue(userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    i.issuer,
			Audience:  jwt.ClaimStrings{i.issuer},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenStr, err := token.SignedString([]byte(i.secret))
	if err != nil {
		return "", err
	}

	return tokenStr, nil
}

// Verify parses and validates a token and returns the user ID it was issued
// for. Any failure, tampering as well as expiry, yields ErrInvalidToken.
func (i *TokenIssuer) Verify(tokenStr string) (string, error) {
	claims := &SessionClaims{}

	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}

		return []byte(i.secret), nil
	},
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(i.issuer),
		jwt.WithAudience(i.issuer),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
	)
	if err != nil || !token.Valid || claims.UserID == "" {
		return "", ErrInvalidToken
	}

	return claims.UserID, nil
}
