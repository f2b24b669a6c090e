// Package jwtx implements the stateless session tokens used to authorize API
// requests. A token is an HS256-signed claim binding a user ID to an expiry;
// there is no server-side session table and revocation is expiry-only, so a
// user's family membership can change without re-issuing the token.
package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultSessionTTL matches the mobile client's expectation of long-lived
// sessions. Shorten via config for more security-sensitive deployments.
const DefaultSessionTTL = 30 * 24 * time.Hour

var (
	ErrMalformed   = errors.New("jwtx: malformed token")
	ErrInvalidSig  = errors.New("jwtx: invalid signature")
	ErrExpired     = errors.New("jwtx: token expired")
	ErrNotYetValid = errors.New("jwtx: token not yet valid")
)

// Claims are the session claims embedded in every access token. Subject is
// the user ID and is the only trusted source of "who is asking".
type Claims struct {
	jwt.RegisteredClaims
}

// Codec signs and verifies session tokens with a shared HMAC secret.
type Codec struct {
	secret []byte
	issuer string
	leeway time.Duration
}

// NewCodec builds a Codec. The secret must be non-empty; issuer is embedded
// in minted tokens and enforced during verification.
func NewCodec(secret []byte, issuer string) (*Codec, error) {
	if len(secret) == 0 {
		return nil, errors.New("jwtx: empty signing secret")
	}
	return &Codec{
		secret: secret,
		issuer: issuer,
		leeway: 30 * time.Second,
	}, nil
}

// Sign mints a session token for the given user ID with the given lifetime.
func (c *Codec) Sign(userID string, ttl time.Duration, now time.Time) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        newJTI(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Verify parses and validates a token, returning its claims. Expired tokens
// fail with ErrExpired so callers can distinguish "log in again" from other
// failures.
func (c *Codec) Verify(token string) (Claims, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSig
		}
		return c.secret, nil
	},
		jwt.WithLeeway(c.leeway),
		jwt.WithIssuer(c.issuer),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return Claims{}, mapError(err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return Claims{}, ErrMalformed
	}
	return claims, nil
}

// newJTI returns a URL-safe random identifier for the "jti" claim.
func newJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

func mapError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return ErrNotYetValid
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrInvalidSig
	default:
		return ErrMalformed
	}
}
