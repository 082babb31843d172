package utils // package utils provides helper functions for token creation and hashing

import (
	"errors"  // sentinel errors for token verification
	"fmt"     // formatting of unexpected claim types
	"strconv" // parsing of string subjects
	"time"    // time utilities for generating expirations

	"github.com/golang-jwt/jwt/v5" // JWT library for creating and verifying signed tokens
)

// ErrInvalidToken is returned by ParseToken for any token that cannot be
// trusted: malformed, wrongly signed, expired, or missing a usable subject.
var ErrInvalidToken = errors.New("invalid token")

// Token represents a signed JWT along with its expiry.  The Value field is
// what clients send back in the Authorization header.
type Token struct {
	Value string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// Claims is the verified payload of a token.
type Claims struct {
	UserID uint64 // subject (sub)
	Role   string // role at the time the token was issued
}

// NewToken builds and signs an HS256 JWT for a user.  The token carries the
// standard claims subject (sub), expiration (exp) and issued at (iat) plus
// the user's id and role.  ttl is the lifetime of the token.
func NewToken(secret string, userID uint64, role string, ttl time.Duration) (Token, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := jwt.MapClaims{
		"sub":  strconv.FormatUint(userID, 10),
		"id":   userID, // read by the web client
		"role": role,
		"exp":  exp.Unix(),
		"iat":  now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return Token{}, err
	}
	return Token{Value: signed, Exp: exp}, nil
}

// ParseToken verifies the signature and expiry of raw and extracts its
// claims.  Only HMAC signing methods are accepted.  Every failure is
// reported as ErrInvalidToken wrapping the underlying cause.
func ParseToken(secret, raw string) (Claims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		// Reject tokens signed with anything other than HMAC, e.g. "none".
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok || !tok.Valid {
		return Claims{}, ErrInvalidToken
	}
	id, err := subjectID(mc["sub"])
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	role, _ := mc["role"].(string)
	return Claims{UserID: id, Role: role}, nil
}

// subjectID accepts the subject as a decimal string or, for tokens minted
// by older builds, a JSON number.
func subjectID(v interface{}) (uint64, error) {
	switch s := v.(type) {
	case string:
		return strconv.ParseUint(s, 10, 64)
	case float64:
		if s <= 0 {
			return 0, errors.New("non-positive subject")
		}
		return uint64(s), nil
	default:
		return 0, fmt.Errorf("unexpected subject type %T", v)
	}
}
