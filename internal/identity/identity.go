// Package identity issues and reads the signed tokens that carry a user's id and role,
// and moves the authenticated identity through the Fiber request context.
package identity

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token kinds carried in the "typ" claim.
const (
	TypeAccess = "access"
	TypeReset  = "reset"
)

// TokenLocal is the Fiber local the JWT middleware stores the parsed token under.
const TokenLocal = "user"

const identityLocal = "identity"

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrWrongType    = errors.New("wrong token type")
)

// Identity is what the auth gate attaches to an authenticated request.
type Identity struct {
	ID   uuid.UUID
	Role string
}

// Sign issues an HS256 token for userID.
func Sign(secret string, userID uuid.UUID, role, typ string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  userID.String(),
		"role": role,
		"typ":  typ,
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// Parse verifies raw and returns its subject. The token must be of kind typ.
func Parse(secret, raw, typ string) (uuid.UUID, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return uuid.Nil, ErrInvalidToken
	}
	return subject(token, typ)
}

// FromToken reads the subject of an already verified token.
func FromToken(token *jwt.Token, typ string) (uuid.UUID, error) {
	if token == nil {
		return uuid.Nil, ErrInvalidToken
	}
	return subject(token, typ)
}

func subject(token *jwt.Token, typ string) (uuid.UUID, error) {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, ErrInvalidToken
	}
	if t, _ := claims["typ"].(string); t != typ {
		return uuid.Nil, ErrWrongType
	}
	sub, ok := claims["sub"].(string)
	if !ok {
		return uuid.Nil, ErrInvalidToken
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	return id, nil
}

func Set(c *fiber.Ctx, id Identity) {
	c.Locals(identityLocal, id)
}

// Get returns the identity attached by the auth gate.
func Get(c *fiber.Ctx) (Identity, bool) {
	id, ok := c.Locals(identityLocal).(Identity)
	return id, ok
}

// UserID is Get without the ok flag; it returns uuid.Nil on public routes.
func UserID(c *fiber.Ctx) uuid.UUID {
	id, _ := Get(c)
	return id.ID
}
