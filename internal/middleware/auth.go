package middleware

import (
	"slices"

	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/repository"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	// TokenHeader is where clients send the access token, raw and without a scheme.
	TokenHeader = "token"

	headerLookup = "header:" + TokenHeader
	socketLookup = "header:" + TokenHeader + ",query:" + TokenHeader
)

// Gate authenticates requests and checks the caller's stored role.
type Gate struct {
	secret []byte
	users  repository.UserRepository
}

func NewGate(cfg *config.Config, users repository.UserRepository) *Gate {
	return &Gate{secret: []byte(cfg.JWTSecret), users: users}
}

// Require admits callers whose role is one of roles; no roles admits any signed-in user.
func (g *Gate) Require(roles ...string) fiber.Handler {
	return g.handler(headerLookup, roles)
}

// Socket is Require for the WebSocket upgrade, where browsers can only pass the token in the query.
func (g *Gate) Socket() fiber.Handler {
	return g.handler(socketLookup, nil)
}

func (g *Gate) handler(lookup string, roles []string) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:  jwtware.SigningKey{JWTAlg: jwtware.HS256, Key: g.secret},
		TokenLookup: lookup,
		ContextKey:  identity.TokenLocal,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if c.Get(TokenHeader) == "" && (lookup == headerLookup || c.Query(TokenHeader) == "") {
				return deny(c, fiber.StatusUnauthorized, "Access denied")
			}
			return deny(c, fiber.StatusBadRequest, "Invalid token")
		},
		SuccessHandler: func(c *fiber.Ctx) error {
			return g.authorize(c, roles)
		},
	})
}

// authorize re-reads the user so blocking and role changes apply to tokens already issued.
func (g *Gate) authorize(c *fiber.Ctx, roles []string) error {
	token, _ := c.Locals(identity.TokenLocal).(*jwt.Token)
	userID, err := identity.FromToken(token, identity.TypeAccess)
	if err != nil {
		return deny(c, fiber.StatusBadRequest, "Invalid token")
	}

	user, err := g.users.FindByID(c.UserContext(), userID)
	if err != nil {
		return err
	}
	if user == nil {
		return deny(c, fiber.StatusUnauthorized, "Access denied")
	}
	if user.IsBlocked {
		return deny(c, fiber.StatusForbidden, "Your account has been blocked")
	}
	if len(roles) > 0 && !slices.Contains(roles, user.Role) {
		return deny(c, fiber.StatusForbidden, "Access forbidden: Insufficient permissions")
	}

	identity.Set(c, identity.Identity{ID: user.ID, Role: user.Role})
	return c.Next()
}

func deny(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(dto.Error(msg))
}

// Role shorthands used when mounting routes.
var (
	Seekers   = []string{models.RoleJobSeeker}
	Employers = []string{models.RoleEmployer}
	Admins    = []string{models.RoleAdmin}
	Members   = []string{models.RoleJobSeeker, models.RoleEmployer}
)
