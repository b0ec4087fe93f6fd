package accounts

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ClaimsContextKey is the fiber locals key holding the verified claims.
const ClaimsContextKey = "claims"

type Middleware struct {
	service *Service
	log     *zap.Logger
}

func NewMiddleware(service *Service, log *zap.Logger) *Middleware {
	return &Middleware{
		service: service,
		log:     log,
	}
}

// RequireAuth verifies the bearer token and stores the claims in the
// request context. Identity comes from the token; role gates go back to
// the store for the current role.
func (m *Middleware) RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return c.Status(fiber.StatusUnauthorized).
				JSON(fiber.Map{"error": "missing token"})
		}

		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer"))
		claims, err := m.service.ValidateToken(token)
		if err != nil {
			m.log.Warn("authentication failed",
				zap.String("path", c.Path()), zap.Error(err))
			return c.Status(fiber.StatusUnauthorized).
				JSON(fiber.Map{"error": "invalid token"})
		}

		c.Locals(ClaimsContextKey, claims)
		return c.Next()
	}
}

// RequireStaff allows only accounts whose current stored role is admin.
func (m *Middleware) RequireStaff() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := m.actor(c)
		if err != nil {
			return permissionDenied(c)
		}
		if !actor.IsStaff() {
			return permissionDenied(c)
		}
		return c.Next()
	}
}

// RequireSelfOrStaff allows staff, or the account whose id matches the
// named path parameter.
func (m *Middleware) RequireSelfOrStaff(param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := m.actor(c)
		if err != nil {
			return permissionDenied(c)
		}
		if actor.IsStaff() {
			return c.Next()
		}
		id, err := c.ParamsInt(param)
		if err != nil || id < 0 || actor.ID != uint(id) {
			return permissionDenied(c)
		}
		return c.Next()
	}
}

func (m *Middleware) actor(c *fiber.Ctx) (*Account, error) {
	claims, err := ClaimsFromCtx(c)
	if err != nil {
		return nil, err
	}
	return m.service.GetAccount(claims.AccountID)
}

// ClaimsFromCtx returns the verified claims set by RequireAuth.
func ClaimsFromCtx(c *fiber.Ctx) (*Claims, error) {
	claims, ok := c.Locals(ClaimsContextKey).(*Claims)
	if !ok {
		return nil, errors.New("claims not found in context")
	}
	return claims, nil
}

func permissionDenied(c *fiber.Ctx) error {
	return c.Status(fiber.StatusForbidden).
		JSON(fiber.Map{"error": "You do not have permission to perform this action."})
}
