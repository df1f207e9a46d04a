package user

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v2"
	"github.com/golang-jwt/jwt/v4"
)

// Identity is what a verified session token says about the caller.
type Identity struct {
	UserID int
	Email  string
	Name   string
}

// RequireAuth rejects requests without a valid bearer token.
func RequireAuth(secret string) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   []byte(secret),
		ErrorHandler: unauthorized,
	})
}

// OptionalAuth verifies a bearer token when one is sent and lets anonymous
// requests through untouched. A malformed or expired token is still rejected.
func OptionalAuth(secret string) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   []byte(secret),
		ErrorHandler: unauthorized,
		Filter: func(c *fiber.Ctx) bool {
			return c.Get(fiber.HeaderAuthorization) == ""
		},
	})
}

func unauthorized(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
}

// IdentityFromCtx reads the claims stored by the jwt middleware.
func IdentityFromCtx(c *fiber.Ctx) (Identity, bool) {
	tok, ok := c.Locals("user").(*jwt.Token)
	if !ok || tok == nil {
		return Identity{}, false
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, false
	}

	id := Identity{}
	switch v := claims["user_id"].(type) {
	case float64:
		id.UserID = int(v)
	case int:
		id.UserID = v
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return Identity{}, false
		}
		id.UserID = n
	default:
		return Identity{}, false
	}
	id.Email, _ = claims["email"].(string)
	id.Name, _ = claims["name"].(string)
	return id, true
}
