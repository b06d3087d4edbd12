package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/sealgrade/sealgrade-api/internal/utils"
)

// Locals keys populated by JWTProtected.
const (
	LocalPrincipal = "principal"
	LocalRole      = "role"
)

// JWTProtected returns a middleware that validates JWT bearer tokens and
// binds the caller's principal and role to the request. The `sub` claim is
// the opaque principal identity; `role` is teacher or student.
func JWTProtected(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authorization := c.Get("Authorization")
		if authorization == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "authorization header missing")
		}

		const bearer = "Bearer "
		if !strings.HasPrefix(strings.ToLower(authorization), strings.ToLower(bearer)) {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid authorization header")
		}

		tokenString := strings.TrimSpace(authorization[len(bearer):])
		if tokenString == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token claims")
		}

		principal := extractPrincipal(claims)
		if principal == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "token missing subject")
		}

		c.Locals(LocalPrincipal, principal)
		if role := extractRole(claims); role != "" {
			c.Locals(LocalRole, role)
		}

		return c.Next()
	}
}

func extractPrincipal(claims jwt.MapClaims) string {
	for _, key := range []string{"sub", "principal"} {
		if value, ok := claims[key]; ok {
			if principal, ok := value.(string); ok {
				if trimmed := strings.TrimSpace(principal); trimmed != "" {
					return trimmed
				}
			}
		}
	}

	return ""
}

func extractRole(claims jwt.MapClaims) string {
	value, ok := claims["role"]
	if !ok {
		return ""
	}

	role, ok := value.(string)
	if !ok {
		return ""
	}

	return strings.ToLower(strings.TrimSpace(role))
}
