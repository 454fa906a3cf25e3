package middleware

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/pratamabintang/khs-assesment-sub001/src/models"
	"github.com/pratamabintang/khs-assesment-sub001/src/utils"
)

const (
	callerKey    = "caller"
	tokenKey     = "token"
	expiresAtKey = "tokenExpiresAt"
)

// AuthJWT ตรวจสอบ Bearer token และเก็บ Caller ไว้ใน Locals
func AuthJWT(secret []byte, blacklist *utils.TokenBlacklist) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			return unauthorized(c, "Missing or invalid Authorization header")
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := utils.ParseJWT(secret, tokenStr)
		if err != nil {
			return unauthorized(c, "Invalid or expired token")
		}

		revoked, err := blacklist.Contains(c.UserContext(), tokenStr)
		if err != nil {
			return utils.HandleError(c, err)
		}
		if revoked {
			return unauthorized(c, "Token has been revoked")
		}

		c.Locals(callerKey, claims.Caller())
		c.Locals(tokenKey, tokenStr)
		if claims.ExpiresAt != nil {
			c.Locals(expiresAtKey, claims.ExpiresAt.Time)
		}
		return c.Next()
	}
}

// RequireRole อนุญาตเฉพาะ role ที่กำหนด (ใช้หลัง AuthJWT)
func RequireRole(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, ok := CallerFrom(c)
		if !ok {
			return unauthorized(c, "Missing caller")
		}
		for _, r := range roles {
			if caller.Role == r {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(models.ErrorResponse{
			Status:  fiber.StatusForbidden,
			Message: "insufficient role",
		})
	}
}

func CallerFrom(c *fiber.Ctx) (models.Caller, bool) {
	caller, ok := c.Locals(callerKey).(models.Caller)
	return caller, ok
}

// TokenFrom returns the raw bearer token and its expiry, as verified by AuthJWT.
func TokenFrom(c *fiber.Ctx) (string, time.Time) {
	token, _ := c.Locals(tokenKey).(string)
	exp, _ := c.Locals(expiresAtKey).(time.Time)
	return token, exp
}

func unauthorized(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse{
		Status:  fiber.StatusUnauthorized,
		Message: msg,
	})
}
