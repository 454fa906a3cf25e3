package controllers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/pratamabintang/khs-assesment-sub001/src/apperr"
	"github.com/pratamabintang/khs-assesment-sub001/src/middleware"
	"github.com/pratamabintang/khs-assesment-sub001/src/utils"
)

type Blacklist interface {
	Add(ctx context.Context, token string, expiresIn time.Duration) error
}

type AuthController struct {
	blacklist Blacklist
}

func NewAuthController(blacklist Blacklist) *AuthController {
	return &AuthController{blacklist: blacklist}
}

// Me godoc
// @Summary      Identity carried by the bearer token
// @Tags         auth
// @Produce      json
// @Success      200  {object}  models.Caller
// @Security     BearerAuth
// @Router       /auth/me [get]
func (ctl *AuthController) Me(c *fiber.Ctx) error {
	return c.JSON(caller(c))
}

// Logout godoc
// @Summary      Revoke the current bearer token
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  models.ErrorResponse
// @Failure      503  {object}  models.ErrorResponse
// @Security     BearerAuth
// @Router       /auth/logout [post]
func (ctl *AuthController) Logout(c *fiber.Ctx) error {
	token, exp := middleware.TokenFrom(c)
	ttl := time.Until(exp)
	if exp.IsZero() || ttl <= 0 {
		// tokens without exp stay revoked for a day
		ttl = 24 * time.Hour
	}
	if err := ctl.blacklist.Add(c.UserContext(), token, ttl); err != nil {
		if errors.Is(err, utils.ErrBlacklistDisabled) {
			// ไม่มี Redis: token ยังใช้ได้จนหมดอายุ
			return utils.HandleError(c, fiber.NewError(fiber.StatusServiceUnavailable,
				"logout is unavailable, the token stays valid until it expires"))
		}
		return utils.HandleError(c, apperr.Internal(err))
	}
	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}
