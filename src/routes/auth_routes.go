package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pratamabintang/khs-assesment-sub001/src/controllers"
)

func AuthRoutes(router fiber.Router, auth fiber.Handler, deps Deps) {
	ctrl := controllers.NewAuthController(deps.Blacklist)

	group := router.Group("/auth", auth)
	group.Get("/me", ctrl.Me)
	group.Post("/logout", ctrl.Logout)
}
