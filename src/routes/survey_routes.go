package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pratamabintang/khs-assesment-sub001/src/controllers"
	"github.com/pratamabintang/khs-assesment-sub001/src/middleware"
	"github.com/pratamabintang/khs-assesment-sub001/src/models"
)

func SurveyRoutes(router fiber.Router, auth fiber.Handler, deps Deps) {
	ctrl := controllers.NewSurveyController(deps.Surveys)

	surveys := router.Group("/surveys", auth)
	surveys.Get("/", ctrl.GetSurveys)
	surveys.Get("/:id", ctrl.GetSurvey)
	surveys.Post("/", middleware.RequireRole(models.RoleAdmin), ctrl.CreateSurvey)
}
