package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pratamabintang/khs-assesment-sub001/src/controllers"
)

func EmployeeRoutes(router fiber.Router, auth fiber.Handler, deps Deps) {
	ctrl := controllers.NewEmployeeController(deps.Directory)

	employees := router.Group("/employees", auth)
	employees.Get("/", ctrl.GetEmployees)
	employees.Post("/", ctrl.CreateEmployee)
}
