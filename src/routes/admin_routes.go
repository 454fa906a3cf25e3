package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pratamabintang/khs-assesment-sub001/src/controllers"
	"github.com/pratamabintang/khs-assesment-sub001/src/middleware"
	"github.com/pratamabintang/khs-assesment-sub001/src/models"
)

// AdminRoutes กำหนดเส้นทางสำหรับสั่งงานเบื้องหลัง (ADMIN เท่านั้น)
func AdminRoutes(router fiber.Router, auth fiber.Handler, deps Deps) {
	ctrl := controllers.NewAdminJobsController(deps.Queue, deps.AutoFill)

	admin := router.Group("/admin", auth, middleware.RequireRole(models.RoleAdmin))
	admin.Post("/jobs/autofill", ctrl.TriggerAutoFill)
	admin.Post("/jobs/reconcile", ctrl.TriggerReconcile)
}
