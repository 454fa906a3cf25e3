package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pratamabintang/khs-assesment-sub001/src/controllers"
	"github.com/pratamabintang/khs-assesment-sub001/src/middleware"
	"github.com/pratamabintang/khs-assesment-sub001/src/models"
)

func EntryRoutes(router fiber.Router, auth fiber.Handler, deps Deps) {
	ctrl := controllers.NewEntryController(deps.Entries, deps.Submissions)

	entries := router.Group("/entries", auth)
	entries.Post("/", ctrl.CreateEntries)       // สร้าง slot ประจำเดือน
	entries.Get("/", ctrl.GetEntries)           // GET /entries?month=YYYY-MM
	entries.Get("/admin", ctrl.GetEntriesAdmin) // GET /entries/admin?from=&to=
	entries.Get("/is-update", ctrl.IsUpdate)    // ตอบแล้วหรือยัง
	entries.Delete("/:id", middleware.RequireRole(models.RoleAdmin), ctrl.DeleteEntry)
}
