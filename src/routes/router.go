package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pratamabintang/khs-assesment-sub001/src/controllers"
	"github.com/pratamabintang/khs-assesment-sub001/src/jobs"
	"github.com/pratamabintang/khs-assesment-sub001/src/middleware"
	"github.com/pratamabintang/khs-assesment-sub001/src/utils"
)

// Deps รวม service ที่ routes ต้องใช้ (สร้างใน main)
type Deps struct {
	JWTSecret   []byte
	Blacklist   *utils.TokenBlacklist
	Entries     controllers.EntryService
	Submissions interface {
		controllers.SubmissionService
		controllers.EntryRemover
	}
	Directory controllers.EmployeeDirectory
	Surveys   controllers.SurveyStore
	AutoFill  jobs.AutoFiller
	Queue     controllers.Enqueuer // nil when Redis is not configured
}

func InitRoutes(app *fiber.App, deps Deps) {
	// Route เช็คว่า API ทำงานอยู่
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("✅ API is running...")
	})

	// ทุกเส้นทางด้านล่างต้องมี JWT
	auth := middleware.AuthJWT(deps.JWTSecret, deps.Blacklist)

	AuthRoutes(app, auth, deps)
	EntryRoutes(app, auth, deps)
	SubmissionRoutes(app, auth, deps)
	EmployeeRoutes(app, auth, deps)
	SurveyRoutes(app, auth, deps)
	AdminRoutes(app, auth, deps)
}
