package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pratamabintang/khs-assesment-sub001/src/controllers"
)

func SubmissionRoutes(router fiber.Router, auth fiber.Handler, deps Deps) {
	ctrl := controllers.NewSubmissionController(deps.Submissions)

	submissions := router.Group("/submissions", auth)
	submissions.Post("/", ctrl.CreateSubmission)
	submissions.Get("/:id", ctrl.GetSubmission)
	submissions.Patch("/:id", ctrl.UpdateSubmission)
}
