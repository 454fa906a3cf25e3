package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"

	"github.com/pratamabintang/khs-assesment-sub001/src/apperr"
	"github.com/pratamabintang/khs-assesment-sub001/src/jobs"
	"github.com/pratamabintang/khs-assesment-sub001/src/utils"
)

// Enqueuer is satisfied by *asynq.Client.
type Enqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type AdminJobsController struct {
	queue    Enqueuer // nil: jobs run in-process
	autoFill jobs.AutoFiller
	now      func() time.Time
}

func NewAdminJobsController(queue Enqueuer, autoFill jobs.AutoFiller) *AdminJobsController {
	return &AdminJobsController{queue: queue, autoFill: autoFill, now: time.Now}
}

// TriggerAutoFill godoc
// @Summary      Run the monthly auto-fill (ADMIN)
// @Description  Fills every unanswered entry of the month before "month" (default: the month before now).
// @Description  Enqueued through Asynq when Redis is configured, otherwise executed in-process.
// @Tags         admin-jobs
// @Produce      json
// @Param        month   query     string  false  "Month to fill (YYYY-MM)"
// @Param        inline  query     bool    false  "Run in-process even when Asynq is available"
// @Success      200     {object}  autofill.RunReport
// @Success      202     {object}  map[string]interface{}
// @Failure      400     {object}  models.ErrorResponse
// @Failure      500     {object}  models.ErrorResponse
// @Security     BearerAuth
// @Router       /admin/jobs/autofill [post]
func (ctl *AdminJobsController) TriggerAutoFill(c *fiber.Ctx) error {
	runAt := ctl.now()
	var override *time.Time
	if m := c.Query("month"); m != "" {
		month, err := utils.ParseMonth(m)
		if err != nil {
			return utils.HandleError(c, apperr.BadRequest("%v", err))
		}
		// Run fills the month before its clock
		runAt = utils.NextMonth(month)
		override = &runAt
	}

	if ctl.queue == nil || c.QueryBool("inline") {
		return c.JSON(ctl.autoFill.Run(c.UserContext(), runAt))
	}

	task, err := jobs.NewAutoFillTask(override)
	if err != nil {
		return utils.HandleError(c, apperr.Internal(err))
	}
	return ctl.enqueue(c, task)
}

// TriggerReconcile godoc
// @Summary      Run the reconciliation sweep (ADMIN)
// @Description  Reports orphaned answer documents and entries pointing at missing documents; fix=true repairs both.
// @Tags         admin-jobs
// @Produce      json
// @Param        fix     query     bool  false  "Repair findings"
// @Param        inline  query     bool  false  "Run in-process even when Asynq is available"
// @Success      200     {object}  autofill.ReconcileReport
// @Success      202     {object}  map[string]interface{}
// @Failure      409     {object}  models.ErrorResponse
// @Security     BearerAuth
// @Router       /admin/jobs/reconcile [post]
func (ctl *AdminJobsController) TriggerReconcile(c *fiber.Ctx) error {
	fix := c.QueryBool("fix")

	if ctl.queue == nil || c.QueryBool("inline") {
		report, err := ctl.autoFill.Reconcile(c.UserContext(), fix)
		if err != nil {
			return utils.HandleError(c, err)
		}
		return c.JSON(report)
	}

	task, err := jobs.NewReconcileTask(fix)
	if err != nil {
		return utils.HandleError(c, apperr.Internal(err))
	}
	return ctl.enqueue(c, task)
}

func (ctl *AdminJobsController) enqueue(c *fiber.Ctx, task *asynq.Task) error {
	info, err := ctl.queue.Enqueue(task)
	if err != nil {
		return utils.HandleError(c, apperr.Internal(err))
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"status": "enqueued", "taskId": info.ID, "type": task.Type()})
}
