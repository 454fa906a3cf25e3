package controllers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/pratamabintang/khs-assesment-sub001/src/apperr"
	"github.com/pratamabintang/khs-assesment-sub001/src/middleware"
	"github.com/pratamabintang/khs-assesment-sub001/src/models"
	"github.com/pratamabintang/khs-assesment-sub001/src/utils"
)

type EntryService interface {
	Create(ctx context.Context, caller models.Caller, req models.AssignRequest) (*models.AssignResult, error)
	GetAll(ctx context.Context, caller models.Caller, month string) ([]models.SubmissionEntry, error)
	GetAllAdmin(ctx context.Context, caller models.Caller, from, to string) ([]models.SubmissionEntry, error)
	IsUpdate(ctx context.Context, caller models.Caller, employeeID, surveyID, periodMonth string) (bool, error)
}

// EntryRemover deletes an entry together with its answer document.
type EntryRemover interface {
	Remove(ctx context.Context, entryID string) error
}

type EntryController struct {
	entries EntryService
	remover EntryRemover
}

func NewEntryController(entries EntryService, remover EntryRemover) *EntryController {
	return &EntryController{entries: entries, remover: remover}
}

// CreateEntries godoc
// @Summary      Assign monthly submission entries
// @Description  Creates current-month entries for all visible employees, one tenant (ADMIN) or one employee.
// @Tags         entries
// @Accept       json
// @Produce      json
// @Param        body  body      models.AssignRequest  true  "Assignment"
// @Success      201   {object}  models.AssignResult
// @Failure      400   {object}  models.ErrorResponse
// @Failure      403   {object}  models.ErrorResponse
// @Failure      404   {object}  models.ErrorResponse
// @Failure      409   {object}  models.ErrorResponse
// @Security     BearerAuth
// @Router       /entries [post]
func (ctl *EntryController) CreateEntries(c *fiber.Ctx) error {
	var req models.AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.HandleError(c, apperr.BadRequest("Invalid input: %v", err))
	}
	res, err := ctl.entries.Create(c.UserContext(), caller(c), req)
	if err != nil {
		return utils.HandleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// GetEntries godoc
// @Summary      List entries of a month
// @Tags         entries
// @Produce      json
// @Param        month  query     string  true  "Month (YYYY-MM)"
// @Success      200    {array}   models.SubmissionEntry
// @Failure      400    {object}  models.ErrorResponse
// @Security     BearerAuth
// @Router       /entries [get]
func (ctl *EntryController) GetEntries(c *fiber.Ctx) error {
	list, err := ctl.entries.GetAll(c.UserContext(), caller(c), c.Query("month"))
	if err != nil {
		return utils.HandleError(c, err)
	}
	return c.JSON(list)
}

// GetEntriesAdmin godoc
// @Summary      List entries over a month range (ADMIN)
// @Description  Without bounds the current month is returned. Bounds are YYYY-MM-01 and inclusive.
// @Tags         entries
// @Produce      json
// @Param        from  query     string  false  "First month (YYYY-MM-01)"
// @Param        to    query     string  false  "Last month (YYYY-MM-01)"
// @Success      200   {array}   models.SubmissionEntry
// @Failure      403   {object}  models.ErrorResponse
// @Failure      409   {object}  models.ErrorResponse
// @Security     BearerAuth
// @Router       /entries/admin [get]
func (ctl *EntryController) GetEntriesAdmin(c *fiber.Ctx) error {
	list, err := ctl.entries.GetAllAdmin(c.UserContext(), caller(c), c.Query("from"), c.Query("to"))
	if err != nil {
		return utils.HandleError(c, err)
	}
	return c.JSON(list)
}

// IsUpdate godoc
// @Summary      Whether a monthly slot already has answers
// @Tags         entries
// @Produce      json
// @Param        employeeId   query     string  true  "Employee ID"
// @Param        surveyId     query     string  true  "Survey ID"
// @Param        periodMonth  query     string  true  "Any date inside the month"
// @Success      200          {object}  models.IsUpdateResponse
// @Failure      400          {object}  models.ErrorResponse
// @Failure      403          {object}  models.ErrorResponse
// @Security     BearerAuth
// @Router       /entries/is-update [get]
func (ctl *EntryController) IsUpdate(c *fiber.Ctx) error {
	employeeID, surveyID := c.Query("employeeId"), c.Query("surveyId")
	if employeeID == "" || surveyID == "" {
		return utils.HandleError(c, apperr.BadRequest("employeeId and surveyId are required"))
	}
	filled, err := ctl.entries.IsUpdate(c.UserContext(), caller(c), employeeID, surveyID, c.Query("periodMonth"))
	if err != nil {
		return utils.HandleError(c, err)
	}
	return c.JSON(models.IsUpdateResponse{IsUpdate: filled})
}

// DeleteEntry godoc
// @Summary      Delete an entry and its answers (ADMIN)
// @Tags         entries
// @Param        id   path      string  true  "Entry ID"
// @Success      204
// @Failure      404  {object}  models.ErrorResponse
// @Security     BearerAuth
// @Router       /entries/{id} [delete]
func (ctl *EntryController) DeleteEntry(c *fiber.Ctx) error {
	if err := ctl.remover.Remove(c.UserContext(), c.Params("id")); err != nil {
		return utils.HandleError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// caller is set by middleware.AuthJWT on every route using these controllers.
func caller(c *fiber.Ctx) models.Caller {
	cl, _ := middleware.CallerFrom(c)
	return cl
}
