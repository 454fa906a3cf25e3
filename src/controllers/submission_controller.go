package controllers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/pratamabintang/khs-assesment-sub001/src/apperr"
	"github.com/pratamabintang/khs-assesment-sub001/src/models"
	"github.com/pratamabintang/khs-assesment-sub001/src/utils"
)

type SubmissionService interface {
	Submit(ctx context.Context, caller models.Caller, req models.SubmitRequest) (*models.SubmissionSnapshot, error)
	Update(ctx context.Context, caller models.Caller, documentID string, req models.UpdateRequest) (*models.SubmissionSnapshot, error)
	Get(ctx context.Context, caller models.Caller, documentID string) (*models.SubmissionSnapshot, error)
}

type SubmissionController struct {
	svc SubmissionService
}

func NewSubmissionController(svc SubmissionService) *SubmissionController {
	return &SubmissionController{svc: svc}
}

// CreateSubmission godoc
// @Summary      Submit answers for a monthly entry
// @Tags         submissions
// @Accept       json
// @Produce      json
// @Param        body  body      models.SubmitRequest  true  "Answers"
// @Success      201   {object}  models.SubmissionSnapshot
// @Failure      400   {object}  models.ErrorResponse  "missing required questions are listed in details"
// @Failure      403   {object}  models.ErrorResponse
// @Failure      404   {object}  models.ErrorResponse
// @Failure      409   {object}  models.ErrorResponse
// @Security     BearerAuth
// @Router       /submissions [post]
func (ctl *SubmissionController) CreateSubmission(c *fiber.Ctx) error {
	var req models.SubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.HandleError(c, apperr.BadRequest("Invalid input: %v", err))
	}
	snap, err := ctl.svc.Submit(c.UserContext(), caller(c), req)
	if err != nil {
		return utils.HandleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(snap)
}

// GetSubmission godoc
// @Summary      Get an answer document
// @Tags         submissions
// @Produce      json
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  models.SubmissionSnapshot
// @Failure      404  {object}  models.ErrorResponse
// @Security     BearerAuth
// @Router       /submissions/{id} [get]
func (ctl *SubmissionController) GetSubmission(c *fiber.Ctx) error {
	snap, err := ctl.svc.Get(c.UserContext(), caller(c), c.Params("id"))
	if err != nil {
		return utils.HandleError(c, err)
	}
	return c.JSON(snap)
}

// UpdateSubmission godoc
// @Summary      Replace the answers of a document
// @Description  Omitting "answers" leaves the document untouched apart from updatedAt.
// @Tags         submissions
// @Accept       json
// @Produce      json
// @Param        id    path      string                true  "Document ID"
// @Param        body  body      models.UpdateRequest  true  "Answers"
// @Success      200   {object}  models.SubmissionSnapshot
// @Failure      400   {object}  models.ErrorResponse
// @Failure      404   {object}  models.ErrorResponse
// @Security     BearerAuth
// @Router       /submissions/{id} [patch]
func (ctl *SubmissionController) UpdateSubmission(c *fiber.Ctx) error {
	var req models.UpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.HandleError(c, apperr.BadRequest("Invalid input: %v", err))
	}
	snap, err := ctl.svc.Update(c.UserContext(), caller(c), c.Params("id"), req)
	if err != nil {
		return utils.HandleError(c, err)
	}
	return c.JSON(snap)
}
