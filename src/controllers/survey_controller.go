package controllers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/pratamabintang/khs-assesment-sub001/src/apperr"
	"github.com/pratamabintang/khs-assesment-sub001/src/models"
	"github.com/pratamabintang/khs-assesment-sub001/src/utils"
)

type SurveyStore interface {
	GetSurvey(ctx context.Context, surveyID string) (*models.Survey, error)
	List(ctx context.Context) ([]models.Survey, error)
	Create(ctx context.Context, survey *models.Survey) (*models.Survey, error)
}

type SurveyController struct {
	surveys SurveyStore
}

func NewSurveyController(surveys SurveyStore) *SurveyController {
	return &SurveyController{surveys: surveys}
}

// GetSurveys godoc
// @Summary      List surveys
// @Tags         surveys
// @Produce      json
// @Success      200  {array}  models.Survey
// @Security     BearerAuth
// @Router       /surveys [get]
func (ctl *SurveyController) GetSurveys(c *fiber.Ctx) error {
	list, err := ctl.surveys.List(c.UserContext())
	if err != nil {
		return utils.HandleError(c, err)
	}
	return c.JSON(list)
}

// GetSurvey godoc
// @Summary      Get a survey with its question tree
// @Tags         surveys
// @Produce      json
// @Param        id   path      string  true  "Survey ID"
// @Success      200  {object}  models.Survey
// @Failure      404  {object}  models.ErrorResponse
// @Security     BearerAuth
// @Router       /surveys/{id} [get]
func (ctl *SurveyController) GetSurvey(c *fiber.Ctx) error {
	s, err := ctl.surveys.GetSurvey(c.UserContext(), c.Params("id"))
	if err != nil {
		return utils.HandleError(c, err)
	}
	return c.JSON(s)
}

// CreateSurvey godoc
// @Summary      Create a survey (ADMIN)
// @Tags         surveys
// @Accept       json
// @Produce      json
// @Param        body  body      models.Survey  true  "Survey with questions and details"
// @Success      201   {object}  models.Survey
// @Failure      400   {object}  models.ErrorResponse
// @Security     BearerAuth
// @Router       /surveys [post]
func (ctl *SurveyController) CreateSurvey(c *fiber.Ctx) error {
	var in models.Survey
	if err := c.BodyParser(&in); err != nil {
		return utils.HandleError(c, apperr.BadRequest("Invalid input: %v", err))
	}
	if in.Title == "" {
		return utils.HandleError(c, apperr.BadRequest("title is required"))
	}
	s, err := ctl.surveys.Create(c.UserContext(), &in)
	if err != nil {
		return utils.HandleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(s)
}
