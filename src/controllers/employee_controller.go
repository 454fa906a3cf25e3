package controllers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/pratamabintang/khs-assesment-sub001/src/apperr"
	"github.com/pratamabintang/khs-assesment-sub001/src/models"
	"github.com/pratamabintang/khs-assesment-sub001/src/utils"
)

type EmployeeDirectory interface {
	ListEmployees(ctx context.Context, caller models.Caller, params models.PaginationParams) (*models.PaginatedResponse, error)
	CreateEmployee(ctx context.Context, caller models.Caller, e *models.Employee) (*models.Employee, error)
}

type EmployeeController struct {
	directory EmployeeDirectory
}

func NewEmployeeController(directory EmployeeDirectory) *EmployeeController {
	return &EmployeeController{directory: directory}
}

// GetEmployees godoc
// @Summary      List employees visible to the caller
// @Tags         employees
// @Produce      json
// @Param        page    query     int     false  "Page"   default(1)
// @Param        limit   query     int     false  "Limit"  default(10)
// @Param        search  query     string  false  "Name or position"
// @Param        sortBy  query     string  false  "name | position | created_at"
// @Param        order   query     string  false  "asc | desc"
// @Success      200     {object}  models.PaginatedResponse
// @Security     BearerAuth
// @Router       /employees [get]
func (ctl *EmployeeController) GetEmployees(c *fiber.Ctx) error {
	params := models.DefaultPagination()
	if err := c.QueryParser(&params); err != nil {
		return utils.HandleError(c, apperr.BadRequest("Invalid query: %v", err))
	}
	page, err := ctl.directory.ListEmployees(c.UserContext(), caller(c), params)
	if err != nil {
		return utils.HandleError(c, err)
	}
	return c.JSON(page)
}

type employeeIn struct {
	Name     string  `json:"name"`
	Position string  `json:"position"`
	UserID   *string `json:"userId,omitempty"`
}

// CreateEmployee godoc
// @Summary      Create an employee
// @Description  USER callers always own the employees they create; ADMIN may set userId or leave it empty.
// @Tags         employees
// @Accept       json
// @Produce      json
// @Param        body  body      employeeIn  true  "Employee"
// @Success      201   {object}  models.Employee
// @Failure      400   {object}  models.ErrorResponse
// @Failure      404   {object}  models.ErrorResponse
// @Security     BearerAuth
// @Router       /employees [post]
func (ctl *EmployeeController) CreateEmployee(c *fiber.Ctx) error {
	var in employeeIn
	if err := c.BodyParser(&in); err != nil {
		return utils.HandleError(c, apperr.BadRequest("Invalid input: %v", err))
	}
	if in.Name == "" {
		return utils.HandleError(c, apperr.BadRequest("name is required"))
	}
	e, err := ctl.directory.CreateEmployee(c.UserContext(), caller(c), &models.Employee{
		Name:     in.Name,
		Position: in.Position,
		UserID:   in.UserID,
	})
	if err != nil {
		return utils.HandleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(e)
}
