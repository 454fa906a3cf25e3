// error_utils.go
package utils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/pratamabintang/khs-assesment-sub001/src/apperr"
	"github.com/pratamabintang/khs-assesment-sub001/src/models"
)

func StatusOf(err error) int {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		return fiber.StatusNotFound
	case apperr.KindConflict:
		return fiber.StatusConflict
	case apperr.KindForbidden:
		return fiber.StatusForbidden
	case apperr.KindBadRequest:
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// HandleError แปลง error เป็น HTTP response ตามประเภท
func HandleError(c *fiber.Ctx, err error) error {
	status := StatusOf(err)
	resp := models.ErrorResponse{Status: status, Message: err.Error()}

	var appErr *apperr.Error
	var fe *fiber.Error
	switch {
	case errors.As(err, &appErr):
		resp.Details = appErr.Details
		if appErr.Kind == apperr.KindInternal {
			resp.Message = "internal server error"
		}
	case errors.As(err, &fe):
		resp.Message = fe.Message
	case status == fiber.StatusInternalServerError:
		resp.Message = "internal server error"
	}
	return c.Status(status).JSON(resp)
}
