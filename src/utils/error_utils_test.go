package utils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pratamabintang/khs-assesment-sub001/src/apperr"
	"github.com/pratamabintang/khs-assesment-sub001/src/models"
)

func TestHandleError(t *testing.T) {
	cases := []struct {
		err     error
		status  int
		message string
	}{
		{apperr.NotFound("employee not found"), 404, "employee not found"},
		{apperr.Conflict("slot already exists"), 409, "slot already exists"},
		{apperr.Forbidden("not your entry"), 403, "not your entry"},
		{apperr.BadRequest("bad mode"), 400, "bad mode"},
		{apperr.Internal(errors.New("db down")), 500, "internal server error"},
		{errors.New("raw"), 500, "internal server error"},
		{fiber.ErrNotFound, 404, "Not Found"},
	}

	for _, tc := range cases {
		app := fiber.New()
		app.Get("/", func(c *fiber.Ctx) error { return HandleError(c, tc.err) })

		resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
		require.NoError(t, err)
		assert.Equal(t, tc.status, resp.StatusCode)

		body, _ := io.ReadAll(resp.Body)
		var out models.ErrorResponse
		require.NoError(t, json.Unmarshal(body, &out))
		assert.Equal(t, tc.message, out.Message)
	}
}
