package serviceutils

import (
	"github.com/labstack/echo/v4"
	"github.com/locvowork/company_registry/internal/logger"
)

// APIResponse is the envelope every endpoint answers with.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

// ResponseSuccess writes a successful envelope.
func ResponseSuccess(c echo.Context, status int, message string, data interface{}) error {
	return c.JSON(status, APIResponse{
		Success: true,
		Data:    data,
		Message: message,
	})
}

// ResponseError logs err and writes a failed envelope.
func ResponseError(c echo.Context, status int, message string, err error) error {
	resp := APIResponse{
		Success: false,
		Message: message,
	}
	if err != nil {
		resp.Error = err.Error()
		logger.WarnLog(c.Request().Context(), "%s %s: %s: %v", c.Request().Method, c.Path(), message, err)
	}
	return c.JSON(status, resp)
}
