package handler

import (
	"net/http"
	"strconv"

	"darkitchen/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 失敗時の共通形 {success:false, message}
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func errorJSON(c echo.Context, status int, msg string) error {
	return c.JSON(status, ErrorResponse{Success: false, Message: msg})
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return errorJSON(c, he.Status, he.Message)
	}

	//500
	c.Logger().Error(err)
	return errorJSON(c, http.StatusInternalServerError, "internal error")
}

// パスのIDを取り出す（1以上）
func paramID(c echo.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
