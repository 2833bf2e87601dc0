package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"darkitchen/internal/config"
	"darkitchen/internal/domain/model"
	"darkitchen/internal/middleware"
	"darkitchen/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 厨房・管理・配達スタッフ用の注文API
type StaffOrderHandler struct {
	uc *usecase.StaffOrderUsecase
}

// DI
func NewStaffOrderHandler(uc *usecase.StaffOrderUsecase) *StaffOrderHandler {
	return &StaffOrderHandler{uc: uc}
}

type UpdateStatusRequest struct {
	Status    string `json:"status"`
	UpdatedBy string `json:"updatedBy"`
}

type StaffOrderListResponse struct {
	Success bool `json:"success"`
	usecase.StaffOrderListOutput
}

type OrderHistoryResponse struct {
	Success bool             `json:"success"`
	Count   int              `json:"count"`
	History []model.AuditLog `json:"history"`
}

// /api/orders の公開ルートと同じprefixなのでgroupにUseせずルート単位で付ける
func (h *StaffOrderHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	staff := []echo.MiddlewareFunc{middleware.AuthJWT(cfg), middleware.StaffGuard()}

	e.GET("/api/orders/admin/all", h.list, staff...)
	e.PUT("/api/orders/:id/update-status", h.updateStatus, staff...)
	e.GET("/api/orders/:id/history", h.history, staff...)
}

func (h *StaffOrderHandler) list(c echo.Context) error {
	// page（default 1）
	page := 1
	if v := c.QueryParam("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return errorJSON(c, http.StatusBadRequest, "invalid page")
		}
		page = p
	}

	// limit（default 20）
	limit := 20
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return errorJSON(c, http.StatusBadRequest, "invalid limit")
		}
		limit = l
	}

	in := usecase.StaffOrderListInput{
		Status: c.QueryParam("status"),
		Page:   page,
		Limit:  limit,
	}

	if v := c.QueryParam("clientId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			return errorJSON(c, http.StatusBadRequest, "invalid clientId")
		}
		in.ClientID = &id
	}

	var err error
	if in.From, err = parseDateParam(c.QueryParam("from")); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid from")
	}
	to := c.QueryParam("to")
	if in.To, err = parseDateParam(to); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid to")
	}
	if in.To != nil && len(strings.TrimSpace(to)) == len("2006-01-02") {
		// 日付だけならその日の終わりまで含める
		end := in.To.Add(24*time.Hour - time.Nanosecond)
		in.To = &end
	}

	out, err := h.uc.List(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, StaffOrderListResponse{Success: true, StaffOrderListOutput: out})
}

func (h *StaffOrderHandler) updateStatus(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return errorJSON(c, http.StatusBadRequest, "invalid id")
	}

	var req UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid body")
	}

	out, err := h.uc.UpdateStatus(c.Request().Context(), middleware.Actor(c), id, usecase.UpdateStatusInput{
		Status:    req.Status,
		UpdatedBy: req.UpdatedBy,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, OrderResponse{Success: true, Message: "Order status updated", Order: out})
}

func (h *StaffOrderHandler) history(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return errorJSON(c, http.StatusBadRequest, "invalid id")
	}

	logs, err := h.uc.History(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, OrderHistoryResponse{Success: true, Count: len(logs), History: logs})
}
