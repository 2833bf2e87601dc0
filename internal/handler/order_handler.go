package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"darkitchen/internal/domain/model"
	"darkitchen/internal/middleware"
	"darkitchen/internal/usecase"
	auth "darkitchen/internal/usecase/auth_usecase"

	"github.com/labstack/echo/v4"
)

// /api/orders の公開API（チェックアウト画面から叩かれる）
type OrderHandler struct {
	uc    *usecase.OrderUsecase
	login *auth.ClientLoginUsecase
}

func NewOrderHandler(uc *usecase.OrderUsecase, login *auth.ClientLoginUsecase) *OrderHandler {
	return &OrderHandler{uc: uc, login: login}
}

type ClientInfoRequest struct {
	FullName        string `json:"fullName"`
	Email           string `json:"email"`
	PhoneNumber     string `json:"phoneNumber"`
	DeliveryAddress string `json:"deliveryAddress"`
	Password        string `json:"password"`
}

type CheckoutItemRequest struct {
	DishID   int64       `json:"dishId"`
	Quantity int64       `json:"quantity"`
	Price    model.Money `json:"price"`
}

type CheckoutRequest struct {
	ClientInfo  ClientInfoRequest     `json:"clientInfo"`
	Items       []CheckoutItemRequest `json:"items"`
	Notes       string                `json:"notes"`
	TotalAmount model.Money           `json:"totalAmount"`
}

type CheckoutResponse struct {
	Success     bool                `json:"success"`
	OrderID     int64               `json:"orderId"`
	Status      model.OrderStatus   `json:"status"`
	TotalAmount model.Money         `json:"totalAmount"`
	ClientID    int64               `json:"clientId"`
	Message     string              `json:"message"`
	Order       usecase.OrderOutput `json:"order"`
}

type OrderListResponse struct {
	Success bool                  `json:"success"`
	Count   int                   `json:"count"`
	Orders  []usecase.OrderOutput `json:"orders"`
}

type OrderResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message,omitempty"`
	Order   usecase.OrderOutput `json:"order"`
}

type EmailRequest struct {
	Email string `json:"email"`
}

type ExistsResponse struct {
	Exists bool `json:"exists"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginClient struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	FullName    string `json:"fullName"`
	PhoneNumber string `json:"phoneNumber"`
}

type LoginResponse struct {
	Success     bool        `json:"success"`
	Message     string      `json:"message"`
	Client      LoginClient `json:"client"`
	AccessToken string      `json:"accessToken"`
	ExpiresIn   int         `json:"expiresIn"`
}

type CancelRequest struct {
	Reason string `json:"reason"`
}

func (h *OrderHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/orders")

	g.POST("", h.checkout)
	g.POST("/check-client", h.checkClient)
	g.POST("/login", h.loginClient)
	g.GET("/client/:clientId", h.listByClient)
	g.GET("/:id", h.detail)
	g.PUT("/:id/cancel", h.cancel)
	g.POST("/:id/reorder", h.reorder)
}

func (h *OrderHandler) checkout(c echo.Context) error {
	var req CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid body")
	}

	in := usecase.CheckoutInput{
		Client: usecase.ClientInfo{
			FullName:        req.ClientInfo.FullName,
			Email:           req.ClientInfo.Email,
			PhoneNumber:     req.ClientInfo.PhoneNumber,
			DeliveryAddress: req.ClientInfo.DeliveryAddress,
			Password:        req.ClientInfo.Password,
		},
		Notes:       req.Notes,
		TotalAmount: req.TotalAmount,
	}
	for _, it := range req.Items {
		in.Items = append(in.Items, usecase.CheckoutLine{DishID: it.DishID, Quantity: it.Quantity, Price: it.Price})
	}

	out, err := h.uc.Checkout(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, CheckoutResponse{
		Success:     true,
		OrderID:     out.OrderID,
		Status:      out.Status,
		TotalAmount: out.TotalAmount,
		ClientID:    out.ClientID,
		Message:     "Order placed successfully",
		Order:       out,
	})
}

func (h *OrderHandler) checkClient(c echo.Context) error {
	var req EmailRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid body")
	}
	if strings.TrimSpace(req.Email) == "" {
		return errorJSON(c, http.StatusBadRequest, "email is required")
	}

	exists, err := h.uc.ClientExists(c.Request().Context(), req.Email)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, ExistsResponse{Exists: exists})
}

func (h *OrderHandler) loginClient(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid body")
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return errorJSON(c, http.StatusBadRequest, "email and password are required")
	}

	out, err := h.login.Execute(c.Request().Context(), auth.LoginInput{Email: req.Email, Password: req.Password})
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return errorJSON(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, auth.ErrClientInactive):
		return errorJSON(c, http.StatusForbidden, err.Error())
	case err != nil:
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, LoginResponse{
		Success: true,
		Message: "Login successful",
		Client: LoginClient{
			ID:          out.Client.ID,
			Email:       out.Client.Email,
			FullName:    out.Client.FullName(),
			PhoneNumber: out.Client.PhoneNumber,
		},
		AccessToken: out.Token.AccessToken,
		ExpiresIn:   out.Token.ExpiresIn,
	})
}

func (h *OrderHandler) listByClient(c echo.Context) error {
	clientID, ok := paramID(c, "clientId")
	if !ok {
		return errorJSON(c, http.StatusBadRequest, "invalid client id")
	}

	in := usecase.ListClientOrdersInput{
		ClientID: clientID,
		Status:   c.QueryParam("status"),
		SortBy:   c.QueryParam("sortBy"),
	}

	var err error
	if in.StartDate, err = parseDateParam(c.QueryParam("startDate")); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid startDate")
	}
	if in.EndDate, err = parseDateParam(c.QueryParam("endDate")); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid endDate")
	}

	orders, err := h.uc.ListClientOrders(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, OrderListResponse{Success: true, Count: len(orders), Orders: orders})
}

func (h *OrderHandler) detail(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return errorJSON(c, http.StatusBadRequest, "invalid id")
	}

	out, err := h.uc.GetOrder(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, OrderResponse{Success: true, Order: out})
}

func (h *OrderHandler) cancel(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return errorJSON(c, http.StatusBadRequest, "invalid id")
	}

	//bodyは任意
	var req CancelRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid body")
	}

	out, err := h.uc.Cancel(c.Request().Context(), middleware.Actor(c), id, req.Reason)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, OrderResponse{Success: true, Message: "Order cancelled successfully", Order: out})
}

func (h *OrderHandler) reorder(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return errorJSON(c, http.StatusBadRequest, "invalid id")
	}

	out, err := h.uc.Reorder(c.Request().Context(), middleware.Actor(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, OrderResponse{Success: true, Message: "Order re-placed successfully", Order: out})
}

// YYYY-MM-DD か RFC3339。空ならnil
func parseDateParam(v string) (*time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
