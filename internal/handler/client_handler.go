package handler

import (
	"net/http"

	"darkitchen/internal/config"
	"darkitchen/internal/middleware"
	"darkitchen/internal/usecase"
	auth "darkitchen/internal/usecase/auth_usecase"

	"github.com/labstack/echo/v4"
)

// /api/clients
type ClientHandler struct {
	uc *usecase.ClientUsecase
}

func NewClientHandler(uc *usecase.ClientUsecase) *ClientHandler {
	return &ClientHandler{uc: uc}
}

type RegisterClientRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	PhoneNumber string `json:"phoneNumber"`
	Address     string `json:"address"`
	City        string `json:"city"`
	PostalCode  string `json:"postalCode"`
}

// 送られてきた項目だけ更新する
type UpdateProfileRequest struct {
	FirstName   *string `json:"firstName"`
	LastName    *string `json:"lastName"`
	PhoneNumber *string `json:"phoneNumber"`
	Address     *string `json:"address"`
	City        *string `json:"city"`
	PostalCode  *string `json:"postalCode"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type ClientResponse struct {
	Success bool                 `json:"success"`
	Message string               `json:"message,omitempty"`
	Client  usecase.ClientOutput `json:"client"`
}

type ClientStatsResponse struct {
	Success bool `json:"success"`
	usecase.ClientStatsOutput
}

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (h *ClientHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/api/clients")
	g.POST("/register", h.register)

	authed := []echo.MiddlewareFunc{middleware.AuthJWT(cfg), middleware.ClientSelfOrAdmin("id")}
	adminOnly := []echo.MiddlewareFunc{middleware.AuthJWT(cfg), middleware.RoleGuard(auth.RoleAdmin)}

	g.GET("/:id", h.get, authed...)
	g.PUT("/:id", h.update, authed...)
	g.PUT("/:id/change-password", h.changePassword, authed...)
	g.GET("/:id/stats", h.stats, authed...)
	g.DELETE("/:id", h.deactivate, adminOnly...)
	g.POST("/:id/activate", h.activate, adminOnly...)
}

func (h *ClientHandler) register(c echo.Context) error {
	var req RegisterClientRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid body")
	}

	out, err := h.uc.Register(c.Request().Context(), auth.RegisterClientInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Password:    req.Password,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
		City:        req.City,
		PostalCode:  req.PostalCode,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, ClientResponse{Success: true, Message: "Client registered", Client: out})
}

func (h *ClientHandler) get(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return errorJSON(c, http.StatusBadRequest, "invalid id")
	}

	out, err := h.uc.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, ClientResponse{Success: true, Client: out})
}

func (h *ClientHandler) update(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return errorJSON(c, http.StatusBadRequest, "invalid id")
	}

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid body")
	}

	out, err := h.uc.UpdateProfile(c.Request().Context(), id, usecase.ProfileUpdateInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
		City:        req.City,
		PostalCode:  req.PostalCode,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, ClientResponse{Success: true, Message: "Profile updated", Client: out})
}

func (h *ClientHandler) changePassword(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return errorJSON(c, http.StatusBadRequest, "invalid id")
	}

	var req ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid body")
	}

	err := h.uc.ChangeCredential(c.Request().Context(), middleware.Actor(c), id, req.CurrentPassword, req.NewPassword)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Success: true, Message: "Password changed successfully"})
}

func (h *ClientHandler) stats(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return errorJSON(c, http.StatusBadRequest, "invalid id")
	}

	out, err := h.uc.Stats(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, ClientStatsResponse{Success: true, ClientStatsOutput: out})
}

// 論理削除
func (h *ClientHandler) deactivate(c echo.Context) error {
	return h.setActive(c, false, "Client deactivated")
}

func (h *ClientHandler) activate(c echo.Context) error {
	return h.setActive(c, true, "Client activated")
}

func (h *ClientHandler) setActive(c echo.Context, active bool, msg string) error {
	id, ok := paramID(c, "id")
	if !ok {
		return errorJSON(c, http.StatusBadRequest, "invalid id")
	}

	out, err := h.uc.SetActive(c.Request().Context(), middleware.Actor(c), id, active)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, ClientResponse{Success: true, Message: msg, Client: out})
}
