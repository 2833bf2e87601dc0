package handler

import (
	"net/http"

	"darkitchen/internal/domain/model"
	"darkitchen/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 画像アップロードの上限（10MB）
const maxImageSize = 10 << 20

// /api/dishes の参照API
type MenuHandler struct {
	uc *usecase.MenuUsecase
}

// DI
func NewMenuHandler(uc *usecase.MenuUsecase) *MenuHandler {
	return &MenuHandler{uc: uc}
}

type DishResponse struct {
	Success bool       `json:"success"`
	Dish    model.Dish `json:"dish"`
}

type DishListResponse struct {
	Success bool         `json:"success"`
	Count   int          `json:"count"`
	Dishes  []model.Dish `json:"dishes"`
}

func (h *MenuHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/dishes")
	g.GET("/:id", h.detail)
	g.GET("/category/:categoryId", h.listByCategory)
	g.POST("/search-by-image", h.searchByImage)
}

func (h *MenuHandler) detail(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return errorJSON(c, http.StatusBadRequest, "invalid id")
	}

	d, err := h.uc.GetDish(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, DishResponse{Success: true, Dish: d})
}

func (h *MenuHandler) listByCategory(c echo.Context) error {
	id, ok := paramID(c, "categoryId")
	if !ok {
		return errorJSON(c, http.StatusBadRequest, "invalid category id")
	}

	dishes, err := h.uc.ListByCategory(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, DishListResponse{Success: true, Count: len(dishes), Dishes: dishes})
}

// multipartの"image"を分類サービスに回す
func (h *MenuHandler) searchByImage(c echo.Context) error {
	fh, err := c.FormFile("image")
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "image is required")
	}
	if fh.Size > maxImageSize {
		return errorJSON(c, http.StatusRequestEntityTooLarge, "image is too large")
	}

	f, err := fh.Open()
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid image")
	}
	defer f.Close()

	out, err := h.uc.SearchByImage(c.Request().Context(), fh.Filename, f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
