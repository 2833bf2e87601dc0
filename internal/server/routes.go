package server

import (
	"net/http"

	"darkitchen/internal/config"

	"github.com/labstack/echo/v4"
)

type healthResponse struct {
	Alive bool `json:"alive"`
}

func RegisterRoutes(e *echo.Echo, cfg config.Config, app *App) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, healthResponse{Alive: true})
	})

	app.Orders.RegisterRoutes(e)
	app.StaffOrders.RegisterRoutes(e, cfg)
	app.Clients.RegisterRoutes(e, cfg)
	app.Menu.RegisterRoutes(e)
}
