package alert

import (
	"go-carehub/internal/common/api"
	"go-carehub/internal/config"
	"go-carehub/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type AlertApi struct {
	controller *AlertController
	config     *config.Config
}

func NewAlertApi(controller *AlertController, config *config.Config) api.Route {
	return &AlertApi{
		controller: controller,
		config:     config,
	}
}

func (h *AlertApi) Setup(app *fiber.App) {
	group := app.Group("/api/alerts", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Get("/", h.controller.List)
	group.Put("/:id/acknowledge", h.controller.Acknowledge)
}
