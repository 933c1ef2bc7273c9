package escalation

import (
	"go-carehub/internal/common/api"
	"go-carehub/internal/config"
	"go-carehub/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type EscalationApi struct {
	controller *EscalationController
	config     *config.Config
}

func NewEscalationApi(controller *EscalationController, config *config.Config) api.Route {
	return &EscalationApi{
		controller: controller,
		config:     config,
	}
}

func (h *EscalationApi) Setup(app *fiber.App) {
	group := app.Group("/api/escalation-rules", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Get("/", h.controller.List)
	group.Post("/", h.controller.Create)
	group.Post("/event", h.controller.Event)
	group.Put("/event/:id/respond", h.controller.Respond)
	group.Get("/:id", h.controller.Get)
	group.Put("/:id", h.controller.Update)
	group.Delete("/:id", h.controller.Delete)
}
