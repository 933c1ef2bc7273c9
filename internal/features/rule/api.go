package rule

import (
	"go-carehub/internal/common/api"
	"go-carehub/internal/config"
	"go-carehub/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type RuleApi struct {
	controller *RuleController
	config     *config.Config
}

func NewRuleApi(controller *RuleController, config *config.Config) api.Route {
	return &RuleApi{
		controller: controller,
		config:     config,
	}
}

func (h *RuleApi) Setup(app *fiber.App) {
	group := app.Group("/api/rules", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Get("/", h.controller.List)
	group.Post("/", h.controller.Create)
	group.Post("/event", h.controller.Event)
	group.Get("/:id", h.controller.Get)
	group.Put("/:id", h.controller.Update)
	group.Delete("/:id", h.controller.Delete)
	group.Put("/:id/enable", h.controller.Enable)
	group.Post("/:id/execute", h.controller.Execute)
}
