package system

import (
	"context"
	"time"

	"go-carehub/internal/common/api"
	"go-carehub/internal/database"

	"github.com/gofiber/fiber/v2"
)

type HealthApi struct {
	mongodb *database.MongodbDB
}

func NewHealthApi(mongodb *database.MongodbDB) api.Route {
	return &HealthApi{mongodb: mongodb}
}

func (h *HealthApi) Setup(app *fiber.App) {
	app.Get("/api/health", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
		defer cancel()

		dbStatus := "ok"
		if err := h.mongodb.DB.Client().Ping(ctx, nil); err != nil {
			dbStatus = "unreachable"
		}

		status := fiber.StatusOK
		if dbStatus != "ok" {
			status = fiber.StatusServiceUnavailable
		}
		return c.Status(status).JSON(fiber.Map{
			"status":   dbStatus,
			"database": dbStatus,
			"time":     time.Now().UTC(),
		})
	})
}
