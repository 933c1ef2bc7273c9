package alert

import (
	"github.com/gofiber/fiber/v2"
)

type AlertController struct {
	repo AlertRepository
}

func NewAlertController(repo AlertRepository) *AlertController {
	return &AlertController{repo: repo}
}

func (c *AlertController) List(ctx *fiber.Ctx) error {
	category := ctx.Query("category")
	unacked := ctx.Query("unacknowledged") == "true"

	alerts, err := c.repo.List(ctx.Context(), category, unacked)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"data": alerts})
}

func (c *AlertController) Acknowledge(ctx *fiber.Ctx) error {
	if err := c.repo.Acknowledge(ctx.Context(), ctx.Params("id")); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"status": "success"})
}
