package template

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/gofiber/fiber/v2"
)

type TemplateController struct {
	service TemplateService
}

func NewTemplateController(service TemplateService) *TemplateController {
	return &TemplateController{service: service}
}

func (c *TemplateController) Create(ctx *fiber.Ctx) error {
	var tpl MessageTemplate
	if err := ctx.BodyParser(&tpl); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := c.service.CreateTemplate(ctx.Context(), &tpl); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusCreated).JSON(tpl)
}

func (c *TemplateController) Get(ctx *fiber.Ctx) error {
	tpl, err := c.service.GetTemplate(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if tpl == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Template not found"})
	}
	return ctx.JSON(tpl)
}

func (c *TemplateController) List(ctx *fiber.Ctx) error {
	templates, err := c.service.ListTemplates(ctx.Context())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"data": templates})
}

func (c *TemplateController) Update(ctx *fiber.Ctx) error {
	var tpl MessageTemplate
	if err := ctx.BodyParser(&tpl); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	oid, err := primitive.ObjectIDFromHex(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid template ID"})
	}
	tpl.ID = oid

	if err := c.service.UpdateTemplate(ctx.Context(), &tpl); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(tpl)
}

func (c *TemplateController) Delete(ctx *fiber.Ctx) error {
	if err := c.service.DeleteTemplate(ctx.Context(), ctx.Params("id")); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"status": "success"})
}

// Preview renders a template against caller-supplied sample data
func (c *TemplateController) Preview(ctx *fiber.Ctx) error {
	var data map[string]interface{}
	if err := ctx.BodyParser(&data); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	rendered, err := c.service.RenderTemplate(ctx.Context(), ctx.Params("id"), data)
	if err != nil {
		if err == ErrTemplateUnavailable {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"rendered": rendered})
}
