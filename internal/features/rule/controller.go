package rule

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/gofiber/fiber/v2"
)

type RuleController struct {
	service RuleService
}

func NewRuleController(service RuleService) *RuleController {
	return &RuleController{service: service}
}

func (c *RuleController) Create(ctx *fiber.Ctx) error {
	var r AutomationRule
	if err := ctx.BodyParser(&r); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := c.service.CreateRule(ctx.Context(), &r); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusCreated).JSON(r)
}

func (c *RuleController) Get(ctx *fiber.Ctx) error {
	r, err := c.service.GetRule(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if r == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Rule not found"})
	}
	return ctx.JSON(r)
}

func (c *RuleController) List(ctx *fiber.Ctx) error {
	rules, err := c.service.ListRules(ctx.Context())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"data": rules})
}

func (c *RuleController) Update(ctx *fiber.Ctx) error {
	var r AutomationRule
	if err := ctx.BodyParser(&r); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	oid, err := primitive.ObjectIDFromHex(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid rule ID"})
	}
	r.ID = oid

	if err := c.service.UpdateRule(ctx.Context(), &r); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(r)
}

func (c *RuleController) Delete(ctx *fiber.Ctx) error {
	if err := c.service.DeleteRule(ctx.Context(), ctx.Params("id")); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"status": "success"})
}

func (c *RuleController) Enable(ctx *fiber.Ctx) error {
	var body struct {
		Active bool `json:"active"`
	}
	if err := ctx.BodyParser(&body); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := c.service.EnableRule(ctx.Context(), ctx.Params("id"), body.Active); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"status": "success"})
}

// Execute fires a rule manually with caller-supplied context
func (c *RuleController) Execute(ctx *fiber.Ctx) error {
	var evtCtx map[string]interface{}
	if err := ctx.BodyParser(&evtCtx); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := c.service.ExecuteRule(ctx.Context(), ctx.Params("id"), evtCtx); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"status": "success"})
}

// Event ingests an external (eventType, context) pair
func (c *RuleController) Event(ctx *fiber.Ctx) error {
	var body struct {
		EventType TriggerType            `json:"event_type"`
		Context   map[string]interface{} `json:"context"`
	}
	if err := ctx.BodyParser(&body); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := c.service.ExecuteFromEvent(ctx.Context(), body.EventType, body.Context); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"status": "accepted"})
}
