package escalation

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/gofiber/fiber/v2"
)

type EscalationController struct {
	rules  EscalationRuleRepository
	events EventRepository
	engine Engine
}

func NewEscalationController(rules EscalationRuleRepository, events EventRepository, engine Engine) *EscalationController {
	return &EscalationController{
		rules:  rules,
		events: events,
		engine: engine,
	}
}

func (c *EscalationController) Create(ctx *fiber.Ctx) error {
	var r EscalationRule
	if err := ctx.BodyParser(&r); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := c.rules.Create(ctx.Context(), &r); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusCreated).JSON(r)
}

func (c *EscalationController) Get(ctx *fiber.Ctx) error {
	r, err := c.rules.GetByID(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if r == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Escalation rule not found"})
	}
	return ctx.JSON(r)
}

func (c *EscalationController) List(ctx *fiber.Ctx) error {
	rules, err := c.rules.List(ctx.Context())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"data": rules})
}

func (c *EscalationController) Update(ctx *fiber.Ctx) error {
	var r EscalationRule
	if err := ctx.BodyParser(&r); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	oid, err := primitive.ObjectIDFromHex(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid rule ID"})
	}
	r.ID = oid

	if err := c.rules.Update(ctx.Context(), &r); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(r)
}

func (c *EscalationController) Delete(ctx *fiber.Ctx) error {
	if err := c.rules.Delete(ctx.Context(), ctx.Params("id")); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"status": "success"})
}

// Event ingests a message event and runs it through the engine
func (c *EscalationController) Event(ctx *fiber.Ctx) error {
	var evt MessageEvent
	if err := ctx.BodyParser(&evt); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := c.engine.HandleMessageEvent(ctx.Context(), &evt); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"status": "accepted", "event_id": evt.ID})
}

// Respond records a reply to an event so threshold re-checks stop
func (c *EscalationController) Respond(ctx *fiber.Ctx) error {
	if err := c.events.MarkResponded(ctx.Context(), ctx.Params("id")); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"status": "success"})
}
