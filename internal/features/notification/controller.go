package notification

import (
	"strconv"

	common_models "go-carehub/internal/common/models"
	"go-carehub/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type NotificationController struct {
	service NotificationService
}

func NewNotificationController(service NotificationService) *NotificationController {
	return &NotificationController{service: service}
}

func callerID(ctx *fiber.Ctx) (string, bool) {
	claims, ok := ctx.Locals(utils.UserClaimsKey).(*utils.UserClaims)
	if !ok || claims == nil {
		return "", false
	}
	return claims.UserID, true
}

// ListQueue exposes the delivery queue for console inspection, including
// failed items (no retry is scheduled; operators act on these manually)
func (c *NotificationController) ListQueue(ctx *fiber.Ctx) error {
	status := Status(ctx.Query("status"))
	recipientID := ctx.Query("recipient_id")

	items, err := c.service.ListQueue(ctx.Context(), status, recipientID)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"data": items})
}

func (c *NotificationController) GetPreferences(ctx *fiber.Ctx) error {
	userID := ctx.Query("user_id")
	if userID == "" {
		if id, ok := callerID(ctx); ok {
			userID = id
		}
	}
	userType := common_models.UserType(ctx.Query("user_type", string(common_models.UserTypeAdmin)))

	prefs, err := c.service.GetPreferences(ctx.Context(), userID, userType)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(prefs)
}

func (c *NotificationController) SavePreferences(ctx *fiber.Ctx) error {
	var prefs Preferences
	if err := ctx.BodyParser(&prefs); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := c.service.SavePreferences(ctx.Context(), &prefs); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(prefs)
}

func (c *NotificationController) List(ctx *fiber.Ctx) error {
	userID, ok := callerID(ctx)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user"})
	}

	page, _ := strconv.ParseInt(ctx.Query("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(ctx.Query("limit", "10"), 10, 64)

	notifications, total, err := c.service.GetUserNotifications(ctx.Context(), userID, page, limit)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(fiber.Map{
		"data":  notifications,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

func (c *NotificationController) GetUnreadCount(ctx *fiber.Ctx) error {
	userID, ok := callerID(ctx)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user"})
	}

	count, err := c.service.GetUnreadCount(ctx.Context(), userID)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"count": count})
}

func (c *NotificationController) MarkAsRead(ctx *fiber.Ctx) error {
	userID, ok := callerID(ctx)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user"})
	}

	if err := c.service.MarkAsRead(ctx.Context(), ctx.Params("id"), userID); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"status": "success"})
}

func (c *NotificationController) MarkAllAsRead(ctx *fiber.Ctx) error {
	userID, ok := callerID(ctx)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user"})
	}

	if err := c.service.MarkAllAsRead(ctx.Context(), userID); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"status": "success"})
}
