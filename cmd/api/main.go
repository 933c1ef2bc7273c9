package main

import (
	"context"
	"fmt"
	"log"

	common_api "go-carehub/internal/common/api"
	common_models "go-carehub/internal/common/models"
	"go-carehub/internal/config"
	"go-carehub/internal/database"
	"go-carehub/internal/features/alert"
	"go-carehub/internal/features/channel"
	"go-carehub/internal/features/directory"
	"go-carehub/internal/features/escalation"
	"go-carehub/internal/features/notification"
	"go-carehub/internal/features/rule"
	"go-carehub/internal/features/scheduler"
	"go-carehub/internal/features/system"
	"go-carehub/internal/features/template"
	"go-carehub/internal/logger"
	"go-carehub/internal/middleware"
	"go-carehub/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(middleware.CORSMiddleware())

	return app
}

// AsRoute is a helper function to reduce boilerplate.
// It tags the constructor so Fx knows to add it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),
		fx.ResultTags(`group:"routes"`),
	)
}

// RegisterAllRoutes takes the group "routes" (slice of interfaces)
// and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route) {
	log.Printf("Registering %d routes...\n", len(routes))
	for _, route := range routes {
		route.Setup(app)
	}
	log.Println("All routes registered successfully")
}

// RegisterAllRoutesWithAnnotation wraps RegisterAllRoutes with fx annotations
var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`),
)

// StartServer creates a lifecycle hook to start Fiber in a goroutine
// and shut it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

// NewSenderMap binds one sender per delivery channel for the dispatcher
func NewSenderMap(
	browser *channel.BrowserSender,
	email *channel.EmailSender,
	sms *channel.SMSSender,
	push *channel.PushSender,
) notification.SenderMap {
	return notification.SenderMap{
		common_models.ChannelBrowser: browser,
		common_models.ChannelEmail:   email,
		common_models.ChannelSMS:     sms,
		common_models.ChannelPush:    push,
	}
}

func main() {
	app := fx.New(
		fx.Provide(
			// Load Config
			config.LoadConfig,

			// Initialize Logger
			logger.NewLogger,

			// Initialize Fiber Server
			NewFiberServer,

			// Initialize Database
			database.NewDatabase,

			// Initialize Repository
			template.NewTemplateRepository,
			directory.NewAdminRepository,
			directory.NewSubjectRepository,
			alert.NewAlertRepository,
			notification.NewQueueRepository,
			notification.NewPreferenceRepository,
			notification.NewInAppRepository,
			rule.NewRuleRepository,
			escalation.NewEscalationRuleRepository,
			escalation.NewEventRepository,

			// Initialize Service
			template.NewTemplateService,
			notification.NewNotificationService,
			rule.NewExecutor,
			rule.NewRuleService,
			escalation.NewEngine,
			scheduler.NewSchedulerService,

			// Delivery channels
			channel.NewHub,
			channel.NewBrowserSender,
			channel.NewEmailSender,
			channel.NewSMSSender,
			channel.NewPushSender,
			NewSenderMap,
			notification.NewDispatcher,

			// Interface Adapters to break circular dependencies and satisfy Fx
			func(s notification.NotificationService) notification.Enqueuer { return s },

			// Initialize Controller
			template.NewTemplateController,
			alert.NewAlertController,
			notification.NewNotificationController,
			rule.NewRuleController,
			escalation.NewEscalationController,

			// Initialize API Routes
			AsRoute(template.NewTemplateApi),
			AsRoute(alert.NewAlertApi),
			AsRoute(notification.NewNotificationApi),
			AsRoute(rule.NewRuleApi),
			AsRoute(escalation.NewEscalationApi),
			AsRoute(channel.NewWebSocketApi),
			AsRoute(system.NewHealthApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			func(cfg *config.Config) {
				utils.SetSecret(cfg.JWTSecret)
			},

			// Register Routes & Start
			RegisterAllRoutesWithAnnotation,
			StartServer,

			// The scheduler constructor registers its own lifecycle hooks
			func(*scheduler.SchedulerService) {},
		),
	)

	app.Run()
}
