package bootstrap

import (
	"time"

	"tutor-cerdas-console/internal/auth"
	"tutor-cerdas-console/internal/config"
	"tutor-cerdas-console/internal/controller"
	"tutor-cerdas-console/internal/docbackend"
	"tutor-cerdas-console/internal/identity"
	"tutor-cerdas-console/internal/pkg/logger"
	"tutor-cerdas-console/internal/repository/implementation"
	"tutor-cerdas-console/internal/service"
	"tutor-cerdas-console/internal/session"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController    controller.IAuthController
	ConsoleController controller.IConsoleController
	AdminController   controller.IAdminController

	// Exposed for middleware wiring and tests
	SessionStore *session.Store
	Resolvers    *auth.Manager
	Logger       logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// In-process event bus for session change notifications
	bus := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 16},
		watermill.NewStdLogger(false, false),
	)

	ttl := time.Duration(cfg.App.SessionTTLMinutes) * time.Minute
	sessionStore := session.NewStore(bus, ttl)

	profileRepo := implementation.NewProfileRepository(db)
	idClient := identity.NewClient(cfg.Identity.URL, cfg.Identity.AnonKey, cfg.Identity.JWTSecret)
	resolvers := auth.NewManager(sessionStore, profileRepo, idClient, sysLogger)

	backend := docbackend.New(cfg.Backend.APIBaseURL)

	authService := service.NewAuthService(idClient, profileRepo, sessionStore, resolvers, sysLogger, ttl)
	adminService := service.NewAdminWorkflowService(backend, sysLogger)

	return &Container{
		AuthController:    controller.NewAuthController(authService),
		ConsoleController: controller.NewConsoleController(),
		AdminController:   controller.NewAdminController(adminService),
		SessionStore:      sessionStore,
		Resolvers:         resolvers,
		Logger:            sysLogger,
	}
}
