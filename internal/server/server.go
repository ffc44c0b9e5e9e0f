// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	_ "skillswap/docs" // swagger docs
	"skillswap/internal/bootstrap"
	"skillswap/internal/config"
	"skillswap/internal/featureflags"
	"skillswap/internal/middleware"
	"skillswap/internal/models"
	"skillswap/internal/notifications"
	"skillswap/internal/repository"
	"skillswap/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	tokenIssuer   = "skillswap-api"
	tokenAudience = "skillswap-client"
	tokenTTL      = 7 * 24 * time.Hour
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc
	repos          repository.Set
	hub            *notifications.Hub
	notifier       *notifications.Notifier
	dispatcher     *notifications.Dispatcher
	featureFlags   *featureflags.Manager
	userService    *service.UserService
	skillService   *service.SkillService
	matchService   *service.MatchService
	messageService *service.MessageService
	sessionService *service.SessionService
	quizService    *service.QuizService
	mediaService   *service.MediaService
}

// NewServer opens the configured store and Redis, seeds the skill catalog
// and returns a ready Server.
func NewServer(cfg *config.Config) (*Server, error) {
	rt, err := bootstrap.InitRuntime(context.Background(), cfg, bootstrap.Options{
		SeedCatalog: true,
		DemoUsers:   cfg.SeedDemoUsers,
	})
	if err != nil {
		return nil, err
	}
	return NewServerWithDeps(cfg, rt.Repos, rt.DB, rt.Redis), nil
}

// NewServerWithDeps creates a Server from already-initialized dependencies.
// db and redisClient may be nil.
func NewServerWithDeps(cfg *config.Config, repos repository.Set, db *gorm.DB, redisClient *redis.Client) *Server {
	flags := featureflags.NewManager(cfg.FeatureFlags)

	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("skillswap-api"),
		repos:          repos,
		hub:            notifications.NewHub(),
		featureFlags:   flags,
		userService:    service.NewUserService(repos.Users, repos.UserSkills, repos.Matches, repos.Sessions),
		skillService:   service.NewSkillService(repos.Skills, repos.UserSkills, repos.Quizzes),
		matchService:   service.NewMatchService(repos.Users, repos.UserSkills, repos.Matches),
		messageService: service.NewMessageService(repos.Matches, repos.Messages, flags),
		sessionService: service.NewSessionService(repos.Users, repos.Matches, repos.Sessions),
		quizService:    service.NewQuizService(repos.Quizzes, repos.UserSkills),
		mediaService:   service.NewMediaService(cfg),
	}
	if redisClient != nil {
		s.notifier = notifications.NewNotifier(redisClient)
	}
	s.dispatcher = notifications.NewDispatcher(s.hub, s.notifier)
	return s
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.TracingMiddleware())
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New(helmet.Config{
		// Uploaded media is embedded by the web client from another origin.
		CrossOriginResourcePolicy: "cross-origin",
	}))

	app.Use(middleware.StructuredLogger())

	// CORS runs before the limiter so rejected requests still carry CORS headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowCredentials: origins != "*",
		MaxAge:           86400,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	app.Static(service.UploadURLPrefix, s.mediaService.Dir())

	// The web client connects to /ws; /api/ws is kept for API-prefixed proxies.
	app.Get("/ws", s.AuthRequired(), s.ChatWebSocketHandler())

	api := app.Group("/api")
	api.Get("/", s.ReadinessCheck)
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "SkillSwap Metrics Dashboard",
	}))
	api.Get("/swagger/*", swagger.HandlerDefault)

	auth := api.Group("/auth")
	auth.Post("/register", middleware.RateLimit(s.redis, 3, 10*time.Minute, "register"), s.Register)
	auth.Post("/login", middleware.RateLimit(s.redis, 10, 5*time.Minute, "login"), s.Login)

	skills := api.Group("/skills")
	skills.Get("/", s.ListSkills)
	skills.Get("/:id/quizzes", s.ListSkillQuizzes)
	skills.Get("/:id", s.GetSkill)

	protected := api.Group("", s.AuthRequired())

	protected.Get("/feature-flags", s.GetFeatureFlags)
	protected.Post("/ws/ticket", s.IssueWSTicket)
	protected.Get("/ws", s.ChatWebSocketHandler())

	user := protected.Group("/user")
	user.Get("/me", s.GetMyProfile)
	user.Put("/profile", s.UpdateMyProfile)
	user.Put("/password", middleware.RateLimit(s.redis, 5, 15*time.Minute, "change_password"), s.ChangePassword)
	user.Get("/stats", s.GetMyStats)
	// Specific /skills routes before generic /skills/:id
	user.Get("/skills/teaching", s.ListTeachingSkills)
	user.Get("/skills/learning", s.ListLearningSkills)
	user.Get("/skills", s.ListMySkills)
	user.Post("/skills", s.AddUserSkill)
	user.Put("/skills/:id", s.UpdateUserSkill)
	user.Delete("/skills/:id", s.RemoveUserSkill)

	protected.Get("/users/:id", s.GetUserProfile)

	matches := protected.Group("/matches")
	matches.Get("/potential", s.GetPotentialMatches)
	matches.Get("/", s.ListMatches)
	matches.Get("/:id/messages", s.ListMessages)
	matches.Post("/:id/messages", middleware.RateLimit(s.redis, 30, time.Minute, "send_message"), s.SendMessage)
	matches.Put("/:id/status", s.UpdateMatchStatus)
	matches.Get("/:id", s.GetMatch)

	sessions := protected.Group("/sessions")
	sessions.Get("/upcoming", s.UpcomingSessions)
	sessions.Get("/", s.ListSessions)
	sessions.Post("/", s.CreateSession)
	sessions.Put("/:id", s.UpdateSession)

	quizzes := protected.Group("/quizzes")
	quizzes.Get("/attempts", s.ListQuizAttempts)
	quizzes.Get("/:id/questions", s.GetQuizQuestions)
	quizzes.Post("/:id/attempt", middleware.RateLimit(s.redis, 10, time.Minute, "quiz_attempt"), s.SubmitQuizAttempt)
	quizzes.Get("/:id", s.GetQuiz)

	protected.Post("/uploads", middleware.RateLimit(s.redis, 20, time.Minute, "upload"), s.UploadMedia)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck reports store and Redis health. Redis is optional, so a
// deployment without REDIS_URL is still ready.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	storeStatus := "healthy"
	if s.db != nil {
		sqlDB, err := s.db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			storeStatus = "unhealthy"
		}
	}

	redisStatus := "disabled"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overall := "healthy"
	if storeStatus != "healthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overall = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overall,
		"checks": fiber.Map{
			"store": storeStatus,
			"redis": redisStatus,
		},
		"driver": s.config.StoreDriver,
		"time":   time.Now(),
	})
}

// AuthRequired accepts a Bearer JWT, a ?token= JWT (the browser WebSocket API
// cannot set headers) or a single-use ?ticket= issued by IssueWSTicket.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if ticket := c.Query("ticket"); ticket != "" {
			userID, ok := s.consumeWSTicket(c.UserContext(), ticket)
			if !ok {
				return models.RespondWithError(c, fiber.StatusUnauthorized,
					models.NewUnauthorizedError("Invalid or expired WebSocket ticket"))
			}
			return s.authenticated(c, userID)
		}

		tokenString := ""
		if authHeader := c.Get("Authorization"); authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}
		if tokenString == "" {
			tokenString = c.Query("token")
		}
		if tokenString == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}

		userID, err := s.parseToken(tokenString)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized, err)
		}
		return s.authenticated(c, userID)
	}
}

func (s *Server) authenticated(c *fiber.Ctx, userID uint) error {
	c.Locals("userID", userID)
	c.SetUserContext(middleware.WithUser(c.UserContext(), userID))
	return c.Next()
}

// parseToken validates signature, issuer, audience and expiry and returns the
// subject as a user id.
func (s *Server) parseToken(tokenString string) (uint, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.config.JWTSecret), nil
	},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(tokenAudience),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return 0, models.NewUnauthorizedError("Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, models.NewUnauthorizedError("Invalid token claims")
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return 0, models.NewUnauthorizedError("Invalid subject claim")
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil || userID == 0 {
		return 0, models.NewUnauthorizedError("Invalid user ID in token")
	}
	return uint(userID), nil
}

// NewApp builds a Fiber app with middleware and routes installed.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:   "SkillSwap API",
		BodyLimit: (s.config.UploadMaxSizeMB + 1) * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				return c.Status(fe.Code).JSON(models.ErrorResponse{Error: fe.Message})
			}
			middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", slog.String("error", err.Error()))
			return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
		},
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// Start wires the hub to Redis when available and listens on the configured port.
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.shutdownCtx = ctx
	s.shutdownFn = cancel

	s.app = s.NewApp()

	if s.notifier != nil {
		if err := s.hub.StartWiring(s.shutdownCtx, s.notifier); err != nil {
			// Without the subscription, events would be published into the void.
			middleware.Logger.Warn("redis wiring failed, delivering in process",
				slog.String("error", err.Error()))
			s.dispatcher = notifications.NewDispatcher(s.hub, nil)
		}
	}

	middleware.Logger.Info("Server starting", slog.String("port", s.config.Port),
		slog.String("store", s.config.StoreDriver))
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Warn("error shutting down HTTP server", slog.String("error", err.Error()))
		}
	}

	if err := s.hub.Shutdown(ctx); err != nil {
		middleware.Logger.Warn("error shutting down hub", slog.String("error", err.Error()))
	}

	if s.db != nil {
		if sqlDB, err := s.db.DB(); err == nil {
			if cerr := sqlDB.Close(); cerr != nil {
				middleware.Logger.Warn("error closing sql DB", slog.String("error", cerr.Error()))
			}
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Warn("error closing redis", slog.String("error", rerr.Error()))
		}
	}

	middleware.Logger.Info("Server shutdown complete")
	return nil
}
