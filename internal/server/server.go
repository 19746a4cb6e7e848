package server

import (
	"log"
	"strings"
	"time"

	"github.com/XYZ1020411/daily-gem-oasis-sub000/internal/agent"
	"github.com/XYZ1020411/daily-gem-oasis-sub000/internal/config"
	"github.com/XYZ1020411/daily-gem-oasis-sub000/internal/handler"
	"github.com/XYZ1020411/daily-gem-oasis-sub000/internal/middleware"
	"github.com/XYZ1020411/daily-gem-oasis-sub000/internal/repository"
	"github.com/XYZ1020411/daily-gem-oasis-sub000/internal/service"
	"github.com/XYZ1020411/daily-gem-oasis-sub000/pkg/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
}

func NewServer(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *Server {
	userRepo := repository.NewUserRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	giftCodeRepo := repository.NewGiftCodeRepository(db)
	productRepo := repository.NewProductRepository(db)
	exchangeRepo := repository.NewExchangeRepository(db)
	announcementRepo := repository.NewAnnouncementRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	// Image storage is optional: without cloudinary credentials products
	// simply have no images.
	imageStorage, err := storage.NewCloudinaryStorage()
	if err != nil {
		log.Printf("Cloudinary storage disabled: %v", err)
		imageStorage = nil
	}

	meiliHost := cfg.MeiliSearchHost
	if !strings.HasPrefix(meiliHost, "http") {
		meiliHost = "http://" + meiliHost + ":7700"
	}
	meiliClient := meilisearch.New(meiliHost, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
	searchSvc := service.NewSearchService(meiliClient)

	eventSvc := service.NewEventService(redisClient)
	limiter := service.NewRateLimiter(redisClient)
	notifySvc := service.NewNotifyService(cfg.NotifyWebhookURL)

	ledgerSvc := service.NewLedgerService(ledgerRepo, userRepo, eventSvc, limiter, cfg)
	checkinSvc := service.NewCheckinService(userRepo, eventSvc, cfg)
	giftCodeSvc := service.NewGiftCodeService(giftCodeRepo, auditRepo, eventSvc, notifySvc)
	exchangeSvc := service.NewExchangeService(exchangeRepo, productRepo, auditRepo, eventSvc, cfg)
	productSvc := service.NewProductService(productRepo, auditRepo, searchSvc, imageStorage)
	announcementSvc := service.NewAnnouncementService(announcementRepo, auditRepo)
	adminSvc := service.NewAdminService(userRepo, ledgerSvc, auditRepo)
	authSvc := service.NewAuthService(userRepo)

	authHandler := handler.NewAuthHandler(authSvc)
	pointsHandler := handler.NewPointsHandler(ledgerSvc)
	checkinHandler := handler.NewCheckinHandler(checkinSvc)
	giftCodeHandler := handler.NewGiftCodeHandler(giftCodeSvc)
	exchangeHandler := handler.NewExchangeHandler(exchangeSvc)
	productHandler := handler.NewProductHandler(productSvc)
	announcementHandler := handler.NewAnnouncementHandler(announcementSvc)
	adminHandler := handler.NewAdminHandler(adminSvc)
	eventHandler := handler.NewEventHandler(redisClient)

	// Scheduled holiday gift codes. Duplicate issue attempts on re-runs
	// are rejected by code uniqueness, so the job is safe to restart.
	scheduler := agent.NewScheduler()
	scheduler.RegisterAgent(agent.NewHolidayCodeAgent(giftCodeSvc))
	scheduler.Start()

	router := gin.New()

	setupCORS(router, cfg)

	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	authMiddleware := middleware.NewAuthMiddleware(userRepo)

	api := router.Group("/api")

	// Public routes
	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}
	api.GET("/products", productHandler.ListActive)
	api.GET("/products/search", productHandler.Search)
	api.GET("/products/:id", productHandler.Get)
	api.GET("/announcements", announcementHandler.ListActive)

	// Protected routes
	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		protected.GET("/points", pointsHandler.GetBalance)
		protected.POST("/points/game/:game", pointsHandler.GameReward)

		protected.POST("/checkin", checkinHandler.CheckIn)
		protected.GET("/checkin/status", checkinHandler.Status)

		protected.POST("/giftcodes/redeem", giftCodeHandler.Redeem)

		protected.POST("/exchanges", exchangeHandler.Create)
		protected.GET("/exchanges", exchangeHandler.ListMine)

		protected.GET("/events/ws", eventHandler.HandleWebSocket)

		// Admin routes
		adminGroup := protected.Group("/admin")
		adminGroup.Use(authMiddleware.RequireAdmin())
		{
			adminGroup.POST("/users", adminHandler.CreateUser)
			adminGroup.GET("/users", adminHandler.GetAllUsers)
			adminGroup.PUT("/users/:id", adminHandler.UpdateUser)
			adminGroup.DELETE("/users/:id", adminHandler.DeleteUser)
			adminGroup.POST("/users/:id/points", adminHandler.AdjustPoints)

			adminGroup.GET("/audit", adminHandler.ListAuditLog)

			adminGroup.POST("/giftcodes", giftCodeHandler.Issue)
			adminGroup.GET("/giftcodes", giftCodeHandler.List)
			adminGroup.PUT("/giftcodes/:id/active", giftCodeHandler.SetActive)
			adminGroup.DELETE("/giftcodes/:id", giftCodeHandler.Delete)

			adminGroup.GET("/exchanges", exchangeHandler.ListAll)
			adminGroup.PUT("/exchanges/:id/approve", exchangeHandler.Approve)
			adminGroup.PUT("/exchanges/:id/reject", exchangeHandler.Reject)
			adminGroup.PUT("/exchanges/:id/complete", exchangeHandler.Complete)

			adminGroup.POST("/products", productHandler.Create)
			adminGroup.GET("/products", productHandler.ListAll)
			adminGroup.PUT("/products/:id", productHandler.Update)
			adminGroup.DELETE("/products/:id", productHandler.Delete)

			adminGroup.POST("/announcements", announcementHandler.Create)
			adminGroup.GET("/announcements", announcementHandler.ListAll)
			adminGroup.PUT("/announcements/:id", announcementHandler.Update)
			adminGroup.DELETE("/announcements/:id", announcementHandler.Delete)
		}
	}

	return &Server{
		engine:      router,
		db:          db,
		redisClient: redisClient,
	}
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func setupCORS(router *gin.Engine, cfg *config.Config) {
	origins := strings.Split(cfg.AllowedOrigins, ",")

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
