package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/random"

	"hostelhub/internal/caching"
	"hostelhub/internal/config"
	"hostelhub/internal/handlers"
	"hostelhub/internal/jobs"
	"hostelhub/internal/jobs/background"
	"hostelhub/internal/middleware"
	"hostelhub/internal/models"
	"hostelhub/internal/repositories"
	"hostelhub/internal/services"
	"hostelhub/pkg/database"
)

const version = "1.0.0"

func main() {
	// Database connection
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := database.NewPool(databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// JWT configuration
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = random.String(32) // Generated secret for development
		log.Printf("WARNING: Using generated JWT secret")
	}
	tokenTTL := envInt("TOKEN_TTL_SECONDS", 3600)
	refreshTTL := envInt("REFRESH_TTL_SECONDS", 7*24*3600)

	// Redis configuration
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := envInt("REDIS_DB", 0)

	// MinIO configuration
	minioEndpoint := os.Getenv("MINIO_ENDPOINT")
	if minioEndpoint == "" {
		minioEndpoint = "localhost:9000"
	}
	minioAccessKey := os.Getenv("MINIO_ACCESS_KEY")
	if minioAccessKey == "" {
		minioAccessKey = "minioadmin" // Default for development
	}
	minioSecretKey := os.Getenv("MINIO_SECRET_KEY")
	if minioSecretKey == "" {
		minioSecretKey = "minioadmin" // Default for development
	}
	minioBucket := os.Getenv("MINIO_BUCKET")
	if minioBucket == "" {
		minioBucket = "hostelhub-documents"
	}
	minioUseSSL := os.Getenv("MINIO_USE_SSL") == "true"

	documentSvc, err := services.NewDocumentService(minioEndpoint, minioAccessKey, minioSecretKey, minioBucket, minioUseSSL)
	if err != nil {
		log.Fatalf("Failed to initialize document storage: %v", err)
	}
	if err := documentSvc.EnsureBucketExists(context.Background()); err != nil {
		log.Printf("WARN: Failed to ensure document bucket exists: %v", err)
	}

	// SMS gateway configuration
	smsConfigPath := os.Getenv("SMS_CONFIG_FILE")
	var smsCfg *config.SMSConfig
	if smsConfigPath != "" {
		smsCfg, err = config.LoadSMSConfig(smsConfigPath)
		if err != nil {
			log.Fatalf("Failed to load SMS config from %s: %v", smsConfigPath, err)
		}
	} else {
		smsCfg = config.DefaultSMSConfig()
		log.Printf("WARNING: SMS_CONFIG_FILE not set, using default SMS gateway settings")
	}

	// Repositories
	userRepo := repositories.NewUserRepo(pool)
	hostelRepo := repositories.NewHostelRepo(pool)
	tenantRepo := repositories.NewTenantRepo(pool)
	roomRepo := repositories.NewRoomRepo(pool)
	paymentRepo := repositories.NewPaymentRepo(pool)
	ticketRepo := repositories.NewTicketRepo(pool)
	vacatingRepo := repositories.NewVacatingRepo(pool)
	exchangeRepo := repositories.NewExchangeRepo(pool)
	menuRepo := repositories.NewMenuRepo(pool)
	timetableRepo := repositories.NewTimetableRepo(pool)
	categoryRepo := repositories.NewRoomCategoryRepo(pool)
	feeRepo := repositories.NewFeeBreakdownRepo(pool)
	smsLogRepo := repositories.NewSMSLogRepo(pool)

	// Cache
	cacheSvc := caching.NewRedisCacheService(redisAddr, redisPassword, redisDB)

	// Services
	authSvc := services.NewAuthService(userRepo, cacheSvc, jwtSecret, tokenTTL, refreshTTL)
	smsSvc := services.NewSMSService(smsCfg, smsLogRepo)
	occupancySvc := services.NewOccupancyService(roomRepo, tenantRepo, cacheSvc)
	tenantSvc := services.NewTenantService(tenantRepo, userRepo, occupancySvc)
	roomSvc := services.NewRoomService(roomRepo, cacheSvc)
	billingSvc := services.NewBillingService(paymentRepo, tenantRepo, roomRepo, smsSvc)
	ticketSvc := services.NewTicketService(ticketRepo, tenantRepo)
	vacatingSvc := services.NewVacatingService(vacatingRepo, tenantRepo, tenantSvc, smsSvc)
	exchangeSvc := services.NewExchangeService(exchangeRepo, tenantRepo, roomRepo, occupancySvc)
	referenceSvc := services.NewReferenceService(menuRepo, timetableRepo, categoryRepo, feeRepo, cacheSvc)
	hostelSvc := services.NewHostelService(hostelRepo, userRepo)

	// Background jobs
	rentAlertsJob := jobs.NewRentAlertsJob(billingSvc, smsSvc, tenantRepo, hostelRepo, smsCfg.Delivery.MaxConcurrent)
	reconcileJob := jobs.NewOccupancyReconcileJob(occupancySvc, hostelRepo)
	scheduler := background.NewJobScheduler(rentAlertsJob, reconcileJob, cacheSvc)
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start job scheduler: %v", err)
	}
	defer scheduler.Stop()

	// Handlers
	authHandlers := handlers.NewAuthHandlers(authSvc, userRepo, hostelRepo, cacheSvc)
	hostelHandlers := handlers.NewHostelHandlers(hostelSvc, cacheSvc)
	tenantHandlers := handlers.NewTenantHandlers(tenantSvc, smsSvc)
	roomHandlers := handlers.NewRoomHandlers(roomSvc, occupancySvc)
	paymentHandlers := handlers.NewPaymentHandlers(billingSvc, tenantSvc, rentAlertsJob)
	ticketHandlers := handlers.NewTicketHandlers(ticketSvc, tenantSvc)
	vacatingHandlers := handlers.NewVacatingHandlers(vacatingSvc, tenantSvc)
	exchangeHandlers := handlers.NewExchangeHandlers(exchangeSvc, tenantSvc)
	referenceHandlers := handlers.NewReferenceHandlers(referenceSvc)
	documentHandlers := handlers.NewDocumentHandlers(documentSvc)
	healthHandlers := handlers.NewHealthHandlers(pool)

	// Echo instance
	e := echo.New()
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	// Health endpoints (no auth required)
	e.GET("/healthz", healthHandlers.Live)
	e.GET("/readyz", healthHandlers.Ready)

	v1 := e.Group("/v1")

	// Open routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandlers.Register)
	auth.POST("/login", authHandlers.Login)
	auth.POST("/refresh", authHandlers.Refresh)
	v1.POST("/hostels/register", hostelHandlers.Register)

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.JWTMiddleware(authSvc))

	staffOnly := middleware.RequireRole(models.RoleAdmin, models.RoleStaff)
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	protected.POST("/auth/logout", authHandlers.Logout)
	protected.POST("/auth/change-password", authHandlers.ChangePassword)
	protected.DELETE("/cache", hostelHandlers.FlushCache, adminOnly)

	// Tenant roster
	protected.POST("/tenants", tenantHandlers.Onboard, staffOnly)
	protected.GET("/tenants", tenantHandlers.List, staffOnly)
	protected.GET("/tenants/stats", tenantHandlers.Stats, staffOnly)
	protected.GET("/tenants/my-info", tenantHandlers.MyInfo)
	protected.GET("/tenants/:id", tenantHandlers.Get, staffOnly)
	protected.PUT("/tenants/:id", tenantHandlers.Update, staffOnly)
	protected.DELETE("/tenants/:id", tenantHandlers.Offboard, adminOnly)
	protected.POST("/tenants/:id/send-sms", tenantHandlers.SendSMS, staffOnly)
	protected.POST("/tenants/:id/documents", documentHandlers.Upload, staffOnly)
	protected.POST("/sms/send", tenantHandlers.SendManualSMS, staffOnly)
	protected.GET("/documents/url", documentHandlers.GetURL, staffOnly)

	// Rooms and occupancy
	protected.POST("/rooms", roomHandlers.Create, staffOnly)
	protected.GET("/rooms", roomHandlers.List)
	protected.GET("/rooms/stats", roomHandlers.Stats, staffOnly)
	protected.GET("/rooms/:id", roomHandlers.Get)
	protected.PUT("/rooms/:id", roomHandlers.Update, staffOnly)
	protected.DELETE("/rooms/:id", roomHandlers.Delete, adminOnly)
	protected.POST("/rooms/:id/assign", roomHandlers.Assign, staffOnly)
	protected.POST("/rooms/release", roomHandlers.Release, staffOnly)
	protected.POST("/rooms/reconcile", roomHandlers.Reconcile, adminOnly)

	// Payments and dues
	protected.POST("/payments", paymentHandlers.Create, staffOnly)
	protected.GET("/payments", paymentHandlers.List, staffOnly)
	protected.POST("/payments/mark-paid", paymentHandlers.MarkPaid, staffOnly)
	protected.GET("/payments/:id/receipt", paymentHandlers.Receipt)
	protected.GET("/payments/due/:tenantId", paymentHandlers.Due)
	protected.POST("/payments/send-alerts", paymentHandlers.SendAlerts, staffOnly)

	// Maintenance tickets
	protected.POST("/tickets", ticketHandlers.Create)
	protected.GET("/tickets", ticketHandlers.List)
	protected.GET("/tickets/:id", ticketHandlers.Get)
	protected.PUT("/tickets/:id/status", ticketHandlers.UpdateStatus, staffOnly)

	// Vacating requests
	protected.POST("/vacating-requests", vacatingHandlers.Submit)
	protected.GET("/vacating-requests", vacatingHandlers.List, staffOnly)
	protected.GET("/vacating-requests/my-requests", vacatingHandlers.MyRequests)
	protected.POST("/vacating-requests/:id/approve", vacatingHandlers.Approve, staffOnly)
	protected.POST("/vacating-requests/:id/reject", vacatingHandlers.Reject, staffOnly)
	protected.POST("/vacating-requests/:id/complete", vacatingHandlers.Complete, adminOnly)

	// Exchange requests
	protected.POST("/exchange-requests", exchangeHandlers.Submit)
	protected.GET("/exchange-requests", exchangeHandlers.List)
	protected.POST("/exchange-requests/:id/approve", exchangeHandlers.Approve, staffOnly)
	protected.POST("/exchange-requests/:id/reject", exchangeHandlers.Reject, staffOnly)

	// Reference data
	protected.GET("/menu", referenceHandlers.GetWeeklyMenu)
	protected.GET("/menu/:day", referenceHandlers.GetMenuForDay)
	protected.PUT("/menu/:day", referenceHandlers.UpsertMenu, staffOnly)
	protected.GET("/timetable", referenceHandlers.GetTimetable)
	protected.PUT("/timetable", referenceHandlers.UpsertTimetableSlot, staffOnly)
	protected.GET("/room-categories", referenceHandlers.ListRoomCategories)
	protected.PUT("/room-categories", referenceHandlers.UpsertRoomCategory, staffOnly)
	protected.GET("/fee-breakdown", referenceHandlers.GetFeeBreakdown)
	protected.PUT("/fee-breakdown", referenceHandlers.ReplaceFeeBreakdown, adminOnly)

	// Start server
	port := envInt("PORT", 8080)
	log.Printf("HostelHub server v%s starting on port %d", version, port)
	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", port)))
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
