package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"volunteer-hub/backend/internal/cache"
	"volunteer-hub/backend/internal/config"
	"volunteer-hub/backend/internal/database"
	"volunteer-hub/backend/internal/handlers"
	"volunteer-hub/backend/internal/mailer"
	"volunteer-hub/backend/internal/middleware"
	"volunteer-hub/backend/internal/monitoring"
	"volunteer-hub/backend/internal/services"
	"volunteer-hub/backend/internal/worker"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("❌ Failed to run migrations: %v", err)
	}

	if err := database.SeedBadges(db); err != nil {
		log.Fatalf("❌ Failed to seed badge catalog: %v", err)
	}

	if cfg.Auth.MigrateLegacyHash {
		migrated, err := services.MigrateLegacyPasswords(db, cfg.Auth.BCryptCost)
		if err != nil {
			log.Printf("Legacy password migration failed: %v", err)
		} else if migrated > 0 {
			log.Printf("Migrated %d legacy password hashes to bcrypt", migrated)
		}
	}

	// One client for the job queue, a second inside the cache with its
	// own pool settings.
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	redisCache := cache.NewRedisCache(cfg.Redis, cfg.GetRedisAddr())
	guardedCache := cache.NewGuardedCache(redisCache, cache.DefaultBreakerConfig())
	defer guardedCache.Close()

	var mail mailer.Mailer = mailer.NoopMailer{}
	if cfg.Mailer.Enabled {
		mail = mailer.NewHTTPMailer(cfg.Mailer)
	} else {
		log.Println("Mailer disabled, emails will be dropped")
	}

	badgeService := services.NewBadgeService()
	authService := services.NewAuthService(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL, cfg.Auth.BCryptCost, badgeService)
	registerService := services.NewRegisterService(cfg.Auth.BCryptCost)
	eventService := services.NewEventService(badgeService)
	taskService := services.NewTaskService()
	assignmentService := services.NewAssignmentService(mail, badgeService, cfg.Auth.ResponseDeadline)
	notificationService := services.NewNotificationService()
	donationService := services.NewDonationService()
	pointsService := services.NewCachedPointsService(services.NewPointsService(), guardedCache)

	jobQueue := worker.NewJobQueue(rdb)

	jobWorker := worker.NewWorker(worker.WorkerConfig{
		RedisClient: rdb,
		Queues:      cfg.Worker.Queues,
	})
	worker.NewHandlers(db, mail, assignmentService, cfg.Worker.ReminderWindow).RegisterAll(jobWorker)
	jobWorker.Start(cfg.Worker.Concurrency)

	scheduler := worker.NewScheduler(jobQueue, cfg.Worker.ExpirySweep)
	scheduler.Start()

	monitoring.RegisterHealthCheck("database", func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	})
	monitoring.RegisterHealthCheck("redis", func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(gin.Logger())
	router.Use(monitoring.MetricsMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if cfg.RateLimit.Enabled {
		router.Use(middleware.NewRateLimiter(cfg.RateLimit).Middleware())
	}

	authHandler := handlers.NewAuthHandler(db, authService)
	refreshHandler := handlers.NewRefreshHandler(db, authService)
	logoutHandler := handlers.NewLogoutHandler(db, authService)
	registerHandler := handlers.NewRegisterHandler(db, registerService)
	userHandler := handlers.NewUserHandler(db)
	eventHandler := handlers.NewEventHandler(db, eventService)
	taskHandler := handlers.NewTaskHandler(db, taskService)
	assignmentHandler := handlers.NewAssignmentHandler(db, assignmentService)
	notificationHandler := handlers.NewNotificationHandler(db, notificationService)
	donationHandler := handlers.NewDonationHandler(db, donationService, jobQueue)
	leaderboardHandler := handlers.NewLeaderboardHandler(db, pointsService, badgeService)

	router.GET("/healthz", monitoring.HealthHandler())
	router.GET("/readyz", monitoring.ReadinessHandler())
	router.GET("/livez", monitoring.LivenessHandler())
	router.GET("/metricsz", monitoring.MetricsHandler())

	api := router.Group("/api")
	{
		api.POST("/auth/register", registerHandler.Registration)
		api.POST("/auth/token", authHandler.Token)
		api.POST("/auth/refresh", refreshHandler.Refresh)

		api.POST("/donations", donationHandler.CreateDonation)

		api.GET("/events", eventHandler.GetEvents)
		api.GET("/events/:id", eventHandler.GetEventByID)
		api.GET("/leaderboard", leaderboardHandler.GetLeaderboard)
	}

	authed := api.Group("")
	authed.Use(middleware.AuthzMiddleware(middleware.AuthzConfig{JWTSecret: cfg.Auth.JWTSecret}))
	{
		authed.POST("/auth/logout", logoutHandler.Logout)
		authed.GET("/users/me", userHandler.GetProfile)

		authed.POST("/events/:id/signup", eventHandler.SignUp)

		authed.GET("/events/:id/tasks", taskHandler.GetTasksByEvent)
		authed.GET("/tasks", taskHandler.GetTasks)
		authed.GET("/tasks/:id", taskHandler.GetTaskByID)

		authed.GET("/assignments/mine", assignmentHandler.GetMyAssignments)
		authed.POST("/assignments/:id/respond", assignmentHandler.Respond)

		authed.GET("/notifications", notificationHandler.GetNotifications)
		authed.GET("/notifications/unread-count", notificationHandler.GetUnreadCount)
		authed.PATCH("/notifications/:id/read", notificationHandler.MarkRead)
		authed.POST("/notifications/read-all", notificationHandler.MarkAllRead)

		authed.GET("/leaderboard/me", leaderboardHandler.GetMyRank)
		authed.GET("/badges/mine", leaderboardHandler.GetMyBadges)
	}

	admin := api.Group("")
	admin.Use(middleware.AuthzMiddleware(middleware.AuthzConfig{JWTSecret: cfg.Auth.JWTSecret, Role: "admin"}))
	{
		admin.POST("/events", eventHandler.CreateEvent)
		admin.PUT("/events/:id", eventHandler.UpdateEvent)
		admin.DELETE("/events/:id", eventHandler.DeleteEvent)
		admin.POST("/events/:id/attendance", eventHandler.MarkAttendance)

		admin.POST("/tasks", taskHandler.CreateTask)
		admin.PUT("/tasks/:id", taskHandler.UpdateTask)
		admin.DELETE("/tasks/:id", taskHandler.DeleteTask)

		admin.POST("/assignments", assignmentHandler.Assign)
		admin.GET("/assignments/:id", assignmentHandler.GetAssignment)
		admin.POST("/assignments/:id/complete", assignmentHandler.Complete)

		admin.GET("/users", userHandler.GetVolunteers)
		admin.GET("/users/:user_id", userHandler.GetUserByID)

		admin.POST("/badges/award", leaderboardHandler.AwardBadge)

		admin.GET("/donations", donationHandler.GetDonations)
	}

	webmaster := api.Group("")
	webmaster.Use(middleware.AuthzMiddleware(middleware.AuthzConfig{JWTSecret: cfg.Auth.JWTSecret, Role: "webmaster"}))
	{
		webmaster.DELETE("/users/:user_id", userHandler.DeactivateUser)
	}

	server := &http.Server{
		Addr:         cfg.GetServerAddr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Printf("Server listening on %s", cfg.GetServerAddr())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")

	scheduler.Stop()
	jobWorker.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Forced shutdown: %v", err)
	}

	if err := rdb.Close(); err != nil {
		log.Printf("Redis close failed: %v", err)
	}

	log.Println("Server stopped")
}
