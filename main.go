package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/ansuman-shukla/hippocampus-backend/config"
	"github.com/ansuman-shukla/hippocampus-backend/controllers"
	"github.com/ansuman-shukla/hippocampus-backend/db"
	"github.com/ansuman-shukla/hippocampus-backend/forms"
	"github.com/ansuman-shukla/hippocampus-backend/kv"
	"github.com/ansuman-shukla/hippocampus-backend/metrics"
	"github.com/ansuman-shukla/hippocampus-backend/service"
	"github.com/ansuman-shukla/hippocampus-backend/vector"
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/requestid"
	"github.com/joho/godotenv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// CORS (Cross-Origin Resource Sharing)
func CORSMiddleware(origin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Max-Age", "86400")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "X-Requested-With, Content-Type, Origin, Authorization, Accept, Accept-Encoding")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
		} else {
			c.Next()
		}
	}
}

func SlogMiddleware(logger *slog.Logger, collector *metrics.Collector) gin.HandlerFunc {
	return func(c *gin.Context) {
		rlog := logger.With(
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"client_ip", c.ClientIP(),
			"request_id", requestid.Get(c),
		)

		start := time.Now()
		rlog.Debug("request started")
		c.Next()
		duration := time.Since(start)
		rlog.Info("request completed", "status", c.Writer.Status(), "duration", duration)
		collector.RecordRequest(c.Request.Method, c.FullPath(), c.Writer.Status())
	}
}

func main() {
	//Load the .env file if it exists
	if _, err := os.Stat(".env"); err == nil {
		err := godotenv.Load(".env")
		if err != nil {
			slog.Error("failed to load the env file")
			os.Exit(1)
		}
	}

	var logger *slog.Logger
	if os.Getenv("ENV") == "PRODUCTION" {
		gin.SetMode(gin.ReleaseMode)
		logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))
	} else {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	//Start the default gin server
	r := gin.Default()

	//Custom form validator
	binding.Validator = new(forms.DefaultValidator)

	collector := metrics.NewCollector()

	corsOrigin := os.Getenv("CORS_ORIGIN")
	if corsOrigin == "" {
		corsOrigin = "http://localhost"
	}
	r.Use(CORSMiddleware(corsOrigin))
	r.Use(requestid.New(requestid.WithCustomHeaderStrKey("X-Request-Id")))
	r.Use(SlogMiddleware(logger, collector))
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	redisKV, err := kv.NewRedisKV(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err != nil {
		slog.Error("failed to connect to key-value store", "error", err)
		os.Exit(1)
	}

	database, err := db.NewMongoDB(cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		slog.Error("failed to connect to document store", "error", err)
		os.Exit(1)
	}

	vectorStore := vector.NewClient(cfg.VectorURL, cfg.VectorKey)

	tokenService := service.NewTokenService(cfg)
	refreshClient := service.NewRefreshClient(cfg)
	cookieManager := service.NewCookieManager()
	memoryService := service.NewMemoryService(database, redisKV)
	noteService := service.NewNoteService(database, vectorStore, redisKV)
	subscriptionService := service.NewSubscriptionService(database, redisKV)

	health := controllers.NewHealthController()
	r.GET("/health", health.Health)
	r.GET("/metrics", gin.WrapH(collector.Handler()))

	auth := controllers.NewAuthController(tokenService, refreshClient, cookieManager, collector)
	authRoutes := r.Group("/auth")
	{
		authRoutes.POST("/login", auth.Login)
		authRoutes.POST("/refresh", auth.Refresh)
		authRoutes.POST("/logout", auth.Logout)
		authRoutes.GET("/status", auth.Status)
		authRoutes.GET("/verify", auth.Verify)
	}

	memory := controllers.NewMemoryController(memoryService)
	memoryRoutes := r.Group("/memories", auth.RequireAuth())
	{
		memoryRoutes.POST("", memory.Save)
		memoryRoutes.GET("", memory.List)
		memoryRoutes.DELETE("/:id", memory.Delete)
	}

	note := controllers.NewNoteController(noteService)
	noteRoutes := r.Group("/notes", auth.RequireAuth())
	{
		noteRoutes.POST("", note.Save)
		noteRoutes.GET("", note.List)
		noteRoutes.GET("/search", note.Search)
		noteRoutes.DELETE("/:id", note.Delete)
	}

	admin := controllers.NewAdminController(cfg, subscriptionService)
	adminRoutes := r.Group("/admin", auth.RequireAuth(), admin.RequireAdmin())
	{
		adminRoutes.GET("/subscriptions/:userID", admin.Get)
		adminRoutes.POST("/subscriptions/:userID/upgrade", admin.Upgrade)
		adminRoutes.POST("/subscriptions/:userID/downgrade", admin.Downgrade)
		adminRoutes.POST("/subscriptions/:userID/cancel", admin.Cancel)
		adminRoutes.POST("/subscriptions/:userID/reset-usage", admin.ResetUsage)
	}

	slog.Info("server starting", "port", cfg.Port, "env", cfg.Env)

	if err := r.Run(":" + cfg.Port); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
