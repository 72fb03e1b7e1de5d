package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/connect4-solo/backend/internal/analytics"
	"github.com/iamasit07/connect4-solo/backend/internal/config"
	"github.com/iamasit07/connect4-solo/backend/internal/repository/postgres"
	"github.com/iamasit07/connect4-solo/backend/internal/repository/redis"
	"github.com/iamasit07/connect4-solo/backend/internal/service/bot"
	"github.com/iamasit07/connect4-solo/backend/internal/service/cleanup"
	"github.com/iamasit07/connect4-solo/backend/internal/service/game"
	transportHttp "github.com/iamasit07/connect4-solo/backend/internal/transport/http"
	"github.com/iamasit07/connect4-solo/backend/internal/transport/http/middleware"
	"github.com/iamasit07/connect4-solo/backend/internal/transport/websocket"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../.env"); err != nil {
			log.Println("No .env file found")
		}
	}

	cfg := config.LoadConfig()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Game archive (optional)
	var gameRepo *postgres.GameRepo
	if cfg.DatabaseURL != "" {
		db, err := postgres.Connect(cfg.DatabaseURL, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns, cfg.DBConnMaxLifetimeMin)
		if err != nil {
			log.Fatal("Failed to connect to database:", err)
		}
		defer db.Close()

		log.Println("Running database migrations...")
		if err := postgres.RunMigrations(db); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		log.Println("Database migration completed successfully")
		gameRepo = postgres.NewGameRepo(db)
	} else {
		log.Println("[DB] DATABASE_URL not set, finished games will not be archived")
	}

	// 2. Move cache (optional)
	var cache bot.MoveCache
	if cfg.RedisEnabled {
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		moveCache, err := redis.Connect(pingCtx, cfg.RedisURL, cfg.RedisPassword)
		cancel()
		if err != nil {
			log.Printf("[REDIS] Warning: %v. Hard moves will not be cached.", err)
		} else {
			log.Println("[REDIS] Connected successfully")
			defer moveCache.Close()
			cache = moveCache
		}
	}

	// 3. Analytics (optional)
	producer := analytics.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
	defer producer.Close()

	// 4. Services
	engine := bot.NewEngine(time.Now().UnixNano(), cache, cfg.MoveCacheTTL)

	var repo game.GameRepository
	var archive transportHttp.GameArchive
	var pruner cleanup.ArchivePruner
	if gameRepo != nil {
		repo, archive, pruner = gameRepo, gameRepo, gameRepo
	}
	var events game.EventPublisher
	if producer != nil {
		events = producer
	}

	sessionManager := game.NewSessionManager(engine, repo, events)
	sessionManager.BotMoveDelay = cfg.BotMoveDelay
	connManager := websocket.NewConnectionManager()
	sessionManager.SetNotifier(connManager)

	// 5. Background workers
	cleanupWorker := cleanup.NewWorker(sessionManager, pruner, cfg.CleanupInterval, cfg.SessionIdleTimeout, cfg.FinishedSessionTTL, cfg.GameRetentionDays)
	go cleanupWorker.Start(ctx)

	// 6. HTTP handlers
	gameHandler := transportHttp.NewGameHandler(sessionManager, cfg.DefaultDifficulty)
	aiHandler := transportHttp.NewAIHandler(engine, cfg.DefaultDifficulty)
	historyHandler := transportHttp.NewHistoryHandler(archive)
	watchHandler := transportHttp.NewWatchHandler(sessionManager)
	healthHandler := &transportHttp.HealthHandler{
		Archive: gameRepo != nil,
		Cache:   cache != nil,
		Events:  producer != nil,
	}
	wsHandler := websocket.NewHandler(connManager, sessionManager, cfg.AllowedOrigins)

	// 7. Router
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	router.GET("/healthz", healthHandler.Healthz)

	api := router.Group("/api")
	{
		api.POST("/games", gameHandler.CreateGame)
		api.GET("/games", watchHandler.GetLiveGames)
		api.GET("/games/:id", gameHandler.GetGame)
		api.POST("/games/:id/moves", gameHandler.MakeMove)
		api.POST("/games/:id/restart", gameHandler.Restart)

		api.POST("/ai/move", aiHandler.ChooseMove)

		api.GET("/history", historyHandler.GetHistory)
		api.GET("/history/:id", historyHandler.GetGameDetails)
	}

	router.GET("/ws", wsHandler.HandleWebSocket)

	// Serve static frontend files (SPA fallback)
	if _, err := os.Stat("./static"); err == nil {
		router.Static("/assets", "./static/assets")

		router.GET("/", func(c *gin.Context) {
			c.File("./static/index.html")
		})

		router.NoRoute(func(c *gin.Context) {
			path := "./static" + c.Request.URL.Path

			// Serve actual static files if they exist
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				c.File(path)
				return
			}

			// For asset requests that don't exist, return 404
			if strings.HasPrefix(c.Request.URL.Path, "/assets/") || strings.HasSuffix(c.Request.URL.Path, ".css") || strings.HasSuffix(c.Request.URL.Path, ".js") {
				c.Status(http.StatusNotFound)
				return
			}

			c.File("./static/index.html")
		})
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	sessionManager.Drain()

	log.Println("Server exited gracefully")
}
