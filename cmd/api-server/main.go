package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/binhbb2204/Anime-Hub-Group13/internal/achievement"
	"github.com/binhbb2204/Anime-Hub-Group13/internal/animelist"
	"github.com/binhbb2204/Anime-Hub-Group13/internal/auth"
	"github.com/binhbb2204/Anime-Hub-Group13/internal/avatar"
	"github.com/binhbb2204/Anime-Hub-Group13/internal/health"
	"github.com/binhbb2204/Anime-Hub-Group13/internal/jikan"
	"github.com/binhbb2204/Anime-Hub-Group13/internal/notify"
	"github.com/binhbb2204/Anime-Hub-Group13/internal/progress"
	"github.com/binhbb2204/Anime-Hub-Group13/internal/recommend"
	"github.com/binhbb2204/Anime-Hub-Group13/internal/subscription"
	"github.com/binhbb2204/Anime-Hub-Group13/pkg/config"
	"github.com/binhbb2204/Anime-Hub-Group13/pkg/database"
	"github.com/binhbb2204/Anime-Hub-Group13/pkg/logger"
	"github.com/binhbb2204/Anime-Hub-Group13/pkg/metrics"
	"github.com/binhbb2204/Anime-Hub-Group13/pkg/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Init(logger.INFO, false, os.Stderr)
		logger.Error("failed_to_load_config", "error", err.Error())
		os.Exit(1)
	}

	logger.Init(logger.LogLevel(cfg.Logging.Level), cfg.Logging.Format == "json", os.Stdout)
	log := logger.WithContext("component", "api_server")
	log.Info("starting_api_server", "version", "1.0.0", "addr", cfg.Addr())

	if err := database.InitDatabase(cfg.Database.Path); err != nil {
		log.Error("failed_to_initialize_database", "error", err.Error(), "path", cfg.Database.Path)
		os.Exit(1)
	}
	defer database.Close()
	db := database.DB

	if cfg.UsingDefaultSecret() {
		log.Warn("using_default_jwt_secret", "message", "Set JWT_SECRET in production!")
	}

	cache, err := jikan.NewBadgerCache()
	if err != nil {
		log.Error("failed_to_open_cache", "error", err.Error())
		os.Exit(1)
	}
	source := jikan.NewClient(jikan.Options{
		BaseURL:           cfg.Jikan.BaseURL,
		Timeout:           cfg.Jikan.Timeout,
		RequestInterval:   cfg.Jikan.RequestInterval,
		SearchCacheTTL:    cfg.Jikan.SearchCacheTTL,
		RecommendCacheTTL: cfg.Jikan.RecommendCacheTTL,
		Cache:             cache,
	})
	defer source.Close()

	broker := notify.NewBroker()
	revoked := auth.NewRevoker()

	lists := animelist.NewSQLStore(db)
	achievements := achievement.NewSQLStore(db)
	billing := subscription.NewService(subscription.NewSQLStore(db), cfg.Billing, broker)
	icons := avatar.NewDirStore(cfg.Avatars.Dir, cfg.Avatars.PublicBaseURL)

	authHandler := auth.NewHandler(db, cfg.Auth.JWTSecret, revoked)
	listHandler := animelist.NewHandler(lists, broker)
	progressHandler := progress.NewHandler(progress.NewSQLStore(db), lists, achievements, billing, broker)
	achievementHandler := achievement.NewHandler(lists, achievements, billing, broker)
	recommendHandler := recommend.NewHandler(recommend.NewEngine(source), lists, billing)
	avatarHandler := avatar.NewHandler(icons, lists, billing, avatar.NewSQLProfileStore(db))
	billingHandler := subscription.NewHandler(billing, cfg.Billing.WebhookSecret)
	searchHandler := jikan.NewHandler(source)
	healthHandler := health.NewHandler(db, source)
	metricsHandler := metrics.NewHandler()
	wsServer := notify.NewWSServer(broker, cfg.Auth.JWTSecret, revoked)

	if cfg.Logging.Level != string(logger.DEBUG) {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), logger.GinMiddleware(logger.GetLogger()), metrics.Middleware())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.FrontendURL}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	corsConfig.ExposeHeaders = []string{"Content-Length"}
	corsConfig.AllowCredentials = true
	router.Use(cors.New(corsConfig))

	router.GET("/healthz", healthHandler.Healthz)
	router.GET("/readyz", healthHandler.Readyz)
	router.GET("/metrics", metricsHandler.Metrics)
	router.GET("/metrics/summary", metricsHandler.Summary)
	router.Static("/static/avatars", icons.Root())

	requireAuth := auth.AuthMiddleware(cfg.Auth.JWTSecret, revoked)

	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
	}
	protectedAuth := router.Group("/auth")
	protectedAuth.Use(requireAuth)
	{
		protectedAuth.POST("/logout", authHandler.Logout)
		protectedAuth.POST("/change-password", authHandler.ChangePassword)
	}

	router.GET("/anime/search", searchHandler.Search)

	me := router.Group("/users/me")
	me.Use(requireAuth)
	{
		me.GET("", authHandler.Me)

		me.GET("/anime", listHandler.GetList)
		me.POST("/anime", listHandler.AddAnime)
		me.GET("/anime/:id", listHandler.GetEntry)
		me.PUT("/anime/:id", listHandler.UpdateAnime)
		me.DELETE("/anime/:id", listHandler.RemoveAnime)

		me.GET("/anime/:id/progress", progressHandler.GetProgress)
		me.PUT("/anime/:id/progress", progressHandler.UpdateProgress)

		me.GET("/stats", achievementHandler.GetStats)
		me.GET("/achievements", achievementHandler.GetAchievements)

		me.GET("/recommendations", recommendHandler.GetRecommendations)
		me.GET("/genres", recommendHandler.GetGenres)

		me.GET("/avatars", avatarHandler.ListAvatars)
		me.GET("/avatars/progress", billingHandler.RequirePremium(), avatarHandler.GetProgress)
		me.PUT("/avatar", avatarHandler.SetAvatar)

		me.GET("/events", broker.ServeSSE)
	}

	billingGroup := router.Group("/billing")
	billingGroup.POST("/webhook", billingHandler.Webhook)
	billingGroup.Use(requireAuth)
	{
		billingGroup.POST("/check-subscription", billingHandler.CheckSubscription)
		billingGroup.POST("/create-checkout", billingHandler.CreateCheckout)
		billingGroup.POST("/customer-portal", billingHandler.CustomerPortal)
	}

	router.GET("/ws", wsServer.HandleWebSocket)

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: router,
	}

	go func() {
		log.Info("api_server_listening", "addr", cfg.Addr(), "lan_ip", utils.GetLocalIP())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("failed_to_start_api_server", "error", err.Error())
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting_down", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("forced_shutdown", "error", err.Error())
	}
	log.Info("api_server_stopped")
}
