package main

import (
	"fmt"
	"log"

	"github.com/JillVernus/learn-tube/internal/catalog"
	"github.com/JillVernus/learn-tube/internal/config"
	"github.com/JillVernus/learn-tube/internal/database"
	"github.com/JillVernus/learn-tube/internal/genai"
	"github.com/JillVernus/learn-tube/internal/handlers"
	"github.com/JillVernus/learn-tube/internal/logger"
	"github.com/JillVernus/learn-tube/internal/middleware"
	"github.com/JillVernus/learn-tube/internal/profile"
	"github.com/JillVernus/learn-tube/internal/quota"
	"github.com/JillVernus/learn-tube/internal/recommend"
	"github.com/JillVernus/learn-tube/internal/rotation"
	"github.com/JillVernus/learn-tube/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables or defaults")
	}

	envCfg := config.NewEnvConfig()

	logCfg := &logger.Config{
		LogDir:     envCfg.LogDir,
		LogFile:    envCfg.LogFile,
		MaxSize:    envCfg.LogMaxSize,
		MaxBackups: envCfg.LogMaxBackups,
		MaxAge:     envCfg.LogMaxAge,
		Compress:   envCfg.LogCompress,
		Console:    envCfg.LogToConsole,
	}
	if err := logger.Setup(logCfg); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}

	settingsManager, err := config.NewSettingsManager(".config/settings.json")
	if err != nil {
		log.Fatalf("Failed to initialize settings manager: %v", err)
	}
	defer settingsManager.Close()

	db, err := database.New(database.ConfigFromEnv())
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	blobStore, err := store.New(db)
	if err != nil {
		log.Fatalf("Failed to initialize blob store: %v", err)
	}

	quotaTracker := quota.NewTracker(envCfg.QuotaDailyLimit, blobStore)
	log.Printf("✅ Quota tracker initialized (daily limit: %d units)", envCfg.QuotaDailyLimit)

	rotationTracker := rotation.NewTracker(blobStore)
	log.Printf("✅ Rotation tracker initialized (%d catalog keys, %d genai keys)",
		len(envCfg.YouTubeAPIKeys), len(envCfg.GeminiAPIKeys))

	profileManager := profile.NewManager(blobStore)

	catalogClient := catalog.NewClient(envCfg.YouTubeAPIKeys, settingsManager, quotaTracker, rotationTracker)
	if !catalogClient.IsConfigured() {
		log.Printf("⚠️ No catalog API key configured, serving mock data only")
	}

	genaiClient := genai.NewClient(envCfg.GeminiAPIKeys, settingsManager, rotationTracker)
	if !genaiClient.IsConfigured() {
		log.Printf("⚠️ No generative-text API key configured, learning features disabled")
	}

	engine := recommend.NewEngine(catalogClient, profileManager, settingsManager)

	if envCfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// gin.New instead of gin.Default keeps the request logger out of
	// normal operation; LOG_LEVEL=debug turns it back on
	r := gin.New()
	r.Use(gin.Recovery())
	if envCfg.ShouldLog("debug") {
		r.Use(gin.Logger())
	}
	r.Use(middleware.SecurityHeadersMiddleware())
	if envCfg.EnableCORS {
		r.Use(middleware.CORSMiddleware(envCfg))
	}

	videoHandler := handlers.NewVideoHandler(catalogClient, profileManager)
	learningHandler := handlers.NewLearningHandler(genaiClient, rotationTracker)
	profileHandler := handlers.NewProfileHandler(profileManager, engine)
	quotaHandler := handlers.NewQuotaHandler(quotaTracker, rotationTracker)

	r.GET(envCfg.HealthCheckPath, handlers.HealthCheck())

	api := r.Group("/api")
	{
		api.GET("/videos/popular", videoHandler.Popular)
		api.GET("/videos/search", videoHandler.Search)
		api.GET("/videos/:id", videoHandler.Detail)
		api.GET("/videos/:id/related", videoHandler.Related)
		api.GET("/videos/:id/comments", videoHandler.Comments)
		api.GET("/channels/:id", videoHandler.Channel)

		api.GET("/learning/status", learningHandler.Status)
		api.POST("/learning/summary", learningHandler.Summarize)
		api.POST("/learning/notes", learningHandler.Notes)
		api.POST("/learning/chat", learningHandler.Chat)
		api.POST("/learning/test", learningHandler.Test)

		api.POST("/profile/watch", profileHandler.RecordWatch)
		api.GET("/profile/history", profileHandler.History)
		api.GET("/profile/interests", profileHandler.Interests)
		api.GET("/profile/search-history", profileHandler.SearchHistory)
		api.PUT("/profile/search-history", profileHandler.SetSearchHistory)
		api.GET("/profile/preferences", profileHandler.Preferences)
		api.PUT("/profile/preferences", profileHandler.SetPreferences)

		api.GET("/recommendations", profileHandler.Recommendations)

		api.GET("/quota", quotaHandler.Status)
		api.POST("/quota/reset", quotaHandler.Reset)
	}

	addr := fmt.Sprintf(":%d", envCfg.Port)
	log.Printf("🚀 Server listening on %s (env: %s)", addr, envCfg.Env)
	if err := r.Run(addr); err != nil {
		log.Fatalf("Server exited: %v", err)
	}
}
