package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ooawamleh/LegalMind-AI/internal/agent"
	appsvc "github.com/ooawamleh/LegalMind-AI/internal/app"
	"github.com/ooawamleh/LegalMind-AI/internal/bootstrap"
	"github.com/ooawamleh/LegalMind-AI/internal/cache"
	"github.com/ooawamleh/LegalMind-AI/internal/ingest"
	"github.com/ooawamleh/LegalMind-AI/internal/platform/rabbitmq"
	"github.com/ooawamleh/LegalMind-AI/internal/repository"
	"github.com/ooawamleh/LegalMind-AI/internal/retriever"
	"github.com/ooawamleh/LegalMind-AI/internal/search"
	"github.com/ooawamleh/LegalMind-AI/internal/tools"
	"github.com/ooawamleh/LegalMind-AI/internal/transport/http/handler"
	"github.com/ooawamleh/LegalMind-AI/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	userRepo := repository.NewUserRepository(app.MySQL)
	sessionRepo := repository.NewSessionRepository(app.MySQL)
	fileRepo := repository.NewSessionFileRepository(app.MySQL)
	messageRepo := repository.NewMessageRepository(app.MySQL)

	historyCache := cache.NewHistoryCache(
		app.Redis,
		time.Duration(app.Config.Redis.HistoryTTLSeconds)*time.Second,
		time.Duration(app.Config.Redis.HistoryDirtyTTLSeconds)*time.Second,
	)
	publisher := rabbitmq.NewMessagePublisher(app.MQConn, app.Config.RabbitMQ.MessagePersistQueue)

	authService := appsvc.NewAuthService(
		userRepo,
		app.Config.Auth.JWTSecret,
		time.Duration(app.Config.Auth.JWTExpireMinute)*time.Minute,
	)
	sessionService := appsvc.NewSessionService(sessionRepo, fileRepo, messageRepo, app.VectorStore, historyCache)
	chatService := appsvc.NewChatService(messageRepo, historyCache, publisher)

	processor := ingest.NewProcessor(app.LLM, app.LLM, app.VectorStore, app.Config.Ingest.KeepSourceFiles)
	documentService := appsvc.NewDocumentService(fileRepo, processor, app.VectorStore, app.Config.Ingest.UploadDir)

	scopedRetriever := retriever.NewScopedRetriever(
		fileRepo,
		app.LLM,
		app.LLM,
		app.VectorStore,
		app.Config.Agent.RetrieveK,
		app.Config.Agent.RetrieveFetchK,
	)
	searcher := search.NewSerpAPIClient(app.Config.Search.SerpAPIKey)
	registry := tools.NewRegistry(scopedRetriever, app.LLM, app.LLM, searcher)
	loop := agent.NewLoop(
		app.LLM,
		registry,
		chatService,
		chatService,
		app.Config.Agent.PreambleThreshold,
		app.Config.Agent.MaxToolCalls,
	)

	authHandler := handler.NewAuthHandler(authService)
	sessionHandler := handler.NewSessionHandler(sessionService, chatService)
	documentHandler := handler.NewDocumentHandler(sessionService, documentService)
	analyzeHandler := handler.NewAnalyzeHandler(sessionService, loop)

	v1 := router.Group("/api/v1")
	authGroup := v1.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.GET("/me", middleware.AuthJWT(app.Config.Auth.JWTSecret), authHandler.Me)

	secured := v1.Group("")
	secured.Use(middleware.AuthJWT(app.Config.Auth.JWTSecret))
	secured.GET("/sessions", sessionHandler.List)
	secured.POST("/sessions", sessionHandler.Create)
	secured.PATCH("/sessions/:session_id", sessionHandler.Rename)
	secured.POST("/sessions/:session_id/auto-title", sessionHandler.AutoTitle)
	secured.DELETE("/sessions/:session_id", sessionHandler.Delete)
	secured.GET("/sessions/:session_id/history", sessionHandler.History)
	secured.GET("/sessions/:session_id/files", documentHandler.List)
	secured.DELETE("/sessions/:session_id/files/:file_id", documentHandler.Delete)
	secured.POST("/upload", documentHandler.Upload)
	secured.POST("/analyze", analyzeHandler.Analyze)

	return router
}
