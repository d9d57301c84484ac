package http

import (
	"time"

	"github.com/gin-gonic/gin"

	appsvc "kbbridge/internal/app"
	"kbbridge/internal/bootstrap"
	"kbbridge/internal/cache"
	rabbitmqClient "kbbridge/internal/platform/rabbitmq"
	"kbbridge/internal/repository"
	"kbbridge/internal/transport/http/handler"
	"kbbridge/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	cfg := app.Config
	gateways := appsvc.NewRemoteGateway

	historyCache := cache.NewHistoryCache(app.Redis, time.Duration(cfg.Redis.HistoryTTLSeconds)*time.Second)
	cooldownCache := cache.NewCooldownCache(app.Redis, time.Duration(cfg.Redis.CooldownTTLSeconds)*time.Second)
	messagePublisher := rabbitmqClient.NewMessagePublisher(app.MQConn, cfg.RabbitMQ.MessagePersistQueue)
	eventPublisher := rabbitmqClient.NewSyncEventPublisher(app.MQConn, cfg.RabbitMQ.SyncEventQueue)

	authService := appsvc.NewAuthService(
		repository.NewUserRepository(app.MySQL),
		cfg.Auth.JWTSecret,
		time.Duration(cfg.Auth.JWTExpireMinute)*time.Minute,
	)
	instanceService := appsvc.NewInstanceService(app.MySQL, gateways)
	collectionService := appsvc.NewCollectionService(app.MySQL, gateways)
	lifecycle := appsvc.NewDocumentLifecycle(app.MySQL, gateways)
	chunkSync := appsvc.NewChunkSync(app.MySQL, gateways, cfg.Sync.ChunkPageSize)
	coordinator := appsvc.NewSyncCoordinator(app.MySQL)
	batchRunner := appsvc.NewBatchRunner(
		app.MySQL,
		coordinator,
		lifecycle,
		chunkSync,
		gateways,
		eventPublisher,
		time.Duration(cfg.Sync.CooldownSeconds)*time.Second,
	)
	chatService := appsvc.NewAssistantChatService(app.MySQL, gateways, messagePublisher, historyCache)

	authHandler := handler.NewAuthHandler(authService)
	instanceHandler := handler.NewInstanceHandler(instanceService)
	collectionHandler := handler.NewCollectionHandler(collectionService)
	documentHandler := handler.NewDocumentHandler(lifecycle, chunkSync, cfg.Sync.UploadDir)
	assistantHandler := handler.NewAssistantHandler(chatService, repository.NewAssistantRepository(app.MySQL))
	catalogHandler := handler.NewCatalogHandler(
		repository.NewAgentRepository(app.MySQL),
		repository.NewLLMModelRepository(app.MySQL),
	)
	syncHandler := handler.NewSyncHandler(batchRunner, cooldownCache)

	v1 := router.Group("/api/v1")
	authGroup := v1.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.GET("/me", middleware.AuthJWT(cfg.Auth.JWTSecret), authHandler.Me)

	protected := v1.Group("")
	protected.Use(middleware.AuthJWT(cfg.Auth.JWTSecret))

	instances := protected.Group("/instances")
	instances.POST("", instanceHandler.Create)
	instances.GET("", instanceHandler.List)
	instances.GET("/:id", instanceHandler.Get)
	instances.GET("/:id/health", instanceHandler.CheckHealth)
	instances.GET("/:id/collections", collectionHandler.ListByInstance)
	instances.POST("/:id/collections/sync", syncHandler.SyncCollections)
	instances.GET("/:id/assistants", assistantHandler.ListByInstance)
	instances.POST("/:id/assistants/sync", syncHandler.SyncAssistants)
	instances.GET("/:id/agents", catalogHandler.ListAgents)
	instances.POST("/:id/agents/sync", syncHandler.SyncAgents)
	instances.GET("/:id/models", catalogHandler.ListModels)
	instances.POST("/:id/models/sync", syncHandler.SyncModels)

	collections := protected.Group("/collections")
	collections.POST("", collectionHandler.Create)
	collections.DELETE("/:id", collectionHandler.Delete)
	collections.POST("/:id/documents", documentHandler.Upload)
	collections.GET("/:id/documents", documentHandler.List)
	collections.POST("/:id/documents/sync", syncHandler.SyncDocuments)
	collections.POST("/:id/documents/retry", syncHandler.RetryFailedDocuments)

	documents := protected.Group("/documents")
	documents.GET("/:id", documentHandler.Get)
	documents.POST("/:id/upload", documentHandler.Push)
	documents.POST("/:id/parse", documentHandler.StartParse)
	documents.POST("/:id/stop", documentHandler.StopParse)
	documents.POST("/:id/poll", documentHandler.Poll)
	documents.POST("/:id/retry", documentHandler.Retry)
	documents.POST("/:id/sync-chunks", documentHandler.SyncChunks)
	documents.DELETE("/:id", documentHandler.Delete)

	assistants := protected.Group("/assistants")
	assistants.POST("/:id/messages", assistantHandler.SendMessage)
	assistants.GET("/:id/history", assistantHandler.GetHistory)

	return router
}
