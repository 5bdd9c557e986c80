package routes

import (
	"chat-relay/internal/api/handlers"
	"chat-relay/internal/api/middleware"
	"chat-relay/internal/auth"
	"chat-relay/internal/service"
	"chat-relay/internal/store"
	"chat-relay/internal/ws"

	"github.com/gin-gonic/gin"
)

type Router struct {
	engine        *gin.Engine
	hub           *ws.Hub
	extractor     *auth.Extractor
	storeClient   *store.Client
	chatHandler   *handlers.ChatHandler
	userHandler   *handlers.UserHandler
	systemHandler *handlers.SystemHandler
}

func NewRouter(hub *ws.Hub, extractor *auth.Extractor, storeClient *store.Client) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	// Add middlewares
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS())
	engine.Use(middleware.LogApi())

	chatService := service.NewChatService(extractor, storeClient, hub)

	return &Router{
		engine:        engine,
		hub:           hub,
		extractor:     extractor,
		storeClient:   storeClient,
		chatHandler:   handlers.NewChatHandler(chatService),
		userHandler:   handlers.NewUserHandler(chatService),
		systemHandler: handlers.NewSystemHandler(chatService),
	}
}

func (r *Router) SetupRoutes() {
	r.engine.GET("/health", r.systemHandler.Health)

	// Realtime channel
	r.engine.GET("/ws", ws.ServeWS(r.hub, r.extractor, r.storeClient))

	api := r.engine.Group("/api")
	{
		api.POST("/user/profile", r.userHandler.GetProfile)
		api.GET("/messages", r.chatHandler.GetMessages)
		api.POST("/send_message", r.chatHandler.SendMessage)
		api.GET("/online_count", r.systemHandler.OnlineCount)
	}
}

func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
