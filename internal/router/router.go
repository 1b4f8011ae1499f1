package router

import (
	"backend/internal/app/board"
	"backend/internal/app/health"
	"backend/internal/app/session"
	"backend/internal/gateways/websocket"
	"backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Router struct {
	Engine *gin.Engine
}

func NewRouter(logger *zap.Logger) *Router {
	engine := gin.New()
	engine.Use(middleware.CORSMiddleware())
	engine.Use(middleware.LoggerMiddleware(logger))
	engine.Use(gin.Recovery())
	return &Router{Engine: engine}
}

func (r *Router) RegisterHealthRoutes(handler health.Handler) {
	health.RegisterRoutes(r.Engine.Group("/api"), handler)
}

func (r *Router) RegisterSessionRoutes(handler session.Handler) {
	session.RegisterRoutes(r.Engine.Group("/api"), handler)
}

func (r *Router) RegisterBoardRoutes(handler board.Handler, optionalAuth, requireAuth gin.HandlerFunc) {
	board.RegisterRoutes(r.Engine.Group("/api"), handler, optionalAuth, requireAuth)
}

func (r *Router) RegisterWebSocketRoutes(gateway *websocket.Gateway) {
	websocket.RegisterRoutes(r.Engine, gateway)
}

func (r *Router) Serve(addr string) error {
	return r.Engine.Run(addr)
}
