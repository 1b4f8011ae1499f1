package session

import "github.com/gin-gonic/gin"

func RegisterRoutes(rg *gin.RouterGroup, handler Handler) {
	rg.POST("/sessions", handler.CreateSession)
	rg.DELETE("/sessions", handler.DeleteSession)
	rg.GET("/users/me", handler.Me)
}
