package websocket

import "github.com/gin-gonic/gin"

func RegisterRoutes(rg gin.IRoutes, gateway *Gateway) {
	rg.GET("/ws", gateway.ServeWS)
}
