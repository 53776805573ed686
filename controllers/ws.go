package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/bellapacxx/lottery-backend/services"
	"github.com/bellapacxx/lottery-backend/utils/logger"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// TODO: restrict this in production to your domains
		return true
	},
}

// RoundFeed upgrades the connection and subscribes it to live round state
func RoundFeed(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Errorf("[WS] upgrade error: %v", err)
		return
	}

	core.Hub.Register(services.NewClient(core.Hub, conn))
}
