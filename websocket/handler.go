package websocket

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin checking is handled by the CORS layer in front of the router.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// MilestoneFeedHandler upgrades the connection and streams milestone unlock
// events for the authenticated user until the client disconnects.
func MilestoneFeedHandler(c *gin.Context) {
	userID := c.GetString("userId")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Websocket upgrade failed: %v", err)
		return
	}

	client := &MilestoneClient{Conn: conn, UserID: userID}
	RegisterMilestoneClient(client)
	defer UnregisterMilestoneClient(client)

	// Drain reads so ping/pong and close frames are processed; the feed is
	// write-only from the server side.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
