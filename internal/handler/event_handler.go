package handler

import (
	"log"
	"net/http"

	"github.com/XYZ1020411/daily-gem-oasis-sub000/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
)

// EventHandler streams account events (balance changes, exchange status
// changes) to the owning client over a websocket fed by redis pub/sub.
type EventHandler struct {
	redisClient *redis.Client
	upgrader    websocket.Upgrader
}

func NewEventHandler(redisClient *redis.Client) *EventHandler {
	return &EventHandler{
		redisClient: redisClient,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

func (h *EventHandler) HandleWebSocket(c *gin.Context) {
	userIDStr := c.GetString("user_id")
	if userIDStr == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if h.redisClient == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "event stream is not available"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade websocket: %v", err)
		return
	}
	defer conn.Close()

	channel := service.AccountEventChannel(userIDStr)
	pubsub := h.redisClient.Subscribe(c.Request.Context(), channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(c.Request.Context()); err != nil {
		log.Printf("Failed to subscribe to redis channel: %v", err)
		return
	}

	clientClosed := make(chan struct{})
	go func() {
		defer close(clientClosed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	h.streamEvents(conn, pubsub.Channel(), clientClosed, c.Request.Context().Done())
}

// streamEvents forwards pub/sub payloads to the websocket until the event
// channel closes, the client hangs up, or the request ends.
func (h *EventHandler) streamEvents(conn *websocket.Conn, ch <-chan *redis.Message, clientClosed <-chan struct{}, done <-chan struct{}) {
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			// Payload is already the JSON-encoded event.
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				log.Printf("Failed to write message to websocket: %v", err)
				return
			}
		case <-clientClosed:
			return
		case <-done:
			return
		}
	}
}
