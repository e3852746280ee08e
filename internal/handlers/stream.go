package handlers

import (
	"io"

	"github.com/gin-gonic/gin"

	"healthpulse-server/internal/middleware"
	"healthpulse-server/internal/notify"
	"healthpulse-server/internal/utils"
)

// StreamHandler pushes the user's realtime events over server-sent events.
type StreamHandler struct {
	Hub *notify.Hub
}

// NewStreamHandler creates a new StreamHandler.
func NewStreamHandler(hub *notify.Hub) *StreamHandler {
	return &StreamHandler{Hub: hub}
}

// Events subscribes the authenticated user to their event stream. The
// connection stays open until the client disconnects.
func (h *StreamHandler) Events(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	events, cancel := h.Hub.Subscribe(userID)
	defer cancel()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case event, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent("message", event)
			return true
		}
	})
}
