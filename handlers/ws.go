package handlers

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"
)

// Event types pushed to connected clients. A client re-fetches on receipt,
// mirroring the realtime-database listeners of the mobile app.
const (
	EventRequestCreated       = "request:created"
	EventRequestAccepted      = "request:accepted"
	EventRequestRejected      = "request:rejected"
	EventCollaborationUpdated = "collaboration:updated"
	EventCollaborationRemoved = "collaboration:removed"
)

type WSHandler struct {
	M *melody.Melody
}

func NewWSHandler() *WSHandler {
	m := melody.New()

	m.Config.MaxMessageSize = 1024 * 1024
	m.Config.PingPeriod = 30 * time.Second
	m.Config.PongWait = 60 * time.Second

	m.HandleConnect(func(s *melody.Session) {
		userID, _ := s.Get("user_id")
		log.Printf("✅ Client connected for user: %v", userID)
	})

	m.HandleDisconnect(func(s *melody.Session) {
		userID, _ := s.Get("user_id")
		log.Printf("🔌 Client disconnected for user: %v", userID)
	})

	m.HandleError(func(s *melody.Session, err error) {
		log.Printf("❌ WebSocket error: %v", err)
	})

	return &WSHandler{M: m}
}

// HandleWS upgrades the connection and pins it to the user id in the path.
func (h *WSHandler) HandleWS(c *gin.Context) {
	userID := c.Param("id")

	err := h.M.HandleRequestWithKeys(c.Writer, c.Request, map[string]interface{}{
		"user_id": userID,
	})
	if err != nil {
		log.Printf("❌ Failed to upgrade websocket: %v", err)
	}
}

// NotifyUser pushes an event signal to every session of the given user.
func (h *WSHandler) NotifyUser(userID, eventType string, payload interface{}) {
	msg, err := json.Marshal(gin.H{"type": eventType, "payload": payload})
	if err != nil {
		log.Printf("⚠️ Failed to encode ws event %s: %v", eventType, err)
		return
	}

	err = h.M.BroadcastFilter(msg, func(s *melody.Session) bool {
		id, exists := s.Get("user_id")
		return exists && id == userID
	})
	if err != nil {
		log.Printf("⚠️ Error broadcasting to user %s: %v", userID, err)
	}
}
