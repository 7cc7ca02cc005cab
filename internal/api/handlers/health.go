package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stitts-dev/pga-pick-tracker/internal/websocket"
	"github.com/stitts-dev/pga-pick-tracker/pkg/database"
)

type HealthHandler struct {
	db  *database.DB
	hub *websocket.Hub
}

func NewHealthHandler(db *database.DB, hub *websocket.Hub) *HealthHandler {
	return &HealthHandler{db: db, hub: hub}
}

// GetHealth reports liveness and whether the database answers
func (h *HealthHandler) GetHealth(c *gin.Context) {
	status := http.StatusOK
	dbStatus := "ok"

	sqlDB, err := h.db.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		status = http.StatusServiceUnavailable
		dbStatus = err.Error()
	}

	c.JSON(status, gin.H{
		"status":      http.StatusText(status),
		"service":     "pga-pick-tracker",
		"database":    dbStatus,
		"connections": h.hub.GetConnectionCount(),
		"time":        time.Now().UTC(),
	})
}
