package handlers

import (
	"io"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/pga-pick-tracker/internal/services"
	"github.com/stitts-dev/pga-pick-tracker/internal/websocket"
	"github.com/stitts-dev/pga-pick-tracker/pkg/utils"
)

type HistoryHandler struct {
	history   *services.HistoryService
	publisher services.EventPublisher
	logger    *logrus.Logger
}

func NewHistoryHandler(history *services.HistoryService, publisher services.EventPublisher, logger *logrus.Logger) *HistoryHandler {
	return &HistoryHandler{history: history, publisher: publisher, logger: logger}
}

// ImportHistory loads a historical results CSV, sent either as the multipart field "file"
// or as the raw request body
func (h *HistoryHandler) ImportHistory(c *gin.Context) {
	sep, ok := services.ParseSeparator(c.Query("sep"))
	if !ok {
		utils.SendValidationError(c, "Unsupported separator", c.Query("sep"))
		return
	}

	var body io.Reader = c.Request.Body
	if file, err := c.FormFile("file"); err == nil {
		f, err := file.Open()
		if err != nil {
			utils.SendValidationError(c, "Unreadable upload", err.Error())
			return
		}
		defer f.Close()
		body = f
	}

	report, err := h.history.ImportCSV(c.Request.Context(), body, sep)
	if err != nil {
		respondError(c, err)
		return
	}

	h.publisher.Publish(websocket.EventHistoryRebuilt, report)
	utils.SendSuccess(c, report)
}

// RebuildHistory recomputes course-history summaries from the stored ledger
func (h *HistoryHandler) RebuildHistory(c *gin.Context) {
	count, err := h.history.RebuildCourseHistory(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	h.publisher.Publish(websocket.EventHistoryRebuilt, gin.H{"summaries": count})
	utils.SendSuccess(c, gin.H{"summaries": count})
}
