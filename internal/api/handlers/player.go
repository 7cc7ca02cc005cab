package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/pga-pick-tracker/internal/services"
	"github.com/stitts-dev/pga-pick-tracker/pkg/config"
	"github.com/stitts-dev/pga-pick-tracker/pkg/utils"
)

type PlayerHandler struct {
	fields  *services.FieldService
	fetcher *services.DataFetcherService
	cfg     *config.Config
	logger  *logrus.Logger
}

func NewPlayerHandler(fields *services.FieldService, fetcher *services.DataFetcherService, cfg *config.Config, logger *logrus.Logger) *PlayerHandler {
	return &PlayerHandler{fields: fields, fetcher: fetcher, cfg: cfg, logger: logger}
}

// GetPlayer returns a player's prediction breakdown for the selected tournament
func (h *PlayerHandler) GetPlayer(c *gin.Context) {
	name := strings.TrimSpace(c.Param("name"))
	if name == "" {
		utils.SendValidationError(c, "Player name is required", "")
		return
	}

	venue := venueFromQuery(c, h.fetcher, h.logger)
	detail, err := h.fields.PlayerDetail(c.Request.Context(), name, venue, h.cfg.SeasonYear)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SendSuccessWithMeta(c, detail, &utils.Meta{Tournament: venue.Tournament, Course: venue.Course})
}
