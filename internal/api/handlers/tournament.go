package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/pga-pick-tracker/internal/providers"
	"github.com/stitts-dev/pga-pick-tracker/internal/services"
	"github.com/stitts-dev/pga-pick-tracker/pkg/utils"
)

type TournamentHandler struct {
	fetcher *services.DataFetcherService
	logger  *logrus.Logger
}

func NewTournamentHandler(fetcher *services.DataFetcherService, logger *logrus.Logger) *TournamentHandler {
	return &TournamentHandler{fetcher: fetcher, logger: logger}
}

// GetCurrentTournament returns the event being picked for. ESPN failures degrade to a
// placeholder rather than an error.
func (h *TournamentHandler) GetCurrentTournament(c *gin.Context) {
	utils.SendSuccess(c, currentTournament(c.Request.Context(), h.fetcher, h.logger))
}

// Refresh pulls the current tournament from ESPN immediately
func (h *TournamentHandler) Refresh(c *gin.Context) {
	info, err := h.fetcher.RefreshNow(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Warn("Manual tournament refresh failed")
		utils.SendError(c, http.StatusBadGateway, utils.NewAppError(utils.ErrCodeUpstreamUnavailable, "Tournament data unavailable", err.Error()))
		return
	}
	utils.SendSuccess(c, info)
}

// GetWeeklyCheck reports data freshness and picks remaining
func (h *TournamentHandler) GetWeeklyCheck(c *gin.Context) {
	status, err := h.fetcher.WeeklyCheck(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SendSuccess(c, status)
}

func currentTournament(ctx context.Context, fetcher *services.DataFetcherService, logger *logrus.Logger) *providers.TournamentInfo {
	info, err := fetcher.CurrentTournament(ctx)
	if err != nil {
		logger.WithError(err).Warn("Current tournament unavailable")
		return providers.UnavailableTournament()
	}
	return info
}

// venueFromQuery reads ?tournament=&course=, defaulting to the current tournament
func venueFromQuery(c *gin.Context, fetcher *services.DataFetcherService, logger *logrus.Logger) services.Venue {
	venue := services.Venue{
		Tournament: strings.TrimSpace(c.Query("tournament")),
		Course:     strings.TrimSpace(c.Query("course")),
	}
	if venue.Tournament != "" || venue.Course != "" || fetcher == nil {
		return venue
	}

	info := currentTournament(c.Request.Context(), fetcher, logger)
	if info.Placeholder() {
		return venue
	}
	return services.Venue{Tournament: info.Name, Course: info.Course}
}
