package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/pga-pick-tracker/internal/services"
	"github.com/stitts-dev/pga-pick-tracker/internal/websocket"
	"github.com/stitts-dev/pga-pick-tracker/pkg/utils"
)

type PickHandler struct {
	picks     *services.PickService
	publisher services.EventPublisher
	logger    *logrus.Logger
}

func NewPickHandler(picks *services.PickService, publisher services.EventPublisher, logger *logrus.Logger) *PickHandler {
	return &PickHandler{picks: picks, publisher: publisher, logger: logger}
}

type addPickRequest struct {
	PlayerName     string     `json:"player_name" binding:"required"`
	TournamentName string     `json:"tournament_name" binding:"required"`
	TournamentDate *time.Time `json:"tournament_date"`
}

type pickResultRequest struct {
	PlayerName     string  `json:"player_name" binding:"required"`
	TournamentName string  `json:"tournament_name" binding:"required"`
	FinishPosition string  `json:"finish_position" binding:"required"`
	MoneyWon       float64 `json:"money_won"`
}

// ListPicks returns every pick with its result
func (h *PickHandler) ListPicks(c *gin.Context) {
	picks, err := h.picks.ListPicks(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SendSuccessWithMeta(c, picks, &utils.Meta{Total: int64(len(picks))})
}

// GetSummary returns season totals
func (h *PickHandler) GetSummary(c *gin.Context) {
	summary, err := h.picks.SeasonSummary(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SendSuccess(c, summary)
}

// GetUsedPlayers lists players already spent this season
func (h *PickHandler) GetUsedPlayers(c *gin.Context) {
	used, err := h.picks.UsedPlayerRecords(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SendSuccessWithMeta(c, used, &utils.Meta{Total: int64(len(used))})
}

// AddPick records a weekly pick
func (h *PickHandler) AddPick(c *gin.Context) {
	var req addPickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}

	pick, err := h.picks.AddPick(c.Request.Context(), req.PlayerName, req.TournamentName, req.TournamentDate)
	if err != nil {
		respondError(c, err)
		return
	}

	h.publisher.Publish(websocket.EventPickAdded, pick)
	utils.SendCreated(c, pick)
}

// AddHistoricalPicks backfills picks made before the tracker was in use
func (h *PickHandler) AddHistoricalPicks(c *gin.Context) {
	var req struct {
		Picks []services.HistoricalPick `json:"picks" binding:"required,min=1,dive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}

	if err := h.picks.AddHistoricalPicks(c.Request.Context(), req.Picks); err != nil {
		respondError(c, err)
		return
	}

	h.publisher.Publish(websocket.EventPickAdded, req.Picks)
	utils.SendCreated(c, gin.H{"added": len(req.Picks)})
}

// UpdateResult stores a pick's finish and winnings
func (h *PickHandler) UpdateResult(c *gin.Context) {
	var req pickResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}

	if err := h.picks.UpdatePickResult(c.Request.Context(), req.PlayerName, req.TournamentName, req.FinishPosition, req.MoneyWon); err != nil {
		respondError(c, err)
		return
	}

	h.publisher.Publish(websocket.EventPickUpdated, req)
	utils.SendSuccess(c, req)
}

// ClearSeason deletes every pick. Requires ?confirm=true.
func (h *PickHandler) ClearSeason(c *gin.Context) {
	if c.Query("confirm") != "true" {
		utils.SendValidationError(c, "Clearing the season requires confirm=true", "")
		return
	}

	if err := h.picks.ClearSeason(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}

	h.publisher.Publish(websocket.EventSeasonCleared, nil)
	utils.SendSuccess(c, gin.H{"cleared": true})
}
