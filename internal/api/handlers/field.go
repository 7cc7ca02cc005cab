package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/pga-pick-tracker/internal/export"
	"github.com/stitts-dev/pga-pick-tracker/internal/services"
	"github.com/stitts-dev/pga-pick-tracker/pkg/config"
	"github.com/stitts-dev/pga-pick-tracker/pkg/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type FieldHandler struct {
	fields  *services.FieldService
	picks   *services.PickService
	fetcher *services.DataFetcherService
	cfg     *config.Config
	logger  *logrus.Logger
}

func NewFieldHandler(fields *services.FieldService, picks *services.PickService, fetcher *services.DataFetcherService, cfg *config.Config, logger *logrus.Logger) *FieldHandler {
	return &FieldHandler{fields: fields, picks: picks, fetcher: fetcher, cfg: cfg, logger: logger}
}

// parseFieldRequest reads the field query parameters, falling back to configured defaults
func (h *FieldHandler) parseFieldRequest(c *gin.Context) (services.FieldRequest, error) {
	req := services.FieldRequest{
		Venue:             venueFromQuery(c, h.fetcher, h.logger),
		Season:            h.cfg.SeasonYear,
		FieldStrength:     c.Query("field_strength"),
		MinWinProbability: h.cfg.MinWinProbability,
		HideUsed:          !h.cfg.ShowUsedPlayers,
		Filter:            c.Query("filter"),
		Limit:             h.cfg.DefaultPlayersShown,
	}

	if v := c.Query("min_win_probability"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return req, fmt.Errorf("min_win_probability: %w", err)
		}
		req.MinWinProbability = p
	}
	if v := c.Query("hide_used"); v != "" {
		hide, err := strconv.ParseBool(v)
		if err != nil {
			return req, fmt.Errorf("hide_used: %w", err)
		}
		req.HideUsed = hide
	}
	if v := c.Query("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			return req, fmt.Errorf("limit must be a non-negative integer")
		}
		req.Limit = limit
	}
	if v := c.Query("season"); v != "" {
		season, err := strconv.Atoi(v)
		if err != nil {
			return req, fmt.Errorf("season: %w", err)
		}
		req.Season = season
	}
	return req, nil
}

// GetField returns the ranked field for a tournament
func (h *FieldHandler) GetField(c *gin.Context) {
	req, err := h.parseFieldRequest(c)
	if err != nil {
		utils.SendValidationError(c, "Invalid query parameters", err.Error())
		return
	}

	ranked, err := h.fields.RankedField(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SendSuccessWithMeta(c, ranked.Entries, &utils.Meta{
		Total:         int64(ranked.FieldSize),
		Tournament:    ranked.Venue.Tournament,
		Course:        ranked.Venue.Course,
		FieldStrength: string(ranked.FieldStrength),
	})
}

// GetValuePicks returns mid-ranked players the model rates above their ranking
func (h *FieldHandler) GetValuePicks(c *gin.Context) {
	req, err := h.parseFieldRequest(c)
	if err != nil {
		utils.SendValidationError(c, "Invalid query parameters", err.Error())
		return
	}
	limit := req.Limit
	req.Limit = 0

	ranked, err := h.fields.RankedField(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	picks := h.fields.ValuePicks(ranked.Entries, h.cfg.ValuePickCriteria())
	if limit > 0 && len(picks) > limit {
		picks = picks[:limit]
	}

	utils.SendSuccessWithMeta(c, picks, &utils.Meta{
		Total:         int64(len(picks)),
		Tournament:    ranked.Venue.Tournament,
		Course:        ranked.Venue.Course,
		FieldStrength: string(ranked.FieldStrength),
	})
}

// ExportField downloads the ranked field and the season's picks as xlsx
func (h *FieldHandler) ExportField(c *gin.Context) {
	req, err := h.parseFieldRequest(c)
	if err != nil {
		utils.SendValidationError(c, "Invalid query parameters", err.Error())
		return
	}

	ranked, err := h.fields.RankedField(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	picks, err := h.picks.ListPicks(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, ranked, picks); err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=pga_field_%d.xlsx", req.Season))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
