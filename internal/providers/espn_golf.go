package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	DefaultESPNBaseURL = "https://site.api.espn.com/apis/site/v2/sports/golf/pga"

	NoCurrentTournament = "No Current Tournament"
	UnavailableName     = "Tournament Data Unavailable"
	maxAttempts         = 3
)

var ErrUnexpectedStatus = errors.New("unexpected status code")

// Breaker guards outbound calls; satisfied by *gobreaker.CircuitBreaker
type Breaker interface {
	Execute(req func() (interface{}, error)) (interface{}, error)
}

// TournamentInfo is the event the tracker is currently picking for
type TournamentInfo struct {
	ExternalID string     `json:"external_id"`
	Name       string     `json:"name"`
	Course     string     `json:"course"`
	Dates      string     `json:"dates"`
	Purse      string     `json:"purse"`
	Status     string     `json:"status"`
	StartDate  *time.Time `json:"start_date,omitempty"`
	EndDate    *time.Time `json:"end_date,omitempty"`
}

// Placeholder reports whether the info stands in for a missing event
func (t TournamentInfo) Placeholder() bool {
	return t.ExternalID == "" && (t.Name == NoCurrentTournament || t.Name == UnavailableName)
}

func placeholder(name string) *TournamentInfo {
	return &TournamentInfo{Name: name, Course: "TBD", Dates: "TBD", Purse: "TBD", Status: "unknown"}
}

// UnavailableTournament is returned to users when ESPN cannot be reached
func UnavailableTournament() *TournamentInfo {
	return placeholder(UnavailableName)
}

// ESPNGolfClient reads the PGA Tour schedule from ESPN's public site API
type ESPNGolfClient struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    Breaker
	logger     *logrus.Logger
	baseURL    string
	backoff    time.Duration
	now        func() time.Time
}

// ESPNOptions tune the client; zero values pick the defaults
type ESPNOptions struct {
	BaseURL           string
	RequestsPerMinute int
	Timeout           time.Duration
	Backoff           time.Duration
}

// NewESPNGolfClient creates a new ESPN Golf API client
func NewESPNGolfClient(opts ESPNOptions, breaker Breaker, logger *logrus.Logger) *ESPNGolfClient {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultESPNBaseURL
	}
	if opts.RequestsPerMinute <= 0 {
		opts.RequestsPerMinute = 10
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.Backoff <= 0 {
		opts.Backoff = time.Second
	}
	return &ESPNGolfClient{
		httpClient: &http.Client{Timeout: opts.Timeout},
		limiter:    rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.RequestsPerMinute)), 1),
		breaker:    breaker,
		logger:     logger,
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		backoff:    opts.Backoff,
		now:        time.Now,
	}
}

type espnScoreboard struct {
	Events  []espnEvent  `json:"events"`
	Leagues []espnLeague `json:"leagues"`
}

type espnEvent struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Date         string            `json:"date"`
	EndDate      string            `json:"endDate"`
	Status       espnEventStatus   `json:"status"`
	Competitions []espnCompetition `json:"competitions"`
}

type espnEventStatus struct {
	Type struct {
		Name      string `json:"name"`
		State     string `json:"state"`
		Completed bool   `json:"completed"`
	} `json:"type"`
}

type espnCompetition struct {
	Venue struct {
		FullName string `json:"fullName"`
	} `json:"venue"`
}

type espnLeague struct {
	Calendar []espnCalendarEntry `json:"calendar"`
}

type espnCalendarEntry struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// GetCurrentTournament returns the in-progress or scheduled event on the scoreboard, else the
// next calendar event that has not finished before yesterday. With neither it returns a
// "No Current Tournament" placeholder.
func (c *ESPNGolfClient) GetCurrentTournament(ctx context.Context) (*TournamentInfo, error) {
	var board espnScoreboard
	if err := c.get(ctx, c.baseURL+"/scoreboard", &board); err != nil {
		return nil, fmt.Errorf("failed to fetch scoreboard: %w", err)
	}

	for _, event := range board.Events {
		status := event.Status.Type.Name
		if status != "STATUS_IN_PROGRESS" && status != "STATUS_SCHEDULED" {
			continue
		}
		info := &TournamentInfo{
			ExternalID: event.ID,
			Name:       event.Name,
			Course:     venueName(event),
			Dates:      "TBD",
			Purse:      "TBD",
			Status:     mapStatus(status),
		}
		if start, ok := parseDay(event.Date); ok {
			end := start.AddDate(0, 0, 3)
			info.StartDate, info.EndDate = &start, &end
			info.Dates = formatDates(start, end)
		} else if len(event.Date) >= 10 {
			info.Dates = event.Date[:10]
		}
		return info, nil
	}

	if len(board.Leagues) > 0 {
		yesterday := c.now().UTC().AddDate(0, 0, -1).Truncate(24 * time.Hour)
		for _, entry := range board.Leagues[0].Calendar {
			start, ok := parseDay(entry.StartDate)
			if !ok {
				continue
			}
			end, ok := parseDay(entry.EndDate)
			if !ok {
				end = start.AddDate(0, 0, 3)
			}
			if end.Before(yesterday) {
				continue
			}

			name := entry.Label
			if name == "" {
				name = "Unknown Tournament"
			}
			return &TournamentInfo{
				ExternalID: entry.ID,
				Name:       name,
				Course:     c.venueOn(ctx, start),
				Dates:      formatDates(start, end),
				Purse:      "TBD",
				Status:     "scheduled",
				StartDate:  &start,
				EndDate:    &end,
			}, nil
		}
	}

	return placeholder(NoCurrentTournament), nil
}

// venueOn resolves the course of the event starting on a day through a dated scoreboard call
func (c *ESPNGolfClient) venueOn(ctx context.Context, day time.Time) string {
	var board espnScoreboard
	url := fmt.Sprintf("%s/scoreboard?dates=%s", c.baseURL, day.Format("20060102"))
	if err := c.get(ctx, url, &board); err != nil {
		c.logger.WithError(err).Debug("Venue lookup failed")
		return "TBD"
	}
	for _, event := range board.Events {
		if len(event.Competitions) > 0 {
			return venueName(event)
		}
	}
	return "TBD"
}

func (c *ESPNGolfClient) get(ctx context.Context, url string, target interface{}) error {
	if c.breaker == nil {
		return c.makeRequest(ctx, url, target)
	}
	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, c.makeRequest(ctx, url, target)
	})
	return err
}

func (c *ESPNGolfClient) makeRequest(ctx context.Context, url string, target interface{}) error {
	var lastErr error

	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			waitTime := time.Duration(math.Pow(2, float64(attempt-1))) * c.backoff
			c.logger.Warnf("Request failed (attempt %d), waiting %v: %v", attempt, waitTime, lastErr)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(waitTime):
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		lastErr = c.doRequest(ctx, url, target)
		if lastErr == nil {
			return nil
		}
	}

	return lastErr
}

func (c *ESPNGolfClient) doRequest(ctx context.Context, url string, target interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(target)
}

func venueName(event espnEvent) string {
	if len(event.Competitions) == 0 || event.Competitions[0].Venue.FullName == "" {
		return "TBD"
	}
	return event.Competitions[0].Venue.FullName
}

func mapStatus(name string) string {
	switch name {
	case "STATUS_IN_PROGRESS":
		return "in_progress"
	case "STATUS_SCHEDULED":
		return "scheduled"
	case "STATUS_FINAL":
		return "completed"
	}
	return "unknown"
}

func parseDay(s string) (time.Time, bool) {
	if len(s) < 10 {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", s[:10])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// formatDates renders "Feb 12-15, 2026"
func formatDates(start, end time.Time) string {
	return fmt.Sprintf("%s-%s, %d", start.Format("Jan 02"), end.Format("02"), start.Year())
}
