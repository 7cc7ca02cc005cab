package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingBreaker struct {
	calls int
}

func (b *countingBreaker) Execute(fn func() (interface{}, error)) (interface{}, error) {
	b.calls++
	return fn()
}

func newTestClient(t *testing.T, handler http.HandlerFunc, breaker Breaker) *ESPNGolfClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	client := NewESPNGolfClient(ESPNOptions{
		BaseURL:           server.URL,
		RequestsPerMinute: 60000,
		Backoff:           time.Millisecond,
	}, breaker, logger)
	client.now = func() time.Time { return time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC) }
	return client
}

func TestGetCurrentTournament_InProgressEvent(t *testing.T) {
	breaker := &countingBreaker{}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/scoreboard", r.URL.Path)
		w.Write([]byte(`{
			"events": [
				{"id": "1", "name": "Old Event", "date": "2026-01-29T08:00Z", "status": {"type": {"name": "STATUS_FINAL"}}},
				{"id": "401703500", "name": "AT&T Pebble Beach Pro-Am", "date": "2026-02-12T08:00Z",
				 "status": {"type": {"name": "STATUS_IN_PROGRESS"}},
				 "competitions": [{"venue": {"fullName": "Pebble Beach Golf Links"}}]}
			]
		}`))
	}, breaker)

	info, err := client.GetCurrentTournament(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "401703500", info.ExternalID)
	assert.Equal(t, "AT&T Pebble Beach Pro-Am", info.Name)
	assert.Equal(t, "Pebble Beach Golf Links", info.Course)
	assert.Equal(t, "Feb 12-15, 2026", info.Dates)
	assert.Equal(t, "in_progress", info.Status)
	assert.False(t, info.Placeholder())
	assert.Equal(t, 1, breaker.calls)
}

func TestGetCurrentTournament_FallsBackToCalendar(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("dates") == "20260212" {
			w.Write([]byte(`{"events": [{"id": "9", "competitions": [{"venue": {"fullName": "Riviera Country Club"}}]}]}`))
			return
		}
		w.Write([]byte(`{
			"events": [],
			"leagues": [{"calendar": [
				{"id": "7", "label": "Farmers Insurance Open", "startDate": "2026-01-29T08:00Z", "endDate": "2026-02-01T08:00Z"},
				{"id": "8", "label": "The Genesis Invitational", "startDate": "2026-02-12T08:00Z", "endDate": "2026-02-15T08:00Z"}
			]}]
		}`))
	}, nil)

	info, err := client.GetCurrentTournament(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "8", info.ExternalID)
	assert.Equal(t, "The Genesis Invitational", info.Name)
	assert.Equal(t, "Riviera Country Club", info.Course)
	assert.Equal(t, "Feb 12-15, 2026", info.Dates)
}

func TestGetCurrentTournament_NothingScheduled(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"events": [], "leagues": [{"calendar": [
			{"id": "7", "label": "Farmers Insurance Open", "startDate": "2026-01-29T08:00Z", "endDate": "2026-02-01T08:00Z"}
		]}]}`))
	}, nil)

	info, err := client.GetCurrentTournament(context.Background())
	require.NoError(t, err)
	assert.Equal(t, NoCurrentTournament, info.Name)
	assert.True(t, info.Placeholder())
}

func TestGetCurrentTournament_RetriesServerErrors(t *testing.T) {
	var attempts int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"events": [{"id": "3", "name": "The Players Championship", "date": "2026-03-12T08:00Z", "status": {"type": {"name": "STATUS_SCHEDULED"}}}]}`))
	}, nil)

	info, err := client.GetCurrentTournament(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "The Players Championship", info.Name)
	assert.Equal(t, "TBD", info.Course)
	assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))
}

func TestGetCurrentTournament_GivesUpAfterMaxAttempts(t *testing.T) {
	var attempts int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}, nil)

	info, err := client.GetCurrentTournament(context.Background())
	assert.Nil(t, info)
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
	assert.Equal(t, int32(maxAttempts), atomic.LoadInt32(&attempts))
}

func TestGetCurrentTournament_ContextCancelled(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.GetCurrentTournament(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestUnavailableTournament(t *testing.T) {
	info := UnavailableTournament()
	assert.Equal(t, UnavailableName, info.Name)
	assert.True(t, info.Placeholder())
}
