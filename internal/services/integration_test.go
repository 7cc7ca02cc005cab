//go:build integration

package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/stitts-dev/pga-pick-tracker/internal/models"
	"github.com/stitts-dev/pga-pick-tracker/internal/predictor"
	"github.com/stitts-dev/pga-pick-tracker/pkg/database"
)

func setupPostgres(t *testing.T) (*database.DB, func()) {
	t.Helper()

	ctx := context.Background()
	container, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase("pga_tracker"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "failed to start postgres container")

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := database.NewConnection(dsn, false)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))

	return db, func() {
		_ = db.Close()
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}
}

func setupRedis(t *testing.T) (*redis.Client, func()) {
	t.Helper()

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err, "failed to start redis container")

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	require.NoError(t, client.Ping(ctx).Err())

	return client, func() {
		_ = client.Close()
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestPostgres_PicksAndHistory(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	db, cleanup := setupPostgres(t)
	defer cleanup()

	ctx := context.Background()
	logger := quietLogger()

	picks := NewPickService(db.DB, PickRules{PicksPerWeek: 2, SeasonPickLimit: 200, Season: 2026}, logger)
	_, err := picks.AddPick(ctx, "Collin Morikawa", "The Sentry", nil)
	require.NoError(t, err)
	_, err = picks.AddPick(ctx, "Collin Morikawa", "Sony Open in Hawaii", nil)
	assert.ErrorIs(t, err, ErrPlayerAlreadyUsed)

	history := NewHistoryService(db.DB, nil, logger)
	csv := "player,tournament,course,year,finish\n" +
		"Collin Morikawa,The Sentry,Plantation Course at Kapalua,2024,T5\n" +
		"Collin Morikawa,The Sentry,Plantation Course at Kapalua,2024,2\n" +
		"Collin Morikawa,The Sentry,Plantation Course at Kapalua,2025,MC\n"
	report, err := history.ImportCSV(ctx, strings.NewReader(csv), 0)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Imported)
	assert.Equal(t, 1, report.Summaries)

	repo := NewStatsRepository(db.DB, NewDBStatCache(db.DB, time.Hour), logger)
	summary, err := repo.CourseHistory(ctx, "Collin Morikawa", Venue{Course: "Plantation Course at Kapalua"})
	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.Equal(t, 2, summary.Appearances)
	assert.Equal(t, "2", summary.BestFinish.Raw)
}

func TestRedisStatCache(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	client, cleanup := setupRedis(t)
	defer cleanup()

	ctx := context.Background()
	cache := NewRedisStatCache(client, time.Hour)
	key := StatCacheKey("Tommy Fleetwood", "East Lake")

	_, ok, err := cache.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	stats := predictor.PlayerStatistics{PlayerName: "Tommy Fleetwood", WorldRank: predictor.IntPtr(11), RecentForm: predictor.FormGood}
	require.NoError(t, cache.Set(ctx, key, stats))
	require.NoError(t, client.Set(ctx, "unrelated", "keep", 0).Err())

	got, ok, err := cache.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 11, *got.WorldRank)

	require.NoError(t, cache.Invalidate(ctx))
	_, ok, err = cache.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "keep", client.Get(ctx, "unrelated").Val())
}
