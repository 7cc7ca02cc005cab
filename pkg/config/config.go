package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/stitts-dev/pga-pick-tracker/internal/predictor"
)

type Config struct {
	// Server
	Port string `mapstructure:"PORT"`
	Env  string `mapstructure:"ENV"`

	// Storage
	DatabaseURL    string `mapstructure:"DATABASE_URL"`
	RedisURL       string `mapstructure:"REDIS_URL"`
	DataCacheHours int    `mapstructure:"DATA_CACHE_HOURS"`

	// Auth
	JWTSecret string `mapstructure:"JWT_SECRET"`

	// CORS
	CorsOrigins []string `mapstructure:"CORS_ORIGINS"`

	// Logging
	LogLevel      string `mapstructure:"LOG_LEVEL"`
	LogFile       string `mapstructure:"LOG_FILE"`
	LogMaxSizeMB  int    `mapstructure:"LOG_MAX_SIZE_MB"`
	LogMaxBackups int    `mapstructure:"LOG_MAX_BACKUPS"`

	// Prediction model
	WeightFedexRank          float64 `mapstructure:"WEIGHT_FEDEX_RANK"`
	WeightWorldRank          float64 `mapstructure:"WEIGHT_WORLD_RANK"`
	WeightSGTotal            float64 `mapstructure:"WEIGHT_SG_TOTAL"`
	WeightRecentForm         float64 `mapstructure:"WEIGHT_RECENT_FORM"`
	WeightCourseHistory      float64 `mapstructure:"WEIGHT_COURSE_HISTORY"`
	ProbabilityFloor         float64 `mapstructure:"PROBABILITY_FLOOR"`
	ProbabilityCeiling       float64 `mapstructure:"PROBABILITY_CEILING"`
	ExpectedProbabilityScale float64 `mapstructure:"EXPECTED_PROBABILITY_SCALE"`
	FieldStrength            string  `mapstructure:"FIELD_STRENGTH"`

	// Display
	DefaultPlayersShown int     `mapstructure:"DEFAULT_PLAYERS_SHOWN"`
	MinWinProbability   float64 `mapstructure:"MIN_WIN_PROBABILITY"`
	ShowUsedPlayers     bool    `mapstructure:"SHOW_USED_PLAYERS"`
	ValuePickMinRank    int     `mapstructure:"VALUE_PICK_MIN_RANK"`
	ValuePickMaxRank    int     `mapstructure:"VALUE_PICK_MAX_RANK"`
	ValuePickMinScore   float64 `mapstructure:"VALUE_PICK_MIN_SCORE"`

	// Contest
	PicksPerWeek    int `mapstructure:"PICKS_PER_WEEK"`
	SeasonPickLimit int `mapstructure:"SEASON_PICK_LIMIT"`
	SeasonYear      int `mapstructure:"SEASON_YEAR"`

	// External APIs
	ESPNBaseURL             string        `mapstructure:"ESPN_BASE_URL"`
	ESPNRateLimit           int           `mapstructure:"ESPN_RATE_LIMIT"`
	ExternalAPITimeout      time.Duration `mapstructure:"EXTERNAL_API_TIMEOUT"`
	CircuitBreakerThreshold int           `mapstructure:"CIRCUIT_BREAKER_THRESHOLD"`
	StatFetchConcurrency    int           `mapstructure:"STAT_FETCH_CONCURRENCY"`

	// Background jobs
	RefreshSchedule      string `mapstructure:"REFRESH_SCHEDULE"`
	EnableBackgroundJobs bool   `mapstructure:"ENABLE_BACKGROUND_JOBS"`
}

func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("..")

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("DATABASE_URL", "pga_fantasy.db")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("DATA_CACHE_HOURS", 24)
	v.SetDefault("JWT_SECRET", "your-secret-key")
	v.SetDefault("CORS_ORIGINS", "http://localhost:5173,http://localhost:3000")
	v.SetDefault("LOG_LEVEL", "")
	v.SetDefault("LOG_FILE", "")
	v.SetDefault("LOG_MAX_SIZE_MB", 10)
	v.SetDefault("LOG_MAX_BACKUPS", 3)

	defaults := predictor.DefaultConfig()
	v.SetDefault("WEIGHT_FEDEX_RANK", defaults.Weights.FedexRank)
	v.SetDefault("WEIGHT_WORLD_RANK", defaults.Weights.WorldRank)
	v.SetDefault("WEIGHT_SG_TOTAL", defaults.Weights.SGTotal)
	v.SetDefault("WEIGHT_RECENT_FORM", defaults.Weights.RecentForm)
	v.SetDefault("WEIGHT_COURSE_HISTORY", defaults.Weights.CourseHistory)
	v.SetDefault("PROBABILITY_FLOOR", defaults.ProbabilityFloor)
	v.SetDefault("PROBABILITY_CEILING", defaults.ProbabilityCeiling)
	v.SetDefault("EXPECTED_PROBABILITY_SCALE", defaults.ExpectedProbabilityScale)
	v.SetDefault("FIELD_STRENGTH", string(defaults.FieldStrength))

	v.SetDefault("DEFAULT_PLAYERS_SHOWN", 50)
	v.SetDefault("MIN_WIN_PROBABILITY", 0.1)
	v.SetDefault("SHOW_USED_PLAYERS", false)
	v.SetDefault("VALUE_PICK_MIN_RANK", 20)
	v.SetDefault("VALUE_PICK_MAX_RANK", 60)
	v.SetDefault("VALUE_PICK_MIN_SCORE", 60)

	v.SetDefault("PICKS_PER_WEEK", 2)
	v.SetDefault("SEASON_PICK_LIMIT", 200)
	v.SetDefault("SEASON_YEAR", 0) // 0 means the current calendar year

	v.SetDefault("ESPN_BASE_URL", "https://site.api.espn.com/apis/site/v2/sports/golf/pga")
	v.SetDefault("ESPN_RATE_LIMIT", 10)          // requests per minute
	v.SetDefault("EXTERNAL_API_TIMEOUT", "10s")  // Conservative timeout
	v.SetDefault("CIRCUIT_BREAKER_THRESHOLD", 5) // Fail after 5 consecutive failures
	v.SetDefault("STAT_FETCH_CONCURRENCY", 8)

	v.SetDefault("REFRESH_SCHEDULE", "0 6 * * 1") // Mondays 06:00
	v.SetDefault("ENABLE_BACKGROUND_JOBS", true)

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if corsStr := v.GetString("CORS_ORIGINS"); corsStr != "" {
		config.CorsOrigins = strings.Split(corsStr, ",")
	}

	if config.SeasonYear == 0 {
		config.SeasonYear = time.Now().Year()
	}

	if _, err := config.PredictorConfig(); err != nil {
		return nil, fmt.Errorf("invalid prediction settings: %w", err)
	}

	return &config, nil
}

// PredictorConfig builds and validates the prediction engine configuration
func (c *Config) PredictorConfig() (predictor.Config, error) {
	strength, err := predictor.ParseFieldStrength(c.FieldStrength)
	if err != nil {
		return predictor.Config{}, err
	}

	pc := predictor.Config{
		Weights: predictor.Weights{
			FedexRank:     c.WeightFedexRank,
			WorldRank:     c.WeightWorldRank,
			SGTotal:       c.WeightSGTotal,
			RecentForm:    c.WeightRecentForm,
			CourseHistory: c.WeightCourseHistory,
		},
		ProbabilityFloor:         c.ProbabilityFloor,
		ProbabilityCeiling:       c.ProbabilityCeiling,
		ExpectedProbabilityScale: c.ExpectedProbabilityScale,
		FieldStrength:            strength,
		FieldStrengthMultipliers: predictor.DefaultFieldStrengthMultipliers(),
	}
	if err := pc.Validate(); err != nil {
		return predictor.Config{}, err
	}
	return pc, nil
}

// ValuePickCriteria returns the configured value-pick bounds
func (c *Config) ValuePickCriteria() predictor.ValuePickCriteria {
	return predictor.ValuePickCriteria{
		MinFedexRank:  c.ValuePickMinRank,
		MaxFedexRank:  c.ValuePickMaxRank,
		MinValueScore: c.ValuePickMinScore,
	}
}

// DataCacheTTL is how long cached player statistics stay fresh
func (c *Config) DataCacheTTL() time.Duration {
	if c.DataCacheHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.DataCacheHours) * time.Hour
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
