package predictor

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	ErrInvalidWeights       = errors.New("invalid prediction weights")
	ErrInvalidBounds        = errors.New("invalid probability bounds")
	ErrUnknownFieldStrength = errors.New("unknown field strength")
)

// weightTolerance is how far the weight sum may drift from 1.0
const weightTolerance = 0.001

// FieldStrength classifies how strong a tournament field is
type FieldStrength string

const (
	FieldWeak    FieldStrength = "weak"
	FieldAverage FieldStrength = "average"
	FieldStrong  FieldStrength = "strong"
	FieldElite   FieldStrength = "elite"
)

// Weights are the composite weights of the five sub-scores
type Weights struct {
	FedexRank     float64 `json:"fedex_rank" mapstructure:"fedex_rank"`
	WorldRank     float64 `json:"world_rank" mapstructure:"world_rank"`
	SGTotal       float64 `json:"sg_total" mapstructure:"sg_total"`
	RecentForm    float64 `json:"recent_form" mapstructure:"recent_form"`
	CourseHistory float64 `json:"course_history" mapstructure:"course_history"`
}

// DefaultWeights returns the hand-tuned weights of the model
func DefaultWeights() Weights {
	return Weights{
		FedexRank:     0.20,
		WorldRank:     0.15,
		SGTotal:       0.10,
		RecentForm:    0.30,
		CourseHistory: 0.25,
	}
}

// Sum returns the total of all weights
func (w Weights) Sum() float64 {
	return w.FedexRank + w.WorldRank + w.SGTotal + w.RecentForm + w.CourseHistory
}

// Validate rejects weights that do not sum to 1.0 or contain negatives.
// Weights are never renormalized so that scores stay comparable across seasons.
func (w Weights) Validate() error {
	for name, v := range map[string]float64{
		"fedex_rank":     w.FedexRank,
		"world_rank":     w.WorldRank,
		"sg_total":       w.SGTotal,
		"recent_form":    w.RecentForm,
		"course_history": w.CourseHistory,
	} {
		if v < 0 || math.IsNaN(v) {
			return fmt.Errorf("%w: %s is %v", ErrInvalidWeights, name, v)
		}
	}
	if sum := w.Sum(); math.Abs(sum-1.0) > weightTolerance {
		return fmt.Errorf("%w: weights sum to %.4f, must sum to 1.0", ErrInvalidWeights, sum)
	}
	return nil
}

// Config is the tunable surface of the prediction engine
type Config struct {
	Weights                  Weights                   `json:"weights"`
	ProbabilityFloor         float64                   `json:"probability_floor"`
	ProbabilityCeiling       float64                   `json:"probability_ceiling"`
	ExpectedProbabilityScale float64                   `json:"expected_probability_scale"`
	FieldStrength            FieldStrength             `json:"field_strength"`
	FieldStrengthMultipliers map[FieldStrength]float64 `json:"field_strength_multipliers"`
}

// DefaultFieldStrengthMultipliers returns the multiplier table. Weak fields spread probabilities
// out, elite fields compress them.
func DefaultFieldStrengthMultipliers() map[FieldStrength]float64 {
	return map[FieldStrength]float64{
		FieldWeak:    1.3,
		FieldAverage: 1.0,
		FieldStrong:  0.8,
		FieldElite:   0.6,
	}
}

// DefaultConfig returns the reference configuration
func DefaultConfig() Config {
	return Config{
		Weights:                  DefaultWeights(),
		ProbabilityFloor:         0.1,
		ProbabilityCeiling:       25.0,
		ExpectedProbabilityScale: 15,
		FieldStrength:            FieldAverage,
		FieldStrengthMultipliers: DefaultFieldStrengthMultipliers(),
	}
}

// Validate checks the whole configuration. Called at load time so bad settings fail fast.
func (c Config) Validate() error {
	if err := c.Weights.Validate(); err != nil {
		return err
	}
	if c.ProbabilityFloor < 0 || c.ProbabilityCeiling <= c.ProbabilityFloor {
		return fmt.Errorf("%w: floor %.2f, ceiling %.2f", ErrInvalidBounds, c.ProbabilityFloor, c.ProbabilityCeiling)
	}
	if c.ExpectedProbabilityScale <= 0 {
		return fmt.Errorf("%w: expected probability scale must be positive, got %.2f", ErrInvalidBounds, c.ExpectedProbabilityScale)
	}
	if _, err := c.Multiplier(c.FieldStrength); err != nil {
		return err
	}
	return nil
}

// Multiplier looks up the field-strength multiplier. An empty strength means average.
func (c Config) Multiplier(strength FieldStrength) (float64, error) {
	if strength == "" {
		strength = FieldAverage
	}
	table := c.FieldStrengthMultipliers
	if table == nil {
		table = DefaultFieldStrengthMultipliers()
	}
	m, ok := table[strength]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownFieldStrength, strength)
	}
	return m, nil
}

// ParseFieldStrength normalizes a user supplied strength name
func ParseFieldStrength(s string) (FieldStrength, error) {
	switch FieldStrength(strings.ToLower(strings.TrimSpace(s))) {
	case "", FieldAverage:
		return FieldAverage, nil
	case FieldWeak:
		return FieldWeak, nil
	case FieldStrong:
		return FieldStrong, nil
	case FieldElite:
		return FieldElite, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFieldStrength, s)
}
