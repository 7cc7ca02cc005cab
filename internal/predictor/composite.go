package predictor

// Predictor scores players with a fixed weighted heuristic. It holds only its configuration
// and is safe for concurrent use.
type Predictor struct {
	cfg Config
}

// New validates the configuration and returns a predictor
func New(cfg Config) (*Predictor, error) {
	if cfg.FieldStrengthMultipliers == nil {
		cfg.FieldStrengthMultipliers = DefaultFieldStrengthMultipliers()
	}
	if cfg.FieldStrength == "" {
		cfg.FieldStrength = FieldAverage
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Predictor{cfg: cfg}, nil
}

// Default returns a predictor with the reference configuration
func Default() *Predictor {
	return &Predictor{cfg: DefaultConfig()}
}

// Config returns a copy of the predictor configuration
func (p *Predictor) Config() Config {
	return p.cfg
}

// Composite is the weighted sum of the sub-scores, on the same 0-100 scale
func (p *Predictor) Composite(sub SubScores) float64 {
	w := p.cfg.Weights
	return w.FedexRank*sub.FedexRank +
		w.WorldRank*sub.WorldRank +
		w.SGTotal*sub.StrokesGained +
		w.RecentForm*sub.RecentForm +
		w.CourseHistory*sub.CourseHistory
}

// Rescale maps a 0-100 composite into the probability range, rounded to 2 decimals
func (p *Predictor) Rescale(raw float64) float64 {
	lo, hi := p.cfg.ProbabilityFloor, p.cfg.ProbabilityCeiling
	prob := lo + (raw/100)*(hi-lo)
	return round2(clamp(prob, lo, hi))
}

// Score returns the sub-score breakdown and win probability for a player
func (p *Predictor) Score(stats PlayerStatistics) (SubScores, float64) {
	sub := Normalize(stats)
	return sub, p.Rescale(p.Composite(sub))
}

// WinProbability returns the base win probability, before any field-strength adjustment
func (p *Predictor) WinProbability(stats PlayerStatistics) float64 {
	_, prob := p.Score(stats)
	return prob
}

// AdjustForFieldStrength scales a base win probability by the field-strength multiplier and
// clamps it back into range. It must be applied at most once to a given probability.
func (p *Predictor) AdjustForFieldStrength(winProbability float64, strength FieldStrength) (float64, error) {
	m, err := p.cfg.Multiplier(strength)
	if err != nil {
		return 0, err
	}
	adjusted := clamp(winProbability*m, p.cfg.ProbabilityFloor, p.cfg.ProbabilityCeiling)
	return round2(adjusted), nil
}
