package predictor

import "sort"

// ScoreField scores every player and returns unranked entries in input order
func (p *Predictor) ScoreField(field []PlayerStatistics) []FieldEntry {
	entries := make([]FieldEntry, 0, len(field))
	for _, stats := range field {
		sub, prob := p.Score(stats)
		entries = append(entries, FieldEntry{
			PlayerName:     stats.PlayerName,
			WinProbability: prob,
			ValueScore:     p.ValueScore(stats.FedexRank, prob),
			SubScores:      sub,
			Stats:          stats,
		})
	}
	return entries
}

// RankedField scores and ranks a whole tournament field
func (p *Predictor) RankedField(field []PlayerStatistics) []FieldEntry {
	return RankField(p.ScoreField(field))
}

// AdjustField applies the field-strength multiplier to every entry and re-ranks.
// Value scores keep their base-probability values.
func (p *Predictor) AdjustField(entries []FieldEntry, strength FieldStrength) ([]FieldEntry, error) {
	adjusted := make([]FieldEntry, len(entries))
	copy(adjusted, entries)
	for i := range adjusted {
		prob, err := p.AdjustForFieldStrength(adjusted[i].WinProbability, strength)
		if err != nil {
			return nil, err
		}
		adjusted[i].WinProbability = prob
	}
	return RankField(adjusted), nil
}

// RankField stable-sorts entries by descending win probability and assigns ranks 1..N.
// Ties keep their input order and still get distinct ranks. The input slice is not modified.
func RankField(entries []FieldEntry) []FieldEntry {
	ranked := make([]FieldEntry, len(entries))
	copy(ranked, entries)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].WinProbability > ranked[j].WinProbability
	})

	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}

// ValuePickCriteria bounds which ranked players qualify as value picks
type ValuePickCriteria struct {
	MinFedexRank  int     `json:"min_fedex_rank"`
	MaxFedexRank  int     `json:"max_fedex_rank"`
	MinValueScore float64 `json:"min_value_score"`
}

// DefaultValuePickCriteria targets mid-ranked players with a strong value score
func DefaultValuePickCriteria() ValuePickCriteria {
	return ValuePickCriteria{MinFedexRank: 20, MaxFedexRank: 60, MinValueScore: 60}
}

// ValuePicks returns entries inside the FedEx rank window with a high enough value score,
// best value first. Players without a FedEx ranking never qualify.
func ValuePicks(entries []FieldEntry, criteria ValuePickCriteria) []FieldEntry {
	picks := make([]FieldEntry, 0)
	for _, e := range entries {
		if e.Stats.FedexRank == nil {
			continue
		}
		rank := *e.Stats.FedexRank
		if rank < criteria.MinFedexRank || rank > criteria.MaxFedexRank {
			continue
		}
		if e.ValueScore < criteria.MinValueScore {
			continue
		}
		picks = append(picks, e)
	}

	sort.SliceStable(picks, func(i, j int) bool {
		return picks[i].ValueScore > picks[j].ValueScore
	})
	return picks
}
