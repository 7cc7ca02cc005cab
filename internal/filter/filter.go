// Package filter compiles user supplied CEL expressions that narrow a ranked field,
// e.g. `win_probability > 5.0 && course_wins > 0`.
package filter

import (
	"errors"
	"fmt"

	"github.com/google/cel-go/cel"

	"github.com/stitts-dev/pga-pick-tracker/internal/predictor"
)

var ErrInvalidExpression = errors.New("invalid filter expression")

// Variables available to expressions. Missing ranks are exposed as 0 with has_* set to false.
func newEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("player", cel.StringType),
		cel.Variable("rank", cel.IntType),
		cel.Variable("win_probability", cel.DoubleType),
		cel.Variable("value_score", cel.DoubleType),
		cel.Variable("used", cel.BoolType),

		cel.Variable("fedex_rank", cel.IntType),
		cel.Variable("has_fedex_rank", cel.BoolType),
		cel.Variable("world_rank", cel.IntType),
		cel.Variable("has_world_rank", cel.BoolType),
		cel.Variable("sg_total", cel.DoubleType),
		cel.Variable("recent_form", cel.StringType),

		cel.Variable("course_appearances", cel.IntType),
		cel.Variable("course_wins", cel.IntType),
		cel.Variable("course_top10s", cel.IntType),
		cel.Variable("course_avg_finish", cel.DoubleType),
	)
}

// Filter is a compiled boolean expression over a field entry
type Filter struct {
	expression string
	program    cel.Program
}

// Compile parses and type-checks an expression. The expression must evaluate to a bool.
func Compile(expression string) (*Filter, error) {
	env, err := newEnv()
	if err != nil {
		return nil, err
	}

	ast, iss := env.Parse(expression)
	if iss.Err() != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidExpression, iss.Err())
	}

	checked, iss := env.Check(ast)
	if iss.Err() != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidExpression, iss.Err())
	}
	if !checked.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("%w: expression must return a bool, got %s", ErrInvalidExpression, checked.OutputType())
	}

	program, err := env.Program(checked)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidExpression, err)
	}

	return &Filter{expression: expression, program: program}, nil
}

func (f *Filter) String() string {
	return f.expression
}

// Match evaluates the expression against one entry
func (f *Filter) Match(entry predictor.FieldEntry) (bool, error) {
	out, _, err := f.program.Eval(Activation(entry))
	if err != nil {
		return false, fmt.Errorf("failed to evaluate filter for %s: %w", entry.PlayerName, err)
	}
	matched, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("%w: non-bool result", ErrInvalidExpression)
	}
	return matched, nil
}

// Apply keeps the entries that match, preserving order
func (f *Filter) Apply(entries []predictor.FieldEntry) ([]predictor.FieldEntry, error) {
	kept := make([]predictor.FieldEntry, 0, len(entries))
	for _, entry := range entries {
		ok, err := f.Match(entry)
		if err != nil {
			return nil, err
		}
		if ok {
			kept = append(kept, entry)
		}
	}
	return kept, nil
}

// Activation flattens an entry into the expression variables
func Activation(entry predictor.FieldEntry) map[string]any {
	stats := entry.Stats
	vars := map[string]any{
		"player":             entry.PlayerName,
		"rank":               int64(entry.Rank),
		"win_probability":    entry.WinProbability,
		"value_score":        entry.ValueScore,
		"used":               entry.IsUsed,
		"fedex_rank":         int64(0),
		"has_fedex_rank":     stats.FedexRank != nil,
		"world_rank":         int64(0),
		"has_world_rank":     stats.WorldRank != nil,
		"sg_total":           0.0,
		"recent_form":        string(stats.RecentForm),
		"course_appearances": int64(0),
		"course_wins":        int64(0),
		"course_top10s":      int64(0),
		"course_avg_finish":  0.0,
	}
	if stats.FedexRank != nil {
		vars["fedex_rank"] = int64(*stats.FedexRank)
	}
	if stats.WorldRank != nil {
		vars["world_rank"] = int64(*stats.WorldRank)
	}
	if stats.StrokesGainedTotal != nil {
		vars["sg_total"] = *stats.StrokesGainedTotal
	}
	if stats.RecentForm == "" {
		vars["recent_form"] = string(predictor.FormUnknown)
	}
	if h := stats.CourseHistory; h != nil {
		vars["course_appearances"] = int64(h.Appearances)
		vars["course_wins"] = int64(h.Wins)
		vars["course_top10s"] = int64(h.Top10s)
		if h.AverageFinish != nil {
			vars["course_avg_finish"] = *h.AverageFinish
		}
	}
	return vars
}
