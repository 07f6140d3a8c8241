// Package fuzzy implements a forward-chaining fuzzy inference engine.
// Symptom intensities in [0, 1] are run through a static rule base; each
// rule folds its conditions with fuzzy AND (min) or OR (max), and rules
// supporting the same disease reinforce each other via max.
package fuzzy

import (
	"fmt"
	"math"
	"sort"
)

// Result is the outcome of one inference run. Scores holds one entry per
// disease in the rule base, including zero entries. Top names the
// highest-scoring disease (alphabetically first on ties).
type Result struct {
	Scores   map[string]float64
	Top      string
	TopScore float64
}

// Engine evaluates a fixed rule base against symptom intensities. It is
// read-only after construction and safe for concurrent use.
type Engine struct {
	rules    []Rule
	diseases []string
}

// New constructs an engine from the given rules. Every rule is validated up
// front so a malformed definition fails here rather than at query time.
func New(rules []Rule) (*Engine, error) {
	if len(rules) == 0 {
		return nil, fmt.Errorf("rule base is empty")
	}
	seen := make(map[string]struct{})
	copied := make([]Rule, len(rules))
	for i, rule := range rules {
		if err := rule.Validate(); err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
		copied[i] = Rule{
			Disease:    rule.Disease,
			Combinator: rule.Combinator,
			Conditions: append([]Condition(nil), rule.Conditions...),
		}
		seen[rule.Disease] = struct{}{}
	}
	diseases := make([]string, 0, len(seen))
	for d := range seen {
		diseases = append(diseases, d)
	}
	sort.Strings(diseases)
	return &Engine{rules: copied, diseases: diseases}, nil
}

// Diseases returns the sorted list of diseases covered by the rule base.
func (e *Engine) Diseases() []string {
	return append([]string(nil), e.diseases...)
}

// Rules returns a copy of the rule base.
func (e *Engine) Rules() []Rule {
	out := make([]Rule, len(e.rules))
	for i, rule := range e.rules {
		out[i] = Rule{
			Disease:    rule.Disease,
			Combinator: rule.Combinator,
			Conditions: append([]Condition(nil), rule.Conditions...),
		}
	}
	return out
}

// Infer evaluates every rule against the supplied intensities and aggregates
// per disease with fuzzy OR. Any intensity outside [0, 1] (or NaN) is
// rejected with an *IntensityError; symptoms not present in the map default
// to 0.0. The input map is never mutated.
func (e *Engine) Infer(symptoms map[string]float64) (Result, error) {
	for name, value := range symptoms {
		if math.IsNaN(value) || value < 0 || value > 1 {
			return Result{}, &IntensityError{Symptom: name, Value: value}
		}
	}

	scores := make(map[string]float64, len(e.diseases))
	for _, d := range e.diseases {
		scores[d] = 0
	}
	for _, rule := range e.rules {
		contribution := rule.Evaluate(symptoms)
		if contribution > scores[rule.Disease] {
			scores[rule.Disease] = contribution
		}
	}

	result := Result{Scores: scores}
	for _, d := range e.diseases {
		if result.Top == "" || scores[d] > result.TopScore {
			result.Top = d
			result.TopScore = scores[d]
		}
	}
	return result, nil
}
