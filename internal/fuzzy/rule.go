package fuzzy

import (
	"errors"
	"fmt"
)

// Combinator selects how a rule folds its condition values.
type Combinator int

const (
	// And takes the minimum of the condition values (fuzzy AND).
	And Combinator = iota
	// Or takes the maximum of the condition values (fuzzy OR).
	Or
)

// String returns the lowercase name of the combinator.
func (c Combinator) String() string {
	switch c {
	case And:
		return "and"
	case Or:
		return "or"
	default:
		return fmt.Sprintf("combinator(%d)", int(c))
	}
}

// ParseCombinator maps a combinator name to its value. Unknown names error.
func ParseCombinator(s string) (Combinator, error) {
	switch s {
	case "and":
		return And, nil
	case "or":
		return Or, nil
	default:
		return 0, fmt.Errorf("unknown combinator %q", s)
	}
}

// Condition references one symptom within a rule. When Absent is set the
// complement of the intensity is used, expressing "this symptom is missing".
type Condition struct {
	Symptom string
	Absent  bool
}

// Rule maps a set of symptom conditions to a contribution toward one
// disease's certainty. Rules are immutable once handed to an Engine.
type Rule struct {
	Disease    string
	Combinator Combinator
	Conditions []Condition
}

// Validate checks the structural invariants of a rule.
func (r Rule) Validate() error {
	if r.Disease == "" {
		return errors.New("rule has no disease")
	}
	if len(r.Conditions) == 0 {
		return fmt.Errorf("rule for %q has no conditions", r.Disease)
	}
	if r.Combinator != And && r.Combinator != Or {
		return fmt.Errorf("rule for %q has invalid combinator %d", r.Disease, int(r.Combinator))
	}
	for i, cond := range r.Conditions {
		if cond.Symptom == "" {
			return fmt.Errorf("rule for %q has empty symptom at condition %d", r.Disease, i)
		}
	}
	return nil
}

// Evaluate computes the rule's contribution for the given symptom
// intensities. A symptom absent from the map counts as intensity 0.0, so a
// complemented reference to it contributes 1.0. The result is the min (And)
// or max (Or) over the condition values and always lies in [0, 1] when the
// inputs do.
func (r Rule) Evaluate(symptoms map[string]float64) float64 {
	if len(r.Conditions) == 0 {
		return 0
	}
	var folded float64
	for i, cond := range r.Conditions {
		value := symptoms[cond.Symptom]
		if cond.Absent {
			value = Complement(value)
		}
		if i == 0 {
			folded = value
			continue
		}
		switch r.Combinator {
		case Or:
			if value > folded {
				folded = value
			}
		default:
			if value < folded {
				folded = value
			}
		}
	}
	return folded
}

// Complement returns the fuzzy negation of an intensity.
func Complement(v float64) float64 {
	return 1.0 - v
}
