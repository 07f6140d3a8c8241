package fuzzy

import (
	"errors"
	"math"
	"testing"
)

func coldFluRules() []Rule {
	return []Rule{
		{Disease: "flu", Combinator: And, Conditions: []Condition{{Symptom: "fever"}, {Symptom: "cough"}}},
		{Disease: "cold", Combinator: Or, Conditions: []Condition{{Symptom: "sneeze"}, {Symptom: "congestion"}}},
		{Disease: "cold", Combinator: And, Conditions: []Condition{{Symptom: "fever"}, {Symptom: "chills"}}},
	}
}

func TestNewRejectsBadRules(t *testing.T) {
	tests := []struct {
		name  string
		rules []Rule
	}{
		{"empty rule base", nil},
		{"rule without conditions", []Rule{{Disease: "flu", Combinator: And}}},
		{"rule without disease", []Rule{{Combinator: And, Conditions: []Condition{{Symptom: "fever"}}}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New(tc.rules); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}

func TestInferWorkedExamples(t *testing.T) {
	engine, err := New(coldFluRules())
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	// flu = min(0.8, 0.6); cold = max(max(0.3, 0.9), min(0.2, 0.5)).
	result, err := engine.Infer(map[string]float64{
		"fever": 0.8, "cough": 0.6, "sneeze": 0.3, "congestion": 0.9, "chills": 0.5,
	})
	if err != nil {
		t.Fatalf("infer: %v", err)
	}
	if got := result.Scores["flu"]; !almostEqual(got, 0.6) {
		t.Fatalf("flu: expected 0.6 got %g", got)
	}
	if got := result.Scores["cold"]; !almostEqual(got, 0.9) {
		t.Fatalf("cold: expected 0.9 got %g", got)
	}
	if result.Top != "cold" || !almostEqual(result.TopScore, 0.9) {
		t.Fatalf("top: expected cold 0.9 got %s %g", result.Top, result.TopScore)
	}
}

func TestInferOutputRange(t *testing.T) {
	engine, err := New(coldFluRules())
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	inputs := []map[string]float64{
		{},
		{"fever": 0, "cough": 0, "sneeze": 0, "congestion": 0, "chills": 0},
		{"fever": 1, "cough": 1, "sneeze": 1, "congestion": 1, "chills": 1},
		{"fever": 0.33, "congestion": 0.77},
	}
	for _, input := range inputs {
		result, err := engine.Infer(input)
		if err != nil {
			t.Fatalf("infer %v: %v", input, err)
		}
		if len(result.Scores) != 2 {
			t.Fatalf("expected a score for every disease, got %v", result.Scores)
		}
		for disease, score := range result.Scores {
			if score < 0 || score > 1 {
				t.Fatalf("score for %s out of range: %g", disease, score)
			}
		}
	}
}

func TestInferRejectsBadIntensity(t *testing.T) {
	engine, err := New(coldFluRules())
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	for _, bad := range []float64{-0.1, 1.1, math.NaN()} {
		_, err := engine.Infer(map[string]float64{"fever": bad})
		var intensityErr *IntensityError
		if !errors.As(err, &intensityErr) {
			t.Fatalf("intensity %g: expected *IntensityError, got %v", bad, err)
		}
		if intensityErr.Symptom != "fever" {
			t.Fatalf("expected error to name fever, got %q", intensityErr.Symptom)
		}
	}
}

func TestInferMonotonicity(t *testing.T) {
	engine, err := New([]Rule{
		{Disease: "flu", Combinator: And, Conditions: []Condition{{Symptom: "fever"}, {Symptom: "cough"}}},
		{Disease: "rested", Combinator: And, Conditions: []Condition{{Symptom: "fever", Absent: true}}},
	})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	low, err := engine.Infer(map[string]float64{"fever": 0.2, "cough": 0.9})
	if err != nil {
		t.Fatalf("infer low: %v", err)
	}
	high, err := engine.Infer(map[string]float64{"fever": 0.6, "cough": 0.9})
	if err != nil {
		t.Fatalf("infer high: %v", err)
	}

	if high.Scores["flu"] < low.Scores["flu"] {
		t.Fatalf("raising fever decreased flu: %g -> %g", low.Scores["flu"], high.Scores["flu"])
	}
	if high.Scores["rested"] > low.Scores["rested"] {
		t.Fatalf("raising fever increased complemented rule: %g -> %g", low.Scores["rested"], high.Scores["rested"])
	}
}

func TestInferDeterministic(t *testing.T) {
	engine, err := New(coldFluRules())
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	input := map[string]float64{"fever": 0.4, "cough": 0.7, "sneeze": 0.1}

	first, err := engine.Infer(input)
	if err != nil {
		t.Fatalf("infer: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := engine.Infer(input)
		if err != nil {
			t.Fatalf("infer repeat: %v", err)
		}
		if again.Top != first.Top || again.TopScore != first.TopScore {
			t.Fatalf("non-deterministic top: %s %g vs %s %g", first.Top, first.TopScore, again.Top, again.TopScore)
		}
		for disease, score := range first.Scores {
			if again.Scores[disease] != score {
				t.Fatalf("non-deterministic score for %s", disease)
			}
		}
	}
}

func TestInferDuplicateRuleIsIdempotent(t *testing.T) {
	rules := coldFluRules()
	withDup := append(append([]Rule(nil), rules...), rules[0])

	base, err := New(rules)
	if err != nil {
		t.Fatalf("new base engine: %v", err)
	}
	dup, err := New(withDup)
	if err != nil {
		t.Fatalf("new dup engine: %v", err)
	}

	input := map[string]float64{"fever": 0.8, "cough": 0.6, "sneeze": 0.3, "congestion": 0.9, "chills": 0.5}
	baseResult, err := base.Infer(input)
	if err != nil {
		t.Fatalf("infer base: %v", err)
	}
	dupResult, err := dup.Infer(input)
	if err != nil {
		t.Fatalf("infer dup: %v", err)
	}
	for disease, score := range baseResult.Scores {
		if dupResult.Scores[disease] != score {
			t.Fatalf("duplicate rule changed %s: %g vs %g", disease, score, dupResult.Scores[disease])
		}
	}
}

func TestInferTopTieBreaksAlphabetically(t *testing.T) {
	engine, err := New([]Rule{
		{Disease: "zoster", Combinator: And, Conditions: []Condition{{Symptom: "rash"}}},
		{Disease: "acne", Combinator: And, Conditions: []Condition{{Symptom: "rash"}}},
	})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	result, err := engine.Infer(map[string]float64{"rash": 0.5})
	if err != nil {
		t.Fatalf("infer: %v", err)
	}
	if result.Top != "acne" {
		t.Fatalf("expected alphabetical tie-break to acne, got %s", result.Top)
	}
}

func TestEngineIsolatedFromCallerMutation(t *testing.T) {
	rules := coldFluRules()
	engine, err := New(rules)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	// Mutating the caller's slice must not leak into the engine.
	rules[0].Conditions[0].Symptom = "mutated"

	result, err := engine.Infer(map[string]float64{"fever": 0.8, "cough": 0.6})
	if err != nil {
		t.Fatalf("infer: %v", err)
	}
	if got := result.Scores["flu"]; !almostEqual(got, 0.6) {
		t.Fatalf("engine picked up caller mutation: flu = %g", got)
	}
}

func TestDiseasesSorted(t *testing.T) {
	engine, err := New(coldFluRules())
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	diseases := engine.Diseases()
	if len(diseases) != 2 || diseases[0] != "cold" || diseases[1] != "flu" {
		t.Fatalf("expected [cold flu], got %v", diseases)
	}
}
