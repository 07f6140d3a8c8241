// Package ruleset loads fuzzy rule bases from YAML configuration and turns
// them into validated engine rules. All malformed-definition errors surface
// here, at construction time, never during inference.
package ruleset

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"fuzzy-diagnosis/internal/fuzzy"
	"fuzzy-diagnosis/internal/vocab"
)

//go:embed default_rules.yaml
var defaultRules []byte

// File is the on-disk shape of a rule base.
type File struct {
	Symptoms []string  `yaml:"symptoms" validate:"required,min=1,dive,required"`
	Rules    []RuleDef `yaml:"rules" validate:"required,min=1,dive"`
}

// RuleDef is one rule entry. Combinator defaults to "and" when omitted.
type RuleDef struct {
	Disease    string         `yaml:"disease" validate:"required"`
	Combinator string         `yaml:"combinator" validate:"omitempty,oneof=and or"`
	When       []ConditionDef `yaml:"when" validate:"required,min=1,dive"`
}

// ConditionDef references one symptom; absent flips it to its complement.
type ConditionDef struct {
	Symptom string `yaml:"symptom" validate:"required"`
	Absent  bool   `yaml:"absent"`
}

// RuleBase is a parsed rule base: the declared symptom vocabulary
// (normalized, in declaration order) and the validated rules.
type RuleBase struct {
	Symptoms []string
	Rules    []fuzzy.Rule
}

// Known reports whether a (possibly unnormalized) symptom name is part of
// the declared vocabulary.
func (b *RuleBase) Known(symptom string) bool {
	key := vocab.Normalize(symptom)
	for _, s := range b.Symptoms {
		if s == key {
			return true
		}
	}
	return false
}

var validate = validator.New()

// Load reads and parses a rule base from the given YAML file.
func Load(path string) (*RuleBase, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read rule base: %w", err)
	}
	base, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("rule base %s: %w", path, err)
	}
	return base, nil
}

// Default returns the embedded respiratory rule base.
func Default() (*RuleBase, error) {
	return Parse(defaultRules)
}

// Parse unmarshals and validates a YAML rule base. Symptom and disease
// names are normalized, and any rule referencing a symptom missing from the
// declared vocabulary is rejected.
func Parse(data []byte) (*RuleBase, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("unmarshal rule base: %w", err)
	}
	if err := validate.Struct(f); err != nil {
		return nil, fmt.Errorf("validate rule base: %w", err)
	}

	known := make(map[string]struct{}, len(f.Symptoms))
	symptoms := make([]string, 0, len(f.Symptoms))
	for _, name := range f.Symptoms {
		key := vocab.Normalize(name)
		if key == "" {
			return nil, fmt.Errorf("symptom %q normalizes to an empty name", name)
		}
		if _, dup := known[key]; dup {
			return nil, fmt.Errorf("duplicate symptom %q in vocabulary", key)
		}
		known[key] = struct{}{}
		symptoms = append(symptoms, key)
	}

	rules := make([]fuzzy.Rule, 0, len(f.Rules))
	for i, def := range f.Rules {
		rule, err := buildRule(def, known)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
		rules = append(rules, rule)
	}

	diseases := make(map[string]struct{})
	for _, rule := range rules {
		diseases[rule.Disease] = struct{}{}
	}
	logrus.WithFields(logrus.Fields{
		"rules":    len(rules),
		"diseases": len(diseases),
		"symptoms": len(symptoms),
	}).Debug("parsed rule base")

	return &RuleBase{Symptoms: symptoms, Rules: rules}, nil
}

func buildRule(def RuleDef, known map[string]struct{}) (fuzzy.Rule, error) {
	disease := vocab.Normalize(def.Disease)
	if disease == "" {
		return fuzzy.Rule{}, fmt.Errorf("disease %q normalizes to an empty name", def.Disease)
	}

	combinator := fuzzy.And
	if def.Combinator != "" {
		parsed, err := fuzzy.ParseCombinator(def.Combinator)
		if err != nil {
			return fuzzy.Rule{}, err
		}
		combinator = parsed
	}

	conditions := make([]fuzzy.Condition, 0, len(def.When))
	for _, cond := range def.When {
		symptom := vocab.Normalize(cond.Symptom)
		if _, ok := known[symptom]; !ok {
			return fuzzy.Rule{}, fmt.Errorf("unknown symptom %q for disease %q", cond.Symptom, disease)
		}
		conditions = append(conditions, fuzzy.Condition{Symptom: symptom, Absent: cond.Absent})
	}

	rule := fuzzy.Rule{Disease: disease, Combinator: combinator, Conditions: conditions}
	if err := rule.Validate(); err != nil {
		return fuzzy.Rule{}, err
	}
	return rule, nil
}
