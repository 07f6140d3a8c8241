package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"fuzzy-diagnosis/internal/fuzzy"
	"fuzzy-diagnosis/internal/ruleset"
	"fuzzy-diagnosis/internal/util"
	"fuzzy-diagnosis/internal/vocab"
)

var (
	rulesPath string
	setFlags  []string
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "diagnose",
	Short: "Fuzzy-logic disease diagnosis from symptom intensities",
	Long: `diagnose evaluates a fuzzy rule base against symptom intensities in [0, 1]
and reports a certainty score per disease.

Example:
  diagnose --set fever=0.8 --set muscle_pain=0.9 --set dry_cough=0.4`,
	RunE: run,
}

func init() {
	rootCmd.Flags().StringVar(&rulesPath, "rules", "", "Path to a YAML rule base (default: built-in respiratory rules)")
	rootCmd.Flags().StringArrayVar(&setFlags, "set", nil, "Symptom intensity as name=value, repeatable")
	rootCmd.Flags().BoolVar(&verbose, "verbose", false, "Enable debug logging")
}

func run(cmd *cobra.Command, args []string) error {
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	base, err := loadRuleBase()
	if err != nil {
		return err
	}

	symptoms, err := parseSymptoms(setFlags)
	if err != nil {
		return err
	}
	for name := range symptoms {
		if !base.Known(name) {
			logrus.WithField("symptom", name).Warn("symptom not in rule base vocabulary, it will not affect any rule")
		}
	}

	engine, err := fuzzy.New(base.Rules)
	if err != nil {
		return fmt.Errorf("build engine: %w", err)
	}

	timer := util.StartTimer()
	result, err := engine.Infer(symptoms)
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"rules":       len(base.Rules),
		"diseases":    len(result.Scores),
		"duration_ms": timer.ElapsedMs(),
	}).Debug("inference complete")

	printResult(cmd, result)
	return nil
}

func loadRuleBase() (*ruleset.RuleBase, error) {
	if rulesPath != "" {
		return ruleset.Load(rulesPath)
	}
	return ruleset.Default()
}

// parseSymptoms turns repeated name=value flags into a normalized intensity
// map, rejecting unparseable or out-of-range values before inference.
func parseSymptoms(flags []string) (map[string]float64, error) {
	raw := make(map[string]float64, len(flags))
	for _, flag := range flags {
		name, valueStr, found := strings.Cut(flag, "=")
		if !found {
			return nil, fmt.Errorf("invalid --set %q, expected name=value", flag)
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(valueStr), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid intensity in --set %q: %w", flag, err)
		}
		if value < 0 || value > 1 {
			return nil, fmt.Errorf("intensity %g for %q is outside [0, 1]", value, strings.TrimSpace(name))
		}
		raw[name] = value
	}
	return vocab.NormalizeIntensities(raw), nil
}

func printResult(cmd *cobra.Command, result fuzzy.Result) {
	type entry struct {
		disease string
		score   float64
	}
	entries := make([]entry, 0, len(result.Scores))
	for disease, score := range result.Scores {
		entries = append(entries, entry{disease: disease, score: score})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].score != entries[j].score {
			return entries[i].score > entries[j].score
		}
		return entries[i].disease < entries[j].disease
	})

	cmd.Println("Disease certainty:")
	for _, e := range entries {
		cmd.Printf("  %-20s %.2f\n", e.disease, e.score)
	}
	if result.TopScore > 0 {
		cmd.Printf("Most likely: %s (%.2f)\n", result.Top, result.TopScore)
	} else {
		cmd.Println("No disease inferred from the given symptoms.")
	}
}

func main() {
	cobra.CheckErr(rootCmd.Execute())
}
