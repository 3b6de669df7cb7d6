package media

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Category groups projects that share a step-info table.
type Category string

const (
	CategoryNR13    Category = "nr13"
	CategoryMyrthes Category = "myrthes"
	CategoryGeneric Category = "generic"
)

// StepInfo describes the screen shown at one gallery slot.
type StepInfo struct {
	Label       string `yaml:"label" json:"label"`
	Description string `yaml:"description" json:"description"`
}

// Caption renders the gallery description for the step.
func (s StepInfo) Caption() string {
	return s.Label + " — " + s.Description
}

//go:embed steps.yaml
var stepsYAML []byte

var stepTable = mustLoadSteps(stepsYAML)

func mustLoadSteps(data []byte) map[Category][]StepInfo {
	table, err := parseSteps(data)
	if err != nil {
		panic(err)
	}
	return table
}

func parseSteps(data []byte) (map[Category][]StepInfo, error) {
	var raw map[Category][]StepInfo
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse step table: %w", err)
	}
	if raw == nil {
		raw = map[Category][]StepInfo{}
	}
	if _, ok := raw[CategoryGeneric]; !ok {
		raw[CategoryGeneric] = nil
	}
	return raw, nil
}

// DetectCategory maps a project title onto its step-info category.
func DetectCategory(title string) Category {
	t := strings.ToLower(title)
	switch {
	case strings.Contains(t, "nr-13") || strings.Contains(t, "nr13"):
		return CategoryNR13
	case strings.Contains(t, "myrthes"):
		return CategoryMyrthes
	default:
		return CategoryGeneric
	}
}

// Steps returns a copy of the step list for c; unknown categories have none.
func Steps(c Category) []StepInfo {
	steps := stepTable[c]
	out := make([]StepInfo, len(steps))
	copy(out, steps)
	return out
}

// StepsForTitle is Steps(DetectCategory(title)).
func StepsForTitle(title string) []StepInfo {
	return Steps(DetectCategory(title))
}
