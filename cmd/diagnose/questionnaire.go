package main

import (
	"bytes"
	"fmt"
	"os"

	"energy_diagnostic_backend/internal/diagnostic"

	"gopkg.in/yaml.v3"
)

// loadQuestionnaire reads a YAML questionnaire. Keys that are absent keep the
// wizard defaults and unknown keys are rejected.
func loadQuestionnaire(path string) (diagnostic.Questionnaire, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return diagnostic.Questionnaire{}, fmt.Errorf("read questionnaire: %w", err)
	}
	return parseQuestionnaire(raw)
}

func parseQuestionnaire(raw []byte) (diagnostic.Questionnaire, error) {
	q := diagnostic.DefaultQuestionnaire()

	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&q); err != nil {
		return diagnostic.Questionnaire{}, fmt.Errorf("decode questionnaire: %w", err)
	}

	ct, ok := diagnostic.ParseCompanyType(string(q.CompanyType))
	if !ok {
		return diagnostic.Questionnaire{}, fmt.Errorf("unknown companyType %q", q.CompanyType)
	}
	lvl, ok := diagnostic.ParseOptimizationLevel(string(q.OptimizationLevel))
	if !ok {
		return diagnostic.Questionnaire{}, fmt.Errorf("unknown optimizationLevel %q", q.OptimizationLevel)
	}
	q.CompanyType, q.OptimizationLevel = ct, lvl
	return q, nil
}
