// Package wizard drives the four-step diagnostic questionnaire: each stage
// owns a disjoint slice of the answers, and leaving the last questionnaire
// stage hands the finished record to the engine exactly once.
package wizard

import "fmt"

// Stage is a step of the wizard.
type Stage int

const (
	StageLanding Stage = iota
	StageCompany
	StageConsumption
	StageOptimization
	StageIncentives
	StageResults
	StageContact
	StageCompleted
)

var stageNames = [...]string{
	StageLanding:      "landing",
	StageCompany:      "company",
	StageConsumption:  "consumption",
	StageOptimization: "optimization",
	StageIncentives:   "incentives",
	StageResults:      "results",
	StageContact:      "contact",
	StageCompleted:    "completed",
}

func (s Stage) String() string {
	if s < StageLanding || s > StageCompleted {
		return fmt.Sprintf("stage(%d)", int(s))
	}
	return stageNames[s]
}

// ParseStage resolves a stage name.
func ParseStage(name string) (Stage, bool) {
	for i, n := range stageNames {
		if n == name {
			return Stage(i), true
		}
	}
	return 0, false
}

// MarshalText encodes the stage by name.
func (s Stage) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a stage name.
func (s *Stage) UnmarshalText(b []byte) error {
	parsed, ok := ParseStage(string(b))
	if !ok {
		return fmt.Errorf("unknown wizard stage %q", string(b))
	}
	*s = parsed
	return nil
}

// IsQuestionnaire reports whether the stage collects questionnaire answers.
func (s Stage) IsQuestionnaire() bool {
	return s >= StageCompany && s <= StageIncentives
}
