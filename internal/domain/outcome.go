package domain

import (
	"fmt"
	"strings"
)

type Outcome string

const (
	OutcomeValid   Outcome = "valid"
	OutcomeInvalid Outcome = "invalid"
	OutcomeNoData  Outcome = "no_data"
)

const (
	ExitValid   = 0
	ExitInvalid = 1
	ExitNoData  = 2
)

func (o Outcome) IsValid() bool {
	return o == OutcomeValid || o == OutcomeInvalid || o == OutcomeNoData
}

// ExitCode maps the aggregate stream result to the process status.
func (o Outcome) ExitCode() int {
	switch o {
	case OutcomeValid:
		return ExitValid
	case OutcomeNoData:
		return ExitNoData
	default:
		return ExitInvalid
	}
}

func ParseOutcome(value string) (Outcome, error) {
	parsed := Outcome(strings.TrimSpace(value))
	if !parsed.IsValid() {
		return "", fmt.Errorf("invalid outcome: %s", value)
	}
	return parsed, nil
}
