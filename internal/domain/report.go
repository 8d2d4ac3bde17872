package domain

import "time"

type RunReport struct {
	RunID         string
	StartedAt     time.Time
	FinishedAt    time.Time
	SchemaPath    string
	SchemaDigest  string
	SchemaCommit  string
	BaseDir       string
	Outcome       Outcome
	Lines         int
	Records       int
	FailureLine   int
	FailureReason string
	FailureRecord string
	Violations    []Violation
}

func (r RunReport) ExitCode() int {
	return r.Outcome.ExitCode()
}
