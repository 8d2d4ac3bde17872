package domain

// StreamState is the mutable counter set for one pass over an input stream.
type StreamState struct {
	Lines   int
	Records int
	Failed  bool
}

// Outcome finalizes the counters. It is only meaningful once the input is exhausted.
func (s StreamState) Outcome() Outcome {
	if s.Failed {
		return OutcomeInvalid
	}
	if s.Records == 0 {
		return OutcomeNoData
	}
	return OutcomeValid
}

type Violation struct {
	InstanceLocation string
	KeywordLocation  string
	Message          string
}

// Pointer returns the instance location, using "(root)" for the document itself.
func (v Violation) Pointer() string {
	if v.InstanceLocation == "" {
		return "(root)"
	}
	return v.InstanceLocation
}
