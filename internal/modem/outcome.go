package modem

import "strings"

const (
	ReplyOk       = "OK"
	ReplyError    = "ERROR"
	ReplyCmeError = "+CME ERROR"
)

// Outcome classifies the response to a single command
type Outcome int

const (
	// Ambiguous means no completion marker was seen before the deadline
	Ambiguous Outcome = iota
	Success
	Failure
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case Failure:
		return "failure"
	default:
		return "ambiguous"
	}
}

// Classify inspects the whole accumulated response. Error markers win over
// OK since a trailing status line may follow an earlier partial match.
func Classify(response string) Outcome {
	if strings.Contains(response, ReplyCmeError) || strings.Contains(response, ReplyError) {
		return Failure
	}

	if strings.Contains(response, ReplyOk) {
		return Success
	}

	return Ambiguous
}

// Result is one executed command together with what came back
type Result struct {
	Command  string
	Response string
	// Class is the raw classification, Ambiguous included
	Class Outcome
}

// Outcome collapses Ambiguous into Failure so callers get a boolean-safe answer
func (r Result) Outcome() Outcome {
	if r.Class == Ambiguous {
		return Failure
	}
	return r.Class
}

func (r Result) Succeeded() bool {
	return r.Outcome() == Success
}

// TimedOut is true if no completion marker arrived at all
func (r Result) TimedOut() bool {
	return r.Class == Ambiguous
}
