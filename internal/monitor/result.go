// Package monitor provides the background monitoring engine: the polling
// scheduler, the price alert evaluator, and the booking reminder evaluator.
package monitor

// Outcome classifies the result of evaluating a single alert or booking.
type Outcome string

const (
	// OutcomeOK means the item was fully evaluated, whether or not a
	// state change or notification resulted.
	OutcomeOK Outcome = "ok"
	// OutcomeSkipped means the item was intentionally left untouched
	// this tick.
	OutcomeSkipped Outcome = "skipped"
	// OutcomeFailed means evaluation hit an error; the item is retried
	// on the next tick.
	OutcomeFailed Outcome = "failed"
)

// EvalResult is the structured per-item evaluation result. Failures are
// contained here so one bad item never aborts a tick.
type EvalResult struct {
	ID      string
	Outcome Outcome
	Reason  string
	Err     error
}

func resultOK(id, reason string) EvalResult {
	return EvalResult{ID: id, Outcome: OutcomeOK, Reason: reason}
}

func resultSkipped(id, reason string) EvalResult {
	return EvalResult{ID: id, Outcome: OutcomeSkipped, Reason: reason}
}

func resultFailed(id string, err error) EvalResult {
	return EvalResult{ID: id, Outcome: OutcomeFailed, Err: err}
}

// tickStats accumulates per-tick outcome counts for the summary log.
type tickStats struct {
	total   int
	ok      int
	skipped int
	failed  int
}

func (s *tickStats) add(r EvalResult) {
	s.total++
	switch r.Outcome {
	case OutcomeOK:
		s.ok++
	case OutcomeSkipped:
		s.skipped++
	case OutcomeFailed:
		s.failed++
	}
}
