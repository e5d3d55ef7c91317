package optimization

// reportEvery is the reporting period once the first thousand evaluations
// have been reported one by one.
const reportEvery = 1000

// Reporter receives search progress after evaluations.
type Reporter interface {
	Progress(evaluations int64, bestScore float64)
}

// ReporterFunc adapts a plain function to the Reporter interface.
type ReporterFunc func(evaluations int64, bestScore float64)

// Progress calls f(evaluations, bestScore).
func (f ReporterFunc) Progress(evaluations int64, bestScore float64) {
	f(evaluations, bestScore)
}

// MultiReporter fans progress out to several reporters in order.
type MultiReporter []Reporter

// Progress forwards to every non-nil reporter.
func (m MultiReporter) Progress(evaluations int64, bestScore float64) {
	for _, r := range m {
		if r != nil {
			r.Progress(evaluations, bestScore)
		}
	}
}

// ReportDue reports whether progress should be emitted after the given
// number of evaluations: every evaluation below 1000, then every 1000th.
func ReportDue(evaluations int64) bool {
	return evaluations < reportEvery || evaluations%reportEvery == 0
}
