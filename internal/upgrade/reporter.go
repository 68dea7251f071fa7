package upgrade

// Reporter receives the human-readable narration of an upgrade run.
// The CLI plugs in a colored stepwise implementation; the default
// swallows everything so the package stays quiet as a library.
type Reporter interface {
	// Step announces a new phase of the run.
	Step(msg string)

	// Detail adds context under the current step.
	Detail(msg string)

	// Warn reports something worth attention that does not stop the run.
	Warn(msg string)
}

type noopReporter struct{}

func (noopReporter) Step(msg string)   {}
func (noopReporter) Detail(msg string) {}
func (noopReporter) Warn(msg string)   {}

// defaultReporter returns the no-op reporter.
func defaultReporter() Reporter {
	return noopReporter{}
}
