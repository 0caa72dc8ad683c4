package scraper

// Page defines how to drive a single browser page. The collector and the
// orchestrator depend on this instead of a real browser so tests can run
// against an in-memory implementation.
type Page interface {
	// Navigate loads url and blocks until readySelector is present, or
	// fails after bounded retries.
	Navigate(url, readySelector string) error

	// HTML returns the current DOM serialization.
	HTML() (string, error)

	// Scroll performs one lazy-load scroll step.
	Scroll() error

	// ScrollToBottom drains lazy-loaded content, bounded by iteration
	// limits.
	ScrollToBottom() error

	// Click clicks the first matching element; absence is an error the
	// caller may ignore.
	Click(selector string) error
}
