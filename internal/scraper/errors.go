package scraper

import (
	"errors"
	"fmt"
)

var (
	// ErrNoResults means the listing page yielded zero restaurants for
	// the location. Fatal for the run.
	ErrNoResults = errors.New("no restaurants found for location")

	// ErrCaptchaDetected is a control signal, not a failure: the run
	// stops early and whatever was parsed so far is still written out.
	ErrCaptchaDetected = errors.New("captcha detected")

	// ErrRobotsDisallowed means robots.txt forbids crawling the listing
	// path for our user agent.
	ErrRobotsDisallowed = errors.New("robots.txt disallows crawling")
)

// ParseError reports a restaurant that failed required-field validation.
// The orchestrator skips it and continues with the next URL.
type ParseError struct {
	URL   string
	Field string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s: missing required field %q", e.URL, e.Field)
}
