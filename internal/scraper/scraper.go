package scraper

import (
	"errors"
	"log"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"foodpanda-scraper/pkg/models"
)

// Sink persists the accumulated records. The orchestrator flushes it
// periodically so a crash mid-run loses at most the current batch.
type Sink interface {
	Save(records []models.RestaurantRecord) error
}

// Throttler gates requests against the target site. *Pacer is the real
// implementation.
type Throttler interface {
	Allowed(link string) bool
	Wait() error
}

const moreInfoSelector = "[data-testid='vendor-info-more-info-btn']"

// Scraper runs the whole pipeline for one job: collect listing URLs, then
// navigate, gate on captcha, parse and accumulate each detail page, and
// write the output.
type Scraper struct {
	page      Page
	collector *Collector
	sink      Sink
	throttle  Throttler
	job       models.ScrapeJob

	// FlushEvery triggers an intermediate save after this many parsed
	// restaurants. Zero disables intermediate saves.
	FlushEvery int
}

func New(page Page, collector *Collector, sink Sink, throttle Throttler, job models.ScrapeJob) *Scraper {
	return &Scraper{
		page:       page,
		collector:  collector,
		sink:       sink,
		throttle:   throttle,
		job:        job,
		FlushEvery: 5,
	}
}

// Run executes the pipeline to completion and returns the parsed records.
// A captcha mid-run stops the loop: everything parsed so far is written
// and the records are returned together with ErrCaptchaDetected. Failures
// local to one restaurant are logged and skipped.
func (s *Scraper) Run() ([]models.RestaurantRecord, error) {
	listingURL := ListingURL(s.job.Location)
	if s.throttle != nil && !s.throttle.Allowed(listingURL) {
		return nil, ErrRobotsDisallowed
	}

	urls, err := s.collector.Collect(s.job.Limit)
	if err != nil {
		if errors.Is(err, ErrCaptchaDetected) {
			// Nothing parsed yet, but the output contract still holds:
			// whatever exists when a captcha hits gets written.
			s.flush(nil)
		}
		return nil, err
	}

	// The cap bounds how many detail pages get visited, not how many
	// parse cleanly, so a skipped restaurant never pulls in an extra URL.
	if s.job.MaxRestaurants > 0 && s.job.MaxRestaurants < len(urls) {
		urls = urls[:s.job.MaxRestaurants]
	}
	total := len(urls)
	log.Printf("Starting to scrape %d restaurants", total)

	var records []models.RestaurantRecord
	var runErr error

	for i, url := range urls {
		log.Printf("[%d/%d] Processing restaurant: %s", i+1, total, url)

		if i > 0 && s.throttle != nil {
			if err := s.throttle.Wait(); err != nil {
				runErr = err
				break
			}
		}

		doc, err := s.loadDetailPage(url)
		if err != nil {
			log.Printf("Skipping %s: %v", url, err)
			continue
		}

		if CaptchaOn(doc) {
			log.Printf("Captcha detected on %s, stopping run with %d records", url, len(records))
			runErr = ErrCaptchaDetected
			break
		}

		rec, err := ParseRestaurant(doc, url)
		if err != nil {
			var perr *ParseError
			if errors.As(err, &perr) {
				log.Printf("Skipping %s: %v", url, err)
				continue
			}
			runErr = err
			break
		}

		log.Printf("Scraped restaurant: %s (%d menu categories)", rec.Name, len(rec.Menu))
		records = append(records, rec)

		if s.FlushEvery > 0 && len(records)%s.FlushEvery == 0 {
			s.flush(records)
		}
	}

	s.flush(records)
	return records, runErr
}

// loadDetailPage navigates to a restaurant page, reveals the address
// modal, drains lazy-loaded menu content and returns the parsed DOM.
func (s *Scraper) loadDetailPage(url string) (*goquery.Document, error) {
	if err := s.page.Navigate(url, "h1"); err != nil {
		return nil, err
	}

	// Best effort: the address only appears after the info modal opens.
	if err := s.page.Click(moreInfoSelector); err != nil {
		log.Printf("More-info button unavailable on %s: %v", url, err)
	}

	if err := s.page.ScrollToBottom(); err != nil {
		log.Printf("Scroll failed on %s, parsing partial page: %v", url, err)
	}

	html, err := s.page.HTML()
	if err != nil {
		return nil, err
	}
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

func (s *Scraper) flush(records []models.RestaurantRecord) {
	if s.sink == nil {
		return
	}
	if err := s.sink.Save(records); err != nil {
		log.Printf("Error saving data: %v", err)
		return
	}
	log.Printf("Data saved, current count: %d restaurants", len(records))
}
