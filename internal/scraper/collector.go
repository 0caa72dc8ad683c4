package scraper

import (
	"fmt"
	"log"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// The listing markup has shifted across site revisions; try each selector
// until one matches.
var restaurantCardSelectors = []string{
	"a[data-testid='restaurant-card']",
	"a[href*='/restaurant/']",
	"a[class*='restaurant']",
	"a[class*='vendor']",
}

// Collector drives a browser page over the listing for one location and
// produces a deduplicated list of restaurant detail URLs.
type Collector struct {
	page       Page
	baseURL    string
	listingURL string

	// MaxStalls is how many consecutive scrolls may yield no new URLs
	// before the listing counts as exhausted.
	MaxStalls int

	// MaxScrolls bounds the scroll loop regardless of progress.
	MaxScrolls int
}

func NewCollector(page Page, location string) *Collector {
	return &Collector{
		page:       page,
		baseURL:    BaseURL(location),
		listingURL: ListingURL(location),
		MaxStalls:  3,
		MaxScrolls: 20,
	}
}

// Collect returns up to limit distinct restaurant URLs in page presentation
// order. Fewer than limit is not an error; zero is ErrNoResults.
func (c *Collector) Collect(limit int) ([]string, error) {
	log.Printf("Navigating to listing page: %s", c.listingURL)
	if err := c.page.Navigate(c.listingURL, "body"); err != nil {
		return nil, err
	}

	doc, err := c.document()
	if err != nil {
		return nil, err
	}
	if CaptchaOn(doc) {
		return nil, fmt.Errorf("listing page: %w", ErrCaptchaDetected)
	}

	seen := make(map[string]struct{})
	var urls []string
	stalls := 0

	for scrolls := 0; scrolls < c.MaxScrolls; scrolls++ {
		added := c.extract(doc, seen, &urls, limit)
		if len(urls) >= limit {
			break
		}
		if added == 0 {
			stalls++
			if stalls >= c.MaxStalls {
				break
			}
		} else {
			stalls = 0
		}
		log.Printf("Found %d restaurant URLs so far", len(urls))

		if err := c.page.Scroll(); err != nil {
			return nil, err
		}
		if doc, err = c.document(); err != nil {
			return nil, err
		}
	}

	if len(urls) == 0 {
		return nil, ErrNoResults
	}
	log.Printf("Collected %d restaurant URLs", len(urls))
	return urls, nil
}

// extract pulls card hrefs from doc into urls, skipping duplicates, and
// returns how many new URLs appeared.
func (c *Collector) extract(doc *goquery.Document, seen map[string]struct{}, urls *[]string, limit int) int {
	added := 0
	for _, sel := range restaurantCardSelectors {
		cards := doc.Find(sel)
		if cards.Length() == 0 {
			continue
		}
		cards.Each(func(_ int, card *goquery.Selection) {
			if len(*urls) >= limit {
				return
			}
			href, ok := card.Attr("href")
			if !ok || strings.TrimSpace(href) == "" {
				return
			}
			full := resolveURL(c.baseURL, href)
			if full == "" {
				return
			}
			if _, dup := seen[full]; dup {
				return
			}
			seen[full] = struct{}{}
			*urls = append(*urls, full)
			added++
		})
		// The first selector that matches is the live markup; the rest
		// only catch older site revisions.
		break
	}
	return added
}

func (c *Collector) document() (*goquery.Document, error) {
	html, err := c.page.HTML()
	if err != nil {
		return nil, err
	}
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}
