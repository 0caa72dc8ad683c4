package scraper

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodpanda-scraper/pkg/models"
)

type fakeSink struct {
	saves [][]models.RestaurantRecord
}

func (s *fakeSink) Save(records []models.RestaurantRecord) error {
	cp := append([]models.RestaurantRecord{}, records...)
	s.saves = append(s.saves, cp)
	return nil
}

func (s *fakeSink) last() []models.RestaurantRecord {
	if len(s.saves) == 0 {
		return nil
	}
	return s.saves[len(s.saves)-1]
}

type fakeThrottle struct {
	waits   int
	allowed []string
}

func (f *fakeThrottle) Wait() error {
	f.waits++
	return nil
}

func (f *fakeThrottle) Allowed(link string) bool {
	f.allowed = append(f.allowed, link)
	return true
}

func detailHTML(name string) string {
	return fmt.Sprintf(`<html><body>
		<h1>%s</h1>
		<ul class="bds-c-tabs__list"><button><span>Mains (1)</span></button></ul>
		<div class="menu">
			<ul class="dish-list-grid">
				<li>
					<h3><span data-testid="menu-product-name">Biryani</span></h3>
					<p data-testid="menu-product-price">Rs. 450</p>
				</li>
			</ul>
		</div>
	</body></html>`, name)
}

const captchaHTML = `<html><body><iframe src="https://c/captcha/frame"></iframe></body></html>`

// newTestScraper wires a scraper over fakes for a singapore job with the
// given restaurant detail pages, listed in order.
func newTestScraper(maxRestaurants int, details map[string]string, order ...string) (*Scraper, *fakePage, *fakeSink) {
	hrefs := make([]string, len(order))
	pages := make(map[string]string, len(details))
	for i, id := range order {
		hrefs[i] = "/restaurant/" + id
		if html, ok := details[id]; ok {
			pages["https://www.foodpanda.sg/restaurant/"+id] = html
		}
	}

	page := &fakePage{
		frames: []string{listingHTML(hrefs...)},
		pages:  pages,
	}
	sink := &fakeSink{}
	collector := NewCollector(page, "singapore")
	collector.MaxStalls = 1

	job := models.ScrapeJob{Location: "singapore", Limit: 10, MaxRestaurants: maxRestaurants}
	s := New(page, collector, sink, nil, job)
	return s, page, sink
}

func TestScraperRunFullPipeline(t *testing.T) {
	details := map[string]string{
		"a": detailHTML("Alpha Cafe"),
		"b": detailHTML("Bravo Bistro"),
		"c": detailHTML("Charlie Chaat"),
	}
	s, _, sink := newTestScraper(10, details, "a", "b", "c")

	records, err := s.Run()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "Alpha Cafe", records[0].Name)
	assert.Equal(t, "Charlie Chaat", records[2].Name)
	require.Len(t, records[0].Menu, 1)
	assert.Equal(t, 450.0, records[0].Menu[0].Items[0].Price)

	// Final flush carries everything.
	require.NotEmpty(t, sink.saves)
	assert.Len(t, sink.last(), 3)
}

func TestScraperCaptchaStopsRunKeepsPartialData(t *testing.T) {
	details := map[string]string{
		"a": detailHTML("Alpha"),
		"b": detailHTML("Bravo"),
		"c": captchaHTML,
		"d": detailHTML("Delta"),
	}
	s, page, sink := newTestScraper(10, details, "a", "b", "c", "d")

	records, err := s.Run()
	assert.ErrorIs(t, err, ErrCaptchaDetected)

	// Captcha on the third restaurant: exactly two records survive and
	// the fourth URL is never visited.
	require.Len(t, records, 2)
	assert.Equal(t, "Alpha", records[0].Name)
	assert.Equal(t, "Bravo", records[1].Name)
	assert.Len(t, sink.last(), 2)
	assert.NotContains(t, page.navigated, "https://www.foodpanda.sg/restaurant/d")
}

func TestScraperMaxRestaurantsCapsIndependentlyOfLimit(t *testing.T) {
	details := map[string]string{
		"a": detailHTML("Alpha"),
		"b": detailHTML("Bravo"),
		"c": detailHTML("Charlie"),
		"d": detailHTML("Delta"),
	}
	s, page, sink := newTestScraper(2, details, "a", "b", "c", "d")

	records, err := s.Run()
	require.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Len(t, sink.last(), 2)
	assert.NotContains(t, page.navigated, "https://www.foodpanda.sg/restaurant/c")
	assert.NotContains(t, page.navigated, "https://www.foodpanda.sg/restaurant/d")
}

func TestScraperMaxRestaurantsBoundsVisitsNotRecords(t *testing.T) {
	details := map[string]string{
		"a": `<html><body><p>no heading here</p></body></html>`,
		"b": detailHTML("Bravo"),
		"c": detailHTML("Charlie"),
	}
	s, page, _ := newTestScraper(2, details, "a", "b", "c")

	records, err := s.Run()
	require.NoError(t, err)

	// The first restaurant fails to parse, but the cap counts visits:
	// the third URL must not be fetched to make up for it.
	require.Len(t, records, 1)
	assert.Equal(t, "Bravo", records[0].Name)
	assert.NotContains(t, page.navigated, "https://www.foodpanda.sg/restaurant/c")
}

func TestScraperWaitsOnlyBetweenDetailPages(t *testing.T) {
	details := map[string]string{
		"a": detailHTML("Alpha"),
		"b": detailHTML("Bravo"),
		"c": detailHTML("Charlie"),
	}
	s, _, _ := newTestScraper(10, details, "a", "b", "c")
	throttle := &fakeThrottle{}
	s.throttle = throttle

	records, err := s.Run()
	require.NoError(t, err)
	require.Len(t, records, 3)

	// No delay ahead of the first page, one between each pair after.
	assert.Equal(t, 2, throttle.waits)
	assert.Contains(t, throttle.allowed, ListingURL("singapore"))
}

func TestScraperSkipsRestaurantsWithoutName(t *testing.T) {
	details := map[string]string{
		"a": detailHTML("Alpha"),
		"b": `<html><body><p>no heading here</p></body></html>`,
		"c": detailHTML("Charlie"),
	}
	s, _, _ := newTestScraper(10, details, "a", "b", "c")

	records, err := s.Run()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Alpha", records[0].Name)
	assert.Equal(t, "Charlie", records[1].Name)
}

func TestScraperSkipsFailedNavigation(t *testing.T) {
	details := map[string]string{
		"a": detailHTML("Alpha"),
		"c": detailHTML("Charlie"),
	}
	s, page, _ := newTestScraper(10, details, "a", "b", "c")
	page.navErr = map[string]error{
		"https://www.foodpanda.sg/restaurant/b": fmt.Errorf("net::ERR_TIMED_OUT"),
	}

	records, err := s.Run()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Charlie", records[1].Name)
}

func TestScraperOpensInfoModalOnDetailPages(t *testing.T) {
	details := map[string]string{"a": detailHTML("Alpha")}
	s, page, _ := newTestScraper(10, details, "a")

	_, err := s.Run()
	require.NoError(t, err)
	assert.Contains(t, page.clicked, moreInfoSelector)
}
