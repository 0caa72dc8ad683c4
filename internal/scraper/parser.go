package scraper

import (
	"log"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"foodpanda-scraper/pkg/models"
)

var (
	latScriptRegex     = regexp.MustCompile(`"latitude":\s*([-\d.]+)`)
	lngScriptRegex     = regexp.MustCompile(`"longitude":\s*([-\d.]+)`)
	postalCodeRegex    = regexp.MustCompile(`\b\d{5,6}\b`)
	emailRegex         = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	phoneRegex         = regexp.MustCompile(`(?:\+\d{1,3}[-\s]?)?\(?\d{3,4}\)?[-\s]?\d{3}[-\s]?\d{4}`)
	categoryCountRegex = regexp.MustCompile(`\(\d+\)$`)
	bgImageRegex       = regexp.MustCompile(`background-image:\s*url\(['"]?(.*?)['"]?\)`)
	priceRegex         = regexp.MustCompile(`\d+(?:\.\d+)?`)
)

// ParseRestaurant extracts a RestaurantRecord from a loaded detail page.
// The name is the only required field: its absence is a *ParseError and the
// caller skips the restaurant. Every other extractor returns an empty value
// when its markup is missing, because detail pages vary a lot between
// restaurants and partial data beats no data.
func ParseRestaurant(doc *goquery.Document, pageURL string) (models.RestaurantRecord, error) {
	name := elementText(doc.Selection, "h1")
	if name == "" {
		return models.RestaurantRecord{}, &ParseError{URL: pageURL, Field: "name"}
	}

	address := extractAddress(doc)
	rec := models.RestaurantRecord{
		Name:       name,
		URL:        pageURL,
		Image:      extractImage(doc),
		Address:    address,
		PostalCode: postalCodeRegex.FindString(address),
		Latitude:   extractCoordinate(doc, "place:location:latitude", latScriptRegex),
		Longitude:  extractCoordinate(doc, "place:location:longitude", lngScriptRegex),
		Phone:      extractPhone(doc),
		Email:      extractEmail(doc),
		Cuisines:   extractCuisines(doc),
		Menu:       extractMenu(doc, pageURL),
	}
	return rec, nil
}

func extractImage(doc *goquery.Document) string {
	selectors := []string{
		"img.vendor-logo__image",
		"img[data-testid='restaurant-header-image']",
		"img.restaurant-image",
	}
	for _, sel := range selectors {
		if src, ok := doc.Find(sel).First().Attr("src"); ok && src != "" {
			return src
		}
	}
	return ""
}

func extractAddress(doc *goquery.Document) string {
	return elementText(doc.Selection, "div[data-testid='vendor-info-modal-vendor-address'] h1")
}

// extractCoordinate reads a coordinate from the og meta tag, falling back
// to the JSON blobs embedded in script tags.
func extractCoordinate(doc *goquery.Document, metaProperty string, scriptRegex *regexp.Regexp) string {
	if content, ok := doc.Find("meta[property='" + metaProperty + "']").Attr("content"); ok && content != "" {
		return content
	}
	coord := ""
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if m := scriptRegex.FindStringSubmatch(s.Text()); len(m) > 1 {
			coord = m[1]
			return false
		}
		return true
	})
	return coord
}

func extractPhone(doc *goquery.Document) string {
	if href, ok := doc.Find("a[href^='tel:']").First().Attr("href"); ok {
		return strings.TrimPrefix(href, "tel:")
	}
	return phoneRegex.FindString(doc.Text())
}

func extractEmail(doc *goquery.Document) string {
	if href, ok := doc.Find("a[href^='mailto:']").First().Attr("href"); ok {
		return strings.TrimPrefix(href, "mailto:")
	}
	return emailRegex.FindString(doc.Text())
}

func extractCuisines(doc *goquery.Document) []string {
	var cuisines []string
	seen := make(map[string]struct{})
	doc.Find("ul.main-info__characteristics span").Each(func(_ int, s *goquery.Selection) {
		cuisine := strings.TrimSpace(s.Text())
		if cuisine == "" {
			return
		}
		if _, dup := seen[cuisine]; dup {
			return
		}
		seen[cuisine] = struct{}{}
		cuisines = append(cuisines, cuisine)
	})
	return cuisines
}

// extractMenu walks the category tabs in presentation order and pairs each
// with the matching section of the menu container. Categories with no
// valid items are omitted, items without a name or a usable price are
// dropped with a warning.
func extractMenu(doc *goquery.Document, pageURL string) []models.MenuCategory {
	var menu []models.MenuCategory

	tabs := doc.Find("ul.bds-c-tabs__list button span")
	sections := doc.Find("div.menu").Children()

	tabs.Each(func(i int, tab *goquery.Selection) {
		category := strings.TrimSpace(categoryCountRegex.ReplaceAllString(strings.TrimSpace(tab.Text()), ""))
		if category == "" {
			return
		}
		section := sections.Eq(i)
		if section.Length() == 0 {
			return
		}
		items := extractMenuItems(section, pageURL)
		if len(items) == 0 {
			return
		}
		menu = append(menu, models.MenuCategory{Category: category, Items: items})
	})

	return menu
}

func extractMenuItems(section *goquery.Selection, pageURL string) []models.MenuItem {
	var items []models.MenuItem
	section.Find("ul.dish-list-grid li").Each(func(_ int, li *goquery.Selection) {
		name := elementText(li, "h3 span[data-testid='menu-product-name']")
		if name == "" {
			return
		}
		priceText := elementText(li, "p[data-testid='menu-product-price']")
		price, ok := parsePrice(priceText)
		if !ok {
			log.Printf("Dropping item %q on %s: unparsable price %q", name, pageURL, priceText)
			return
		}
		items = append(items, models.MenuItem{
			Name:        name,
			Description: elementText(li, "p.product-tile__description"),
			Price:       price,
			Image:       extractItemImage(li),
		})
	})
	return items
}

func extractItemImage(li *goquery.Selection) string {
	style, ok := li.Find("picture.product-tile__image div").First().Attr("style")
	if !ok {
		return ""
	}
	if m := bgImageRegex.FindStringSubmatch(style); len(m) > 1 {
		return m[1]
	}
	return ""
}

// parsePrice normalizes a price string to a non-negative number. Empty and
// "Free" mean zero-cost and are kept; anything else without digits is
// unusable and the item is dropped.
func parsePrice(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, "free") {
		return 0, true
	}
	// Thousands separators confuse the decimal match.
	s = strings.ReplaceAll(s, ",", "")
	m := priceRegex.FindString(s)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

func elementText(scope *goquery.Selection, selector string) string {
	return strings.TrimSpace(scope.Find(selector).First().Text())
}
