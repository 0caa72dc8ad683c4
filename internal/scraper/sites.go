package scraper

import (
	"net/url"
	"strings"
)

// Country-specific foodpanda domains. Unknown locations fall back to .com.
var domainExtensions = map[string]string{
	"singapore":   "sg",
	"malaysia":    "my",
	"thailand":    "co.th",
	"philippines": "ph",
	"hong kong":   "hk",
	"taiwan":      "tw",
	"pakistan":    "pk",
	"bangladesh":  "com.bd",
	"japan":       "jp",
	"germany":     "de",
}

func domainExtension(location string) string {
	if ext, ok := domainExtensions[strings.ToLower(strings.TrimSpace(location))]; ok {
		return ext
	}
	return "com"
}

// BaseURL returns the site root for a location, e.g. https://www.foodpanda.pk
func BaseURL(location string) string {
	return "https://www.foodpanda." + domainExtension(location)
}

// ListingURL returns the restaurant search page for a location.
func ListingURL(location string) string {
	return BaseURL(location) + "/restaurants/new?lng=74.31613&lat=31.53391"
}

// resolveURL turns a possibly-relative href into an absolute URL.
func resolveURL(base, href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return ""
	}
	return baseURL.ResolveReference(u).String()
}
