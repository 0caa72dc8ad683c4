package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Markers that show up when foodpanda serves a bot challenge instead of
// real content.
var captchaSelectors = []string{
	"iframe[src*='captcha']",
	"iframe[src*='recaptcha']",
	"div[class*='captcha']",
	"div[class*='recaptcha']",
}

var captchaPhrases = []string{
	"verify you are human",
	"are you a robot",
}

// CaptchaOn reports whether the page contains a bot challenge. It is a
// pure predicate: what to do about a captcha is the caller's policy.
func CaptchaOn(doc *goquery.Document) bool {
	for _, sel := range captchaSelectors {
		if doc.Find(sel).Length() > 0 {
			return true
		}
	}
	text := strings.ToLower(doc.Text())
	for _, phrase := range captchaPhrases {
		if strings.Contains(text, phrase) {
			return true
		}
	}
	return false
}
