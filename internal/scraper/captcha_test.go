package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCaptchaOn(t *testing.T) {
	tests := []struct {
		name string
		html string
		want bool
	}{
		{
			name: "recaptcha iframe",
			html: `<html><body><iframe src="https://www.google.com/recaptcha/api2/anchor"></iframe></body></html>`,
			want: true,
		},
		{
			name: "captcha div",
			html: `<html><body><div class="px-captcha-container"></div></body></html>`,
			want: true,
		},
		{
			name: "challenge text",
			html: `<html><body><p>Please verify you are human to continue.</p></body></html>`,
			want: true,
		},
		{
			name: "normal restaurant page",
			html: `<html><body><h1>Pizza Place</h1><div class="menu"></div></body></html>`,
			want: false,
		},
		{
			name: "empty page",
			html: `<html><body></body></html>`,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := docFromString(t, tt.html)
			assert.Equal(t, tt.want, CaptchaOn(doc))
		})
	}
}
