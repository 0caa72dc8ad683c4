package scraper

// fakePage is an in-memory Page implementation. Listing content comes from
// frames, one per scroll step; detail pages are served by URL.
type fakePage struct {
	frames []string          // successive listing HTML, advanced by Scroll
	frame  int
	pages  map[string]string // detail page HTML keyed by URL

	current   string
	navErr    map[string]error
	navigated []string
	clicked   []string
}

func (f *fakePage) Navigate(url, _ string) error {
	f.navigated = append(f.navigated, url)
	if err, ok := f.navErr[url]; ok {
		return err
	}
	f.current = url
	return nil
}

func (f *fakePage) HTML() (string, error) {
	if html, ok := f.pages[f.current]; ok {
		return html, nil
	}
	if len(f.frames) == 0 {
		return "", nil
	}
	i := f.frame
	if i >= len(f.frames) {
		i = len(f.frames) - 1
	}
	return f.frames[i], nil
}

func (f *fakePage) Scroll() error {
	f.frame++
	return nil
}

func (f *fakePage) ScrollToBottom() error { return nil }

func (f *fakePage) Click(selector string) error {
	f.clicked = append(f.clicked, selector)
	return nil
}
