package scraper

import (
	"context"
	"math/rand"
	"net/http"
	"net/url"
	"time"

	"github.com/temoto/robotstxt"
	"golang.org/x/time/rate"
)

// Pacer spaces out requests against the target domain and checks its
// robots.txt. There is one browser session and one domain per run, so a
// single limiter is enough.
type Pacer struct {
	limiter     *rate.Limiter
	jitter      time.Duration
	userAgent   string
	robotsCache map[string]*robotstxt.Group
}

func NewPacer(minDelay, maxDelay time.Duration, userAgent string) *Pacer {
	if maxDelay < minDelay {
		minDelay, maxDelay = maxDelay, minDelay
	}
	if minDelay <= 0 {
		minDelay = time.Second
	}
	return &Pacer{
		limiter:     rate.NewLimiter(rate.Every(minDelay), 1),
		jitter:      maxDelay - minDelay,
		userAgent:   userAgent,
		robotsCache: make(map[string]*robotstxt.Group),
	}
}

// Wait blocks until the limiter allows the next request, then adds a
// random jitter so request spacing does not look clockwork.
func (p *Pacer) Wait() error {
	if err := p.limiter.Wait(context.Background()); err != nil {
		return err
	}
	if p.jitter > 0 {
		time.Sleep(time.Duration(rand.Int63n(int64(p.jitter))))
	}
	return nil
}

// Allowed reports whether robots.txt permits fetching link. A missing or
// unparsable robots.txt counts as allowed.
func (p *Pacer) Allowed(link string) bool {
	u, err := url.Parse(link)
	if err != nil {
		return false
	}

	group, cached := p.robotsCache[u.Host]
	if !cached {
		group = p.fetchRobotsGroup(u)
		p.robotsCache[u.Host] = group
	}

	if group == nil {
		return true
	}
	return group.Test(u.Path)
}

func (p *Pacer) fetchRobotsGroup(u *url.URL) *robotstxt.Group {
	resp, err := http.Get(u.Scheme + "://" + u.Host + "/robots.txt")
	if err != nil || resp.StatusCode != http.StatusOK {
		if resp != nil {
			resp.Body.Close()
		}
		return nil
	}
	defer resp.Body.Close()

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		return nil
	}
	return data.FindGroup(p.userAgent)
}
