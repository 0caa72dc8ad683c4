package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"

	"foodpanda-scraper/internal/browser"
	"foodpanda-scraper/internal/config"
	"foodpanda-scraper/internal/scraper"
	"foodpanda-scraper/internal/storage"
	"foodpanda-scraper/pkg/models"
)

func main() {
	location := flag.String("location", "pakistan", "Location to search for restaurants")
	limit := flag.Int("limit", 100, "Maximum number of restaurant URLs to collect")
	maxRestaurants := flag.Int("max-restaurants", 100, "Maximum number of restaurants to parse")
	headless := flag.Bool("headless", false, "Run browser in headless mode")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Could not load config: %v", err)
	}

	job := models.ScrapeJob{
		Location:       *location,
		Limit:          *limit,
		MaxRestaurants: *maxRestaurants,
		Headless:       *headless,
	}
	log.Printf("Scraping %q (limit=%d, max-restaurants=%d, headless=%v)",
		job.Location, job.Limit, job.MaxRestaurants, job.Headless)

	session, err := browser.Launch(context.Background(), browser.Options{
		Headless:          job.Headless,
		UserAgent:         cfg.UserAgent,
		WindowWidth:       cfg.WindowWidth,
		WindowHeight:      cfg.WindowHeight,
		NavTimeout:        cfg.NavTimeout,
		NavRetries:        cfg.NavRetries,
		ScrollPause:       cfg.ScrollPause,
		MaxScrollAttempts: cfg.MaxScrollAttempts,
	})
	if err != nil {
		log.Fatalf("Browser failed to launch: %v", err)
	}
	defer session.Close()

	collector := scraper.NewCollector(session, job.Location)
	collector.MaxStalls = cfg.MaxScrollStalls
	collector.MaxScrolls = cfg.MaxScrollAttempts

	s := scraper.New(
		session,
		collector,
		storage.NewWriter(cfg.JSONPath, cfg.CSVPath),
		scraper.NewPacer(cfg.DelayMin, cfg.DelayMax, cfg.UserAgent),
		job,
	)
	s.FlushEvery = cfg.FlushEvery

	records, err := s.Run()
	if err != nil && !errors.Is(err, scraper.ErrCaptchaDetected) {
		log.Printf("Scrape failed: %v", err)
		session.Close()
		os.Exit(1)
	}
	if errors.Is(err, scraper.ErrCaptchaDetected) {
		log.Printf("Run truncated by captcha, keeping the %d restaurants parsed so far", len(records))
	}

	log.Printf("Scraping completed, collected data for %d restaurants", len(records))
	log.Printf("Data saved to %s and %s", cfg.JSONPath, cfg.CSVPath)
}
