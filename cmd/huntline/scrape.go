package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/huntline/huntline/internal/common"
	"github.com/huntline/huntline/internal/interfaces"
	"github.com/huntline/huntline/internal/profile"
	"github.com/huntline/huntline/internal/scraper"
	"github.com/huntline/huntline/internal/scraper/browserpool"
	"github.com/huntline/huntline/internal/scraper/resolver"
	"github.com/huntline/huntline/internal/scraper/sites"
	"github.com/huntline/huntline/internal/storage/badgerstore"
)

func runScrape(logger common.Logger, cfg *common.Config, args []string) int {
	fs := flag.NewFlagSet("scrape", flag.ContinueOnError)
	profileName := fs.String("profile", "", "profile name (required)")
	siteList := fs.String("sites", "", "comma-separated site names (default: all)")
	maxPages := fs.Int("max-pages-per-keyword", 3, "pages to walk per keyword/location")
	maxJobs := fs.Int("max-jobs-per-keyword", 50, "jobs to keep per keyword/location")
	if err := fs.Parse(stripConfigFlags(args)); err != nil {
		return exitInvalid
	}
	if *profileName == "" {
		fmt.Fprintln(os.Stderr, "huntline scrape: -profile is required")
		return exitInvalid
	}

	root, err := common.ProfileRoot()
	if err != nil {
		fmt.Fprintln(os.Stderr, "huntline scrape:", err)
		return exitInvalid
	}

	prof, err := profile.Load(root, *profileName)
	if err != nil {
		fmt.Fprintln(os.Stderr, "huntline scrape: profile not found:", err)
		return exitProfileNotFound
	}

	var adapters []sites.Adapter
	if *siteList == "" {
		adapters = sites.All()
	} else {
		names := strings.Split(*siteList, ",")
		adapters, err = sites.ByName(names)
		if err != nil {
			fmt.Fprintln(os.Stderr, "huntline scrape:", err)
			return exitInvalid
		}
	}

	store, err := badgerstore.Open(filepath.Join(profile.Dir(root, *profileName), "store"), logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "huntline scrape: store open failed:", err)
		return exitTransientFailure
	}
	defer store.Close()

	rc := interfaces.NewRunContext(context.Background(), store, logger, time.Time{})

	pool, err := browserpool.New(rc.Context, browserpool.Config{
		Size:           cfg.Crawler.PoolSize,
		UserAgent:      cfg.Crawler.UserAgent,
		ViewportWidth:  cfg.Crawler.ViewportWidth,
		ViewportHeight: cfg.Crawler.ViewportHeight,
		PreWarm:        cfg.Crawler.PreWarm,
		StartupTimeout: 30 * time.Second,
	}, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "huntline scrape: browser pool init failed:", err)
		return exitTransientFailure
	}
	defer pool.Shutdown(context.Background())

	res := resolver.New(pool, logger, time.Duration(cfg.Crawler.PerClickBudgetMS)*time.Millisecond, rc.Counters)
	rateLimiter := scraper.NewRateLimiter(
		time.Duration(cfg.Crawler.MinDelayMS)*time.Millisecond,
		time.Duration(cfg.Crawler.MaxDelayMS)*time.Millisecond,
	)
	retryPolicy := scraper.NewRetryPolicy(cfg.Crawler.MaxRetries)

	s := scraper.New(pool, res, rateLimiter, retryPolicy, logger)

	startedAt := time.Now()
	summary := s.Scrape(rc, prof.Keywords, prof.PreferredLocations, adapters, scraper.Limits{
		MaxPagesPerKeyword:   *maxPages,
		MaxJobsPerKeyword:    *maxJobs,
		MaxConcurrentWorkers: cfg.Crawler.PoolSize,
	})

	_ = store.Append(interfaces.RunLogEntry{
		RunID:     rc.RunID,
		Kind:      "scrape",
		StartedAt: startedAt,
		EndedAt:   time.Now(),
		Counters:  summary.Counters,
	})

	printSummary(summary.Counters)

	inserted := summary.Counters["upsert_inserted"] + summary.Counters["upsert_updated"]
	driftedSites := countDriftedSites(summary.Counters, len(adapters))
	if inserted == 0 && len(adapters) > 0 && driftedSites == len(adapters) {
		return exitCoreDriftAllSites
	}
	return exitSuccess
}

func countDriftedSites(counters map[string]int64, totalSites int) int {
	drifted := 0
	for key, count := range counters {
		if strings.HasPrefix(key, "adapter_drift:") && count > 0 {
			drifted++
		}
	}
	if drifted > totalSites {
		drifted = totalSites
	}
	return drifted
}

func printSummary(counters map[string]int64) {
	fmt.Printf("summary:")
	for k, v := range counters {
		fmt.Printf(" %s=%d", k, v)
	}
	fmt.Println()
}
