package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/huntline/huntline/internal/common"
	"github.com/huntline/huntline/internal/jobrecord"
	"github.com/huntline/huntline/internal/profile"
	"github.com/huntline/huntline/internal/storage/badgerstore"
)

func runStats(logger common.Logger, cfg *common.Config, args []string) int {
	fs := flag.NewFlagSet("stats", flag.ContinueOnError)
	profileName := fs.String("profile", "", "profile name (required)")
	if err := fs.Parse(stripConfigFlags(args)); err != nil {
		return exitInvalid
	}
	if *profileName == "" {
		fmt.Fprintln(os.Stderr, "huntline stats: -profile is required")
		return exitInvalid
	}

	root, err := common.ProfileRoot()
	if err != nil {
		fmt.Fprintln(os.Stderr, "huntline stats:", err)
		return exitInvalid
	}

	if _, err := profile.Load(root, *profileName); err != nil {
		fmt.Fprintln(os.Stderr, "huntline stats: profile not found:", err)
		return exitProfileNotFound
	}

	store, err := badgerstore.Open(filepath.Join(profile.Dir(root, *profileName), "store"), logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "huntline stats: store open failed:", err)
		return exitTransientFailure
	}
	defer store.Close()

	stats, err := store.Stats()
	if err != nil {
		fmt.Fprintln(os.Stderr, "huntline stats: query failed:", err)
		return exitUnknown
	}

	fmt.Println("by status:")
	statuses := make([]jobrecord.Status, 0, len(stats.ByStatus))
	for status := range stats.ByStatus {
		statuses = append(statuses, status)
	}
	sort.Slice(statuses, func(i, j int) bool { return statuses[i] < statuses[j] })
	for _, status := range statuses {
		fmt.Printf("  %-16s %d\n", status, stats.ByStatus[status])
	}

	fmt.Println("by site:")
	sites := make([]string, 0, len(stats.BySite))
	for site := range stats.BySite {
		sites = append(sites, site)
	}
	sort.Strings(sites)
	for _, site := range sites {
		fmt.Printf("  %-16s %d\n", site, stats.BySite[site])
	}

	fmt.Printf("seen in last 24h: %d\n", stats.RecentCount)
	return exitSuccess
}
