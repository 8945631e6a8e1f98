package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/huntline/huntline/internal/common"
	"github.com/huntline/huntline/internal/interfaces"
	"github.com/huntline/huntline/internal/processing"
	"github.com/huntline/huntline/internal/processing/stage1"
	"github.com/huntline/huntline/internal/processing/stage2"
	"github.com/huntline/huntline/internal/profile"
	"github.com/huntline/huntline/internal/services/llm"
	"github.com/huntline/huntline/internal/storage/badgerstore"
)

func runProcess(logger common.Logger, cfg *common.Config, args []string) int {
	fs := flag.NewFlagSet("process", flag.ContinueOnError)
	profileName := fs.String("profile", "", "profile name (required)")
	maxRecords := fs.Int("max-records", 0, "cap on records processed this run (0 = no cap)")
	if err := fs.Parse(stripConfigFlags(args)); err != nil {
		return exitInvalid
	}
	if *profileName == "" {
		fmt.Fprintln(os.Stderr, "huntline process: -profile is required")
		return exitInvalid
	}

	root, err := common.ProfileRoot()
	if err != nil {
		fmt.Fprintln(os.Stderr, "huntline process:", err)
		return exitInvalid
	}

	prof, err := profile.Load(root, *profileName)
	if err != nil {
		fmt.Fprintln(os.Stderr, "huntline process: profile not found:", err)
		return exitProfileNotFound
	}

	store, err := badgerstore.Open(filepath.Join(profile.Dir(root, *profileName), "store"), logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "huntline process: store open failed:", err)
		return exitTransientFailure
	}
	defer store.Close()

	rc := interfaces.NewRunContext(context.Background(), store, logger, time.Time{})

	llmService, err := llm.New(cfg.LLM, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "huntline process: llm init failed:", err)
		return exitTransientFailure
	}
	defer llmService.Close()

	evaluator := stage1.NewEvaluator(cfg.Processing.Stage1Threshold)
	analyzer := stage2.NewCached(stage2.NewFromConfig(cfg.LLM, llmService, llmService), 1024)
	proc := processing.New(evaluator, analyzer)

	startedAt := time.Now()
	summary, err := proc.Process(rc, prof, processing.Limits{
		CPUWorkers:      cfg.Processing.CPUWorkers,
		Stage2Workers:   cfg.Processing.Stage2Workers,
		MaxRecords:      *maxRecords,
		Stage1Threshold: cfg.Processing.Stage1Threshold,
		Stage1Weight:    cfg.Processing.Stage1Weight,
		Stage2Weight:    cfg.Processing.Stage2Weight,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "huntline process: run failed:", err)
		if common.KindOf(err) == common.KindTransient {
			return exitTransientFailure
		}
		return exitUnknown
	}

	_ = store.Append(interfaces.RunLogEntry{
		RunID:     rc.RunID,
		Kind:      "process",
		StartedAt: startedAt,
		EndedAt:   time.Now(),
		Counters: map[string]int64{
			"stage1_scored":   summary.Stage1Scored,
			"stage1_skipped":  summary.Stage1Skipped,
			"stage2_analyzed": summary.Stage2Analyzed,
			"stage2_skipped":  summary.Stage2Skipped,
			"processed":       summary.Processed,
			"adapter_drifts":  summary.AdapterDrifts,
		},
	})

	fmt.Printf("stage1: scored=%d skipped=%d (%s)\n", summary.Stage1Scored, summary.Stage1Skipped, summary.Stage1Duration)
	fmt.Printf("stage2: analyzed=%d skipped=%d (%s)\n", summary.Stage2Analyzed, summary.Stage2Skipped, summary.Stage2Duration)
	fmt.Printf("processed=%d adapter_drifts=%d\n", summary.Processed, summary.AdapterDrifts)

	if summary.Processed == 0 && summary.AdapterDrifts > 0 && summary.Stage1Scored == 0 {
		return exitCoreDriftAllSites
	}
	return exitSuccess
}
