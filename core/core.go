// Package core has the fetch, analyze and encode pipeline for repository files.
package core

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/huangsam/repoviz/internal/contract"
	"github.com/huangsam/repoviz/internal/outwriter"
	"github.com/huangsam/repoviz/schema"
	"github.com/schollz/progressbar/v3"
)

// ExecutorFunc defines the function signature for commands that run an analysis.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, provider contract.AccessProvider, mgr contract.HistoryManager) error

// ExecuteAnalyze runs the pipeline for cfg.Locator and prints the batch.
// With cfg.Watch set it re-submits the locator on every tick until ctx ends;
// each submission supersedes the previous one.
func ExecuteAnalyze(ctx context.Context, cfg *contract.Config, provider contract.AccessProvider, mgr contract.HistoryManager) error {
	o := NewOrchestrator(provider, SettingsFromConfig(cfg))
	if cfg.Watch <= 0 {
		return runAnalysisOnce(ctx, cfg, o, mgr)
	}

	ticker := time.NewTicker(cfg.Watch)
	defer ticker.Stop()
	for {
		if err := runAnalysisOnce(ctx, cfg, o, mgr); err != nil {
			contract.LogWarn("Analysis failed", err)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// ExecuteLegend prints the color and transparency legend.
// It is static and does not contact any repository.
func ExecuteLegend(_ context.Context, cfg *contract.Config, _ contract.AccessProvider, _ contract.HistoryManager) error {
	return outwriter.PrintLegend(cfg)
}

// GetAnalysisResults runs the pipeline quietly and returns the completed batch.
// It is used by callers that render results themselves, like the MCP server.
func GetAnalysisResults(ctx context.Context, cfg *contract.Config, provider contract.AccessProvider, mgr contract.HistoryManager) (*schema.AnalysisBatch, error) {
	o := NewOrchestrator(provider, SettingsFromConfig(cfg))
	quiet := withSuppressHeader(ctx)
	quiet = beginHistoryRun(quiet, cfg, mgr)

	_, final := Collect(o.Submit(quiet, cfg.Locator))
	endHistoryRun(quiet, mgr, final)
	if final.Kind == schema.FailedEvent {
		return nil, final.Err
	}
	return final.Batch, nil
}

// runAnalysisOnce performs one submission with header, progress and output.
func runAnalysisOnce(ctx context.Context, cfg *contract.Config, o *Orchestrator, mgr contract.HistoryManager) error {
	start := time.Now()
	if !shouldSuppressHeader(ctx) {
		outwriter.LogAnalysisHeader(cfg)
	}
	ctx = beginHistoryRun(ctx, cfg, mgr)

	final := drainEvents(ctx, o.Submit(ctx, cfg.Locator))
	endHistoryRun(ctx, mgr, final)
	if final.Kind == schema.FailedEvent {
		return fmt.Errorf("analysis of %s failed: %w", cfg.Locator, final.Err)
	}
	return outwriter.PrintBatch(final.Batch, cfg, time.Since(start))
}

// drainEvents consumes a run, rendering a progress bar on stderr unless suppressed.
func drainEvents(ctx context.Context, events <-chan schema.Event) schema.Event {
	var bar *progressbar.ProgressBar
	var final schema.Event
	for ev := range events {
		if ev.IsTerminal() {
			final = ev
			continue
		}
		if shouldSuppressHeader(ctx) {
			continue
		}
		if bar == nil {
			bar = newProgressBar(ev.Total)
		}
		bar.Describe(ev.Path)
		_ = bar.Set(ev.Index + 1)
	}
	if bar != nil {
		_ = bar.Finish()
	}
	return final
}

// newProgressBar mirrors the CLI progress style used for long imports.
func newProgressBar(total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetTheme(progressbar.Theme{Saucer: "#", SaucerPadding: " ", BarStart: "|", BarEnd: "|"}),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionFullWidth(),
		progressbar.OptionSetRenderBlankState(true),
	)
}

// beginHistoryRun opens a history run when a store is configured and the
// locator is valid. The run ID travels in the returned context.
func beginHistoryRun(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager) context.Context {
	if mgr == nil {
		return ctx
	}
	store := mgr.GetHistoryStore()
	if store == nil {
		return ctx
	}
	loc, err := ParseLocator(cfg.Locator, cfg.Host)
	if err != nil {
		return ctx // The orchestrator reports the invalid locator
	}
	configParams := map[string]any{
		"provider":  string(cfg.Provider),
		"extension": cfg.Extension,
		"yellow":    cfg.Thresholds.Yellow,
		"red":       cfg.Thresholds.Red,
	}
	runID, err := store.BeginRun(loc, time.Now(), configParams)
	if err != nil {
		contract.LogWarn("History tracking initialization failed", err)
		return ctx
	}
	return withHistoryRunID(ctx, runID)
}

// endHistoryRun stores the outcome and, for a completed run, its records.
func endHistoryRun(ctx context.Context, mgr contract.HistoryManager, final schema.Event) {
	runID, ok := getHistoryRunID(ctx)
	if !ok || runID <= 0 || mgr == nil {
		return
	}
	store := mgr.GetHistoryStore()
	if store == nil {
		return
	}

	outcome, total, maxLines := string(schema.FailedPhase), 0, 0
	if final.Kind == schema.CompletedEvent && final.Batch != nil {
		outcome = string(schema.CompletedPhase)
		total, maxLines = final.Batch.Len(), final.Batch.MaxLineCount()
		if err := store.RecordFiles(runID, final.Batch.Records()); err != nil {
			contract.LogWarn("History tracking failed for RecordFiles", err)
		}
	}
	if err := store.EndRun(runID, time.Now(), outcome, total, maxLines); err != nil {
		contract.LogWarn("Failed to finalize history tracking", err)
	}
}
