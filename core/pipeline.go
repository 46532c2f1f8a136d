package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/huangsam/repoviz/internal/contract"
	"github.com/huangsam/repoviz/schema"
	"github.com/samber/lo"
)

// Status messages shown to clients while a run progresses.
const (
	StatusFetching = "Fetching..."
	StatusNoFiles  = "No matching files found."
)

// ErrRunCancelled is the failure cause when a newer submission or Clear stops a run.
var ErrRunCancelled = errors.New("analysis cancelled")

// Settings are the construction-time options of an Orchestrator.
type Settings struct {
	Host         string
	Extension    string
	Thresholds   schema.Thresholds
	FetchTimeout time.Duration // Bound on each provider call (0 = none)
}

// SettingsFromConfig extracts orchestrator settings from a validated config.
func SettingsFromConfig(cfg *contract.Config) Settings {
	return Settings{
		Host:         cfg.Host,
		Extension:    cfg.Extension,
		Thresholds:   cfg.Thresholds,
		FetchTimeout: cfg.FetchTimeout,
	}
}

func (s Settings) withDefaults() Settings {
	if s.Host == "" {
		s.Host = schema.DefaultHost
	}
	if s.Extension == "" {
		s.Extension = schema.DefaultExtension
	}
	if s.Thresholds == (schema.Thresholds{}) {
		s.Thresholds = schema.DefaultThresholds()
	}
	return s
}

// Orchestrator drives listing, per-file analysis and finalization for one
// locator at a time. A new Submit supersedes the run in flight.
type Orchestrator struct {
	provider contract.AccessProvider
	settings Settings

	submitMu sync.Mutex // Serializes Submit and Clear

	mu     sync.Mutex
	state  schema.PipelineState
	last   *schema.AnalysisBatch
	runID  uint64
	cancel context.CancelFunc
	done   chan struct{}
}

// NewOrchestrator creates an idle orchestrator.
func NewOrchestrator(provider contract.AccessProvider, settings Settings) *Orchestrator {
	return &Orchestrator{
		provider: provider,
		settings: settings.withDefaults(),
		state:    schema.PipelineState{Phase: schema.IdlePhase},
	}
}

// Settings returns the effective settings.
func (o *Orchestrator) Settings() Settings {
	return o.settings
}

// Submit starts a run for the raw locator string and returns its event stream.
// Any run still in flight is cancelled first and has reached its terminal
// state before the new one starts. Progress events arrive in index order, the
// terminal event is always last, and the channel is closed afterwards. The
// caller must drain the channel.
func (o *Orchestrator) Submit(ctx context.Context, raw string) <-chan schema.Event {
	o.submitMu.Lock()
	defer o.submitMu.Unlock()

	o.stopActive()

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	events := make(chan schema.Event, 1)

	o.mu.Lock()
	o.runID++
	id := o.runID
	o.cancel = cancel
	o.done = done
	o.state = schema.PipelineState{Phase: schema.IdlePhase}
	o.mu.Unlock()

	go o.run(runCtx, id, raw, events, done)
	return events
}

// Clear cancels any run in flight, forgets the last completed batch and
// returns to idle.
func (o *Orchestrator) Clear() {
	o.submitMu.Lock()
	defer o.submitMu.Unlock()

	o.stopActive()

	o.mu.Lock()
	defer o.mu.Unlock()
	o.last = nil
	o.state = schema.PipelineState{Phase: schema.IdlePhase}
}

// State returns a snapshot of the state machine.
func (o *Orchestrator) State() schema.PipelineState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Batch returns the last completed batch, or nil.
// A failed run leaves it untouched.
func (o *Orchestrator) Batch() *schema.AnalysisBatch {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.last
}

// stopActive cancels the current run and waits for its terminal state.
func (o *Orchestrator) stopActive() {
	o.mu.Lock()
	cancel, done := o.cancel, o.done
	o.cancel, o.done = nil, nil
	o.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// run executes one submission. done is closed once the terminal state is
// recorded, before the terminal event is handed to the subscriber.
func (o *Orchestrator) run(ctx context.Context, id uint64, raw string, events chan<- schema.Event, done chan<- struct{}) {
	defer close(events)

	final := o.execute(ctx, id, raw, events)
	o.finish(id, final)
	close(done)
	events <- final
}

// execute performs the state machine up to, but not including, the terminal transition.
func (o *Orchestrator) execute(ctx context.Context, id uint64, raw string, events chan<- schema.Event) (final schema.Event) {
	defer func() {
		if r := recover(); r != nil {
			final = failedEvent(fmt.Errorf("analysis aborted: %v", r))
		}
	}()

	loc, err := ParseLocator(raw, o.settings.Host)
	if err != nil {
		return failedEvent(err)
	}
	if err := ctx.Err(); err != nil {
		return failedEvent(ErrRunCancelled)
	}

	o.setState(id, schema.PipelineState{Phase: schema.ListingPhase, Status: StatusFetching})
	entries, err := o.listEntries(ctx, loc)
	if err != nil {
		return failedEvent(err)
	}

	paths := lo.Filter(entries, func(p string, _ int) bool {
		return contract.MatchesExtension(p, o.settings.Extension)
	})
	if len(paths) == 0 {
		return completedEvent(schema.NewAnalysisBatch(loc, nil, StatusNoFiles))
	}

	total := len(paths)
	o.setState(id, schema.PipelineState{Phase: schema.AnalyzingPhase, Current: 0, Total: total, Status: StatusFetching})

	provisional := make([]schema.FileRecord, 0, total)
	for i, p := range paths {
		if err := ctx.Err(); err != nil {
			return failedEvent(ErrRunCancelled)
		}

		content, err := o.fetchContent(ctx, loc, p)
		if err != nil {
			return failedEvent(err)
		}
		provisional = append(provisional, analyzeContent(p, content, o.settings.Thresholds))

		status := analyzedStatus(i, total)
		o.setState(id, schema.PipelineState{Phase: schema.AnalyzingPhase, Current: i + 1, Total: total, Status: status})

		ev := schema.Event{Kind: schema.ProgressEvent, Index: i, Total: total, Path: p, Status: status}
		select {
		case events <- ev:
		case <-ctx.Done():
			return failedEvent(ErrRunCancelled)
		}
	}

	records := finalizeRecords(provisional)
	return completedEvent(schema.NewAnalysisBatch(loc, records, completedStatus(len(records))))
}

// listEntries and fetchContent run provider calls on a context that ignores
// run cancellation, so a superseded run still finishes the current call.
func (o *Orchestrator) listEntries(ctx context.Context, loc schema.RepositoryLocator) ([]string, error) {
	callCtx, cancel := o.callContext(ctx)
	defer cancel()
	entries, err := o.provider.ListEntries(callCtx, loc)
	if err != nil {
		return nil, asAccessError("list", loc.Path, err)
	}
	return entries, nil
}

func (o *Orchestrator) fetchContent(ctx context.Context, loc schema.RepositoryLocator, path string) (string, error) {
	callCtx, cancel := o.callContext(ctx)
	defer cancel()
	content, err := o.provider.FetchContent(callCtx, loc, path)
	if err != nil {
		return "", asAccessError("fetch", path, err)
	}
	return content, nil
}

func (o *Orchestrator) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	detached := context.WithoutCancel(ctx)
	if o.settings.FetchTimeout > 0 {
		return context.WithTimeout(detached, o.settings.FetchTimeout)
	}
	return context.WithCancel(detached)
}

// setState records a non-terminal state for the current run.
func (o *Orchestrator) setState(id uint64, state schema.PipelineState) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.runID == id {
		o.state = state
	}
}

// finish records the terminal state and publishes a completed batch.
func (o *Orchestrator) finish(id uint64, final schema.Event) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.runID != id {
		return
	}
	switch final.Kind {
	case schema.CompletedEvent:
		o.last = final.Batch
		o.state = schema.PipelineState{Phase: schema.CompletedPhase, Batch: final.Batch, Status: final.Status}
	default:
		o.state = schema.PipelineState{Phase: schema.FailedPhase, Reason: final.Reason, Status: final.Status}
	}
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
}

func completedEvent(batch *schema.AnalysisBatch) schema.Event {
	return schema.Event{
		Kind:   schema.CompletedEvent,
		Index:  batch.Len(),
		Total:  batch.Len(),
		Batch:  batch,
		Status: batch.Status(),
	}
}

func failedEvent(err error) schema.Event {
	return schema.Event{
		Kind:   schema.FailedEvent,
		Reason: err.Error(),
		Status: failureStatus(err),
		Err:    err,
	}
}

// asAccessError keeps provider errors that already carry ErrAccess and wraps the rest.
func asAccessError(op, path string, err error) error {
	if errors.Is(err, contract.ErrAccess) {
		return err
	}
	return contract.NewAccessError(op, path, err)
}

func analyzedStatus(index, total int) string {
	return fmt.Sprintf("Analyzed %d of %d", index+1, total)
}

func completedStatus(n int) string {
	if n == 1 {
		return "1 file analyzed"
	}
	return fmt.Sprintf("%d files analyzed", n)
}

func failureStatus(err error) string {
	if errors.Is(err, contract.ErrInvalidLocator) {
		return "Invalid URL: " + err.Error()
	}
	return "Error: " + err.Error()
}

// Collect drains a run's events and returns the progress events and the terminal event.
func Collect(events <-chan schema.Event) (progress []schema.Event, final schema.Event) {
	for ev := range events {
		if ev.IsTerminal() {
			final = ev
			continue
		}
		progress = append(progress, ev)
	}
	return progress, final
}
