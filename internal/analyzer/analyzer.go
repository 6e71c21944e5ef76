package analyzer

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/jlens/jlens/internal/config"
	"github.com/jlens/jlens/internal/javasrc"
	"github.com/jlens/jlens/internal/loader"
	"github.com/jlens/jlens/internal/model"
)

// Options selects which detectors run. Disabled detectors produce empty
// result sets; they never block the enabled ones.
type Options struct {
	Structure bool // relationship edges
	APIs      bool // endpoint detection
	Functions bool // method listings on class records
	Batch     bool // batch job detection
}

// DefaultOptions enables every detector.
func DefaultOptions() Options {
	return Options{Structure: true, APIs: true, Functions: true, Batch: true}
}

// ProgressReporter receives analysis progress callbacks.
type ProgressReporter interface {
	OnDiscoveryStart()
	OnDiscoveryComplete(units int)
	OnUnitProcessingStart(totalUnits int)
	OnUnitProcessed(path string)
	OnAnalysisComplete(summary model.Summary, duration time.Duration)
}

// NoOpProgressReporter ignores all progress callbacks.
type NoOpProgressReporter struct{}

func (NoOpProgressReporter) OnDiscoveryStart()                               {}
func (NoOpProgressReporter) OnDiscoveryComplete(int)                         {}
func (NoOpProgressReporter) OnUnitProcessingStart(int)                       {}
func (NoOpProgressReporter) OnUnitProcessed(string)                          {}
func (NoOpProgressReporter) OnAnalysisComplete(model.Summary, time.Duration) {}

// Analyzer runs the full pipeline: discovery, per-unit parsing and
// extraction, merging, and the structural detector passes.
type Analyzer struct {
	cfg      *config.Config
	progress ProgressReporter
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithProgress configures progress reporting.
func WithProgress(progress ProgressReporter) Option {
	return func(a *Analyzer) {
		if progress != nil {
			a.progress = progress
		}
	}
}

// New creates an analyzer with the given configuration.
func New(cfg *config.Config, opts ...Option) *Analyzer {
	a := &Analyzer{
		cfg:      cfg,
		progress: NoOpProgressReporter{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// unitResult is the output of one worker for one unit. Results are stored
// by unit index so the merge order matches loader order regardless of
// completion order.
type unitResult struct {
	parsed  javasrc.ParsedUnit
	classes []model.ClassRecord
}

// Analyze runs the pipeline over the project at rootPath and returns the
// finalized model. The caller receives either a complete model plus
// diagnostics, or a single fatal error for environment-level failures
// (unreadable root, cancellation); per-unit conditions never abort the run.
func (a *Analyzer) Analyze(ctx context.Context, rootPath string, opts Options) (*model.ProjectModel, error) {
	startTime := time.Now()

	a.progress.OnDiscoveryStart()

	src, err := loader.New(rootPath, a.cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to configure source loader: %w", err)
	}

	units, err := src.Discover()
	if err != nil {
		return nil, fmt.Errorf("failed to discover source units: %w", err)
	}
	a.progress.OnDiscoveryComplete(len(units))

	results, err := a.processUnits(ctx, units)
	if err != nil {
		return nil, err
	}

	// Single-threaded merge in loader order keeps duplicate resolution
	// deterministic.
	agg := NewAggregator()
	for _, res := range results {
		agg.AddUnit(res.parsed, res.classes)
	}

	sorted := agg.SortedClasses()

	var edges []model.RelationshipEdge
	if opts.Structure {
		inferred, diags := NewInferencer(agg.Classes(), &a.cfg.Markers).Infer()
		edges = inferred
		agg.AddDiagnostics(diags)
	}

	var endpoints []model.Endpoint
	if opts.APIs {
		endpoints = NewAPIDetector(&a.cfg.Markers).Detect(sorted)
	}

	var batchJobs []model.BatchJob
	if opts.Batch {
		batchJobs = NewBatchDetector(&a.cfg.Markers).Detect(sorted)
	}

	m := agg.Finalize(rootPath, len(units), edges, endpoints, batchJobs, !opts.Functions)

	a.progress.OnAnalysisComplete(m.Summary(), time.Since(startTime))
	return m, nil
}

// processUnits parses and extracts every unit through a bounded worker
// pool. Units carry no cross-unit dependency, so workers share nothing but
// the read-only parser and write disjoint result slots.
func (a *Analyzer) processUnits(ctx context.Context, units []model.SourceUnit) ([]unitResult, error) {
	results := make([]unitResult, len(units))
	if len(units) == 0 {
		return results, nil
	}

	parser := javasrc.NewParser(a.cfg.Parser.MaxFileSize)

	workers := a.cfg.Parser.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(units) {
		workers = len(units)
	}

	a.progress.OnUnitProcessingStart(len(units))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				parsed := parser.Parse(ctx, units[i])
				results[i] = unitResult{
					parsed:  parsed,
					classes: ExtractClasses(parsed),
				}
				a.progress.OnUnitProcessed(units[i].Path)
			}
		}()
	}

feed:
	for i := range units {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
