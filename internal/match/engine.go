package match

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"lookalike/internal/catalog"
	"lookalike/internal/imaging"
	"lookalike/internal/metrics"
)

const materializeConcurrency = 4

// Engine orchestrates one match run end to end. It holds only read-only
// collaborators, so a single instance serves concurrent requests.
type Engine struct {
	catalog      *catalog.Catalog
	materializer Materializer
	comparer     Comparer
	trivia       TriviaFinder
	sampler      *Sampler
	selector     *Selector
	options      Options
	log          *slog.Logger
}

// Options tunes a match run.
type Options struct {
	// CompareTimeout bounds the comparison gateway call. Zero disables the
	// deadline; exceeding it is treated as a comparison failure.
	CompareTimeout time.Duration
	// TriviaTimeout bounds the trivia lookup.
	TriviaTimeout time.Duration
}

// NewEngine wires the pipeline. trivia may be nil to skip the lookup.
func NewEngine(
	cat *catalog.Catalog,
	materializer Materializer,
	comparer Comparer,
	trivia TriviaFinder,
	sampler *Sampler,
	selector *Selector,
	options Options,
	log *slog.Logger,
) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{
		catalog:      cat,
		materializer: materializer,
		comparer:     comparer,
		trivia:       trivia,
		sampler:      sampler,
		selector:     selector,
		options:      options,
		log:          log,
	}
}

// Run executes a full match: sample, materialize, compare, correlate,
// select, then the non-fatal trivia lookup. Failures after materialization
// fail the whole run; there is no internal retry.
func (e *Engine) Run(ctx context.Context, subject imaging.Payload) (*Selection, error) {
	runID := uuid.NewString()
	log := e.log.With(slog.String("run_id", runID))

	sampled := e.sampler.Sample(e.catalog.All())
	candidates, err := e.materialize(ctx, sampled, log)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		metrics.MatchRuns.WithLabelValues(metrics.OutcomeNoCandidates).Inc()
		return nil, fmt.Errorf("%w: all %d sampled candidates were excluded", ErrNoCandidates, len(sampled))
	}

	comp, err := e.compare(ctx, subject, candidates, log)
	if err != nil {
		return nil, err
	}

	matches, stats, err := Correlate(candidates, comp)
	if stats.Dropped > 0 {
		metrics.CorrelationDiscards.Add(float64(stats.Dropped))
		log.Warn("dropped uncorrelatable comparison results",
			slog.Int("dropped", stats.Dropped), slog.Int("requested", len(candidates)))
	}
	if stats.NameFallback {
		metrics.NameFallbackCorrelations.Inc()
		log.Warn("correlated by display name; names are not guaranteed unique",
			slog.String("mode", string(comp.Mode)))
	}
	if err != nil {
		metrics.MatchRuns.WithLabelValues(metrics.OutcomeCorrelationEmpty).Inc()
		return nil, err
	}

	final, err := e.selector.Select(matches)
	if err != nil {
		metrics.MatchRuns.WithLabelValues(metrics.OutcomeCorrelationEmpty).Inc()
		return nil, err
	}

	selection := &Selection{
		RunID:       runID,
		Character:   final.Character,
		Mode:        comp.Mode,
		Score:       final.Score,
		Explanation: final.Explanation,
		Degraded:    final.Degraded,
	}
	e.lookupTrivia(ctx, selection, log)

	metrics.MatchRuns.WithLabelValues(metrics.OutcomeOK).Inc()
	return selection, nil
}

// materialize resolves candidate art in parallel. The fan-in completes
// before the gateway call; partial candidate sets are never sent mid-flight.
func (e *Engine) materialize(ctx context.Context, sampled []catalog.Character, log *slog.Logger) ([]Candidate, error) {
	payloads := make([]imaging.Payload, len(sampled))
	failed := make([]bool, len(sampled))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(materializeConcurrency)
	for i, char := range sampled {
		g.Go(func() error {
			payload, err := e.materializer.Materialize(gctx, char.ImageRef)
			if err != nil {
				// Exclude policy: drop this candidate, keep the run going.
				failed[i] = true
				log.Warn("excluding candidate, image not materializable",
					slog.String("character_id", char.ID), slog.Any("error", err))
				return nil
			}
			payloads[i] = payload
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	candidates := make([]Candidate, 0, len(sampled))
	for i, char := range sampled {
		if failed[i] {
			metrics.ExcludedCandidates.Inc()
			continue
		}
		if payloads[i].Degraded {
			metrics.DegradedCandidates.Inc()
			log.Warn("candidate uses placeholder art", slog.String("character_id", char.ID))
		}
		candidates = append(candidates, Candidate{Character: char, Image: payloads[i]})
	}
	return candidates, nil
}

func (e *Engine) compare(ctx context.Context, subject imaging.Payload, candidates []Candidate, log *slog.Logger) (*Comparison, error) {
	cctx := ctx
	if e.options.CompareTimeout > 0 {
		var cancel context.CancelFunc
		cctx, cancel = context.WithTimeout(ctx, e.options.CompareTimeout)
		defer cancel()
	}

	comp, err := e.comparer.Compare(cctx, subject, candidates)
	if err != nil {
		if errors.Is(err, ErrContractViolation) {
			metrics.MatchRuns.WithLabelValues(metrics.OutcomeContractViolation).Inc()
			log.Error("comparison response violates contract", slog.Any("error", err))
			return nil, err
		}
		metrics.MatchRuns.WithLabelValues(metrics.OutcomeComparisonFailure).Inc()
		log.Error("comparison gateway call failed",
			slog.String("provider", e.comparer.Name()), slog.Any("error", err))
		return nil, fmt.Errorf("%w: %w", ErrComparisonFailed, err)
	}

	if err := comp.Validate(); err != nil {
		metrics.MatchRuns.WithLabelValues(metrics.OutcomeContractViolation).Inc()
		log.Error("comparison response violates contract", slog.Any("error", err))
		return nil, err
	}
	return comp, nil
}

// lookupTrivia fills Selection.Trivia best-effort. A failure here never
// rolls back a successful match.
func (e *Engine) lookupTrivia(ctx context.Context, selection *Selection, log *slog.Logger) {
	if e.trivia == nil {
		return
	}

	tctx := ctx
	if e.options.TriviaTimeout > 0 {
		var cancel context.CancelFunc
		tctx, cancel = context.WithTimeout(ctx, e.options.TriviaTimeout)
		defer cancel()
	}

	trivia, err := e.trivia.LookupInfo(tctx, selection.Character.Name)
	if err != nil {
		metrics.TriviaFailures.Inc()
		log.Warn("trivia lookup failed, returning match without trivia",
			slog.String("character", selection.Character.Name), slog.Any("error", err))
		return
	}
	selection.Trivia = trivia
}
