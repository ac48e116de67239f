// Package metrics exposes Prometheus counters for the matching pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "lookalike"

var (
	// MatchRuns counts completed match runs by outcome.
	MatchRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "match_runs_total",
		Help:      "Match runs by outcome (ok, comparison_failure, contract_violation, correlation_empty, no_candidates).",
	}, []string{"outcome"})

	// CorrelationDiscards counts response entries dropped during correlation
	// for unknown or duplicate identifiers.
	CorrelationDiscards = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "correlation_discards_total",
		Help:      "Gateway response entries dropped during correlation.",
	})

	// NameFallbackCorrelations counts single-best responses that had to be
	// correlated by display name instead of id.
	NameFallbackCorrelations = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "name_fallback_correlations_total",
		Help:      "Correlations resolved through the unsafe name fallback.",
	})

	// DegradedCandidates counts candidates sent with placeholder art.
	DegradedCandidates = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "degraded_candidates_total",
		Help:      "Candidates whose art fell back to the placeholder.",
	})

	// ExcludedCandidates counts candidates dropped before the gateway call
	// because their art could not be materialized.
	ExcludedCandidates = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "excluded_candidates_total",
		Help:      "Sampled candidates excluded by materialization failures.",
	})

	// TriviaFailures counts non-fatal trivia lookups that returned an error.
	TriviaFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "trivia_failures_total",
		Help:      "Trivia lookups that failed after a successful match.",
	})
)

// Outcome labels for MatchRuns.
const (
	OutcomeOK                = "ok"
	OutcomeComparisonFailure = "comparison_failure"
	OutcomeContractViolation = "contract_violation"
	OutcomeCorrelationEmpty  = "correlation_empty"
	OutcomeNoCandidates      = "no_candidates"
)
