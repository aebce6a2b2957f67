package recipe

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pipeline metrics. Fallback engagements keep the HTTP response uniform, so
// these counters are where operators see which leg of the fallback chain ran.
var (
	generationTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cyberhub_generation_total",
		Help: "Recipe generation outcomes by source",
	}, []string{"source"})

	validationTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cyberhub_validation_total",
		Help: "Validation stage outcomes by mode and result",
	}, []string{"mode", "result"})

	recommendFallbackTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cyberhub_recommend_fallback_total",
		Help: "Recommendation ranking fallbacks by reason",
	}, []string{"reason"})

	gapFillFailureTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cyberhub_gapfill_failures_total",
		Help: "Gap backfill generations that failed and were swallowed",
	})
)

const (
	sourcePrimary     = "primary"
	sourceFallback    = "fallback"
	sourcePlaceholder = "placeholder"

	modeModel     = "model"
	modeHeuristic = "heuristic"
)

func boolResult(valid bool) string {
	if valid {
		return "valid"
	}
	return "invalid"
}
