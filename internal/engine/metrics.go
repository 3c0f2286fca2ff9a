package engine

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// Metrics tracks operational counters across the engine.
var metrics struct {
	PipelineRequests   atomic.Int64
	PipelineErrors     atomic.Int64
	TranscriptRequests atomic.Int64
	TranscriptErrors   atomic.Int64
	LLMCalls           atomic.Int64
	LLMErrors          atomic.Int64
	CardsFormatted     atomic.Int64
	CardsRendered      atomic.Int64
	BusyRejections     atomic.Int64
}

var metricKeys = []string{
	"pipeline_requests", "pipeline_errors",
	"transcript_requests", "transcript_errors",
	"llm_calls", "llm_errors",
	"cards_formatted", "cards_rendered",
	"busy_rejections",
}

// GetMetrics returns a snapshot of all metrics.
func GetMetrics() map[string]int64 {
	return map[string]int64{
		"pipeline_requests":   metrics.PipelineRequests.Load(),
		"pipeline_errors":     metrics.PipelineErrors.Load(),
		"transcript_requests": metrics.TranscriptRequests.Load(),
		"transcript_errors":   metrics.TranscriptErrors.Load(),
		"llm_calls":           metrics.LLMCalls.Load(),
		"llm_errors":          metrics.LLMErrors.Load(),
		"cards_formatted":     metrics.CardsFormatted.Load(),
		"cards_rendered":      metrics.CardsRendered.Load(),
		"busy_rejections":     metrics.BusyRejections.Load(),
	}
}

// FormatMetrics returns metrics as a simple text format for HTTP endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	var sb strings.Builder
	for _, k := range metricKeys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}

func IncrPipelineRequests()   { metrics.PipelineRequests.Add(1) }
func IncrPipelineErrors()     { metrics.PipelineErrors.Add(1) }
func IncrTranscriptRequests() { metrics.TranscriptRequests.Add(1) }
func IncrTranscriptErrors()   { metrics.TranscriptErrors.Add(1) }
func IncrBusyRejections()     { metrics.BusyRejections.Add(1) }

// AddCards records how many cards were formatted and how many survived selection.
func AddCards(formatted, rendered int) {
	metrics.CardsFormatted.Add(int64(formatted))
	metrics.CardsRendered.Add(int64(rendered))
}
