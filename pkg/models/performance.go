package models

import (
	"time"
)

// Strategy selects the device profile used for the remote measurement.
type Strategy string

const (
	StrategyMobile  Strategy = "mobile"
	StrategyDesktop Strategy = "desktop"
)

// Rating is the qualitative band for a single metric.
type Rating string

const (
	RatingGood             Rating = "good"
	RatingNeedsImprovement Rating = "needs-improvement"
	RatingPoor             Rating = "poor"
)

// RatingForScore maps a 0-1 audit score to a rating using the standard
// Lighthouse breakpoints.
func RatingForScore(score float64) Rating {
	switch {
	case score >= 0.9:
		return RatingGood
	case score >= 0.5:
		return RatingNeedsImprovement
	default:
		return RatingPoor
	}
}

// MetricValue is a single measured metric with its human display form.
type MetricValue struct {
	Value        float64 `json:"value"`
	DisplayValue string  `json:"displayValue"`
	Rating       Rating  `json:"rating"`
}

// CoreWebVitals groups the metrics the report cares about. Any of them may be
// absent from the upstream response.
type CoreWebVitals struct {
	LCP        *MetricValue `json:"lcp,omitempty"`
	FCP        *MetricValue `json:"fcp,omitempty"`
	CLS        *MetricValue `json:"cls,omitempty"`
	TBT        *MetricValue `json:"tbt,omitempty"`
	TTFB       *MetricValue `json:"ttfb,omitempty"`
	SpeedIndex *MetricValue `json:"speedIndex,omitempty"`
}

// CategoryScores holds the 0-100 Lighthouse category scores. A nil entry means
// the category was not measured.
type CategoryScores struct {
	Performance   *int `json:"performance"`
	Accessibility *int `json:"accessibility"`
	BestPractices *int `json:"bestPractices"`
	SEO           *int `json:"seo"`
}

// Audit is one named Lighthouse audit as returned by the API. Details items are
// kept loosely typed; the extractors pull out the fields they need and ignore
// the rest.
type Audit struct {
	ID               string        `json:"id"`
	Title            string        `json:"title,omitempty"`
	Score            *float64      `json:"score"`
	ScoreDisplayMode string        `json:"scoreDisplayMode,omitempty"`
	NumericValue     *float64      `json:"numericValue,omitempty"`
	DisplayValue     string        `json:"displayValue,omitempty"`
	Details          *AuditDetails `json:"details,omitempty"`
}

// AuditDetails carries the table/opportunity payload of an audit.
type AuditDetails struct {
	Type                string           `json:"type"`
	Items               []map[string]any `json:"items,omitempty"`
	OverallSavingsMs    float64          `json:"overallSavingsMs,omitempty"`
	OverallSavingsBytes float64          `json:"overallSavingsBytes,omitempty"`
}

// AuditMap indexes audits by their Lighthouse audit id.
type AuditMap map[string]Audit

// LCPElement describes the DOM node Lighthouse identified as the largest
// contentful paint.
type LCPElement struct {
	Tag       string `json:"tag"`
	URL       string `json:"url,omitempty"`
	Snippet   string `json:"snippet,omitempty"`
	Selector  string `json:"selector,omitempty"`
	NodeLabel string `json:"nodeLabel,omitempty"`
}

// OpportunitySummary is a raw Lighthouse opportunity audit, pre-reduction.
type OpportunitySummary struct {
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	Description    string  `json:"description,omitempty"`
	SavingsMs      float64 `json:"savingsMs,omitempty"`
	SavingsBytes   float64 `json:"savingsBytes,omitempty"`
	ScoreDisplayed string  `json:"displayValue,omitempty"`
}

// FieldData holds CrUX real-user percentiles when the API returns them.
type FieldData struct {
	LCP *MetricValue `json:"lcp,omitempty"`
	FCP *MetricValue `json:"fcp,omitempty"`
	CLS *MetricValue `json:"cls,omitempty"`
	INP *MetricValue `json:"inp,omitempty"`
}

// PerformanceResult is the normalized output of one measurement run and the
// primary input to the insight pipeline.
type PerformanceResult struct {
	URL           string               `json:"url"`
	Strategy      Strategy             `json:"strategy"`
	Timestamp     time.Time            `json:"timestamp"`
	Scores        CategoryScores       `json:"scores"`
	Metrics       CoreWebVitals        `json:"metrics"`
	LCPElement    *LCPElement          `json:"lcpElement,omitempty"`
	Opportunities []OpportunitySummary `json:"opportunities"`
	Diagnostics   []OpportunitySummary `json:"diagnostics"`
	Audits        AuditMap             `json:"-"`
	Insights      *DetailedInsights    `json:"insights,omitempty"`
	FieldData     *FieldData           `json:"fieldData,omitempty"`
}
