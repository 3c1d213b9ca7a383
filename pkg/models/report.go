package models

// Severity ranks a diagnostic from most to least urgent.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeveritySerious  Severity = "serious"
	SeverityModerate Severity = "moderate"
	SeverityMinor    Severity = "minor"
)

// SeverityRank returns the sort rank for a severity; critical sorts first.
func SeverityRank(s Severity) int {
	switch s {
	case SeverityCritical:
		return 0
	case SeveritySerious:
		return 1
	case SeverityModerate:
		return 2
	default:
		return 3
	}
}

// DiagnosticCategory groups diagnostics for rendering.
type DiagnosticCategory string

const (
	DiagnosticJavaScript  DiagnosticCategory = "javascript"
	DiagnosticResource    DiagnosticCategory = "resource"
	DiagnosticNetwork     DiagnosticCategory = "network"
	DiagnosticRendering   DiagnosticCategory = "rendering"
	DiagnosticPerformance DiagnosticCategory = "performance"
)

// DiagnosticSavings is the recoverable cost behind one diagnostic.
type DiagnosticSavings struct {
	TimeMs float64 `json:"timeMs,omitempty"`
	Bytes  float64 `json:"bytes,omitempty"`
}

// DiagnosticItem is one row of the severity-ranked diagnostics table. Items
// holds at most the ten largest underlying issue records.
type DiagnosticItem struct {
	ID           string             `json:"id"`
	Title        string             `json:"title"`
	DisplayValue string             `json:"displayValue"`
	Score        *float64           `json:"score"`
	Severity     Severity           `json:"severity"`
	Savings      *DiagnosticSavings `json:"savings,omitempty"`
	Items        any                `json:"items,omitempty"`
	Category     DiagnosticCategory `json:"category"`
}

// ImpactLevel grades how much an opportunity is expected to move the metrics.
type ImpactLevel string

const (
	ImpactCritical ImpactLevel = "critical"
	ImpactHigh     ImpactLevel = "high"
	ImpactMedium   ImpactLevel = "medium"
	ImpactLow      ImpactLevel = "low"
)

// Impact quantifies an opportunity's expected effect. Only the fields that
// make sense for the opportunity are populated.
type Impact struct {
	Level                 ImpactLevel `json:"level"`
	Description           string      `json:"description,omitempty"`
	LCPImprovementMs      float64     `json:"lcpImprovementMs,omitempty"`
	EstimatedSavingsBytes float64     `json:"estimatedSavingsBytes,omitempty"`
	EstimatedSavingsMs    float64     `json:"estimatedSavingsMs,omitempty"`
	CLSImprovement        float64     `json:"clsImprovement,omitempty"`
}

// ActionStep is one concrete remediation step within an opportunity.
type ActionStep struct {
	Order         int    `json:"order"`
	Action        string `json:"action"`
	Details       string `json:"details,omitempty"`
	EstimatedTime string `json:"estimatedTime,omitempty"`
	CodeExample   string `json:"codeExample,omitempty"`
}

// Resource links to reference documentation for an opportunity.
type Resource struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// KeyOpportunity is a prioritized remediation bundle. Priority is fixed per
// opportunity id and encodes remediation order, not measured magnitude.
type KeyOpportunity struct {
	ID             string       `json:"id"`
	Priority       int          `json:"priority"`
	Title          string       `json:"title"`
	Description    string       `json:"description"`
	Impact         Impact       `json:"impact"`
	Steps          []ActionStep `json:"steps"`
	FrameworkNotes string       `json:"frameworkNotes,omitempty"`
	Resources      []Resource   `json:"resources,omitempty"`
}

// LCPElementType is the derived rendering type of the LCP element.
type LCPElementType string

const (
	LCPTypeImage           LCPElementType = "image"
	LCPTypeText            LCPElementType = "text"
	LCPTypeVideo           LCPElementType = "video"
	LCPTypeBackgroundImage LCPElementType = "background-image"
	LCPTypeUnknown         LCPElementType = "unknown"
)

// LoadingMechanism is how the LCP element is being loaded.
type LoadingMechanism string

const (
	LoadingEager    LoadingMechanism = "eager"
	LoadingLazy     LoadingMechanism = "lazy"
	LoadingPriority LoadingMechanism = "priority"
	LoadingDeferred LoadingMechanism = "deferred"
	LoadingUnknown  LoadingMechanism = "unknown"
)

// LCPRecommendation is one targeted improvement for the LCP element.
type LCPRecommendation struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Impact      ImpactLevel `json:"impact"`
	Effort      string      `json:"effort"`
	CodeExample string      `json:"codeExample,omitempty"`
}

// EnhancedLCPElement augments the raw LCP element with derived typing and
// recommendations. IsAboveTheFold is always true: the LCP element is by
// definition the largest element painted in the viewport.
type EnhancedLCPElement struct {
	LCPElement
	Type             LCPElementType      `json:"type"`
	LoadingMechanism LoadingMechanism    `json:"loadingMechanism"`
	IsAboveTheFold   bool                `json:"isAboveTheFold"`
	Recommendations  []LCPRecommendation `json:"recommendations"`
}

// Urgency buckets a next step by when it should happen.
type Urgency string

const (
	UrgencyImmediate    Urgency = "immediate"
	UrgencySoon         Urgency = "soon"
	UrgencyWhenPossible Urgency = "when-possible"
)

// NextStep is one entry of the short, ordered to-do list at the end of a
// report.
type NextStep struct {
	Action      string  `json:"action"`
	Urgency     Urgency `json:"urgency"`
	RelatedTo   string  `json:"relatedTo,omitempty"`
	Description string  `json:"description,omitempty"`
}

// HealthStatus is the one-word verdict of the executive summary.
type HealthStatus string

const (
	HealthHealthy        HealthStatus = "healthy"
	HealthNeedsAttention HealthStatus = "needs-attention"
	HealthCritical       HealthStatus = "critical"
)

// ReportSummary is the executive summary of a report.
type ReportSummary struct {
	HealthStatus     HealthStatus `json:"healthStatus"`
	QuickWinsCount   int          `json:"quickWinsCount"`
	PotentialSavings TotalSavings `json:"potentialSavings"`
	TopPriorities    []string     `json:"topPriorities"`
}

// ActionableReport is the top-level output of the pipeline, ready for JSON,
// markdown or terminal rendering.
type ActionableReport struct {
	PerformanceResult *PerformanceResult  `json:"performanceResult"`
	ProjectContext    *ProjectContext     `json:"projectContext,omitempty"`
	EnhancedLCP       *EnhancedLCPElement `json:"enhancedLcp,omitempty"`
	DiagnosticsTable  []DiagnosticItem    `json:"diagnosticsTable"`
	KeyOpportunities  []KeyOpportunity    `json:"keyOpportunities"`
	NextSteps         []NextStep          `json:"nextSteps"`
	Summary           ReportSummary       `json:"summary"`
	GeneratedAt       string              `json:"generatedAt"`
}
