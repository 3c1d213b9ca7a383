package models

// ThirdPartyCategory classifies an external entity by what it is for.
type ThirdPartyCategory string

const (
	CategoryAnalytics    ThirdPartyCategory = "analytics"
	CategorySocial       ThirdPartyCategory = "social"
	CategoryAdvertising  ThirdPartyCategory = "advertising"
	CategoryCDN          ThirdPartyCategory = "cdn"
	CategoryFonts        ThirdPartyCategory = "fonts"
	CategoryLeadTracking ThirdPartyCategory = "lead-tracking"
	CategoryOther        ThirdPartyCategory = "other"
)

// CacheIssue is a resource served with a short or missing cache lifetime.
type CacheIssue struct {
	URL             string  `json:"url"`
	CacheTTLMs      float64 `json:"cacheTtlMs"`
	CacheTTLDisplay string  `json:"cacheTtlDisplay"`
	TransferSize    float64 `json:"transferSize"`
	WastedBytes     float64 `json:"wastedBytes"`
	Entity          string  `json:"entity,omitempty"`
}

// ImageIssueType names which image audit flagged the resource.
type ImageIssueType string

const (
	ImageIssueFormat      ImageIssueType = "format"
	ImageIssueOversized   ImageIssueType = "oversized"
	ImageIssueOffscreen   ImageIssueType = "offscreen"
	ImageIssueUnoptimized ImageIssueType = "unoptimized"
)

// ImageIssue is an image with avoidable transfer weight.
type ImageIssue struct {
	URL            string         `json:"url"`
	Type           ImageIssueType `json:"type"`
	WastedBytes    float64        `json:"wastedBytes"`
	TotalBytes     float64        `json:"totalBytes,omitempty"`
	Recommendation string         `json:"recommendation"`
}

// UnusedCodeIssue is a script or stylesheet with unused bytes.
type UnusedCodeIssue struct {
	URL           string  `json:"url"`
	TotalBytes    float64 `json:"totalBytes"`
	WastedBytes   float64 `json:"wastedBytes"`
	WastedPercent int     `json:"wastedPercent"`
	Entity        string  `json:"entity,omitempty"`
	IsFirstParty  bool    `json:"isFirstParty"`
}

// LegacyJSIssue is a bundle shipping polyfills or transforms modern browsers
// do not need.
type LegacyJSIssue struct {
	URL         string   `json:"url"`
	WastedBytes float64  `json:"wastedBytes"`
	Signals     []string `json:"signals"`
}

// ThirdPartyIssue summarizes one external entity's cost on the page.
type ThirdPartyIssue struct {
	Entity         string             `json:"entity"`
	Category       ThirdPartyCategory `json:"category"`
	TransferSize   float64            `json:"transferSize"`
	BlockingTime   float64            `json:"blockingTime"`
	MainThreadTime float64            `json:"mainThreadTime"`
	RequestCount   int                `json:"requestCount"`
	URLs           []string           `json:"urls,omitempty"`
}

// LongTask is a main-thread task over the 50ms threshold.
type LongTask struct {
	URL         string  `json:"url"`
	Duration    float64 `json:"duration"`
	StartTime   float64 `json:"startTime"`
	Attribution string  `json:"attribution,omitempty"`
}

// RenderBlockingResource delays first paint until it is fetched and parsed.
type RenderBlockingResource struct {
	URL          string  `json:"url"`
	ResourceType string  `json:"resourceType"`
	TransferSize float64 `json:"transferSize"`
	WastedMs     float64 `json:"wastedMs"`
}

// LCPBreakdown splits the LCP time into its phases, in integer milliseconds.
// The split is approximated when the precise phase timings are unavailable.
type LCPBreakdown struct {
	TTFB                 float64 `json:"ttfb"`
	ResourceLoadDelay    float64 `json:"resourceLoadDelay"`
	ResourceLoadDuration float64 `json:"resourceLoadDuration"`
	ElementRenderDelay   float64 `json:"elementRenderDelay"`
}

// TotalSavings is the aggregate waste the page could recover.
type TotalSavings struct {
	TimeMs    float64 `json:"timeMs"`
	SizeBytes float64 `json:"sizeBytes"`
}

// DetailedInsights is the normalized container for everything the extractors
// pulled out of the raw audits. Every slice is sorted descending by its
// primary magnitude field; consumers rely on that ordering.
type DetailedInsights struct {
	CacheIssues      []CacheIssue             `json:"cacheIssues"`
	ImageIssues      []ImageIssue             `json:"imageIssues"`
	UnusedJavaScript []UnusedCodeIssue        `json:"unusedJavaScript"`
	UnusedCSS        []UnusedCodeIssue        `json:"unusedCss"`
	LegacyJavaScript []LegacyJSIssue          `json:"legacyJavaScript"`
	ThirdParties     []ThirdPartyIssue        `json:"thirdParties"`
	LongTasks        []LongTask               `json:"longTasks"`
	RenderBlocking   []RenderBlockingResource `json:"renderBlocking"`
	LCPBreakdown     *LCPBreakdown            `json:"lcpBreakdown,omitempty"`
	TotalSavings     TotalSavings             `json:"totalSavings"`
}
