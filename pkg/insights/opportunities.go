package insights

import (
	"sort"

	"github.com/pagepulse/pagepulse/pkg/models"
)

// Fixed opportunity priorities. Priority encodes the recommended remediation
// order (render performance first, then transfer weight, then runtime
// blocking), not measured magnitude, so it never varies with the data.
const (
	priorityLCP            = 1
	priorityJavaScript     = 2
	priorityImages         = 3
	priorityThirdParties   = 4
	priorityRenderBlocking = 5
	priorityCLS            = 6
)

// Applicability gates for each opportunity.
const (
	gateUnusedJSBytes      = 100000
	gateImageBytes         = 50000
	gateThirdPartyBlocking = 250
	gateRenderBlockingMs   = 200
)

// SynthesizeOpportunities decides which of the six opportunities apply to the
// measured page and returns them sorted by ascending fixed priority. The
// gates are evaluated independently in a fixed order.
func SynthesizeOpportunities(result *models.PerformanceResult, d *models.DetailedInsights, enhanced *models.EnhancedLCPElement, ctx *models.ProjectContext) []models.KeyOpportunity {
	opportunities := []models.KeyOpportunity{}

	if result.Metrics.LCP != nil && result.Metrics.LCP.Rating != models.RatingGood {
		var breakdown *models.LCPBreakdown
		if d != nil {
			breakdown = d.LCPBreakdown
		}
		opportunities = append(opportunities, createLCPOpportunity(result.Metrics.LCP.Value, enhanced, breakdown, ctx))
	}

	if d != nil {
		jsWaste := 0.0
		for _, issue := range d.UnusedJavaScript {
			jsWaste += issue.WastedBytes
		}
		if jsWaste > gateUnusedJSBytes {
			opportunities = append(opportunities, createJavaScriptOpportunity(jsWaste, len(d.LegacyJavaScript) > 0, ctx))
		}

		imageWaste := 0.0
		for _, issue := range d.ImageIssues {
			imageWaste += issue.WastedBytes
		}
		if imageWaste > gateImageBytes {
			opportunities = append(opportunities, createImageOpportunity(imageWaste, ctx))
		}

		blocking := 0.0
		for _, tp := range d.ThirdParties {
			blocking += tp.BlockingTime
		}
		if blocking > gateThirdPartyBlocking {
			opportunities = append(opportunities, createThirdPartyOpportunity(blocking, ctx))
		}

		renderMs := 0.0
		for _, res := range d.RenderBlocking {
			renderMs += res.WastedMs
		}
		if renderMs > gateRenderBlockingMs {
			opportunities = append(opportunities, createRenderBlockingOpportunity(renderMs))
		}
	}

	if result.Metrics.CLS != nil && result.Metrics.CLS.Rating != models.RatingGood {
		opportunities = append(opportunities, createCLSOpportunity(result.Metrics.CLS.Value))
	}

	sort.SliceStable(opportunities, func(i, j int) bool {
		return opportunities[i].Priority < opportunities[j].Priority
	})
	return opportunities
}

func createLCPOpportunity(lcpValue float64, enhanced *models.EnhancedLCPElement, breakdown *models.LCPBreakdown, ctx *models.ProjectContext) models.KeyOpportunity {
	level := models.ImpactHigh
	if lcpValue > lcpPoorMs {
		level = models.ImpactCritical
	}

	steps := []models.ActionStep{{
		Order:         1,
		Action:        "Identify the LCP element",
		Details:       "Confirm which element is the largest contentful paint in the browser performance panel before changing anything.",
		EstimatedTime: "10 minutes",
	}}

	if enhanced != nil && enhanced.Type == models.LCPTypeImage {
		steps = append(steps, models.ActionStep{
			Order:         len(steps) + 1,
			Action:        "Prioritize the LCP image",
			Details:       "Set fetchpriority=\"high\" on the image and remove any lazy-loading attribute from it.",
			EstimatedTime: "15 minutes",
			CodeExample:   `<img src="hero.jpg" fetchpriority="high" alt="...">`,
		})
	}

	if breakdown != nil && breakdown.TTFB > 800 {
		steps = append(steps, models.ActionStep{
			Order:         len(steps) + 1,
			Action:        "Improve server response time",
			Details:       "TTFB is the dominant phase. Add caching in front of the origin or serve from an edge location.",
			EstimatedTime: "1-2 days",
		})
	}

	if breakdown != nil && breakdown.ResourceLoadDelay > 500 {
		steps = append(steps, models.ActionStep{
			Order:         len(steps) + 1,
			Action:        "Preload the LCP resource",
			Details:       "The browser discovers the LCP resource late. Preload it from the document head.",
			EstimatedTime: "30 minutes",
			CodeExample:   `<link rel="preload" as="image" href="hero.jpg" fetchpriority="high">`,
		})
	}

	opp := models.KeyOpportunity{
		ID:          "optimize-lcp",
		Priority:    priorityLCP,
		Title:       "Optimize Largest Contentful Paint",
		Description: "The largest element renders too late. Shortening the LCP path has the biggest effect on perceived load speed.",
		Impact: models.Impact{
			Level:            level,
			LCPImprovementMs: lcpValue - lcpGoodMs,
			Description:      "Bringing LCP under 2.5s moves the page into the good range.",
		},
		Steps: steps,
		Resources: []models.Resource{
			{Title: "Optimize Largest Contentful Paint", URL: "https://web.dev/articles/optimize-lcp"},
		},
	}
	if isNextProject(ctx) {
		opp.FrameworkNotes = "Use the next/image component with the priority prop for the LCP image; Next.js then emits the preload and fetchpriority hints automatically."
	}
	return opp
}

func createJavaScriptOpportunity(wastedBytes float64, hasLegacyJS bool, ctx *models.ProjectContext) models.KeyOpportunity {
	var level models.ImpactLevel
	switch {
	case wastedBytes > 500000:
		level = models.ImpactCritical
	case wastedBytes > 200000:
		level = models.ImpactHigh
	default:
		level = models.ImpactMedium
	}

	steps := []models.ActionStep{
		{
			Order:         1,
			Action:        "Map where the unused bytes live",
			Details:       "Run a bundle analyzer against the production build to see which modules ship code the page never executes.",
			EstimatedTime: "1 hour",
		},
		{
			Order:         2,
			Action:        "Code-split the largest bundles",
			Details:       "Split routes and below-the-fold features into dynamically imported chunks.",
			EstimatedTime: "4-8 hours",
			CodeExample:   `const Chart = await import("./chart");`,
		},
	}
	if hasLegacyJS {
		steps = append(steps, models.ActionStep{
			Order:         3,
			Action:        "Stop shipping legacy polyfills",
			Details:       "Target modern browsers in the build config so transpilation stops emitting polyfills evergreen browsers do not need.",
			EstimatedTime: "2 hours",
		})
	}

	opp := models.KeyOpportunity{
		ID:          "optimize-javascript",
		Priority:    priorityJavaScript,
		Title:       "Reduce unused JavaScript",
		Description: "A large share of shipped JavaScript never runs on this page. Removing it cuts both transfer and parse cost.",
		Impact: models.Impact{
			Level:                 level,
			EstimatedSavingsBytes: wastedBytes,
		},
		Steps: steps,
		Resources: []models.Resource{
			{Title: "Remove unused code", URL: "https://web.dev/articles/remove-unused-code"},
		},
	}
	if isNextProject(ctx) {
		opp.FrameworkNotes = "Use next/dynamic for client-only components and check the build output table for route-level bundle sizes."
	}
	return opp
}

func createImageOpportunity(wastedBytes float64, ctx *models.ProjectContext) models.KeyOpportunity {
	level := models.ImpactMedium
	if wastedBytes > 500000 {
		level = models.ImpactHigh
	}

	opp := models.KeyOpportunity{
		ID:          "optimize-images",
		Priority:    priorityImages,
		Title:       "Optimize images",
		Description: "Images ship more bytes than the layout needs. Modern formats and correct sizing recover most of the waste.",
		Impact: models.Impact{
			Level:                 level,
			EstimatedSavingsBytes: wastedBytes,
		},
		Steps: []models.ActionStep{
			{
				Order:         1,
				Action:        "Serve modern image formats",
				Details:       "Convert JPEG and PNG assets to WebP or AVIF with JPEG fallbacks.",
				EstimatedTime: "2-3 hours",
				CodeExample: `<picture>
  <source srcset="photo.avif" type="image/avif">
  <img src="photo.jpg" alt="...">
</picture>`,
			},
			{
				Order:         2,
				Action:        "Size images to their rendered dimensions",
				Details:       "Generate responsive variants and let the browser pick with srcset and sizes.",
				EstimatedTime: "2-4 hours",
			},
			{
				Order:         3,
				Action:        "Lazy-load offscreen images",
				Details:       "Add loading=\"lazy\" to images below the fold, never to the LCP image.",
				EstimatedTime: "30 minutes",
				CodeExample:   `<img src="gallery.jpg" loading="lazy" alt="...">`,
			},
		},
		Resources: []models.Resource{
			{Title: "Serve images in modern formats", URL: "https://web.dev/articles/uses-webp-images"},
		},
	}
	if isNextProject(ctx) {
		opp.FrameworkNotes = "next/image handles format negotiation, responsive sizing and lazy loading; migrating plain img tags to it covers all three steps."
	}
	return opp
}

func createThirdPartyOpportunity(blockingMs float64, ctx *models.ProjectContext) models.KeyOpportunity {
	level := models.ImpactMedium
	if blockingMs > 1000 {
		level = models.ImpactHigh
	}

	opp := models.KeyOpportunity{
		ID:          "optimize-third-parties",
		Priority:    priorityThirdParties,
		Title:       "Reduce third-party impact",
		Description: "External scripts block the main thread during load. Most tags do not need to run before the page is interactive.",
		Impact: models.Impact{
			Level:              level,
			EstimatedSavingsMs: blockingMs,
		},
		Steps: []models.ActionStep{
			{
				Order:         1,
				Action:        "Inventory third-party tags",
				Details:       "List every external script and confirm each one still earns its cost; remove the ones nobody owns.",
				EstimatedTime: "30 minutes",
			},
			{
				Order:         2,
				Action:        "Defer non-critical scripts",
				Details:       "Load analytics and marketing tags after the page becomes interactive.",
				EstimatedTime: "1 hour",
				CodeExample:   `<script src="https://example.com/tag.js" defer></script>`,
			},
			{
				Order:         3,
				Action:        "Use facades for heavy embeds",
				Details:       "Replace video players and chat widgets with click-to-load placeholders.",
				EstimatedTime: "2-4 hours",
			},
		},
		Resources: []models.Resource{
			{Title: "Loading third-party JavaScript", URL: "https://web.dev/articles/efficiently-load-third-party-javascript"},
		},
	}
	if isNextProject(ctx) {
		opp.FrameworkNotes = "Load tags through next/script with strategy=\"lazyOnload\" so they stay off the critical path."
	}
	return opp
}

func createRenderBlockingOpportunity(wastedMs float64) models.KeyOpportunity {
	level := models.ImpactMedium
	if wastedMs > 1000 {
		level = models.ImpactHigh
	}

	return models.KeyOpportunity{
		ID:          "eliminate-render-blocking",
		Priority:    priorityRenderBlocking,
		Title:       "Eliminate render-blocking resources",
		Description: "Stylesheets and synchronous scripts in the head delay first paint until they finish downloading.",
		Impact: models.Impact{
			Level:              level,
			EstimatedSavingsMs: wastedMs,
		},
		Steps: []models.ActionStep{
			{
				Order:         1,
				Action:        "Inline critical CSS",
				Details:       "Inline the styles needed above the fold and load the full stylesheet asynchronously.",
				EstimatedTime: "2-4 hours",
				CodeExample:   `<link rel="stylesheet" href="app.css" media="print" onload="this.media='all'">`,
			},
			{
				Order:         2,
				Action:        "Defer synchronous scripts",
				Details:       "Move scripts out of the head or mark them defer so parsing is not blocked.",
				EstimatedTime: "1 hour",
				CodeExample:   `<script src="app.js" defer></script>`,
			},
		},
		Resources: []models.Resource{
			{Title: "Eliminate render-blocking resources", URL: "https://web.dev/articles/render-blocking-resources"},
		},
	}
}

func createCLSOpportunity(clsValue float64) models.KeyOpportunity {
	level := models.ImpactMedium
	if clsValue > 0.25 {
		level = models.ImpactHigh
	}

	return models.KeyOpportunity{
		ID:          "improve-cls",
		Priority:    priorityCLS,
		Title:       "Improve layout stability",
		Description: "Content shifts while the page loads. Reserving space for late-arriving elements removes the jumps.",
		Impact: models.Impact{
			Level:          level,
			CLSImprovement: clsValue,
		},
		Steps: []models.ActionStep{
			{
				Order:         1,
				Action:        "Set explicit dimensions on media",
				Details:       "Give every img and video a width and height (or aspect-ratio) so the browser reserves the box before load.",
				EstimatedTime: "30 minutes",
				CodeExample:   `<img src="banner.jpg" width="1200" height="400" alt="...">`,
			},
			{
				Order:         2,
				Action:        "Reserve space for dynamic content",
				Details:       "Ads, embeds and banners need a fixed-size container even while empty.",
				EstimatedTime: "1-2 hours",
			},
			{
				Order:         3,
				Action:        "Avoid layout shifts from web fonts",
				Details:       "Use font-display: swap with size-adjusted fallback fonts to keep text metrics stable.",
				EstimatedTime: "1 hour",
			},
		},
		Resources: []models.Resource{
			{Title: "Optimize Cumulative Layout Shift", URL: "https://web.dev/articles/optimize-cls"},
		},
	}
}

func isNextProject(ctx *models.ProjectContext) bool {
	return ctx != nil && ctx.Framework != nil && ctx.Framework.Name == models.FrameworkNext
}
