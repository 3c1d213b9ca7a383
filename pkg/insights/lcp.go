package insights

import (
	"regexp"
	"strings"

	"github.com/pagepulse/pagepulse/pkg/models"
)

var imageExtensionRe = regexp.MustCompile(`(?i)\.(jpg|jpeg|png|gif|webp|avif|svg)(\?|$)`)

// textTags are tags whose LCP candidates render text when no image URL is
// involved.
var textTags = map[string]bool{
	"h1": true, "h2": true, "h3": true, "p": true, "span": true, "div": true,
}

// EnhanceLCPElement derives the element type, loading mechanism and targeted
// recommendations for the LCP element. Returns nil when there is no element
// to analyze.
func EnhanceLCPElement(element *models.LCPElement, breakdown *models.LCPBreakdown, lcpValue float64, ctx *models.ProjectContext) *models.EnhancedLCPElement {
	if element == nil {
		return nil
	}
	elementType := detectLCPType(element)
	return &models.EnhancedLCPElement{
		LCPElement:       *element,
		Type:             elementType,
		LoadingMechanism: detectLoadingMechanism(element.Snippet),
		IsAboveTheFold:   true,
		Recommendations:  generateLCPRecommendations(elementType, breakdown, lcpValue, ctx),
	}
}

// detectLCPType classifies the element. The URL-based image check runs
// before the text-tag check: a div with a background image URL is
// background-image, while a bare div falls through to text because div is in
// the text-tag set. That ordering is part of the contract.
func detectLCPType(element *models.LCPElement) models.LCPElementType {
	tag := strings.ToLower(element.Tag)
	switch tag {
	case "img", "svg":
		return models.LCPTypeImage
	case "video":
		return models.LCPTypeVideo
	}
	if element.URL != "" && imageExtensionRe.MatchString(element.URL) {
		return models.LCPTypeBackgroundImage
	}
	if textTags[tag] {
		return models.LCPTypeText
	}
	return models.LCPTypeUnknown
}

// detectLoadingMechanism inspects the element snippet for loading hints.
// Checks run in a fixed order so an element carrying several attributes
// resolves deterministically.
func detectLoadingMechanism(snippet string) models.LoadingMechanism {
	if snippet == "" {
		return models.LoadingUnknown
	}
	lower := strings.ToLower(snippet)
	switch {
	case strings.Contains(lower, `loading="lazy"`):
		return models.LoadingLazy
	case strings.Contains(lower, "fetchpriority") || strings.Contains(lower, "priority"):
		return models.LoadingPriority
	case strings.Contains(lower, "defer"):
		return models.LoadingDeferred
	default:
		return models.LoadingEager
	}
}

// LCP thresholds in milliseconds. 2500 is the boundary of a "good" LCP, 4000
// the boundary of "poor".
const (
	lcpGoodMs = 2500
	lcpPoorMs = 4000
)

// generateLCPRecommendations appends targeted recommendations in a fixed
// order. The checks are independent; several can fire for the same element.
func generateLCPRecommendations(elementType models.LCPElementType, breakdown *models.LCPBreakdown, lcpValue float64, ctx *models.ProjectContext) []models.LCPRecommendation {
	recs := []models.LCPRecommendation{}

	if elementType == models.LCPTypeImage {
		recs = append(recs, models.LCPRecommendation{
			Title:       "Prioritize the LCP image",
			Description: "Add fetchpriority=\"high\" to the LCP image and make sure it is not lazy-loaded.",
			Impact:      models.ImpactHigh,
			Effort:      "easy",
			CodeExample: `<img src="hero.jpg" fetchpriority="high" alt="...">`,
		})
		if ctx != nil && ctx.Framework != nil && ctx.Framework.Name == models.FrameworkNext {
			recs = append(recs, models.LCPRecommendation{
				Title:       "Use next/image with priority",
				Description: "Render the LCP image with the next/image component and set the priority prop so Next.js preloads it.",
				Impact:      models.ImpactHigh,
				Effort:      "easy",
				CodeExample: `<Image src="/hero.jpg" priority width={1200} height={600} alt="..." />`,
			})
		}
	}

	if breakdown != nil && breakdown.TTFB > 800 {
		recs = append(recs, models.LCPRecommendation{
			Title:       "Reduce server response time",
			Description: "TTFB exceeds 800ms. Add server-side caching, use a CDN, or move rendering closer to users.",
			Impact:      models.ImpactHigh,
			Effort:      "moderate",
		})
	}

	if breakdown != nil && breakdown.ResourceLoadDelay > 500 {
		recs = append(recs, models.LCPRecommendation{
			Title:       "Preload the LCP resource",
			Description: "The LCP resource starts loading late. Preload it so the browser discovers it sooner.",
			Impact:      models.ImpactMedium,
			Effort:      "easy",
			CodeExample: `<link rel="preload" as="image" href="hero.jpg" fetchpriority="high">`,
		})
	}

	if breakdown != nil && breakdown.ElementRenderDelay > 300 {
		recs = append(recs, models.LCPRecommendation{
			Title:       "Reduce element render delay",
			Description: "The element waits on blocking work after its resource loads. Cut render-blocking scripts and heavy main-thread tasks.",
			Impact:      models.ImpactMedium,
			Effort:      "moderate",
		})
	}

	if lcpValue > lcpGoodMs {
		impact := models.ImpactMedium
		if lcpValue > lcpPoorMs {
			impact = models.ImpactHigh
		}
		recs = append(recs, models.LCPRecommendation{
			Title:       "Inline critical CSS",
			Description: "Inline the CSS needed for above-the-fold content and defer the rest to shorten the render path.",
			Impact:      impact,
			Effort:      "moderate",
		})
	}

	return recs
}
