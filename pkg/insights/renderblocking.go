package insights

import (
	"sort"
	"strings"

	"github.com/pagepulse/pagepulse/pkg/models"
)

// ExtractRenderBlocking reads the render-blocking-resources audit and reports
// resources delaying first paint, most costly first.
func ExtractRenderBlocking(audits models.AuditMap) []models.RenderBlockingResource {
	resources := []models.RenderBlockingResource{}
	for _, item := range auditItems(audits, auditRenderBlocking) {
		url := itemString(item, "url")
		if url == "" {
			continue
		}
		resources = append(resources, models.RenderBlockingResource{
			URL:          url,
			ResourceType: renderBlockingType(url),
			TransferSize: itemFloat(item, "totalBytes"),
			WastedMs:     itemFloat(item, "wastedMs"),
		})
	}

	sort.SliceStable(resources, func(i, j int) bool {
		return resources[i].WastedMs > resources[j].WastedMs
	})
	return resources
}

func renderBlockingType(url string) string {
	lower := strings.ToLower(url)
	switch {
	case strings.Contains(lower, ".js"):
		return "script"
	case strings.Contains(lower, ".css"):
		return "stylesheet"
	default:
		return "other"
	}
}
