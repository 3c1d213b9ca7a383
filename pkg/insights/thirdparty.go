package insights

import (
	"sort"

	"github.com/pagepulse/pagepulse/pkg/entity"
	"github.com/pagepulse/pagepulse/pkg/models"
)

// ExtractThirdParties reads the third-party summary audit and reports the
// cost of each external entity, most main-thread blocking first. The entity
// column upstream is either a bare string or an object with a text field;
// anything else is reported as "Unknown".
func ExtractThirdParties(audits models.AuditMap) []models.ThirdPartyIssue {
	issues := []models.ThirdPartyIssue{}
	for _, item := range auditItems(audits, auditThirdPartySummary) {
		name := entityName(item)

		urls := []string{}
		for _, sub := range subItems(item) {
			if u := itemString(sub, "url"); u != "" {
				urls = append(urls, u)
			}
		}

		issues = append(issues, models.ThirdPartyIssue{
			Entity:         name,
			Category:       entity.Categorize(name),
			TransferSize:   itemFloat(item, "transferSize"),
			BlockingTime:   itemFloat(item, "blockingTime"),
			MainThreadTime: itemFloat(item, "mainThreadTime"),
			RequestCount:   len(urls),
			URLs:           urls,
		})
	}

	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].BlockingTime > issues[j].BlockingTime
	})
	return issues
}

func entityName(item map[string]any) string {
	switch v := item["entity"].(type) {
	case string:
		return v
	case map[string]any:
		if text, ok := v["text"].(string); ok && text != "" {
			return text
		}
	}
	return "Unknown"
}
