package insights

import (
	"sort"

	"github.com/pagepulse/pagepulse/pkg/models"
)

// ExtractLegacyJavaScript reads the legacy-javascript audit and reports
// bundles shipping unnecessary polyfills and transforms, largest first.
// Signal names come from the audit's nested sub-items.
func ExtractLegacyJavaScript(audits models.AuditMap) []models.LegacyJSIssue {
	issues := []models.LegacyJSIssue{}
	for _, item := range auditItems(audits, auditLegacyJavaScript) {
		url := itemString(item, "url")
		if url == "" {
			continue
		}
		signals := []string{}
		for _, sub := range subItems(item) {
			if signal := itemString(sub, "signal"); signal != "" {
				signals = append(signals, signal)
			}
		}
		issues = append(issues, models.LegacyJSIssue{
			URL:         url,
			WastedBytes: itemFloat(item, "wastedBytes"),
			Signals:     signals,
		})
	}

	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].WastedBytes > issues[j].WastedBytes
	})
	return issues
}
