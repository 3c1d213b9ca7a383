package insights

import (
	"math"
	"sort"

	"github.com/pagepulse/pagepulse/pkg/entity"
	"github.com/pagepulse/pagepulse/pkg/models"
)

// ExtractUnusedCode reads an unused-code audit (unused-javascript or
// unused-css-rules) and reports per-file waste, largest first. hostDomain is
// the analyzed page's host, used to split first-party from vendor code.
func ExtractUnusedCode(audits models.AuditMap, auditID, hostDomain string) []models.UnusedCodeIssue {
	issues := []models.UnusedCodeIssue{}
	for _, item := range auditItems(audits, auditID) {
		url := itemString(item, "url")
		if url == "" {
			continue
		}
		total := itemFloat(item, "totalBytes")
		wasted := itemFloat(item, "wastedBytes")
		percent := 0
		if total > 0 {
			percent = int(math.Round(wasted / total * 100))
		}
		issues = append(issues, models.UnusedCodeIssue{
			URL:           url,
			TotalBytes:    total,
			WastedBytes:   wasted,
			WastedPercent: percent,
			Entity:        entity.EntityFromURL(url),
			IsFirstParty:  entity.IsFirstParty(url, hostDomain),
		})
	}

	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].WastedBytes > issues[j].WastedBytes
	})
	return issues
}

// ExtractUnusedJavaScript is the unused-javascript specialization.
func ExtractUnusedJavaScript(audits models.AuditMap, hostDomain string) []models.UnusedCodeIssue {
	return ExtractUnusedCode(audits, auditUnusedJavaScript, hostDomain)
}

// ExtractUnusedCSS is the unused-css-rules specialization.
func ExtractUnusedCSS(audits models.AuditMap, hostDomain string) []models.UnusedCodeIssue {
	return ExtractUnusedCode(audits, auditUnusedCSS, hostDomain)
}
