package insights

import (
	"sort"

	"github.com/pagepulse/pagepulse/pkg/models"
)

// imageAudits pairs each image audit with its issue type and canned
// recommendation. Processing order matters: a URL flagged by an earlier audit
// is not reprocessed by a later one, so the first audit's numbers win.
var imageAudits = []struct {
	auditID        string
	issueType      models.ImageIssueType
	recommendation string
}{
	{auditModernImages, models.ImageIssueFormat, "Serve this image in a modern format such as WebP or AVIF"},
	{auditResponsiveImages, models.ImageIssueOversized, "Resize this image to match its displayed dimensions"},
	{auditOffscreenImages, models.ImageIssueOffscreen, "Lazy-load this image since it renders below the fold"},
	{auditOptimizedImages, models.ImageIssueUnoptimized, "Increase compression on this image"},
}

// ExtractImageIssues merges the four image audits into one deduplicated list,
// largest waste first.
func ExtractImageIssues(audits models.AuditMap) []models.ImageIssue {
	issues := []models.ImageIssue{}
	seen := map[string]bool{}

	for _, ia := range imageAudits {
		for _, item := range auditItems(audits, ia.auditID) {
			url := itemString(item, "url")
			if url == "" || seen[url] {
				continue
			}
			seen[url] = true
			issues = append(issues, models.ImageIssue{
				URL:            url,
				Type:           ia.issueType,
				WastedBytes:    itemFloat(item, "wastedBytes"),
				TotalBytes:     itemFloat(item, "totalBytes"),
				Recommendation: ia.recommendation,
			})
		}
	}

	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].WastedBytes > issues[j].WastedBytes
	})
	return issues
}
