package insights

import (
	"sort"

	"github.com/pagepulse/pagepulse/pkg/entity"
	"github.com/pagepulse/pagepulse/pkg/models"
	"github.com/pagepulse/pagepulse/pkg/util"
)

// ExtractCacheIssues reads the long-cache-TTL audit and reports resources
// served with short or missing cache lifetimes, largest waste first.
func ExtractCacheIssues(audits models.AuditMap) []models.CacheIssue {
	issues := []models.CacheIssue{}
	for _, item := range auditItems(audits, auditLongCacheTTL) {
		url := itemString(item, "url")
		if url == "" {
			continue
		}
		ttl := itemFloat(item, "cacheLifetimeMs")
		issues = append(issues, models.CacheIssue{
			URL:             url,
			CacheTTLMs:      ttl,
			CacheTTLDisplay: util.FormatCacheTTL(ttl),
			TransferSize:    itemFloat(item, "totalBytes"),
			WastedBytes:     itemFloat(item, "wastedBytes"),
			Entity:          entity.EntityFromURL(url),
		})
	}

	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].WastedBytes > issues[j].WastedBytes
	})
	return issues
}
