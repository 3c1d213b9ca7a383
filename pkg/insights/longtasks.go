package insights

import (
	"sort"

	"github.com/pagepulse/pagepulse/pkg/models"
)

// ExtractLongTasks reads the long-tasks audit and passes the task timings
// through, longest first.
func ExtractLongTasks(audits models.AuditMap) []models.LongTask {
	tasks := []models.LongTask{}
	for _, item := range auditItems(audits, auditLongTasks) {
		url := itemString(item, "url")
		if url == "" {
			continue
		}
		tasks = append(tasks, models.LongTask{
			URL:         url,
			Duration:    itemFloat(item, "duration"),
			StartTime:   itemFloat(item, "startTime"),
			Attribution: itemString(item, "attribution"),
		})
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].Duration > tasks[j].Duration
	})
	return tasks
}
