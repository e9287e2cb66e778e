package scheduler

import "github.com/alexanderramin/leadbook/internal/domain"

var filterCycle = []domain.TaskFilter{
	domain.FilterAll,
	domain.FilterPending,
	domain.FilterDone,
	domain.FilterOverdue,
}

// CycleFilter returns the filter after current in the fixed cycle
// all → pending → done → overdue → all. Unknown values restart at pending.
func CycleFilter(current domain.TaskFilter) domain.TaskFilter {
	for i, f := range filterCycle {
		if f == current {
			return filterCycle[(i+1)%len(filterCycle)]
		}
	}
	return domain.FilterPending
}

// FilterCounts counts tasks per filter for the view's filter bar.
func FilterCounts(tasks []domain.Task) map[domain.TaskFilter]int {
	counts := make(map[domain.TaskFilter]int, len(filterCycle))
	for _, f := range filterCycle {
		counts[f] = 0
	}
	for i := range tasks {
		counts[domain.FilterAll]++
		counts[domain.TaskFilter(tasks[i].Status)]++
	}
	return counts
}
