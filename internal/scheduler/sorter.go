package scheduler

import (
	"sort"

	"github.com/alexanderramin/leadbook/internal/domain"
)

// StatusRank returns a sort priority (lower = shown first).
func StatusRank(s domain.TaskStatus) int {
	switch s {
	case domain.TaskPending:
		return 0
	case domain.TaskOverdue:
		return 1
	default:
		return 2
	}
}

// SortTasks sorts tasks in place by the canonical display order:
// 1. Status rank: pending, overdue, done
// 2. Due date: latest first
// Tasks with equal rank and due keep their relative order.
func SortTasks(tasks []domain.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := &tasks[i], &tasks[j]

		rankA, rankB := StatusRank(a.Status), StatusRank(b.Status)
		if rankA != rankB {
			return rankA < rankB
		}

		// Unparseable dues are the zero time and land last within their rank.
		return a.DueTime().After(b.DueTime())
	})
}

// VisibleTasks returns the tasks shown under filter, sorted for display.
// The input slice is not modified.
func VisibleTasks(tasks []domain.Task, filter domain.TaskFilter) []domain.Task {
	visible := make([]domain.Task, 0, len(tasks))
	for i := range tasks {
		if tasks[i].Matches(filter) {
			visible = append(visible, tasks[i])
		}
	}
	SortTasks(visible)
	return visible
}
