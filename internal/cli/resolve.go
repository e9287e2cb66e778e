package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/leadbook/internal/domain"
	"github.com/alexanderramin/leadbook/internal/repository"
	"github.com/alexanderramin/leadbook/internal/service"
	"github.com/spf13/pflag"
)

// resolveLead finds a lead by exact id, then by case-insensitive name, then
// by unique id prefix.
func resolveLead(ctx context.Context, app *App, input string) (*domain.Lead, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("lead is required")
	}

	lead, err := app.Leads.GetByID(ctx, input)
	if err == nil {
		return lead, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	leads, err := app.Leads.List(ctx, service.LeadQuery{})
	if err != nil {
		return nil, err
	}

	var byName []domain.Lead
	for _, l := range leads {
		if strings.EqualFold(l.Name, input) {
			byName = append(byName, l)
		}
	}
	if len(byName) == 1 {
		return &byName[0], nil
	}
	if len(byName) > 1 {
		return nil, fmt.Errorf("lead name %q is ambiguous (%d matches), use the id", input, len(byName))
	}

	var byPrefix []domain.Lead
	for _, l := range leads {
		if strings.HasPrefix(l.ID, input) {
			byPrefix = append(byPrefix, l)
		}
	}
	switch len(byPrefix) {
	case 0:
		return nil, fmt.Errorf("lead not found: %q: %w", input, repository.ErrNotFound)
	case 1:
		return &byPrefix[0], nil
	default:
		return nil, fmt.Errorf("lead id prefix %q is ambiguous (%d matches)", input, len(byPrefix))
	}
}

func parseFilter(s string) (domain.TaskFilter, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return domain.FilterAll, nil
	}
	if !domain.ValidTaskFilters[s] {
		return "", fmt.Errorf("invalid filter %q (all, pending, done, overdue)", s)
	}
	return domain.TaskFilter(s), nil
}

func parseTaskType(s string) (domain.TaskType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if !domain.ValidTaskTypes[s] {
		return "", fmt.Errorf("invalid task type %q (call, sms, whatsapp, meeting)", s)
	}
	return domain.TaskType(s), nil
}

func parseTaskStatus(s string) (domain.TaskStatus, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if !domain.ValidTaskStatuses[s] {
		return "", fmt.Errorf("invalid task status %q (pending, done, overdue)", s)
	}
	return domain.TaskStatus(s), nil
}

func parseLeadStatus(s string) (domain.LeadStatus, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if !domain.ValidLeadStatuses[s] {
		return "", fmt.Errorf("invalid lead status %q (cold, warm, hot, converted)", s)
	}
	return domain.LeadStatus(s), nil
}

// anyChanged reports whether at least one of the named flags was set.
func anyChanged(flags *pflag.FlagSet, names ...string) bool {
	for _, name := range names {
		if flags.Changed(name) {
			return true
		}
	}
	return false
}
