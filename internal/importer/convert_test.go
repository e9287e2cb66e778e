package importer

import (
	"strings"
	"testing"

	"github.com/alexanderramin/leadbook/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert_Sample(t *testing.T) {
	d, err := ParseDump([]byte(sampleDump))
	require.NoError(t, err)

	c := Convert(d)

	require.Len(t, c.Leads, 1)
	lead := c.Leads[0]
	assert.Equal(t, domain.LeadHot, lead.Status)
	assert.Equal(t, int64(5000), lead.EstimatedValue)
	assert.Equal(t, 4, lead.Score)
	require.Len(t, lead.Upcoming, 1)
	assert.Equal(t, domain.TaskCall, lead.Upcoming[0].Type)

	require.Len(t, c.TaskSlots["L-1"], 1)
	assert.Equal(t, "Send catalog", c.TaskSlots["L-1"][0].Text, "text alias follows title")

	require.Len(t, c.GlobalTasks["L-1"], 1)
	assert.Equal(t, "Ali", c.GlobalTasks["L-1"][0].LeadName, "lead name filled from the lead collection")
	assert.Equal(t, domain.TaskCall, c.GlobalTasks["L-1"][0].Type)

	assert.Equal(t, []domain.Note{{Text: "likes blue", Timestamp: "2024-01-01 10:00:00"}}, c.NoteSlots["L-1"])
}

func TestConvert_LeadDefaults(t *testing.T) {
	c := Convert(&Dump{HasLeads: true, Leads: []LeadImport{{ID: "L-1", Name: "Bare"}}})

	require.Len(t, c.Leads, 1)
	assert.Equal(t, domain.LeadCold, c.Leads[0].Status)
	assert.Equal(t, 3, c.Leads[0].Score)
	assert.Equal(t, int64(0), c.Leads[0].EstimatedValue)
	assert.NoError(t, c.Leads[0].Validate())
}

func TestConvert_GlobalTaskWithoutIDGetsOne(t *testing.T) {
	c := Convert(&Dump{
		HasLeads:    true,
		Leads:       []LeadImport{{ID: "L-1", Name: "Ali"}},
		GlobalTasks: []TaskImport{{Text: "legacy", LeadID: "L-1"}, {Text: "legacy", LeadID: "L-1"}},
	})

	tasks := c.GlobalTasks["L-1"]
	require.Len(t, tasks, 2)
	assert.True(t, strings.HasPrefix(tasks[0].ID, "task-L-1-"))
	assert.NotEqual(t, tasks[0].ID, tasks[1].ID)
	assert.Equal(t, "legacy", tasks[0].Title)
	assert.Equal(t, domain.TaskPending, tasks[0].Status)
}

func TestConvert_SlotTasksKeptAsStored(t *testing.T) {
	c := Convert(&Dump{
		HasLeads:  true,
		Leads:     []LeadImport{{ID: "L-1", Name: "Ali"}},
		TaskSlots: map[string][]TaskImport{"L-1": {{Text: "no id, no status"}}},
	})

	tasks := c.TaskSlots["L-1"]
	require.Len(t, tasks, 1)
	assert.Empty(t, tasks[0].ID)
	assert.Empty(t, tasks[0].Status)
	assert.Equal(t, "L-1", tasks[0].LeadID)
}
