package domain

type LeadStatus string

const (
	LeadCold      LeadStatus = "cold"
	LeadWarm      LeadStatus = "warm"
	LeadHot       LeadStatus = "hot"
	LeadConverted LeadStatus = "converted"
)

// ValidLeadStatuses is the canonical set of accepted lead status strings.
var ValidLeadStatuses = map[string]bool{
	"cold": true, "warm": true, "hot": true, "converted": true,
}

type TaskStatus string

const (
	TaskPending TaskStatus = "pending"
	TaskDone    TaskStatus = "done"
	TaskOverdue TaskStatus = "overdue"
)

// ValidTaskStatuses is the canonical set of accepted task status strings.
var ValidTaskStatuses = map[string]bool{
	"pending": true, "done": true, "overdue": true,
}

type TaskType string

const (
	TaskCall     TaskType = "call"
	TaskWhatsApp TaskType = "whatsapp"
	TaskSMS      TaskType = "sms"
	TaskMeeting  TaskType = "meeting"
)

// ValidTaskTypes is the canonical set of accepted task type strings.
var ValidTaskTypes = map[string]bool{
	"call": true, "whatsapp": true, "sms": true, "meeting": true,
}

// TaskFilter selects which tasks a view shows. Every TaskStatus is also a filter.
type TaskFilter string

const (
	FilterAll     TaskFilter = "all"
	FilterPending TaskFilter = "pending"
	FilterDone    TaskFilter = "done"
	FilterOverdue TaskFilter = "overdue"
)

// ValidTaskFilters is the canonical set of accepted filter strings.
var ValidTaskFilters = map[string]bool{
	"all": true, "pending": true, "done": true, "overdue": true,
}
