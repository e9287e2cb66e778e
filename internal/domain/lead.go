package domain

// InlineNote is a note embedded in a legacy lead record.
type InlineNote struct {
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

// Interaction is a past contact embedded in a legacy lead record.
type Interaction struct {
	Type      TaskType `json:"type"`
	Text      string   `json:"text"`
	Timestamp string   `json:"timestamp"`
}

// UpcomingEntry is a scheduled follow-up embedded in a legacy lead record.
// Entries seed the lead's tasks once, the first time the lead is opened.
type UpcomingEntry struct {
	Type TaskType `json:"type"`
	Due  string   `json:"due"`
	Text string   `json:"text"`
}

// Lead is a prospective customer. The lead collection itself is owned
// elsewhere; this module only loads, edits and deletes entries in it.
type Lead struct {
	ID              string     `json:"id" validate:"required"`
	Name            string     `json:"name" validate:"required"`
	Phone           string     `json:"phone,omitempty"`
	Email           string     `json:"email,omitempty" validate:"omitempty,email"`
	Country         string     `json:"country,omitempty"`
	Status          LeadStatus `json:"status" validate:"oneof=cold warm hot converted"`
	LastInteraction string     `json:"lastInteraction"`
	EstimatedValue  int64      `json:"estimatedValue" validate:"gte=0"`
	Score           int        `json:"score" validate:"min=1,max=5"`

	Notes        []InlineNote    `json:"notes,omitempty"`
	Interactions []Interaction   `json:"interactions,omitempty"`
	Upcoming     []UpcomingEntry `json:"upcoming,omitempty"`
}

var leadStatusCycle = []LeadStatus{LeadCold, LeadWarm, LeadHot}

// NextStatus returns the status after s in the cold → warm → hot cycle.
// Statuses outside the cycle (converted) restart at cold.
func (s LeadStatus) NextStatus() LeadStatus {
	for i, st := range leadStatusCycle {
		if st == s {
			return leadStatusCycle[(i+1)%len(leadStatusCycle)]
		}
	}
	return LeadCold
}

// LatestInlineNote returns the most recent legacy inline note, if any.
func (l *Lead) LatestInlineNote() (InlineNote, bool) {
	if len(l.Notes) == 0 {
		return InlineNote{}, false
	}
	return l.Notes[len(l.Notes)-1], true
}
