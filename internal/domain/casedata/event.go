package casedata

// EventDetails is the value of one case history event.
type EventDetails struct {
	Date        string    `json:"date,omitempty"`
	Type        EventType `json:"type,omitempty"`
	Description string    `json:"description,omitempty"`
}

// Event is one entry of the events collection.
type Event struct {
	ID    string       `json:"id,omitempty"`
	Value EventDetails `json:"value"`
}

// When parses the event timestamp.
func (e Event) When() CaseDate { return ParseDateTime(e.Value.Date) }
