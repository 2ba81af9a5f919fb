package casedata

// CorrespondenceDetails is the value of one correspondence entry.
type CorrespondenceDetails struct {
	SentOn             string        `json:"sentOn,omitempty"`
	From               string        `json:"from,omitempty"`
	To                 string        `json:"to,omitempty"`
	Subject            string        `json:"subject,omitempty"`
	Body               string        `json:"body,omitempty"`
	EventType          string        `json:"eventType,omitempty"`
	CorrespondenceType string        `json:"correspondenceType,omitempty"`
	DocumentLink       *DocumentLink `json:"documentLink,omitempty"`
}

// Correspondence is one entry of the correspondence collection.
type Correspondence struct {
	ID    string                `json:"id,omitempty"`
	Value CorrespondenceDetails `json:"value"`
}

// When parses the free-text sentOn value ("1 Feb 2019 11:22").
func (c Correspondence) When() CaseDate { return ParseCorrespondenceTime(c.Value.SentOn) }
