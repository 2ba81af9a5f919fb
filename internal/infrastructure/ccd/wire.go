package ccd

import (
	"encoding/json"

	"github.com/turtacn/sscs-case-core/internal/domain/casedata"
)

// caseResource is the GET /cases/{id} response shape.
type caseResource struct {
	Reference     json.Number       `json:"id"`
	Jurisdiction  string            `json:"jurisdiction"`
	CaseType      string            `json:"case_type"`
	State         string            `json:"state"`
	CreatedOn     string            `json:"created_on"`
	LastModified  string            `json:"last_modified_on"`
	SecurityClass string            `json:"security_classification"`
	Data          casedata.CaseData `json:"data"`
}

type eventBody struct {
	ID          casedata.EventType `json:"id"`
	Summary     string             `json:"summary,omitempty"`
	Description string             `json:"description,omitempty"`
}

// caseDataContent is the body of an event submission.
type caseDataContent struct {
	Event         eventBody         `json:"event"`
	EventToken    string            `json:"event_token"`
	Data          casedata.CaseData `json:"data"`
	IgnoreWarning bool              `json:"ignore_warning"`
}

func contentOf(sub casedata.EventSubmission) caseDataContent {
	return caseDataContent{
		Event: eventBody{
			ID:          sub.EventType,
			Summary:     sub.Summary,
			Description: sub.Description,
		},
		EventToken:    sub.Token,
		Data:          sub.Data,
		IgnoreWarning: true,
	}
}

// errorBody is the error payload the store returns on failure.
type errorBody struct {
	Exception string `json:"exception"`
	Message   string `json:"message"`
	Status    int    `json:"status"`
}
