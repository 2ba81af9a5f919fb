package casedata

import (
	"context"
	"time"
)

// CaseDetails is a case as held by the case store.
type CaseDetails struct {
	ID            int64    `json:"id"`
	Jurisdiction  string   `json:"jurisdiction,omitempty"`
	CaseTypeID    string   `json:"case_type_id,omitempty"`
	State         string   `json:"state,omitempty"`
	CreatedDate   string   `json:"created_date,omitempty"`
	LastModified  string   `json:"last_modified,omitempty"`
	SecurityClass string   `json:"security_classification,omitempty"`
	Data          CaseData `json:"case_data"`
}

// StartEventResponse carries the token needed to submit an event and the
// case data as it stood when the event started.
type StartEventResponse struct {
	Token       string       `json:"token"`
	EventID     string       `json:"event_id"`
	CaseDetails *CaseDetails `json:"case_details,omitempty"`
}

// EventSubmission is the payload of a submitted event.
type EventSubmission struct {
	EventType   EventType
	Token       string
	Summary     string
	Description string
	Data        CaseData
}

// CaseStore is the external case-management store.
type CaseStore interface {
	GetCase(ctx context.Context, caseID int64) (*CaseDetails, error)
	StartEvent(ctx context.Context, caseID int64, eventType EventType) (*StartEventResponse, error)
	SubmitEvent(ctx context.Context, caseID int64, sub EventSubmission) (*CaseDetails, error)
	StartCreate(ctx context.Context, eventType EventType) (*StartEventResponse, error)
	SubmitCreate(ctx context.Context, sub EventSubmission) (*CaseDetails, error)
}

// CaseEventKind classifies published case events.
type CaseEventKind string

const (
	CaseEventCreated                    CaseEventKind = "case.created"
	CaseEventUpdated                    CaseEventKind = "case.updated"
	CaseEventTranslationWorkOutstanding CaseEventKind = "case.translation_work_outstanding"
)

// CaseEvent is a notification that a workflow step changed a case.
type CaseEvent struct {
	ID         string            `json:"id"`
	Kind       CaseEventKind     `json:"kind"`
	CaseID     int64             `json:"case_id"`
	EventType  EventType         `json:"event_type,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// EventPublisher delivers case events to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, event CaseEvent) error
}
