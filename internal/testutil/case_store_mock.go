package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/turtacn/sscs-case-core/internal/domain/casedata"
	"github.com/turtacn/sscs-case-core/pkg/errors"
)

// StoreCall records one CaseStore invocation.
type StoreCall struct {
	Method    string
	CaseID    int64
	EventType casedata.EventType
}

// MemoryCaseStore is an in-memory casedata.CaseStore. Stored data is copied
// on the way in and out so callers cannot alias it.
type MemoryCaseStore struct {
	mu     sync.Mutex
	cases  map[int64]casedata.CaseDetails
	nextID int64
	calls  []StoreCall
	tokens int

	// Submitted holds every submission in order.
	Submitted []casedata.EventSubmission
	// Err, when set, is returned by every method.
	Err error
}

// NewMemoryCaseStore returns an empty store that assigns ids from 1000.
func NewMemoryCaseStore() *MemoryCaseStore {
	return &MemoryCaseStore{cases: make(map[int64]casedata.CaseDetails), nextID: 1000}
}

// Put stores details under details.ID.
func (m *MemoryCaseStore) Put(details casedata.CaseDetails) {
	m.mu.Lock()
	defer m.mu.Unlock()
	details.Data = cloneData(details.Data)
	m.cases[details.ID] = details
}

// Get returns the stored case without recording a call.
func (m *MemoryCaseStore) Get(caseID int64) (casedata.CaseDetails, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.cases[caseID]
	if ok {
		d.Data = cloneData(d.Data)
	}
	return d, ok
}

// Calls returns the recorded invocations.
func (m *MemoryCaseStore) Calls() []StoreCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]StoreCall(nil), m.calls...)
}

func (m *MemoryCaseStore) record(method string, caseID int64, eventType casedata.EventType) {
	m.calls = append(m.calls, StoreCall{Method: method, CaseID: caseID, EventType: eventType})
}

func (m *MemoryCaseStore) token() string {
	m.tokens++
	return fmt.Sprintf("token-%d", m.tokens)
}

func (m *MemoryCaseStore) GetCase(ctx context.Context, caseID int64) (*casedata.CaseDetails, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("GetCase", caseID, "")
	if m.Err != nil {
		return nil, m.Err
	}
	d, ok := m.cases[caseID]
	if !ok {
		return nil, errors.Newf(errors.CodeCaseNotFound, "case %d not found", caseID)
	}
	d.Data = cloneData(d.Data)
	return &d, nil
}

func (m *MemoryCaseStore) StartEvent(ctx context.Context, caseID int64, eventType casedata.EventType) (*casedata.StartEventResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("StartEvent", caseID, eventType)
	if m.Err != nil {
		return nil, m.Err
	}
	d, ok := m.cases[caseID]
	if !ok {
		return nil, errors.Newf(errors.CodeCaseNotFound, "case %d not found", caseID)
	}
	d.Data = cloneData(d.Data)
	return &casedata.StartEventResponse{Token: m.token(), EventID: string(eventType), CaseDetails: &d}, nil
}

func (m *MemoryCaseStore) SubmitEvent(ctx context.Context, caseID int64, sub casedata.EventSubmission) (*casedata.CaseDetails, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("SubmitEvent", caseID, sub.EventType)
	if m.Err != nil {
		return nil, m.Err
	}
	d, ok := m.cases[caseID]
	if !ok {
		return nil, errors.Newf(errors.CodeCaseNotFound, "case %d not found", caseID)
	}
	m.Submitted = append(m.Submitted, sub)
	d.Data = cloneData(sub.Data)
	m.cases[caseID] = d
	out := d
	out.Data = cloneData(d.Data)
	return &out, nil
}

func (m *MemoryCaseStore) StartCreate(ctx context.Context, eventType casedata.EventType) (*casedata.StartEventResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("StartCreate", 0, eventType)
	if m.Err != nil {
		return nil, m.Err
	}
	return &casedata.StartEventResponse{Token: m.token(), EventID: string(eventType)}, nil
}

func (m *MemoryCaseStore) SubmitCreate(ctx context.Context, sub casedata.EventSubmission) (*casedata.CaseDetails, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		m.record("SubmitCreate", 0, sub.EventType)
		return nil, m.Err
	}
	id := m.nextID
	m.nextID++
	m.record("SubmitCreate", id, sub.EventType)
	m.Submitted = append(m.Submitted, sub)
	d := casedata.CaseDetails{ID: id, State: "appealCreated", Data: cloneData(sub.Data)}
	m.cases[id] = d
	out := d
	out.Data = cloneData(d.Data)
	return &out, nil
}

func cloneData(d casedata.CaseData) casedata.CaseData {
	raw, err := json.Marshal(d)
	if err != nil {
		panic(err)
	}
	var out casedata.CaseData
	if err := json.Unmarshal(raw, &out); err != nil {
		panic(err)
	}
	return out
}

// RecordingPublisher is a casedata.EventPublisher that keeps every event.
type RecordingPublisher struct {
	mu     sync.Mutex
	events []casedata.CaseEvent
	// Err, when set, is returned by Publish after recording the event.
	Err error
}

func (p *RecordingPublisher) Publish(ctx context.Context, event casedata.CaseEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.Err
}

// Events returns the published events.
func (p *RecordingPublisher) Events() []casedata.CaseEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]casedata.CaseEvent(nil), p.events...)
}

// Kinds returns the kinds of the published events in order.
func (p *RecordingPublisher) Kinds() []casedata.CaseEventKind {
	p.mu.Lock()
	defer p.mu.Unlock()
	kinds := make([]casedata.CaseEventKind, 0, len(p.events))
	for _, e := range p.events {
		kinds = append(kinds, e.Kind)
	}
	return kinds
}
