package kafka

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/google/uuid"

	"github.com/turtacn/sscs-case-core/internal/domain/casedata"
	"github.com/turtacn/sscs-case-core/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/sscs-case-core/pkg/errors"
)

const (
	envelopeSource        = "sscs-case-core"
	envelopeSchemaVersion = "1.0"
)

// EventEnvelope wraps every published case event.
type EventEnvelope struct {
	EventID       string             `json:"event_id"`
	EventType     string             `json:"event_type"`
	Source        string             `json:"source"`
	SchemaVersion string             `json:"schema_version"`
	Payload       casedata.CaseEvent `json:"payload"`
}

// CaseEventPublisher implements casedata.EventPublisher on a Producer.
// Messages are keyed by case id so events of one case stay ordered.
type CaseEventPublisher struct {
	producer *Producer
	logger   logging.Logger
}

var _ casedata.EventPublisher = (*CaseEventPublisher)(nil)

// NewCaseEventPublisher publishes through producer.
func NewCaseEventPublisher(producer *Producer, logger logging.Logger) *CaseEventPublisher {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &CaseEventPublisher{producer: producer, logger: logger.Named("case_events")}
}

// Publish sends event. An event without an id is given one.
func (p *CaseEventPublisher) Publish(ctx context.Context, event casedata.CaseEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	value, err := json.Marshal(EventEnvelope{
		EventID:       event.ID,
		EventType:     string(event.Kind),
		Source:        envelopeSource,
		SchemaVersion: envelopeSchemaVersion,
		Payload:       event,
	})
	if err != nil {
		return errors.Wrap(err, errors.CodeSerialization, "cannot encode case event")
	}
	key := []byte(strconv.FormatInt(event.CaseID, 10))
	headers := map[string]string{
		"event_id":   event.ID,
		"event_kind": string(event.Kind),
	}
	if err := p.producer.Publish(ctx, key, value, headers); err != nil {
		return err
	}
	p.logger.Info("case event published",
		logging.CaseID(event.CaseID),
		logging.String("kind", string(event.Kind)),
		logging.String("event_id", event.ID))
	return nil
}

// Close closes the underlying producer.
func (p *CaseEventPublisher) Close() error {
	return p.producer.Close()
}
