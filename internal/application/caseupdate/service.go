// Package caseupdate orchestrates reads and writes of case records against the
// case store: every record is normalized on the way through, the translation
// flag is recomputed and the DWP regional centre derived before submission.
package caseupdate

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/sscs-case-core/internal/domain/casedata"
	"github.com/turtacn/sscs-case-core/internal/domain/dwp"
	"github.com/turtacn/sscs-case-core/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/sscs-case-core/pkg/errors"
)

// Workflow operations reported to Metrics.
const (
	OpGet       = "get"
	OpUpdate    = "update"
	OpCreate    = "create"
	OpTranslate = "refresh_translation"
)

// Metrics receives workflow measurements.
type Metrics interface {
	// ObserveNormalization records how many collections one pass reordered.
	ObserveNormalization(collections int)
	// ObserveTranslationTransition records the flag moving to outstanding.
	ObserveTranslationTransition()
	// ObserveWorkflow records the outcome of one workflow operation.
	ObserveWorkflow(operation string, err error, elapsed time.Duration)
}

type nopMetrics struct{}

func (nopMetrics) ObserveNormalization(int)                     {}
func (nopMetrics) ObserveTranslationTransition()                {}
func (nopMetrics) ObserveWorkflow(string, error, time.Duration) {}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, casedata.CaseEvent) error { return nil }

// Event names the store event a write is submitted under.
type Event struct {
	Type        casedata.EventType
	Summary     string
	Description string
}

// Mutation changes case data inside an update. Returning an error aborts the
// update before anything is submitted.
type Mutation func(data *casedata.CaseData) error

// Service is the case-update workflow. It holds no per-case state; callers
// serialize access to a single case.
type Service struct {
	store     casedata.CaseStore
	resolver  *dwp.Resolver
	publisher casedata.EventPublisher
	metrics   Metrics
	logger    logging.Logger
	now       func() time.Time
	newID     func() string
}

// Option configures a Service.
type Option func(*Service)

// WithPublisher sets the destination of case events.
func WithPublisher(p casedata.EventPublisher) Option {
	return func(s *Service) {
		if p != nil {
			s.publisher = p
		}
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m Metrics) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the time source used to stamp events.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService builds a Service. Store and resolver are required.
func NewService(store casedata.CaseStore, resolver *dwp.Resolver, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.Internal("caseupdate: case store must not be nil")
	}
	if resolver == nil {
		return nil, errors.Internal("caseupdate: office resolver must not be nil")
	}
	s := &Service{
		store:     store,
		resolver:  resolver,
		publisher: nopPublisher{},
		metrics:   nopMetrics{},
		logger:    logging.NewNopLogger(),
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.Named("caseupdate")
	return s, nil
}

// GetCase reads a case and normalizes its collections.
func (s *Service) GetCase(ctx context.Context, caseID int64) (details *casedata.CaseDetails, err error) {
	defer s.track(OpGet, time.Now(), &err)

	details, err = s.store.GetCase(ctx, caseID)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeUnknown, "get case")
	}
	s.normalize(&details.Data)
	return details, nil
}

// UpdateCase runs one update event: it starts the event, applies mutate to
// the current data, normalizes, recomputes the translation flag, refreshes
// the regional centre and submits. A nil mutate submits the recomputed data
// unchanged otherwise.
func (s *Service) UpdateCase(ctx context.Context, caseID int64, ev Event, mutate Mutation) (details *casedata.CaseDetails, err error) {
	defer s.track(OpUpdate, time.Now(), &err)
	return s.update(ctx, caseID, ev, mutate)
}

func (s *Service) update(ctx context.Context, caseID int64, ev Event, mutate Mutation) (*casedata.CaseDetails, error) {
	log := s.logger.With(logging.CaseID(caseID), logging.EventType(string(ev.Type)))

	start, err := s.store.StartEvent(ctx, caseID, ev.Type)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeUnknown, "start event")
	}
	if start.CaseDetails == nil {
		return nil, errors.Newf(errors.CodeCaseDataInvalid, "start event for case %d returned no case data", caseID)
	}
	data := start.CaseDetails.Data
	wasOutstanding := data.IsTranslationWorkOutstanding()

	if mutate != nil {
		if err := mutate(&data); err != nil {
			log.Warn("mutation rejected, event not submitted", logging.Err(err))
			return nil, errors.Wrap(err, errors.CodeUnknown, "apply mutation")
		}
	}
	s.prepare(log, &data, false)

	updated, err := s.store.SubmitEvent(ctx, caseID, casedata.EventSubmission{
		EventType:   ev.Type,
		Token:       start.Token,
		Summary:     ev.Summary,
		Description: ev.Description,
		Data:        data,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeUnknown, "submit event")
	}
	log.Info("case updated", logging.String("translation_work_outstanding", data.TranslationWorkOutstanding))

	s.publish(ctx, log, casedata.CaseEventUpdated, caseID, ev, nil)
	if !wasOutstanding && data.IsTranslationWorkOutstanding() {
		s.translationOutstanding(ctx, log, caseID, ev, &data)
	}
	return updated, nil
}

// CreateCase normalizes data, derives its regional centre and submits it as
// a new case. An unresolvable issuing office falls back to the benefit's
// default office.
func (s *Service) CreateCase(ctx context.Context, data casedata.CaseData, ev Event) (details *casedata.CaseDetails, err error) {
	defer s.track(OpCreate, time.Now(), &err)

	log := s.logger.With(logging.EventType(string(ev.Type)))
	s.prepare(log, &data, true)

	start, err := s.store.StartCreate(ctx, ev.Type)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeUnknown, "start create")
	}
	created, err := s.store.SubmitCreate(ctx, casedata.EventSubmission{
		EventType:   ev.Type,
		Token:       start.Token,
		Summary:     ev.Summary,
		Description: ev.Description,
		Data:        data,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeUnknown, "submit create")
	}
	log = log.With(logging.CaseID(created.ID))
	log.Info("case created", logging.String("dwp_regional_centre", data.DwpRegionalCentre))

	s.publish(ctx, log, casedata.CaseEventCreated, created.ID, ev, map[string]string{
		"benefit_type":        data.Appeal.BenefitCode(),
		"dwp_regional_centre": data.DwpRegionalCentre,
	})
	if data.IsTranslationWorkOutstanding() {
		s.translationOutstanding(ctx, log, created.ID, ev, &data)
	}
	return created, nil
}

// RefreshTranslationFlag submits an updateTranslationWorkOutstanding event
// that only recomputes the flag.
func (s *Service) RefreshTranslationFlag(ctx context.Context, caseID int64) (details *casedata.CaseDetails, err error) {
	defer s.track(OpTranslate, time.Now(), &err)
	return s.update(ctx, caseID, Event{
		Type:        casedata.EventUpdateTranslationWorkOutstanding,
		Summary:     "Update translation work outstanding",
		Description: "Recompute translation work outstanding from case documents",
	}, nil)
}

func (s *Service) normalize(data *casedata.CaseData) {
	s.metrics.ObserveNormalization(len(data.SortCollections()))
}

// prepare runs the pre-submission pass shared by creates and updates.
func (s *Service) prepare(log logging.Logger, data *casedata.CaseData, fallback bool) {
	s.normalize(data)
	data.UpdateTranslationWorkOutstandingFlag()
	if centre, ok := s.regionalCentre(log, data, fallback); ok {
		data.DwpRegionalCentre = centre
	}
}

// regionalCentre derives the routing label from the appeal. Without a benefit
// nothing is derived. An office that cannot be resolved keeps the stored
// value on update and falls back to the default office on create.
func (s *Service) regionalCentre(log logging.Logger, data *casedata.CaseData, fallback bool) (string, bool) {
	benefit := data.Appeal.BenefitCode()
	if benefit == "" {
		return "", false
	}
	if _, err := casedata.ParseBenefit(benefit); err != nil {
		log.Warn("benefit has no dwp offices", logging.String("benefit_type", benefit))
		return "", false
	}
	office := data.Appeal.IssuingOffice()
	if office != "" {
		centre, err := s.resolver.RegionalCentre(benefit, office)
		if err == nil {
			return centre, true
		}
		if !fallback {
			log.Warn("dwp issuing office not resolved, keeping regional centre",
				logging.String("dwp_issuing_office", office), logging.Err(err))
			return "", false
		}
	} else if !fallback {
		return "", false
	}

	centre, err := s.resolver.DefaultRegionalCentre(benefit)
	if err != nil {
		log.Warn("no default dwp office", logging.String("benefit_type", benefit), logging.Err(err))
		return "", false
	}
	log.Warn("dwp issuing office not resolved, using default office",
		logging.String("benefit_type", benefit),
		logging.String("dwp_issuing_office", office),
		logging.String("dwp_regional_centre", centre))
	return centre, true
}

func (s *Service) translationOutstanding(ctx context.Context, log logging.Logger, caseID int64, ev Event, data *casedata.CaseData) {
	s.metrics.ObserveTranslationTransition()
	s.publish(ctx, log, casedata.CaseEventTranslationWorkOutstanding, caseID, ev, map[string]string{
		"language_preference": string(data.LanguagePreference()),
	})
}

// publish delivers a case event. The store write has already happened, so a
// publish failure is logged and not returned.
func (s *Service) publish(ctx context.Context, log logging.Logger, kind casedata.CaseEventKind, caseID int64, ev Event, attrs map[string]string) {
	event := casedata.CaseEvent{
		ID:         s.newID(),
		Kind:       kind,
		CaseID:     caseID,
		EventType:  ev.Type,
		OccurredAt: s.now().UTC(),
		Attributes: attrs,
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.Error("failed to publish case event", logging.String("kind", string(kind)), logging.Err(err))
	}
}

func (s *Service) track(op string, started time.Time, err *error) {
	s.metrics.ObserveWorkflow(op, *err, time.Since(started))
}
