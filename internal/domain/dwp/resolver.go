package dwp

import (
	"strings"

	"github.com/turtacn/sscs-case-core/internal/domain/casedata"
	"github.com/turtacn/sscs-case-core/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/sscs-case-core/pkg/errors"
)

// TestHmctsAddress is the reserved office code that resolves to the test
// mapping for every benefit.
const TestHmctsAddress = "test-hmcts-address"

// Lookup outcomes reported to a LookupObserver.
const (
	OutcomeFound       = "found"
	OutcomeTestAddress = "test_address"
	OutcomeNotFound    = "not_found"
	OutcomeUnsupported = "unsupported_benefit"
)

// LookupObserver is notified of every office lookup.
type LookupObserver interface {
	ObserveOfficeLookup(benefit, outcome string)
}

// strategy is how one benefit family resolves offices.
type strategy struct {
	// lookup finds the office for a raw issuing-office string.
	lookup func(t *Table, office string) (OfficeMapping, bool)
	// candidates are the mappings scanned for the default office.
	candidates func(t *Table) []OfficeMapping
	// region derives the routing label from a mapping.
	region func(m OfficeMapping) string
}

func ccdRouting(m OfficeMapping) string   { return m.Mapping.CCD }
func regionCentre(m OfficeMapping) string { return m.Mapping.DwpRegionCentre }

func byExactCode(offices func(t *Table) []OfficeMapping) func(*Table, string) (OfficeMapping, bool) {
	return func(t *Table, office string) (OfficeMapping, bool) {
		return matchCode(offices(t), strings.TrimSpace(office))
	}
}

func single(mapping func(t *Table) *OfficeMapping) func(*Table, string) (OfficeMapping, bool) {
	return func(t *Table, _ string) (OfficeMapping, bool) {
		return *mapping(t), true
	}
}

func pipOffices(t *Table) []OfficeMapping { return t.PIP }
func esaOffices(t *Table) []OfficeMapping { return t.ESA }
func dlaOffices(t *Table) []OfficeMapping { return t.DLA }
func ucOffice(t *Table) *OfficeMapping    { return t.UC }
func caOffice(t *Table) *OfficeMapping    { return t.CarersAllowance }

func one(mapping func(t *Table) *OfficeMapping) func(*Table) []OfficeMapping {
	return func(t *Table) []OfficeMapping { return []OfficeMapping{*mapping(t)} }
}

var strategies = map[casedata.Benefit]strategy{
	casedata.BenefitPIP: {
		lookup: func(t *Table, office string) (OfficeMapping, bool) {
			return matchCode(t.PIP, strings.TrimSpace(NormalizePIPOffice(office)))
		},
		candidates: pipOffices,
		region:     regionCentre,
	},
	casedata.BenefitESA:             {lookup: byExactCode(esaOffices), candidates: esaOffices, region: ccdRouting},
	casedata.BenefitDLA:             {lookup: byExactCode(dlaOffices), candidates: dlaOffices, region: ccdRouting},
	casedata.BenefitUC:              {lookup: single(ucOffice), candidates: one(ucOffice), region: ccdRouting},
	casedata.BenefitCarersAllowance: {lookup: single(caOffice), candidates: one(caOffice), region: ccdRouting},
}

// NormalizePIPOffice extracts the office code from a PIP issuing-office
// string. "Newcastle (3)" and "(3)" yield "3"; without parentheses every
// non-digit is dropped; if nothing is left the input is returned unchanged.
func NormalizePIPOffice(office string) string {
	code, ok := between(office, "(", ")")
	if !ok {
		code = digitsOnly(office)
	}
	if code == "" {
		return office
	}
	return code
}

func between(s, left, right string) (string, bool) {
	start := strings.Index(s, left)
	if start < 0 {
		return "", false
	}
	rest := s[start+len(left):]
	end := strings.Index(rest, right)
	if end < 0 {
		return "", false
	}
	return rest[:end], true
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// matchCode returns the first office whose code equals code ignoring case.
func matchCode(offices []OfficeMapping, code string) (OfficeMapping, bool) {
	for _, o := range offices {
		if strings.EqualFold(code, o.Code) {
			return o, true
		}
	}
	return OfficeMapping{}, false
}

// Resolver answers office lookups against a validated Table. It holds no
// mutable state and is safe for concurrent use.
type Resolver struct {
	table    *Table
	logger   logging.Logger
	observer LookupObserver
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithObserver reports every lookup outcome to o.
func WithObserver(o LookupObserver) Option {
	return func(r *Resolver) { r.observer = o }
}

// NewResolver validates table and builds a Resolver over it.
func NewResolver(table *Table, logger logging.Logger, opts ...Option) (*Resolver, error) {
	if table == nil {
		return nil, errors.New(errors.CodeReferenceDataInvalid, "dwp address table is nil")
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	r := &Resolver{table: table, logger: logger.Named("dwp")}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

func (r *Resolver) observe(benefit, outcome string) {
	if r.observer != nil {
		r.observer.ObserveOfficeLookup(benefit, outcome)
	}
}

func (r *Resolver) strategyFor(benefitCode string) (casedata.Benefit, strategy, error) {
	b, err := casedata.ParseBenefit(benefitCode)
	if err != nil {
		return "", strategy{}, err
	}
	s, ok := strategies[b]
	if !ok {
		return "", strategy{}, errors.Newf(errors.CodeBenefitUnsupported, "no office strategy for benefit %s", b)
	}
	return b, s, nil
}

// Resolve finds the office mapping for an issuing office under the given
// benefit code. The test address code wins over any benefit.
func (r *Resolver) Resolve(benefitCode, office string) (OfficeMapping, error) {
	r.logger.Info("looking up office address",
		logging.String("benefit_type", benefitCode),
		logging.String("dwp_issuing_office", office))

	if strings.EqualFold(office, TestHmctsAddress) {
		r.observe(benefitCode, OutcomeTestAddress)
		return *r.table.TestHmctsAddress, nil
	}

	b, s, err := r.strategyFor(benefitCode)
	if err != nil {
		r.observe(benefitCode, OutcomeUnsupported)
		return OfficeMapping{}, err
	}
	m, ok := s.lookup(r.table, office)
	if !ok {
		r.observe(string(b), OutcomeNotFound)
		return OfficeMapping{}, errors.Newf(errors.CodeOfficeNotFound,
			"could not find dwp office for benefitType %s and dwpIssuingOffice %s", benefitCode, office)
	}
	r.observe(string(b), OutcomeFound)
	return m, nil
}

// ResolveDefault returns the office marked default for the benefit. A
// benefit without exactly one default is a configuration error.
func (r *Resolver) ResolveDefault(benefitCode string) (OfficeMapping, error) {
	b, s, err := r.strategyFor(benefitCode)
	if err != nil {
		return OfficeMapping{}, err
	}
	var (
		found    OfficeMapping
		defaults int
	)
	for _, m := range s.candidates(r.table) {
		if m.IsDefault {
			if defaults == 0 {
				found = m
			}
			defaults++
		}
	}
	switch defaults {
	case 0:
		return OfficeMapping{}, errors.Newf(errors.CodeDefaultOfficeMissing, "no default dwp office for %s", b)
	case 1:
		return found, nil
	default:
		return OfficeMapping{}, errors.Newf(errors.CodeDefaultOfficeAmbiguous, "%d default dwp offices for %s", defaults, b)
	}
}

// RegionalCentre returns the routing label for an issuing office: the region
// centre for PIP and the CCD routing code for every other benefit.
func (r *Resolver) RegionalCentre(benefitCode, office string) (string, error) {
	m, err := r.Resolve(benefitCode, office)
	if err != nil {
		return "", err
	}
	return r.regionOf(benefitCode, m)
}

// DefaultRegionalCentre is RegionalCentre for the benefit's default office.
func (r *Resolver) DefaultRegionalCentre(benefitCode string) (string, error) {
	m, err := r.ResolveDefault(benefitCode)
	if err != nil {
		return "", err
	}
	return r.regionOf(benefitCode, m)
}

func (r *Resolver) regionOf(benefitCode string, m OfficeMapping) (string, error) {
	_, s, err := r.strategyFor(benefitCode)
	if err != nil {
		return "", err
	}
	return s.region(m), nil
}

// LookupAddress resolves the appeal's MRN issuing office to a postal address.
func (r *Resolver) LookupAddress(c *casedata.CaseData) (casedata.Address, error) {
	if c == nil || c.Appeal == nil || c.Appeal.MrnDetails == nil || c.Appeal.MrnDetails.DwpIssuingOffice == "" {
		detail := ""
		if c != nil {
			detail = "ccdCaseId=" + c.CcdCaseID
		}
		return casedata.Address{}, errors.New(errors.CodeNoMrnDetails, "no mrn details on appeal").WithDetail(detail)
	}
	m, err := r.Resolve(c.Appeal.BenefitCode(), c.Appeal.IssuingOffice())
	if err != nil {
		return casedata.Address{}, err
	}
	return m.PostalAddress(), nil
}

// AllOffices returns every PIP, ESA and DLA office followed by the UC office.
func (r *Resolver) AllOffices() []OfficeMapping {
	out := make([]OfficeMapping, 0, len(r.table.PIP)+len(r.table.ESA)+len(r.table.DLA)+1)
	out = append(out, r.table.PIP...)
	out = append(out, r.table.ESA...)
	out = append(out, r.table.DLA...)
	return append(out, *r.table.UC)
}
