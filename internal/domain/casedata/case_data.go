package casedata

import (
	"bytes"
	"encoding/json"
)

// CaseData is the case record as exchanged with the case store. Only the
// fields the rules read are typed; every other field survives a decode and
// encode round trip through Extra.
type CaseData struct {
	CcdCaseID                  string              `json:"ccdCaseId,omitempty"`
	CaseReference              string              `json:"caseReference,omitempty"`
	Appeal                     *Appeal             `json:"appeal,omitempty"`
	Hearings                   []Hearing           `json:"hearings"`
	Evidence                   *Evidence           `json:"evidence,omitempty"`
	Events                     []Event             `json:"events"`
	SscsDocument               []SscsDocument      `json:"sscsDocument"`
	SscsWelshDocuments         []SscsWelshDocument `json:"sscsWelshDocuments"`
	DwpDocuments               []DwpDocument       `json:"dwpDocuments"`
	Correspondence             []Correspondence    `json:"correspondence"`
	DwpRegionalCentre          string              `json:"dwpRegionalCentre,omitempty"`
	LanguagePreferenceWelsh    string              `json:"languagePreferenceWelsh,omitempty"`
	TranslationWorkOutstanding string              `json:"translationWorkOutstanding,omitempty"`
	CreatedInGapsFrom          string              `json:"createdInGapsFrom,omitempty"`

	// Extra holds fields not modelled above, keyed by their JSON name.
	Extra map[string]json.RawMessage `json:"-"`
}

// caseDataFields has CaseData's fields without its methods.
type caseDataFields CaseData

var jsonNull = []byte("null")

// UnmarshalJSON decodes the typed fields and keeps the rest in Extra.
func (c *CaseData) UnmarshalJSON(data []byte) error {
	var typed caseDataFields
	if err := json.Unmarshal(data, &typed); err != nil {
		return err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	for _, key := range knownKeys {
		delete(all, key)
	}
	if len(all) == 0 {
		all = nil
	}
	*c = CaseData(typed)
	c.Extra = all
	return nil
}

// MarshalJSON encodes the typed fields over Extra. Absent collections are
// omitted while empty ones encode as [].
func (c CaseData) MarshalJSON() ([]byte, error) {
	typed, err := json.Marshal(caseDataFields(c))
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(typed, &fields); err != nil {
		return nil, err
	}
	out := make(map[string]json.RawMessage, len(fields)+len(c.Extra))
	for k, v := range c.Extra {
		out[k] = v
	}
	for k, v := range fields {
		if bytes.Equal(v, jsonNull) {
			continue
		}
		out[k] = v
	}
	return json.Marshal(out)
}

// knownKeys are the JSON names of the typed fields.
var knownKeys = []string{
	"ccdCaseId", "caseReference", "appeal", "hearings", "evidence", "events",
	"sscsDocument", "sscsWelshDocuments", "dwpDocuments", "correspondence",
	"dwpRegionalCentre", "languagePreferenceWelsh", "translationWorkOutstanding",
	"createdInGapsFrom",
}

// Collection names a sortable collection of the record.
type Collection string

const (
	CollectionCorrespondence Collection = "correspondence"
	CollectionEvents         Collection = "events"
	CollectionHearings       Collection = "hearings"
	CollectionEvidence       Collection = "evidence"
	CollectionSscsDocuments  Collection = "sscsDocument"
	CollectionDwpDocuments   Collection = "dwpDocuments"
)

// SortCollections replaces every present collection with its ordered copy
// and returns the collections it touched. Absent collections stay absent.
// Welsh documents keep their stored order.
func (c *CaseData) SortCollections() []Collection {
	var sorted []Collection
	if c.Correspondence != nil {
		c.Correspondence = SortCorrespondence(c.Correspondence)
		sorted = append(sorted, CollectionCorrespondence)
	}
	if c.Events != nil {
		c.Events = SortEvents(c.Events)
		sorted = append(sorted, CollectionEvents)
	}
	if c.Hearings != nil {
		c.Hearings = SortHearings(c.Hearings)
		sorted = append(sorted, CollectionHearings)
	}
	if c.Evidence != nil && c.Evidence.Documents != nil {
		c.Evidence.Documents = SortEvidenceDocuments(c.Evidence.Documents)
		sorted = append(sorted, CollectionEvidence)
	}
	if c.SscsDocument != nil {
		c.SscsDocument = SortSscsDocuments(c.SscsDocument)
		sorted = append(sorted, CollectionSscsDocuments)
	}
	if c.DwpDocuments != nil {
		c.DwpDocuments = SortDwpDocuments(c.DwpDocuments)
		sorted = append(sorted, CollectionDwpDocuments)
	}
	return sorted
}

// LatestDocument returns the most recent case document of docType.
func (c *CaseData) LatestDocument(docType DocumentType) (SscsDocument, bool) {
	return LatestOfType(c.SscsDocument, docType)
}

// LatestWelshDocument returns the most recent Welsh document of docType.
func (c *CaseData) LatestWelshDocument(docType DocumentType) (SscsWelshDocument, bool) {
	return LatestOfTypeSorted(c.SscsWelshDocuments, docType)
}

// TranslationOutstanding scans case and DWP documents for pending translation.
func (c *CaseData) TranslationOutstanding() bool {
	return IsTranslationOutstanding(c.SscsDocument) || IsTranslationOutstanding(c.DwpDocuments)
}

// UpdateTranslationWorkOutstandingFlag recomputes translationWorkOutstanding
// from the documents and reports whether the stored value changed.
func (c *CaseData) UpdateTranslationWorkOutstandingFlag() bool {
	next := string(YesNoOf(c.TranslationOutstanding()))
	changed := c.TranslationWorkOutstanding != next
	c.TranslationWorkOutstanding = next
	return changed
}

// IsTranslationWorkOutstanding reads the stored flag.
func (c *CaseData) IsTranslationWorkOutstanding() bool {
	return IsYes(c.TranslationWorkOutstanding)
}

// LanguagePreference is the correspondence language of the appellant.
type LanguagePreference string

const (
	LanguageEnglish LanguagePreference = "english"
	LanguageWelsh   LanguagePreference = "welsh"
)

// IsLanguagePreferenceWelsh reads languagePreferenceWelsh.
func (c *CaseData) IsLanguagePreferenceWelsh() bool {
	return IsYes(c.LanguagePreferenceWelsh)
}

// LanguagePreference returns welsh when requested, english otherwise.
func (c *CaseData) LanguagePreference() LanguagePreference {
	if c.IsLanguagePreferenceWelsh() {
		return LanguageWelsh
	}
	return LanguageEnglish
}

// LatestEventType returns the type of the newest event.
func (c *CaseData) LatestEventType() (EventType, bool) {
	if len(c.Events) == 0 {
		return "", false
	}
	return SortEvents(c.Events)[0].Value.Type, true
}

// Benefit parses the appeal's benefit code.
func (c *CaseData) Benefit() (Benefit, error) {
	return ParseBenefit(c.Appeal.BenefitCode())
}

// IsBenefit reports whether the appeal concerns b.
func (c *CaseData) IsBenefit(b Benefit) bool {
	return IsBenefit(c.Appeal.BenefitCode(), b)
}
