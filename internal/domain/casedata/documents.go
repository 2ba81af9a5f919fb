package casedata

import "strings"

// DocumentType tags a typed document. Values are the case store's codes.
type DocumentType string

const (
	DocumentTypeAppellantEvidence   DocumentType = "appellantEvidence"
	DocumentTypeDecisionNotice      DocumentType = "decisionNotice"
	DocumentTypeDirectionNotice     DocumentType = "directionNotice"
	DocumentTypeFinalDecisionNotice DocumentType = "finalDecisionNotice"
	DocumentTypeAdjournmentNotice   DocumentType = "adjournmentNotice"
	DocumentTypeDl6                 DocumentType = "dl6"
	DocumentTypeDl16                DocumentType = "dl16"
	DocumentTypeSscs1               DocumentType = "sscs1"
	DocumentTypeDwpResponse         DocumentType = "dwpResponse"
	DocumentTypeDwpEvidenceBundle   DocumentType = "dwpEvidenceBundle"
	DocumentTypeAppendix12          DocumentType = "appendix12"
	DocumentTypeUcb                 DocumentType = "ucbDocument"
	DocumentTypeOther               DocumentType = "Other document"
)

var documentTypes = map[DocumentType]struct{}{
	DocumentTypeAppellantEvidence:   {},
	DocumentTypeDecisionNotice:      {},
	DocumentTypeDirectionNotice:     {},
	DocumentTypeFinalDecisionNotice: {},
	DocumentTypeAdjournmentNotice:   {},
	DocumentTypeDl6:                 {},
	DocumentTypeDl16:                {},
	DocumentTypeSscs1:               {},
	DocumentTypeDwpResponse:         {},
	DocumentTypeDwpEvidenceBundle:   {},
	DocumentTypeAppendix12:          {},
	DocumentTypeUcb:                 {},
	DocumentTypeOther:               {},
}

// Known reports whether t is one of the declared document types.
func (t DocumentType) Known() bool {
	_, ok := documentTypes[t]
	return ok
}

// TranslationStatus tracks whether a document needs a Welsh translation.
// The empty value means no translation applies.
type TranslationStatus string

const (
	TranslationNone      TranslationStatus = ""
	TranslationRequested TranslationStatus = "Translation requested"
	TranslationRequired  TranslationStatus = "Translation required"
	TranslationComplete  TranslationStatus = "Translation complete"
)

// Outstanding reports whether translation work is still pending.
func (s TranslationStatus) Outstanding() bool {
	return s == TranslationRequested || s == TranslationRequired
}

// DocumentLink points at the stored file.
type DocumentLink struct {
	DocumentURL       string `json:"document_url,omitempty"`
	DocumentBinaryURL string `json:"document_binary_url,omitempty"`
	DocumentFilename  string `json:"document_filename,omitempty"`
}

// TypedDocument is the read view shared by every typed-document collection.
type TypedDocument interface {
	Type() DocumentType
	AddedOn() CaseDate
	BundleLetter() string
	Translation() TranslationStatus
}

// bundleLetter normalises a bundle addition tag; "" means untagged.
func bundleLetter(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// SscsDocumentDetails is the value of one case document.
type SscsDocumentDetails struct {
	DocumentType              DocumentType      `json:"documentType,omitempty"`
	DocumentFileName          string            `json:"documentFileName,omitempty"`
	DocumentEmailContent      string            `json:"documentEmailContent,omitempty"`
	DocumentDateAdded         string            `json:"documentDateAdded,omitempty"`
	DocumentLink              *DocumentLink     `json:"documentLink,omitempty"`
	EditedDocumentLink        *DocumentLink     `json:"editedDocumentLink,omitempty"`
	DocumentComment           string            `json:"documentComment,omitempty"`
	ControlNumber             string            `json:"controlNumber,omitempty"`
	EvidenceIssued            string            `json:"evidenceIssued,omitempty"`
	BundleAddition            string            `json:"bundleAddition,omitempty"`
	DocumentTranslationStatus TranslationStatus `json:"documentTranslationStatus,omitempty"`
	PartyUploaded             string            `json:"partyUploaded,omitempty"`
	DateApproved              string            `json:"dateApproved,omitempty"`
}

// SscsDocument is one entry of the case documents collection.
type SscsDocument struct {
	ID    string              `json:"id,omitempty"`
	Value SscsDocumentDetails `json:"value"`
}

func (d SscsDocument) Type() DocumentType             { return d.Value.DocumentType }
func (d SscsDocument) AddedOn() CaseDate              { return ParseDate(d.Value.DocumentDateAdded) }
func (d SscsDocument) BundleLetter() string           { return bundleLetter(d.Value.BundleAddition) }
func (d SscsDocument) Translation() TranslationStatus { return d.Value.DocumentTranslationStatus }

// SscsWelshDocumentDetails is the value of one translated document.
type SscsWelshDocumentDetails struct {
	DocumentType             DocumentType  `json:"documentType,omitempty"`
	DocumentFileName         string        `json:"documentFileName,omitempty"`
	DocumentDateAdded        string        `json:"documentDateAdded,omitempty"`
	DocumentLink             *DocumentLink `json:"documentLink,omitempty"`
	OriginalDocumentFileName string        `json:"originalDocumentFileName,omitempty"`
	DocumentComment          string        `json:"documentComment,omitempty"`
	BundleAddition           string        `json:"bundleAddition,omitempty"`
	EvidenceIssued           string        `json:"evidenceIssued,omitempty"`
}

// SscsWelshDocument is one entry of the Welsh documents collection.
type SscsWelshDocument struct {
	ID    string                   `json:"id,omitempty"`
	Value SscsWelshDocumentDetails `json:"value"`
}

func (d SscsWelshDocument) Type() DocumentType   { return d.Value.DocumentType }
func (d SscsWelshDocument) AddedOn() CaseDate    { return ParseDate(d.Value.DocumentDateAdded) }
func (d SscsWelshDocument) BundleLetter() string { return bundleLetter(d.Value.BundleAddition) }

// Translation is always none: a Welsh document is itself the translation.
func (d SscsWelshDocument) Translation() TranslationStatus { return TranslationNone }

// DwpDocumentDetails is the value of one document uploaded by the DWP.
type DwpDocumentDetails struct {
	DocumentType              DocumentType      `json:"documentType,omitempty"`
	DocumentFileName          string            `json:"documentFileName,omitempty"`
	DocumentDateAdded         string            `json:"documentDateAdded,omitempty"`
	DocumentDateTimeAdded     string            `json:"documentDateTimeAdded,omitempty"`
	DocumentLink              *DocumentLink     `json:"documentLink,omitempty"`
	EditedDocumentLink        *DocumentLink     `json:"editedDocumentLink,omitempty"`
	DwpEditedEvidenceReason   string            `json:"dwpEditedEvidenceReason,omitempty"`
	DocumentComment           string            `json:"documentComment,omitempty"`
	EvidenceIssued            string            `json:"evidenceIssued,omitempty"`
	BundleAddition            string            `json:"bundleAddition,omitempty"`
	DocumentTranslationStatus TranslationStatus `json:"documentTranslationStatus,omitempty"`
	PartyUploaded             string            `json:"partyUploaded,omitempty"`
	DateApproved              string            `json:"dateApproved,omitempty"`
}

// DwpDocument is one entry of the DWP documents collection.
type DwpDocument struct {
	ID    string             `json:"id,omitempty"`
	Value DwpDocumentDetails `json:"value"`
}

func (d DwpDocument) Type() DocumentType             { return d.Value.DocumentType }
func (d DwpDocument) BundleLetter() string           { return bundleLetter(d.Value.BundleAddition) }
func (d DwpDocument) Translation() TranslationStatus { return d.Value.DocumentTranslationStatus }

// AddedOn prefers the timestamp and falls back to the legacy date field.
func (d DwpDocument) AddedOn() CaseDate {
	if at := ParseDateTime(d.Value.DocumentDateTimeAdded); at.Valid() {
		return at
	}
	return ParseDate(d.Value.DocumentDateAdded)
}
