package casedata

// EvidenceDocumentDetails is the value of one evidence document.
type EvidenceDocumentDetails struct {
	DocumentType string        `json:"documentType,omitempty"`
	EvidenceType string        `json:"evidenceType,omitempty"`
	DateReceived string        `json:"dateReceived,omitempty"`
	DocumentLink *DocumentLink `json:"documentLink,omitempty"`
}

// EvidenceDocument is one entry of the evidence documents collection.
type EvidenceDocument struct {
	ID    string                  `json:"id,omitempty"`
	Value EvidenceDocumentDetails `json:"value"`
}

// When parses dateReceived. Placeholders such as "NaN" are malformed dates.
func (d EvidenceDocument) When() CaseDate { return ParseDate(d.Value.DateReceived) }

// Evidence is the evidence sub-record.
type Evidence struct {
	Documents []EvidenceDocument `json:"documents,omitempty"`
}
