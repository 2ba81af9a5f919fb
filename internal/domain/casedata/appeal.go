package casedata

// Address is a postal address as held on the case record.
type Address struct {
	Line1    string `json:"line1,omitempty"`
	Line2    string `json:"line2,omitempty"`
	Town     string `json:"town,omitempty"`
	County   string `json:"county,omitempty"`
	Postcode string `json:"postcode,omitempty"`
}

// Name of a party.
type Name struct {
	Title     string `json:"title,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// Appellant is the person bringing the appeal.
type Appellant struct {
	Name    *Name    `json:"name,omitempty"`
	Address *Address `json:"address,omitempty"`
}

// BenefitType identifies the benefit under appeal.
type BenefitType struct {
	Code        string `json:"code,omitempty"`
	Description string `json:"description,omitempty"`
}

// MrnDetails describes the mandatory reconsideration notice.
type MrnDetails struct {
	DwpIssuingOffice string `json:"dwpIssuingOffice,omitempty"`
	MrnDate          string `json:"mrnDate,omitempty"`
	MrnLateReason    string `json:"mrnLateReason,omitempty"`
	MrnMissingReason string `json:"mrnMissingReason,omitempty"`
}

// Appeal is the appeal sub-record.
type Appeal struct {
	MrnDetails  *MrnDetails  `json:"mrnDetails,omitempty"`
	Appellant   *Appellant   `json:"appellant,omitempty"`
	BenefitType *BenefitType `json:"benefitType,omitempty"`
	Signer      string       `json:"signer,omitempty"`
}

// IssuingOffice returns the MRN issuing office, or "" when any level is missing.
func (a *Appeal) IssuingOffice() string {
	if a == nil || a.MrnDetails == nil {
		return ""
	}
	return a.MrnDetails.DwpIssuingOffice
}

// BenefitCode returns the benefit code, or "" when absent.
func (a *Appeal) BenefitCode() string {
	if a == nil || a.BenefitType == nil {
		return ""
	}
	return a.BenefitType.Code
}
