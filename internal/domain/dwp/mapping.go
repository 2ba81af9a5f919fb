// Package dwp resolves the DWP office a case corresponds with. Office data is
// a static table loaded once at startup and read-only afterwards.
package dwp

import "github.com/turtacn/sscs-case-core/internal/domain/casedata"

// OfficeAddress is the postal address of a DWP office as held in the table.
type OfficeAddress struct {
	Line1    string `json:"line1"`
	Line2    string `json:"line2"`
	Line3    string `json:"line3,omitempty"`
	PostCode string `json:"postCode"`
}

// Routing holds the downstream routing labels of an office.
type Routing struct {
	// CCD is the routing code used by every benefit except PIP.
	CCD string `json:"ccd"`
	// DwpRegionCentre is the region centre used for PIP.
	DwpRegionCentre string `json:"dwpRegionCentre,omitempty"`
}

// OfficeMapping links an office code to its address and routing.
type OfficeMapping struct {
	Code      string        `json:"code"`
	IsDefault bool          `json:"isDefault"`
	Address   OfficeAddress `json:"address"`
	Mapping   Routing       `json:"mapping"`
}

// PostalAddress converts the office address to the case record's shape:
// line2 is the town and line3 the county.
func (m OfficeMapping) PostalAddress() casedata.Address {
	return casedata.Address{
		Line1:    m.Address.Line1,
		Town:     m.Address.Line2,
		County:   m.Address.Line3,
		Postcode: m.Address.PostCode,
	}
}
