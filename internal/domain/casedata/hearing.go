package casedata

import (
	"strconv"
	"strings"
)

// Venue is where a hearing takes place.
type Venue struct {
	Name         string   `json:"name,omitempty"`
	Address      *Address `json:"address,omitempty"`
	GoogleMapURL string   `json:"googleMapLink,omitempty"`
}

// HearingDetails is the value of one hearing entry.
type HearingDetails struct {
	HearingID   string `json:"hearingId,omitempty"`
	Venue       *Venue `json:"venue,omitempty"`
	HearingDate string `json:"hearingDate,omitempty"`
	Time        string `json:"time,omitempty"`
	Adjourned   string `json:"adjourned,omitempty"`
	EventDate   string `json:"eventDate,omitempty"`
}

// Hearing is one entry of the hearings collection.
type Hearing struct {
	ID    string         `json:"id,omitempty"`
	Value HearingDetails `json:"value"`
}

// When combines hearing date and time; a missing time means midnight.
func (h Hearing) When() CaseDate {
	return ParseDateAndTime(h.Value.HearingDate, h.Value.Time)
}

// NumericID returns the hearing identifier when it is a base-10 integer.
func (h Hearing) NumericID() (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(h.Value.HearingID), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// IsAdjourned reports whether the hearing was adjourned.
func (h Hearing) IsAdjourned() bool { return IsYes(h.Value.Adjourned) }
