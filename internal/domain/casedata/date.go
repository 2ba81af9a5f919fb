package casedata

import (
	"strings"
	"time"
)

// Layouts accepted for the string-encoded dates the case store sends.
const (
	LayoutDate           = "2006-01-02"
	LayoutDateTime       = "2006-01-02T15:04:05"
	LayoutDateTimeMillis = "2006-01-02T15:04:05.000"
	LayoutTime           = "15:04"
	LayoutTimeSeconds    = "15:04:05"
	LayoutCorrespondence = "2 Jan 2006 15:04"
)

var (
	dateLayouts     = []string{LayoutDate}
	dateTimeLayouts = []string{LayoutDateTimeMillis, LayoutDateTime, "2006-01-02T15:04:05.999999999", time.RFC3339Nano, LayoutDate}
	timeLayouts     = []string{LayoutTime, LayoutTimeSeconds, "15:04:05.000"}
)

type dateState uint8

const (
	dateAbsent dateState = iota
	dateMalformed
	datePresent
)

// CaseDate is a point in time read from a case record field that may be
// missing or unparseable. Missing and malformed dates both order as the
// earliest possible value.
type CaseDate struct {
	t     time.Time
	state dateState
	raw   string
}

// NoDate is the absent CaseDate.
var NoDate = CaseDate{}

// DateOf wraps a known time.
func DateOf(t time.Time) CaseDate {
	return CaseDate{t: t, state: datePresent}
}

// ParseDate parses a "2006-01-02" date.
func ParseDate(raw string) CaseDate {
	return parseWith(raw, dateLayouts)
}

// ParseDateTime parses an ISO local date-time with or without fractional
// seconds. A bare date parses as midnight.
func ParseDateTime(raw string) CaseDate {
	return parseWith(raw, dateTimeLayouts)
}

// ParseDateAndTime combines a date field with a separate time-of-day field.
// A missing or malformed time is treated as midnight; a malformed date makes
// the whole key malformed.
func ParseDateAndTime(rawDate, rawTime string) CaseDate {
	d := ParseDate(rawDate)
	if !d.Valid() {
		return d
	}
	tod := strings.TrimSpace(rawTime)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, tod); err == nil {
			return DateOf(d.t.Add(time.Duration(t.Hour())*time.Hour +
				time.Duration(t.Minute())*time.Minute +
				time.Duration(t.Second())*time.Second +
				time.Duration(t.Nanosecond())))
		}
	}
	return d
}

// ParseCorrespondenceTime parses the "1 Feb 2019 11:22" form used for
// correspondence sentOn values.
func ParseCorrespondenceTime(raw string) CaseDate {
	return parseWith(raw, []string{LayoutCorrespondence})
}

func parseWith(raw string, layouts []string) CaseDate {
	s := strings.TrimSpace(raw)
	if s == "" {
		return CaseDate{}
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return CaseDate{t: t, state: datePresent, raw: raw}
		}
	}
	return CaseDate{state: dateMalformed, raw: raw}
}

// Valid reports whether the date parsed.
func (d CaseDate) Valid() bool { return d.state == datePresent }

// Malformed reports whether a value was present but could not be parsed.
func (d CaseDate) Malformed() bool { return d.state == dateMalformed }

// Time returns the parsed time and whether it is valid.
func (d CaseDate) Time() (time.Time, bool) { return d.t, d.state == datePresent }

// Raw returns the original string, if any.
func (d CaseDate) Raw() string { return d.raw }

// Compare orders d against o ascending: -1 if d is earlier, +1 if later.
// Any invalid date is earlier than every valid one and equal to other
// invalid dates.
func (d CaseDate) Compare(o CaseDate) int {
	dv, ov := d.Valid(), o.Valid()
	switch {
	case !dv && !ov:
		return 0
	case !dv:
		return -1
	case !ov:
		return 1
	}
	return d.t.Compare(o.t)
}

// After reports whether d is strictly later than o under Compare.
func (d CaseDate) After(o CaseDate) bool { return d.Compare(o) > 0 }

func (d CaseDate) String() string {
	switch d.state {
	case datePresent:
		return d.t.Format(LayoutDateTime)
	case dateMalformed:
		return "malformed(" + d.raw + ")"
	default:
		return "absent"
	}
}
