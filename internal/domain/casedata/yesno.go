package casedata

import "strings"

// YesNo is the case store's boolean encoding.
type YesNo string

const (
	Yes YesNo = "Yes"
	No  YesNo = "No"
)

// YesNoOf converts b.
func YesNoOf(b bool) YesNo {
	if b {
		return Yes
	}
	return No
}

// IsYes matches "yes" in any case.
func IsYes(value string) bool {
	return strings.EqualFold(strings.TrimSpace(value), string(Yes))
}

// IsYes reports whether y is a case-insensitive "Yes".
func (y YesNo) IsYes() bool { return IsYes(string(y)) }
