package casedata

import (
	"strings"

	"github.com/turtacn/sscs-case-core/pkg/errors"
)

// Benefit is the closed set of benefit schemes the tribunal handles.
type Benefit string

const (
	BenefitPIP             Benefit = "PIP"
	BenefitESA             Benefit = "ESA"
	BenefitUC              Benefit = "UC"
	BenefitDLA             Benefit = "DLA"
	BenefitCarersAllowance Benefit = "carersAllowance"
)

// Benefits lists every supported benefit in table order.
var Benefits = []Benefit{BenefitPIP, BenefitESA, BenefitUC, BenefitDLA, BenefitCarersAllowance}

// ParseBenefit matches code case-insensitively against the short names.
func ParseBenefit(code string) (Benefit, error) {
	c := strings.TrimSpace(code)
	for _, b := range Benefits {
		if strings.EqualFold(c, string(b)) {
			return b, nil
		}
	}
	return "", errors.Newf(errors.CodeBenefitUnsupported, "unknown benefit code %q", code)
}

// IsBenefit reports whether code names b, ignoring case.
func IsBenefit(code string, b Benefit) bool {
	got, err := ParseBenefit(code)
	return err == nil && got == b
}

func (b Benefit) String() string { return string(b) }
