package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/sscs-case-core/internal/domain/dwp"
)

func newOfficeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "office",
		Short: "Query the DWP office table",
		Long: `Resolve DWP issuing offices against the office table.

PIP offices match on the number inside the office name, so "3",
"DWP PIP (3)" and "Newcastle (3)" are the same office. ESA and DLA
offices match their code exactly. UC and Carer's Allowance have a single
office whatever the input.`,
	}
	cmd.AddCommand(newOfficeResolveCmd(), newOfficeDefaultCmd(), newOfficeRegionCmd(), newOfficeListCmd())
	return cmd
}

func newOfficeResolveCmd() *cobra.Command {
	var benefit, office string

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve a benefit's issuing office to its mapping",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			m, err := cliCtx.Resolver.Resolve(benefit, office)
			if err != nil {
				return err
			}
			return PrintResult(cmd, officeViewOf(m))
		},
	}
	cmd.Flags().StringVarP(&benefit, "benefit", "b", "", "benefit code, e.g. PIP")
	cmd.Flags().StringVar(&office, "office", "", "DWP issuing office")
	_ = cmd.MarkFlagRequired("benefit")
	return cmd
}

func newOfficeDefaultCmd() *cobra.Command {
	var benefit string

	cmd := &cobra.Command{
		Use:   "default",
		Short: "Print a benefit's default office",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			m, err := cliCtx.Resolver.ResolveDefault(benefit)
			if err != nil {
				return err
			}
			return PrintResult(cmd, officeViewOf(m))
		},
	}
	cmd.Flags().StringVarP(&benefit, "benefit", "b", "", "benefit code, e.g. ESA")
	_ = cmd.MarkFlagRequired("benefit")
	return cmd
}

func newOfficeRegionCmd() *cobra.Command {
	var benefit, office string

	cmd := &cobra.Command{
		Use:   "region",
		Short: "Print the regional centre for an office, or the benefit default without --office",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			var centre string
			if office == "" {
				centre, err = cliCtx.Resolver.DefaultRegionalCentre(benefit)
			} else {
				centre, err = cliCtx.Resolver.RegionalCentre(benefit, office)
			}
			if err != nil {
				return err
			}
			return PrintResult(cmd, regionView{Benefit: benefit, Office: office, RegionalCentre: centre})
		},
	}
	cmd.Flags().StringVarP(&benefit, "benefit", "b", "", "benefit code, e.g. PIP")
	cmd.Flags().StringVar(&office, "office", "", "DWP issuing office")
	_ = cmd.MarkFlagRequired("benefit")
	return cmd
}

func newOfficeListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every PIP, ESA and DLA office and the UC office",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			all := cliCtx.Resolver.AllOffices()
			views := make(officeList, 0, len(all))
			for _, m := range all {
				views = append(views, officeViewOf(m))
			}
			return PrintResult(cmd, views)
		},
	}
}

type officeView struct {
	Code           string `json:"code"`
	IsDefault      bool   `json:"isDefault"`
	CCD            string `json:"ccd"`
	RegionalCentre string `json:"dwpRegionCentre,omitempty"`
	Line1          string `json:"line1"`
	Town           string `json:"town"`
	County         string `json:"county,omitempty"`
	Postcode       string `json:"postcode"`
}

func officeViewOf(m dwp.OfficeMapping) officeView {
	addr := m.PostalAddress()
	return officeView{
		Code:           m.Code,
		IsDefault:      m.IsDefault,
		CCD:            m.Mapping.CCD,
		RegionalCentre: m.Mapping.DwpRegionCentre,
		Line1:          addr.Line1,
		Town:           addr.Town,
		County:         addr.County,
		Postcode:       addr.Postcode,
	}
}

func (v officeView) address() string {
	parts := []string{v.Line1, v.Town}
	if v.County != "" {
		parts = append(parts, v.County)
	}
	return strings.Join(append(parts, v.Postcode), ", ")
}

func (v officeView) String() string {
	s := fmt.Sprintf("%s\n  ccd: %s", v.Code, v.CCD)
	if v.RegionalCentre != "" {
		s += "\n  region: " + v.RegionalCentre
	}
	if v.IsDefault {
		s += "\n  default: yes"
	}
	return s + "\n  address: " + v.address()
}

var officeHeaders = []string{"CODE", "DEFAULT", "CCD", "REGION", "ADDRESS"}

func (v officeView) row() []string {
	return []string{v.Code, strconv.FormatBool(v.IsDefault), v.CCD, v.RegionalCentre, v.address()}
}

func (v officeView) TableHeaders() []string { return officeHeaders }
func (v officeView) TableRows() [][]string  { return [][]string{v.row()} }

type officeList []officeView

func (l officeList) String() string {
	lines := make([]string, len(l))
	for i, v := range l {
		lines[i] = fmt.Sprintf("%s\t%s", v.Code, v.CCD)
	}
	return strings.Join(lines, "\n")
}

func (l officeList) TableHeaders() []string { return officeHeaders }

func (l officeList) TableRows() [][]string {
	rows := make([][]string, len(l))
	for i, v := range l {
		rows[i] = v.row()
	}
	return rows
}

type regionView struct {
	Benefit        string `json:"benefitType"`
	Office         string `json:"dwpIssuingOffice,omitempty"`
	RegionalCentre string `json:"dwpRegionalCentre"`
}

func (v regionView) String() string { return v.RegionalCentre }

func (v regionView) TableHeaders() []string { return []string{"BENEFIT", "OFFICE", "REGIONAL CENTRE"} }
func (v regionView) TableRows() [][]string {
	return [][]string{{v.Benefit, v.Office, v.RegionalCentre}}
}
