package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/turtacn/sscs-case-core/internal/domain/casedata"
	"github.com/turtacn/sscs-case-core/pkg/errors"
)

func newCCDCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ccd",
		Short: "Run the case workflow against the case store",
		Long: `Read and update cases held by the case store.

Reads go through the redis case cache and updates hold the redis case lock
when redis is enabled. Workflow events are published to kafka when kafka
is enabled.`,
	}
	cmd.AddCommand(newCCDGetCmd(), newCCDRefreshTranslationCmd())
	return cmd
}

func newCCDGetCmd() *cobra.Command {
	var caseID int64

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Fetch a case with its collections in canonical order",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWorkflow(cmd, caseID, func(ctx context.Context, b *backend) error {
				details, err := b.service.GetCase(ctx, caseID)
				if err != nil {
					return err
				}
				return PrintResult(cmd, caseView{details: details})
			})
		},
	}
	cmd.Flags().Int64Var(&caseID, "id", 0, "case id")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func newCCDRefreshTranslationCmd() *cobra.Command {
	var caseID int64

	cmd := &cobra.Command{
		Use:   "refresh-translation",
		Short: "Recompute and submit a case's translation work flag",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWorkflow(cmd, caseID, func(ctx context.Context, b *backend) error {
				var details *casedata.CaseDetails
				err := b.withCaseLock(ctx, caseID, func() (err error) {
					details, err = b.service.RefreshTranslationFlag(ctx, caseID)
					return err
				})
				if err != nil {
					return err
				}
				return PrintResult(cmd, translationView{
					CaseID:                     strconv.FormatInt(details.ID, 10),
					TranslationWorkOutstanding: details.Data.TranslationWorkOutstanding,
					LanguagePreference:         string(details.Data.LanguagePreference()),
				})
			})
		},
	}
	cmd.Flags().Int64Var(&caseID, "id", 0, "case id")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

// runWorkflow opens the backend, runs fn under the command timeout and
// closes the backend.
func runWorkflow(cmd *cobra.Command, caseID int64, fn func(ctx context.Context, b *backend) error) error {
	if caseID <= 0 {
		return errors.New(errors.CodeInvalidParam, "case id must be positive").WithDetail(strconv.FormatInt(caseID, 10))
	}
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	b, err := openBackend(cliCtx)
	if err != nil {
		return err
	}
	defer b.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), cliCtx.Timeout)
	defer cancel()
	return fn(ctx, b)
}

type caseView struct {
	details *casedata.CaseDetails
}

func (v caseView) MarshalJSON() ([]byte, error) { return json.Marshal(v.details) }
func (v caseView) String() string               { return indentJSON(v.details) }

func (v caseView) TableHeaders() []string {
	return []string{"ID", "STATE", "BENEFIT", "REGIONAL CENTRE", "TRANSLATION", "LATEST EVENT"}
}

func (v caseView) TableRows() [][]string {
	data := &v.details.Data
	latest, _ := data.LatestEventType()
	return [][]string{{
		strconv.FormatInt(v.details.ID, 10),
		v.details.State,
		data.Appeal.BenefitCode(),
		data.DwpRegionalCentre,
		data.TranslationWorkOutstanding,
		fmt.Sprint(latest),
	}}
}
