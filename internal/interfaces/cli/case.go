package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/turtacn/sscs-case-core/internal/domain/casedata"
	"github.com/turtacn/sscs-case-core/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/sscs-case-core/pkg/errors"
)

func newCaseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "case",
		Short: "Apply the case record rules to a local case file",
		Long: `Read a case record from a JSON file ("-" for stdin) and apply the record rules.

The file holds either the case data itself or a case as returned by
"sscs ccd get --output json", in which case its case_data is used.`,
	}
	cmd.AddCommand(newNormalizeCmd(), newLatestCmd(), newTranslationCmd())
	return cmd
}

func newNormalizeCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "normalize",
		Short: "Sort every collection newest first and recompute the translation flag",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			data, err := readCaseFile(cmd, file)
			if err != nil {
				return err
			}

			sorted := data.SortCollections()
			changed := data.UpdateTranslationWorkOutstandingFlag()
			cliCtx.Metrics.ObserveNormalization(len(sorted))
			cliCtx.Logger.Debug("case normalized",
				logging.Int("collections", len(sorted)),
				logging.Bool("translation_flag_changed", changed))

			return PrintResult(cmd, normalizedCase{data: data, sorted: sorted})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "case JSON file, - for stdin")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newLatestCmd() *cobra.Command {
	var (
		file    string
		docType string
		welsh   bool
	)

	cmd := &cobra.Command{
		Use:   "latest",
		Short: "Print the most recent document of a type",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			data, err := readCaseFile(cmd, file)
			if err != nil {
				return err
			}

			t := casedata.DocumentType(docType)
			if !t.Known() {
				cliCtx.Logger.Warn("unknown document type", logging.String("document_type", docType))
			}

			var (
				view  documentView
				found bool
			)
			if welsh {
				var doc casedata.SscsWelshDocument
				if doc, found = data.LatestWelshDocument(t); found {
					view = welshDocumentView(doc)
				}
			} else {
				var doc casedata.SscsDocument
				if doc, found = data.LatestDocument(t); found {
					view = sscsDocumentView(doc)
				}
			}
			if !found {
				return errors.New(errors.CodeNotFound, "no document of the requested type").WithDetail(docType)
			}
			return PrintResult(cmd, view)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "case JSON file, - for stdin")
	cmd.Flags().StringVarP(&docType, "type", "t", "", "document type, e.g. decisionNotice")
	cmd.Flags().BoolVar(&welsh, "welsh", false, "select from the Welsh documents")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func newTranslationCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "translation",
		Short: "Print whether translation work is outstanding",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readCaseFile(cmd, file)
			if err != nil {
				return err
			}
			data.UpdateTranslationWorkOutstandingFlag()
			return PrintResult(cmd, translationView{
				CaseID:                     data.CcdCaseID,
				TranslationWorkOutstanding: data.TranslationWorkOutstanding,
				LanguagePreference:         string(data.LanguagePreference()),
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "case JSON file, - for stdin")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// readCaseFile decodes a case file, unwrapping case_data when the file is a
// whole case.
func readCaseFile(cmd *cobra.Command, path string) (*casedata.CaseData, error) {
	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInvalidParam, "open case file").WithDetail(path)
		}
		defer f.Close()
		r = f
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidParam, "read case file").WithDetail(path)
	}

	var envelope struct {
		CaseData json.RawMessage `json:"case_data"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && len(bytes.TrimSpace(envelope.CaseData)) > 0 {
		raw = envelope.CaseData
	}

	var data casedata.CaseData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, errors.Wrap(err, errors.CodeCaseDataInvalid, "decode case file").WithDetail(path)
	}
	return &data, nil
}

// normalizedCase prints as the record itself, or as a per-collection summary
// in table output.
type normalizedCase struct {
	data   *casedata.CaseData
	sorted []casedata.Collection
}

func (n normalizedCase) MarshalJSON() ([]byte, error) { return json.Marshal(n.data) }
func (n normalizedCase) String() string               { return indentJSON(n.data) }

func (n normalizedCase) TableHeaders() []string { return []string{"COLLECTION", "ENTRIES"} }

func (n normalizedCase) TableRows() [][]string {
	rows := make([][]string, 0, len(n.sorted)+1)
	for _, c := range n.sorted {
		rows = append(rows, []string{string(c), strconv.Itoa(collectionSize(n.data, c))})
	}
	return append(rows, []string{"translationWorkOutstanding", n.data.TranslationWorkOutstanding})
}

func collectionSize(data *casedata.CaseData, c casedata.Collection) int {
	switch c {
	case casedata.CollectionCorrespondence:
		return len(data.Correspondence)
	case casedata.CollectionEvents:
		return len(data.Events)
	case casedata.CollectionHearings:
		return len(data.Hearings)
	case casedata.CollectionEvidence:
		if data.Evidence == nil {
			return 0
		}
		return len(data.Evidence.Documents)
	case casedata.CollectionSscsDocuments:
		return len(data.SscsDocument)
	case casedata.CollectionDwpDocuments:
		return len(data.DwpDocuments)
	}
	return 0
}

type documentView struct {
	ID                string `json:"id,omitempty"`
	DocumentType      string `json:"documentType"`
	FileName          string `json:"documentFileName,omitempty"`
	DateAdded         string `json:"documentDateAdded,omitempty"`
	BundleAddition    string `json:"bundleAddition,omitempty"`
	TranslationStatus string `json:"documentTranslationStatus,omitempty"`
	URL               string `json:"documentUrl,omitempty"`
}

func sscsDocumentView(d casedata.SscsDocument) documentView {
	v := documentView{
		ID:                d.ID,
		DocumentType:      string(d.Value.DocumentType),
		FileName:          d.Value.DocumentFileName,
		DateAdded:         d.Value.DocumentDateAdded,
		BundleAddition:    d.Value.BundleAddition,
		TranslationStatus: string(d.Value.DocumentTranslationStatus),
	}
	if d.Value.DocumentLink != nil {
		v.URL = d.Value.DocumentLink.DocumentURL
	}
	return v
}

func welshDocumentView(d casedata.SscsWelshDocument) documentView {
	v := documentView{
		ID:             d.ID,
		DocumentType:   string(d.Value.DocumentType),
		FileName:       d.Value.DocumentFileName,
		DateAdded:      d.Value.DocumentDateAdded,
		BundleAddition: d.Value.BundleAddition,
	}
	if d.Value.DocumentLink != nil {
		v.URL = d.Value.DocumentLink.DocumentURL
	}
	return v
}

func (v documentView) String() string {
	s := fmt.Sprintf("%s  %s  added %s", v.DocumentType, v.FileName, v.DateAdded)
	if v.BundleAddition != "" {
		s += "  bundle " + v.BundleAddition
	}
	return s
}

func (v documentView) TableHeaders() []string {
	return []string{"ID", "TYPE", "FILE", "ADDED", "BUNDLE", "TRANSLATION"}
}

func (v documentView) TableRows() [][]string {
	return [][]string{{v.ID, v.DocumentType, v.FileName, v.DateAdded, v.BundleAddition, v.TranslationStatus}}
}

type translationView struct {
	CaseID                     string `json:"caseId,omitempty"`
	TranslationWorkOutstanding string `json:"translationWorkOutstanding"`
	LanguagePreference         string `json:"languagePreference"`
}

func (v translationView) String() string { return v.TranslationWorkOutstanding }

func (v translationView) TableHeaders() []string {
	return []string{"CASE", "TRANSLATION OUTSTANDING", "LANGUAGE"}
}

func (v translationView) TableRows() [][]string {
	return [][]string{{v.CaseID, v.TranslationWorkOutstanding, v.LanguagePreference}}
}
