package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/sscs-case-core/internal/domain/casedata"
	"github.com/turtacn/sscs-case-core/internal/testutil"
	"github.com/turtacn/sscs-case-core/pkg/errors"
)

const caseFixture = `{
  "ccdCaseId": "1234",
  "appeal": {"benefitType": {"code": "PIP"}, "mrnDetails": {"dwpIssuingOffice": "DWP PIP (3)"}},
  "languagePreferenceWelsh": "Yes",
  "events": [
    {"value": {"type": "appealCreated", "date": "2024-01-01T10:00:00"}},
    {"value": {"type": "validAppeal", "date": "2024-03-01T10:00:00"}}
  ],
  "sscsDocument": [
    {"id": "a", "value": {"documentType": "decisionNotice", "documentFileName": "old.pdf", "documentDateAdded": "2024-01-01"}},
    {"id": "b", "value": {"documentType": "decisionNotice", "documentFileName": "new.pdf", "documentDateAdded": "2024-02-01",
      "documentTranslationStatus": "Translation required"}}
  ],
  "sscsWelshDocuments": [
    {"id": "w1", "value": {"documentType": "decisionNotice", "documentFileName": "hen.pdf", "documentDateAdded": "2024-01-05"}},
    {"id": "w2", "value": {"documentType": "decisionNotice", "documentFileName": "newydd.pdf", "documentDateAdded": "2024-02-05"}}
  ],
  "panel": {"assignedTo": "judge"}
}`

func TestCaseNormalize_JSON(t *testing.T) {
	file := writeFile(t, "case.json", caseFixture)
	res := execute(t, nil, "--config", writeConfig(t, quietConfig), "-o", "json", "case", "normalize", "--file", file)
	require.NoError(t, res.err)

	var data casedata.CaseData
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &data))
	require.Len(t, data.Events, 2)
	assert.Equal(t, casedata.EventType("validAppeal"), data.Events[0].Value.Type)
	require.Len(t, data.SscsDocument, 2)
	assert.Equal(t, "b", data.SscsDocument[0].ID)
	assert.Equal(t, "Yes", data.TranslationWorkOutstanding)
	assert.Contains(t, data.Extra, "panel")
}

func TestCaseNormalize_Table(t *testing.T) {
	file := writeFile(t, "case.json", caseFixture)
	res := execute(t, nil, "--config", writeConfig(t, quietConfig), "-o", "table", "case", "normalize", "-f", file)
	require.NoError(t, res.err)

	lines := strings.Split(strings.TrimSpace(res.stdout), "\n")
	require.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[0], "COLLECTION"))
	assert.Contains(t, lines[2], "events")
	assert.Contains(t, lines[3], "sscsDocument")
	assert.Contains(t, lines[4], "Yes")
}

func TestCaseNormalize_ReadsStdinAndCaseEnvelope(t *testing.T) {
	envelope := `{"id": 1234, "state": "withDwp", "case_data": ` + caseFixture + `}`
	cmd := NewRootCommand(&Dependencies{Logger: testutil.NewMockLogger()})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader(envelope))
	cmd.SetArgs([]string{"--config", writeConfig(t, quietConfig), "-o", "json", "case", "normalize", "--file", "-"})
	require.NoError(t, cmd.Execute())

	var data casedata.CaseData
	require.NoError(t, json.Unmarshal(out.Bytes(), &data))
	assert.Equal(t, "1234", data.CcdCaseID)
	assert.Equal(t, "new.pdf", data.SscsDocument[0].Value.DocumentFileName)
}

func TestCaseNormalize_Errors(t *testing.T) {
	cfg := writeConfig(t, quietConfig)

	res := execute(t, nil, "--config", cfg, "case", "normalize", "--file", writeFile(t, "bad.json", "{not json"))
	require.Error(t, res.err)
	assert.True(t, errors.IsCode(res.err, errors.CodeCaseDataInvalid))

	res = execute(t, nil, "--config", cfg, "case", "normalize", "--file", "/nonexistent/case.json")
	require.Error(t, res.err)
	assert.True(t, errors.IsCode(res.err, errors.CodeInvalidParam))

	res = execute(t, nil, "--config", cfg, "case", "normalize")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "file")
}

func TestCaseLatest(t *testing.T) {
	file := writeFile(t, "case.json", caseFixture)
	cfg := writeConfig(t, quietConfig)

	tests := []struct {
		name     string
		args     []string
		wantFile string
	}{
		{"sscs documents", nil, "new.pdf"},
		{"welsh documents", []string{"--welsh"}, "newydd.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--config", cfg, "-o", "json", "case", "latest", "--file", file, "--type", "decisionNotice"}, tt.args...)
			res := execute(t, nil, args...)
			require.NoError(t, res.err)

			var view documentView
			require.NoError(t, json.Unmarshal([]byte(res.stdout), &view))
			assert.Equal(t, tt.wantFile, view.FileName)
			assert.Equal(t, "decisionNotice", view.DocumentType)
		})
	}
}

func TestCaseLatest_TextOutput(t *testing.T) {
	file := writeFile(t, "case.json", caseFixture)
	res := execute(t, nil, "--config", writeConfig(t, quietConfig), "case", "latest", "-f", file, "-t", "decisionNotice")
	require.NoError(t, res.err)
	assert.Equal(t, "decisionNotice  new.pdf  added 2024-02-01\n", res.stdout)
}

func TestCaseLatest_NotFoundAndUnknownType(t *testing.T) {
	file := writeFile(t, "case.json", caseFixture)
	log := testutil.NewMockLogger()

	res := execute(t, &Dependencies{Logger: log}, "--config", writeConfig(t, quietConfig),
		"case", "latest", "--file", file, "--type", "madeUpType")
	require.Error(t, res.err)
	assert.True(t, errors.IsNotFound(res.err))
	assert.True(t, log.HasMessage("warn", "unknown document type"))

	res = execute(t, nil, "--config", writeConfig(t, quietConfig),
		"case", "latest", "--file", file, "--type", "dl6")
	require.Error(t, res.err)
	assert.True(t, errors.IsNotFound(res.err))
}

func TestCaseTranslation(t *testing.T) {
	cfg := writeConfig(t, quietConfig)

	res := execute(t, nil, "--config", cfg, "case", "translation", "--file", writeFile(t, "case.json", caseFixture))
	require.NoError(t, res.err)
	assert.Equal(t, "Yes\n", res.stdout)

	done := `{"translationWorkOutstanding": "Yes", "sscsDocument": [
	  {"value": {"documentType": "sscs1", "documentTranslationStatus": "Translation complete"}}]}`
	res = execute(t, nil, "--config", cfg, "-o", "json", "case", "translation", "--file", writeFile(t, "done.json", done))
	require.NoError(t, res.err)

	var view translationView
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &view))
	assert.Equal(t, "No", view.TranslationWorkOutstanding)
	assert.Equal(t, "english", view.LanguagePreference)
}
