package dwp

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/sscs-case-core/pkg/errors"
)

const testTableJSON = `{
  "pip": [
    {"code": "3", "isDefault": false, "address": {"line1": "Mail Handling Site A", "line2": "WOLVERHAMPTON", "postCode": "WV98 1AA"},
     "mapping": {"ccd": "DWP PIP (3)", "dwpRegionCentre": "Newcastle"}},
    {"code": "604", "isDefault": true, "address": {"line1": "Site 604", "line2": "NEWCASTLE", "line3": "TYNE AND WEAR", "postCode": "NE98 1YX"},
     "mapping": {"ccd": "DWP PIP (604)", "dwpRegionCentre": "Newcastle 604"}},
    {"code": "PIP Recovery from Estates", "isDefault": false, "address": {"line1": "RfE", "line2": "WOLVERHAMPTON", "postCode": "WV98 2AA"},
     "mapping": {"ccd": "PIP Recovery from Estates", "dwpRegionCentre": "RfE"}}
  ],
  "esa": [
    {"code": "Balham DRT", "isDefault": false, "address": {"line1": "Balham", "line2": "LONDON", "postCode": "SW12 9AA"},
     "mapping": {"ccd": "Balham DRT"}},
    {"code": "Sheffield DRT", "isDefault": true, "address": {"line1": "Sheffield", "line2": "SHEFFIELD", "postCode": "S98 1AA"},
     "mapping": {"ccd": "Sheffield DRT"}},
    {"code": "balham drt", "isDefault": false, "address": {"line1": "Duplicate", "line2": "LONDON", "postCode": "SW12 9AB"},
     "mapping": {"ccd": "Balham Duplicate"}}
  ],
  "dla": [
    {"code": "Disability Benefit Centre 4", "isDefault": true, "address": {"line1": "DBC4", "line2": "WOLVERHAMPTON", "postCode": "WV98 2AD"},
     "mapping": {"ccd": "DLA Child/Adult"}}
  ],
  "uc": {"code": "Universal Credit", "isDefault": true, "address": {"line1": "UC", "line2": "WOLVERHAMPTON", "postCode": "WV98 1AA"},
         "mapping": {"ccd": "Universal Credit"}},
  "carersAllowance": {"code": "Carer's Allowance DRT", "isDefault": true, "address": {"line1": "CA", "line2": "PRESTON", "postCode": "PR1 1HB"},
         "mapping": {"ccd": "Carers Allowance"}},
  "testHmctsAddress": {"code": "test-hmcts-address", "isDefault": false, "address": {"line1": "HMCTS", "line2": "LIVERPOOL", "postCode": "L2 5UZ"},
         "mapping": {"ccd": "Test", "dwpRegionCentre": "Test Centre"}}
}`

func loadTestTable(t *testing.T) *Table {
	t.Helper()
	table, err := LoadTable(strings.NewReader(testTableJSON))
	require.NoError(t, err)
	return table
}

func TestLoadBundledTable(t *testing.T) {
	table, err := LoadBundledTable()
	require.NoError(t, err)

	assert.NotEmpty(t, table.PIP)
	assert.NotEmpty(t, table.ESA)
	assert.NotEmpty(t, table.DLA)
	require.NotNil(t, table.UC)
	require.NotNil(t, table.CarersAllowance)
	require.NotNil(t, table.TestHmctsAddress)
	assert.Equal(t, TestHmctsAddress, table.TestHmctsAddress.Code)
	assert.NotPanics(t, func() { MustLoadBundledTable() })
}

func TestLoadTable_ParseFailure(t *testing.T) {
	_, err := LoadTable(strings.NewReader(`{"pip": [`))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeReferenceDataInvalid))
}

func TestLoadTable_ValidationFailures(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(string) string
		detail string
	}{
		{"no default", func(s string) string {
			return strings.Replace(s, `"code": "Sheffield DRT", "isDefault": true`, `"code": "Sheffield DRT", "isDefault": false`, 1)
		}, "esa has 0 default"},
		{"two defaults", func(s string) string {
			return strings.Replace(s, `"code": "3", "isDefault": false`, `"code": "3", "isDefault": true`, 1)
		}, "pip has 2 default"},
		{"uc not default", func(s string) string {
			return strings.Replace(s, `"code": "Universal Credit", "isDefault": true`, `"code": "Universal Credit", "isDefault": false`, 1)
		}, "uc mapping must be marked default"},
		{"missing test address", func(s string) string {
			return strings.Replace(s, `"testHmctsAddress"`, `"unused"`, 1)
		}, "testHmctsAddress mapping is missing"},
		{"empty code", func(s string) string {
			return strings.Replace(s, `"code": "Disability Benefit Centre 4"`, `"code": ""`, 1)
		}, "dla office 0 has no code"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadTable(strings.NewReader(tc.mutate(testTableJSON)))
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.CodeReferenceDataInvalid))
			assert.Contains(t, err.Error(), tc.detail)
		})
	}
}

func TestLoadTableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dwpAddresses.json")
	require.NoError(t, os.WriteFile(path, []byte(testTableJSON), 0o644))

	table, err := LoadTableOrBundled(path)
	require.NoError(t, err)
	assert.Len(t, table.PIP, 3)

	_, err = LoadTableFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.True(t, errors.IsCode(err, errors.CodeReferenceDataInvalid))

	bundled, err := LoadTableOrBundled("")
	require.NoError(t, err)
	assert.Greater(t, len(bundled.PIP), 3)
}

func TestOfficeMapping_PostalAddress(t *testing.T) {
	m := OfficeMapping{Address: OfficeAddress{Line1: "Site 604", Line2: "NEWCASTLE", Line3: "TYNE AND WEAR", PostCode: "NE98 1YX"}}
	addr := m.PostalAddress()
	assert.Equal(t, "Site 604", addr.Line1)
	assert.Equal(t, "NEWCASTLE", addr.Town)
	assert.Equal(t, "TYNE AND WEAR", addr.County)
	assert.Equal(t, "NE98 1YX", addr.Postcode)
	assert.Empty(t, addr.Line2)
}
