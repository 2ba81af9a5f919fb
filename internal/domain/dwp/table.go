package dwp

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/turtacn/sscs-case-core/pkg/errors"
)

//go:embed reference/dwpAddresses.json
var bundledAddresses []byte

// Table is the parsed office reference data: one array per multi-office
// benefit, one mapping per single-office benefit and the reserved test
// mapping.
type Table struct {
	PIP              []OfficeMapping `json:"pip"`
	ESA              []OfficeMapping `json:"esa"`
	DLA              []OfficeMapping `json:"dla"`
	UC               *OfficeMapping  `json:"uc"`
	CarersAllowance  *OfficeMapping  `json:"carersAllowance"`
	TestHmctsAddress *OfficeMapping  `json:"testHmctsAddress"`
}

// LoadTable decodes and validates a table. Any error means the table must
// not be used.
func LoadTable(r io.Reader) (*Table, error) {
	var t Table
	if err := json.NewDecoder(r).Decode(&t); err != nil {
		return nil, errors.Wrap(err, errors.CodeReferenceDataInvalid, "cannot parse dwp addresses")
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// LoadBundledTable loads the table compiled into the binary.
func LoadBundledTable() (*Table, error) {
	return LoadTable(bytes.NewReader(bundledAddresses))
}

// LoadTableFile loads a table from path.
func LoadTableFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeReferenceDataInvalid, "cannot open dwp addresses").WithDetail(path)
	}
	defer f.Close()
	return LoadTable(f)
}

// LoadTableOrBundled loads path when set and the bundled table otherwise.
func LoadTableOrBundled(path string) (*Table, error) {
	if path == "" {
		return LoadBundledTable()
	}
	return LoadTableFile(path)
}

// MustLoadBundledTable panics if the bundled table is invalid.
func MustLoadBundledTable() *Table {
	t, err := LoadBundledTable()
	if err != nil {
		panic(err)
	}
	return t
}

// Validate checks the shape the resolver relies on: every office array is
// non-empty with exactly one default, every office has a code, and the
// single-office mappings are present and marked default.
func (t *Table) Validate() error {
	arrays := []struct {
		name    string
		offices []OfficeMapping
	}{
		{"pip", t.PIP},
		{"esa", t.ESA},
		{"dla", t.DLA},
	}
	for _, a := range arrays {
		if len(a.offices) == 0 {
			return invalid("%s has no offices", a.name)
		}
		defaults := 0
		for i, o := range a.offices {
			if o.Code == "" {
				return invalid("%s office %d has no code", a.name, i)
			}
			if o.IsDefault {
				defaults++
			}
		}
		if defaults != 1 {
			return invalid("%s has %d default offices, want exactly 1", a.name, defaults)
		}
	}

	singles := []struct {
		name           string
		office         *OfficeMapping
		requireDefault bool
	}{
		{"uc", t.UC, true},
		{"carersAllowance", t.CarersAllowance, true},
		{"testHmctsAddress", t.TestHmctsAddress, false},
	}
	for _, s := range singles {
		if s.office == nil {
			return invalid("%s mapping is missing", s.name)
		}
		if s.requireDefault && !s.office.IsDefault {
			return invalid("%s mapping must be marked default", s.name)
		}
	}
	return nil
}

func invalid(format string, args ...interface{}) error {
	return errors.New(errors.CodeReferenceDataInvalid, "invalid dwp addresses").
		WithDetail(fmt.Sprintf(format, args...))
}
