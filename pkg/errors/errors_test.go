package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/sscs-case-core/pkg/errors"
)

func TestNew_FieldsAreSetCorrectly(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		code    errors.ErrorCode
		message string
	}{
		{"internal", errors.CodeInternal, "unexpected failure"},
		{"office", errors.CodeOfficeNotFound, "no PIP office for code 604"},
		{"mrn", errors.CodeNoMrnDetails, "appeal has no MRN details"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ae := errors.New(tc.code, tc.message)

			require.NotNil(t, ae)
			assert.Equal(t, tc.code, ae.Code)
			assert.Equal(t, tc.message, ae.Message)
			assert.Empty(t, ae.Detail)
			assert.Nil(t, ae.Cause)
			assert.NotEmpty(t, ae.Stack)
		})
	}
}

func TestNewf(t *testing.T) {
	ae := errors.Newf(errors.CodeOfficeNotFound, "no %s office for code %q", "ESA", "Balham")
	assert.Equal(t, `no ESA office for code "Balham"`, ae.Message)
}

func TestError_Format(t *testing.T) {
	ae := errors.New(errors.CodeCaseNotFound, "case not found")
	assert.Equal(t, "[CASE_001] case not found", ae.Error())

	withDetail := ae.WithDetail("id=1234")
	assert.Equal(t, "[CASE_001] case not found: id=1234", withDetail.Error())
	assert.Empty(t, ae.Detail, "WithDetail must not mutate the receiver")
}

func TestWrap_NilErrReturnsNil(t *testing.T) {
	assert.Nil(t, errors.Wrap(nil, errors.CodeInternal, "ignored"))
}

func TestWrap_CauseChainIsPreserved(t *testing.T) {
	root := stderrors.New("connection refused")
	wrapped := errors.Wrap(root, errors.CodeCCDRequestFailed, "start event failed")

	require.NotNil(t, wrapped)
	assert.True(t, stderrors.Is(wrapped, root))
	assert.Equal(t, root, stderrors.Unwrap(wrapped))
}

func TestWrap_UnknownCodeKeepsOriginal(t *testing.T) {
	inner := errors.New(errors.CodeOfficeNotFound, "no office")
	outer := errors.Wrap(inner, errors.CodeUnknown, "lookup address")
	assert.Equal(t, errors.CodeOfficeNotFound, outer.Code)
}

func TestWithCause(t *testing.T) {
	cause := stderrors.New("boom")
	ae := errors.Internal("failed").WithCause(cause)
	assert.ErrorIs(t, ae, cause)

	var nilErr *errors.AppError
	assert.Nil(t, nilErr.WithCause(cause))
	assert.Nil(t, nilErr.WithDetail("x"))
}

func TestIsCode_ThroughFmtWrapping(t *testing.T) {
	ae := errors.New(errors.CodeDefaultOfficeAmbiguous, "two defaults")
	err := fmt.Errorf("resolve default: %w", ae)

	assert.True(t, errors.IsCode(err, errors.CodeDefaultOfficeAmbiguous))
	assert.False(t, errors.IsCode(err, errors.CodeDefaultOfficeMissing))
	assert.False(t, errors.IsCode(nil, errors.CodeInternal))
}

func TestIsNotFound(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		expected bool
	}{
		{"generic", errors.NotFound("not found"), true},
		{"case", errors.New(errors.CodeCaseNotFound, "case"), true},
		{"office", errors.New(errors.CodeOfficeNotFound, "office"), true},
		{"default office", errors.New(errors.CodeDefaultOfficeMissing, "default"), true},
		{"wrapped office", fmt.Errorf("ctx: %w", errors.New(errors.CodeOfficeNotFound, "office")), true},
		{"ambiguous default", errors.New(errors.CodeDefaultOfficeAmbiguous, "two"), false},
		{"internal", errors.Internal("internal"), false},
		{"plain", stderrors.New("plain"), false},
		{"nil", nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, errors.IsNotFound(tc.err))
		})
	}
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, errors.CodeOK, errors.GetCode(nil))
	assert.Equal(t, errors.CodeUnknown, errors.GetCode(stderrors.New("plain")))
	assert.Equal(t, errors.CodeInvalidParam, errors.GetCode(errors.InvalidParam("bad")))
	assert.Equal(t, errors.CodeServiceUnavailable, errors.GetCode(errors.Unavailable("down")))
}
