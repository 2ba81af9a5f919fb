package ccd

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/sscs-case-core/internal/config"
	"github.com/turtacn/sscs-case-core/internal/domain/casedata"
	"github.com/turtacn/sscs-case-core/pkg/errors"
)

type observedCall struct {
	op     string
	status int
	err    error
}

type recordingObserver struct {
	mu    sync.Mutex
	calls []observedCall
}

func (o *recordingObserver) ObserveStoreCall(op string, status int, err error, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls = append(o.calls, observedCall{op, status, err})
}

func testConfig(baseURL string) config.CCDConfig {
	return config.CCDConfig{
		BaseURL:      baseURL,
		UserID:       "16",
		Jurisdiction: "SSCS",
		CaseType:     "Benefit",
		Timeout:      5 * time.Second,
		RetryMax:     2,
		RetryWait:    time.Millisecond,
		IdamToken:    "user-token",
		ServiceToken: "Bearer s2s-token",
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	opts = append([]Option{WithRetryWait(time.Millisecond, 2*time.Millisecond)}, opts...)
	c, err := NewClient(testConfig(server.URL+"/"), opts...)
	require.NoError(t, err)
	return c
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

// ---------------------------------------------------------------------------
// Constructor
// ---------------------------------------------------------------------------

func TestNewClient_Validation(t *testing.T) {
	cases := []config.CCDConfig{
		{},
		{BaseURL: "ftp://ccd", UserID: "1"},
		{BaseURL: "not a url", UserID: "1"},
		{BaseURL: "http://ccd"},
	}
	for _, cfg := range cases {
		_, err := NewClient(cfg)
		assert.True(t, errors.IsCode(err, errors.CodeValidation), cfg.BaseURL)
	}
}

func TestNewClient_Defaults(t *testing.T) {
	c, err := NewClient(config.CCDConfig{BaseURL: "http://ccd:4452/", UserID: "16", RetryMax: -1})
	require.NoError(t, err)

	assert.Equal(t, "http://ccd:4452", c.baseURL)
	assert.Equal(t, config.DefaultCCDJurisdiction, c.jurisdiction)
	assert.Equal(t, config.DefaultCCDCaseType, c.caseType)
	assert.Equal(t, config.DefaultCCDRetryWait, c.retryWaitMin)
	assert.Equal(t, 0, c.retryMax)
	assert.Equal(t, "/caseworkers/16/jurisdictions/SSCS/case-types/Benefit", c.caseworkerPath())
}

// ---------------------------------------------------------------------------
// Endpoints
// ---------------------------------------------------------------------------

func TestGetCase(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/cases/1563382899630221", r.URL.Path)
		assert.Equal(t, "true", r.Header.Get("experimental"))
		assert.Equal(t, "Bearer user-token", r.Header.Get("Authorization"))
		assert.Equal(t, "Bearer s2s-token", r.Header.Get("ServiceAuthorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		writeJSON(w, http.StatusOK, `{
			"id": "1563382899630221", "jurisdiction": "SSCS", "case_type": "Benefit", "state": "withDwp",
			"data": {"caseReference": "SC001/19/00001", "hearings": [], "panel": {"judge": "x"}}
		}`)
	})

	details, err := c.GetCase(context.Background(), 1563382899630221)
	require.NoError(t, err)

	assert.Equal(t, int64(1563382899630221), details.ID)
	assert.Equal(t, "withDwp", details.State)
	assert.Equal(t, "Benefit", details.CaseTypeID)
	assert.Equal(t, "SC001/19/00001", details.Data.CaseReference)
	assert.NotNil(t, details.Data.Hearings)
	assert.Contains(t, details.Data.Extra, "panel")
}

func TestGetCase_NotFound(t *testing.T) {
	var hits int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		writeJSON(w, http.StatusNotFound, `{"exception":"CaseNotFoundException","message":"No case found","status":404}`)
	})

	_, err := c.GetCase(context.Background(), 1)

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeCaseNotFound))
	assert.True(t, errors.IsNotFound(err))
	assert.Contains(t, err.Error(), "No case found")
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits), "4xx is not retried")
}

func TestStartEventAndSubmit(t *testing.T) {
	const base = "/caseworkers/16/jurisdictions/SSCS/case-types/Benefit/cases/42"
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == base+"/event-triggers/uploadDocument/token":
			writeJSON(w, http.StatusOK, `{"token":"tkn","event_id":"uploadDocument",
				"case_details":{"id":42,"case_data":{"translationWorkOutstanding":"No"}}}`)
		case r.Method == http.MethodPost && r.URL.Path == base+"/events":
			assert.Equal(t, "true", r.URL.Query().Get("ignore-warning"))
			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "tkn", body["event_token"])
			assert.Equal(t, map[string]interface{}{"id": "uploadDocument", "summary": "upload"}, body["event"])
			assert.Equal(t, map[string]interface{}{"translationWorkOutstanding": "Yes"}, body["data"])
			writeJSON(w, http.StatusCreated, `{"id":42,"state":"withDwp","case_data":{"translationWorkOutstanding":"Yes"}}`)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusTeapot)
		}
	})
	ctx := context.Background()

	start, err := c.StartEvent(ctx, 42, casedata.EventUploadDocument)
	require.NoError(t, err)
	assert.Equal(t, "tkn", start.Token)
	require.NotNil(t, start.CaseDetails)
	assert.Equal(t, "No", start.CaseDetails.Data.TranslationWorkOutstanding)

	data := start.CaseDetails.Data
	data.TranslationWorkOutstanding = "Yes"
	details, err := c.SubmitEvent(ctx, 42, casedata.EventSubmission{
		EventType: casedata.EventUploadDocument,
		Token:     start.Token,
		Summary:   "upload",
		Data:      data,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), details.ID)
	assert.Equal(t, "withDwp", details.State)
}

func TestStartCreateAndSubmit(t *testing.T) {
	const base = "/caseworkers/16/jurisdictions/SSCS/case-types/Benefit"
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == base+"/event-triggers/appealCreated/token":
			writeJSON(w, http.StatusOK, `{"token":"create-token","event_id":"appealCreated"}`)
		case r.Method == http.MethodPost && r.URL.Path == base+"/cases":
			writeJSON(w, http.StatusCreated, `{"id":1000,"state":"appealCreated","case_data":{"dwpRegionalCentre":"Newcastle"}}`)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusTeapot)
		}
	})
	ctx := context.Background()

	start, err := c.StartCreate(ctx, casedata.EventAppealCreated)
	require.NoError(t, err)
	assert.Nil(t, start.CaseDetails)

	created, err := c.SubmitCreate(ctx, casedata.EventSubmission{EventType: casedata.EventAppealCreated, Token: start.Token})
	require.NoError(t, err)
	assert.Equal(t, int64(1000), created.ID)
	assert.Equal(t, "Newcastle", created.Data.DwpRegionalCentre)
}

// ---------------------------------------------------------------------------
// Failure handling
// ---------------------------------------------------------------------------

func TestDo_RetriesServerErrors(t *testing.T) {
	var hits int32
	obs := &recordingObserver{}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) < 3 {
			writeJSON(w, http.StatusBadGateway, `upstream down`)
			return
		}
		writeJSON(w, http.StatusOK, `{"id":"7","data":{}}`)
	}, WithObserver(obs))

	details, err := c.GetCase(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, int64(7), details.ID)
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits))
	require.Len(t, obs.calls, 1)
	assert.Equal(t, observedCall{OpGetCase, http.StatusOK, nil}, obs.calls[0])
}

func TestDo_GivesUpAfterRetryMax(t *testing.T) {
	var hits int32
	obs := &recordingObserver{}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		writeJSON(w, http.StatusServiceUnavailable, `{"message":"maintenance"}`)
	}, WithObserver(obs), WithRetryMax(1))

	_, err := c.StartCreate(context.Background(), casedata.EventValidAppeal)

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeCCDUnexpectedStatus))
	assert.Contains(t, err.Error(), "maintenance")
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
	require.Len(t, obs.calls, 1)
	assert.Equal(t, http.StatusServiceUnavailable, obs.calls[0].status)
}

func TestDo_DecodeFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"token": 12`)
	})

	_, err := c.StartEvent(context.Background(), 1, casedata.EventCaseUpdated)
	assert.True(t, errors.IsCode(err, errors.CodeCCDDecodeFailed))
}

func TestDo_ContextCancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		cancel()
		w.WriteHeader(http.StatusInternalServerError)
	}, WithRetryMax(5), WithRetryWait(time.Second, 2*time.Second))

	_, err := c.GetCase(ctx, 1)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDo_TokenSourceFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request must not be sent without credentials")
	}, WithTokenSource(failingTokens{}))

	_, err := c.GetCase(context.Background(), 1)
	assert.True(t, errors.IsCode(err, errors.CodeUnauthorized))
}

type failingTokens struct{}

func (failingTokens) Tokens(context.Context) (Tokens, error) {
	return Tokens{}, errors.New(errors.CodeUnauthorized, "idam unavailable")
}

func TestBearer(t *testing.T) {
	assert.Equal(t, "", bearer(""))
	assert.Equal(t, "Bearer abc", bearer("abc"))
	assert.Equal(t, "bearer abc", bearer("bearer abc"))
}

func TestBackoff_Bounds(t *testing.T) {
	c, err := NewClient(testConfig("http://ccd"), WithRetryWait(100*time.Millisecond, 300*time.Millisecond))
	require.NoError(t, err)

	for attempt := 1; attempt <= 6; attempt++ {
		b := c.backoff(attempt)
		assert.GreaterOrEqual(t, b, 100*time.Millisecond)
		assert.LessOrEqual(t, b, 300*time.Millisecond+75*time.Millisecond)
	}
}
