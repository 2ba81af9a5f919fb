// Package ccd is an HTTP client for the case data store. It implements
// casedata.CaseStore.
package ccd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/sscs-case-core/internal/config"
	"github.com/turtacn/sscs-case-core/internal/domain/casedata"
	"github.com/turtacn/sscs-case-core/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/sscs-case-core/pkg/errors"
)

// Store operations reported to a CallObserver.
const (
	OpGetCase      = "get_case"
	OpStartEvent   = "start_event"
	OpSubmitEvent  = "submit_event"
	OpStartCreate  = "start_create"
	OpSubmitCreate = "submit_create"
)

// CallObserver is notified once per store operation, after retries. status
// is zero when no response was received.
type CallObserver interface {
	ObserveStoreCall(operation string, status int, err error, elapsed time.Duration)
}

// Client talks to the case data store as one caseworker within one
// jurisdiction and case type.
type Client struct {
	baseURL      string
	userID       string
	jurisdiction string
	caseType     string

	httpClient   *http.Client
	tokens       TokenSource
	logger       logging.Logger
	observer     CallObserver
	retryMax     int
	retryWaitMin time.Duration
	retryWaitMax time.Duration
}

var _ casedata.CaseStore = (*Client)(nil)

// NewClient builds a Client from cfg. Options override the configured
// retry policy and credentials.
func NewClient(cfg config.CCDConfig, opts ...Option) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New(errors.CodeValidation, "ccd base url is required")
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, errors.New(errors.CodeValidation, "ccd base url must be an absolute http(s) url").WithDetail(cfg.BaseURL)
	}
	if cfg.UserID == "" {
		return nil, errors.New(errors.CodeValidation, "ccd user id is required")
	}

	c := &Client{
		baseURL:      strings.TrimSuffix(cfg.BaseURL, "/"),
		userID:       cfg.UserID,
		jurisdiction: cfg.Jurisdiction,
		caseType:     cfg.CaseType,
		httpClient:   &http.Client{Timeout: cfg.Timeout},
		tokens:       StaticTokens{User: cfg.IdamToken, Service: cfg.ServiceToken},
		logger:       logging.NewNopLogger(),
		retryMax:     cfg.RetryMax,
		retryWaitMin: cfg.RetryWait,
		retryWaitMax: 5 * time.Second,
	}
	if c.jurisdiction == "" {
		c.jurisdiction = config.DefaultCCDJurisdiction
	}
	if c.caseType == "" {
		c.caseType = config.DefaultCCDCaseType
	}
	if c.retryWaitMin <= 0 {
		c.retryWaitMin = config.DefaultCCDRetryWait
	}
	if c.retryMax < 0 {
		c.retryMax = 0
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.Named("ccd")
	return c, nil
}

func (c *Client) caseworkerPath() string {
	return fmt.Sprintf("/caseworkers/%s/jurisdictions/%s/case-types/%s",
		url.PathEscape(c.userID), url.PathEscape(c.jurisdiction), url.PathEscape(c.caseType))
}

// GetCase reads a case through the v2 cases endpoint.
func (c *Client) GetCase(ctx context.Context, caseID int64) (*casedata.CaseDetails, error) {
	var res caseResource
	path := fmt.Sprintf("/cases/%d", caseID)
	if err := c.call(ctx, OpGetCase, caseID, http.MethodGet, path, nil, &res, http.Header{"experimental": {"true"}}); err != nil {
		return nil, err
	}
	id := caseID
	if res.Reference != "" {
		if parsed, err := res.Reference.Int64(); err == nil {
			id = parsed
		}
	}
	return &casedata.CaseDetails{
		ID:            id,
		Jurisdiction:  res.Jurisdiction,
		CaseTypeID:    res.CaseType,
		State:         res.State,
		CreatedDate:   res.CreatedOn,
		LastModified:  res.LastModified,
		SecurityClass: res.SecurityClass,
		Data:          res.Data,
	}, nil
}

// StartEvent fetches the token for an event on an existing case.
func (c *Client) StartEvent(ctx context.Context, caseID int64, eventType casedata.EventType) (*casedata.StartEventResponse, error) {
	var res casedata.StartEventResponse
	path := fmt.Sprintf("%s/cases/%d/event-triggers/%s/token", c.caseworkerPath(), caseID, url.PathEscape(string(eventType)))
	if err := c.call(ctx, OpStartEvent, caseID, http.MethodGet, path, nil, &res, nil); err != nil {
		return nil, err
	}
	return &res, nil
}

// SubmitEvent submits an event started with StartEvent.
func (c *Client) SubmitEvent(ctx context.Context, caseID int64, sub casedata.EventSubmission) (*casedata.CaseDetails, error) {
	var res casedata.CaseDetails
	path := fmt.Sprintf("%s/cases/%d/events?ignore-warning=true", c.caseworkerPath(), caseID)
	if err := c.call(ctx, OpSubmitEvent, caseID, http.MethodPost, path, contentOf(sub), &res, nil); err != nil {
		return nil, err
	}
	return &res, nil
}

// StartCreate fetches the token for a case-creating event.
func (c *Client) StartCreate(ctx context.Context, eventType casedata.EventType) (*casedata.StartEventResponse, error) {
	var res casedata.StartEventResponse
	path := fmt.Sprintf("%s/event-triggers/%s/token", c.caseworkerPath(), url.PathEscape(string(eventType)))
	if err := c.call(ctx, OpStartCreate, 0, http.MethodGet, path, nil, &res, nil); err != nil {
		return nil, err
	}
	return &res, nil
}

// SubmitCreate creates a case.
func (c *Client) SubmitCreate(ctx context.Context, sub casedata.EventSubmission) (*casedata.CaseDetails, error) {
	var res casedata.CaseDetails
	path := c.caseworkerPath() + "/cases?ignore-warning=true"
	if err := c.call(ctx, OpSubmitCreate, 0, http.MethodPost, path, contentOf(sub), &res, nil); err != nil {
		return nil, err
	}
	return &res, nil
}

// call runs one store operation and reports it to the observer.
func (c *Client) call(ctx context.Context, op string, caseID int64, method, path string, body, result interface{}, header http.Header) error {
	start := time.Now()
	status, err := c.do(ctx, op, caseID, method, path, body, result, header)
	if c.observer != nil {
		c.observer.ObserveStoreCall(op, status, err, time.Since(start))
	}
	return err
}

// do performs the request, retrying transport failures and 5xx responses.
func (c *Client) do(ctx context.Context, op string, caseID int64, method, path string, body, result interface{}, header http.Header) (int, error) {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return 0, errors.Wrap(err, errors.CodeCCDRequestFailed, "cannot encode request body")
		}
	}

	log := c.logger.With(logging.String("operation", op))
	if caseID != 0 {
		log = log.With(logging.CaseID(caseID))
	}

	var (
		lastErr    error
		lastStatus int
	)
	for attempt := 0; attempt <= c.retryMax; attempt++ {
		if attempt > 0 {
			backoff := c.backoff(attempt)
			log.Debug("retrying store request", logging.Int("attempt", attempt), logging.Duration("backoff", backoff))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return lastStatus, errors.Wrap(ctx.Err(), errors.CodeCCDRequestFailed, "store request cancelled")
			}
		}

		status, retry, err := c.attempt(ctx, log, method, path, payload, result, header)
		if err == nil {
			return status, nil
		}
		lastErr, lastStatus = err, status
		if ctx.Err() != nil {
			return status, errors.Wrap(ctx.Err(), errors.CodeCCDRequestFailed, "store request cancelled")
		}
		if !retry {
			break
		}
	}
	return lastStatus, lastErr
}

func (c *Client) attempt(ctx context.Context, log logging.Logger, method, path string, payload []byte, result interface{}, header http.Header) (status int, retry bool, err error) {
	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return 0, false, errors.Wrap(err, errors.CodeCCDRequestFailed, "cannot build store request")
	}

	tokens, err := c.tokens.Tokens(ctx)
	if err != nil {
		return 0, false, errors.Wrap(err, errors.CodeUnauthorized, "cannot obtain store credentials")
	}
	requestID := uuid.NewString()
	req.Header.Set("Authorization", bearer(tokens.User))
	req.Header.Set("ServiceAuthorization", bearer(tokens.Service))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn("store request failed", logging.String("request_id", requestID), logging.Err(err))
		return 0, true, errors.Wrap(err, errors.CodeCCDRequestFailed, "store request failed").WithDetail(method + " " + path)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, true, errors.Wrap(err, errors.CodeCCDRequestFailed, "cannot read store response")
	}
	log.Debug("store response",
		logging.String("method", method),
		logging.String("path", path),
		logging.Int("status", resp.StatusCode),
		logging.Duration("elapsed", time.Since(started)),
		logging.String("request_id", requestID))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, resp.StatusCode >= 500, statusError(resp.StatusCode, respBody, requestID)
	}
	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return resp.StatusCode, false, errors.Wrap(err, errors.CodeCCDDecodeFailed, "cannot decode store response")
		}
	}
	return resp.StatusCode, false, nil
}

func statusError(status int, body []byte, requestID string) error {
	message := http.StatusText(status)
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil && eb.Message != "" {
		message = eb.Message
	} else if len(body) > 0 && len(body) <= 512 {
		message = strings.TrimSpace(string(body))
	}
	detail := fmt.Sprintf("status=%d request_id=%s", status, requestID)
	if status == http.StatusNotFound {
		return errors.New(errors.CodeCaseNotFound, message).WithDetail(detail)
	}
	return errors.New(errors.CodeCCDUnexpectedStatus, message).WithDetail(detail)
}

func (c *Client) backoff(attempt int) time.Duration {
	backoff := c.retryWaitMin * time.Duration(1<<uint(attempt-1))
	if backoff > c.retryWaitMax || backoff <= 0 {
		backoff = c.retryWaitMax
	}
	if quarter := int64(backoff / 4); quarter > 0 {
		backoff += time.Duration(rand.Int63n(quarter))
	}
	return backoff
}
