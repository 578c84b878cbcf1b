// Package backend talks to the pricing-game simulation service.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/verte-zerg/channelsim/internal/model"
)

const (
	pathRunExperiment = "/run-experiment"
	pathCurrentRound  = "/round/current"
	pathResults       = "/results"
	pathHealth        = "/health"

	headerRequestID = "X-Request-ID"

	maxBodyBytes  = 8 << 20
	maxErrorBytes = 64 << 10
)

// Resource names used in FetchError.
const (
	ResourceCurrentRound = "current round"
	ResourceResults      = "results"
	ResourceHealth       = "health"
)

// Client issues single-attempt requests against the backend.
type Client struct {
	httpClient *http.Client
	baseURL    string
	log        logrus.FieldLogger
}

// NewClient returns a client for baseURL. A zero timeout disables the
// per-request deadline; a nil logger discards log output.
func NewClient(baseURL string, timeout time.Duration, log logrus.FieldLogger) *Client {
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = discard
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		log:        log,
	}
}

// BaseURL returns the backend address without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Submit posts the experiment configuration. The response body of a
// successful call is ignored. Failures are returned as *SubmissionError.
func (c *Client) Submit(ctx context.Context, payload model.Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}
	resp, log, err := c.do(ctx, http.MethodPost, pathRunExperiment, body)
	if err != nil {
		return &SubmissionError{Kind: KindNetwork, Err: err}
	}
	defer closeBody(resp)

	if !isSuccess(resp.StatusCode) {
		msg := readErrorText(resp.Body)
		if msg == "" {
			msg = fmt.Sprintf("request failed: %s", statusText(resp.StatusCode))
		}
		log.WithField("status", resp.StatusCode).Warn("experiment submission rejected")
		return &SubmissionError{Kind: KindStatus, StatusCode: resp.StatusCode, Message: msg}
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
	log.WithFields(logrus.Fields{
		"status": resp.StatusCode,
		"frame":  payload.Frame,
		"rounds": payload.Rounds,
		"model":  payload.Model,
	}).Info("experiment submitted")
	return nil
}

// FetchCurrent loads the latest round. An absent or malformed snapshot is
// returned as the empty snapshot with a nil error.
func (c *Client) FetchCurrent(ctx context.Context) (model.RoundSnapshot, error) {
	data, log, err := c.fetch(ctx, pathCurrentRound, ResourceCurrentRound)
	if err != nil {
		return model.RoundSnapshot{}, err
	}
	snap, malformed := decodeSnapshot(data)
	if malformed {
		log.Warn("current round response is not an object; treating as empty")
	}
	return snap, nil
}

// FetchAll loads the aggregated results in backend order. A body that is not
// an array is returned as an empty slice with a nil error.
func (c *Client) FetchAll(ctx context.Context) ([]model.ResultRow, error) {
	data, log, err := c.fetch(ctx, pathResults, ResourceResults)
	if err != nil {
		return nil, err
	}
	rows, malformed := decodeResults(data)
	if malformed {
		log.WithField("rows", len(rows)).Warn("results response did not match the expected shape; normalized")
	}
	return rows, nil
}

// Health checks that the backend answers on its health endpoint.
func (c *Client) Health(ctx context.Context) error {
	_, _, err := c.fetch(ctx, pathHealth, ResourceHealth)
	return err
}

func (c *Client) fetch(ctx context.Context, path, resource string) ([]byte, logrus.FieldLogger, error) {
	resp, log, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, log, &FetchError{Resource: resource, Kind: KindNetwork, Err: err}
	}
	defer closeBody(resp)

	if !isSuccess(resp.StatusCode) {
		log.WithField("status", resp.StatusCode).Warn("backend returned an error status")
		return nil, log, &FetchError{Resource: resource, Kind: KindStatus, StatusCode: resp.StatusCode}
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, log, &FetchError{Resource: resource, Kind: KindNetwork, Err: fmt.Errorf("failed to read response: %w", err)}
	}
	log.WithField("status", resp.StatusCode).Debug("backend response received")
	return data, log, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) (*http.Response, logrus.FieldLogger, error) {
	requestID := uuid.New().String()
	url := c.baseURL + path
	log := c.log.WithFields(logrus.Fields{
		"method":     method,
		"url":        url,
		"request_id": requestID,
	})

	var reader io.Reader = http.NoBody
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, log, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set(headerRequestID, requestID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.WithError(err).Error("backend request failed")
		return nil, log, fmt.Errorf("request failed: %w", err)
	}
	log = log.WithField("duration_ms", time.Since(started).Milliseconds())
	return resp, log, nil
}

func isSuccess(code int) bool {
	return code >= 200 && code < 300
}

func readErrorText(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, maxErrorBytes))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func closeBody(resp *http.Response) {
	if cerr := resp.Body.Close(); cerr != nil {
		// Best-effort close.
		_ = cerr
	}
}
