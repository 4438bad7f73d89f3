// Package remote is the HTTP client for the recruiting backend's REST
// contract: health, job metadata, application listing, and status writes.
//
// Every request carries an X-Request-ID and, when configured, a bearer token.
// Failures are tagged with internal/services markers so callers can classify
// them with errors.Is: transport errors and 5xx responses are transient, 404 is
// not-found, 400 is validation, 409 is conflict, and a blown context deadline
// is a timeout.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"talentflow/internal/api"
	"talentflow/internal/logging"
	"talentflow/internal/pipeline"
	"talentflow/internal/services"
)

const (
	defaultHTTPTimeout = 8 * time.Second
	maxResponseBytes   = 4 << 20
)

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

var errEmptyBody = errors.New("empty response body")

// HTTPDoer describes the HTTP client used by Client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to one recruiting backend.
type Client struct {
	base      *url.URL
	token     string
	http      HTTPDoer
	logger    *slog.Logger
	requestID func() string
}

// Option customizes the client.
type Option func(*Client)

// WithToken sets the bearer token sent on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = strings.TrimSpace(token) }
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(doer HTTPDoer) Option {
	return func(c *Client) {
		if doer != nil {
			c.http = doer
		}
	}
}

// WithTimeout sets the overall per-request timeout of the default client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.http = &http.Client{Timeout: timeout}
		}
	}
}

// WithLogger attaches a logger for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logging.NewComponentLogger(logger, "remote") }
}

// WithRequestIDs overrides the request id generator (useful for tests).
func WithRequestIDs(next func() string) Option {
	return func(c *Client) {
		if next != nil {
			c.requestID = next
		}
	}
}

// New parses baseURL and returns a client. An empty baseURL yields a nil
// client and no error: no remote is configured.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, nil
	}
	if !strings.Contains(baseURL, "://") {
		baseURL = "http://" + baseURL
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "remote", "parse base url", baseURL, err)
	}
	if base.Host == "" {
		return nil, services.Wrap(services.ErrConfiguration, "remote", "parse base url", fmt.Sprintf("missing host in %q", baseURL), nil)
	}
	base.Path = strings.TrimRight(base.Path, "/")
	base.RawPath = ""
	base.RawQuery = ""
	base.Fragment = ""

	c := &Client{
		base:      base,
		http:      &http.Client{Timeout: defaultHTTPTimeout},
		logger:    logging.NewComponentLogger(nil, "remote"),
		requestID: func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the normalized backend URL.
func (c *Client) BaseURL() string { return c.base.String() }

// Health probes GET /health. A 2xx with {"ok":false} counts as unhealthy.
func (c *Client) Health(ctx context.Context) error {
	var payload api.HealthResponse
	payload.OK = true
	// Some backends answer liveness with an empty 200.
	if err := c.do(ctx, http.MethodGet, "health", []string{"health"}, nil, &payload); err != nil && !errors.Is(err, errEmptyBody) {
		return err
	}
	if !payload.OK {
		return services.Wrap(services.ErrTransient, "remote", "health", "backend reported not ok", nil)
	}
	return nil
}

// Job fetches GET /jobs/{jobId}.
func (c *Client) Job(ctx context.Context, jobID string) (pipeline.Job, error) {
	var payload api.Job
	if err := c.do(ctx, http.MethodGet, "get job", []string{"jobs", jobID}, nil, &payload); err != nil {
		return pipeline.Job{}, err
	}
	return api.ToJob(payload), nil
}

// Applications fetches GET /jobs/{jobId}/applications in server order.
func (c *Client) Applications(ctx context.Context, jobID string) ([]pipeline.Application, error) {
	var payload api.ApplicationListResponse
	if err := c.do(ctx, http.MethodGet, "list applications", []string{"jobs", jobID, "applications"}, nil, &payload); err != nil {
		return nil, err
	}
	apps, err := api.ToApplications(payload.Items)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "remote", "list applications", "malformed payload", err)
	}
	return apps, nil
}

// UpdateStatus issues PATCH /applications/{id}/status.
func (c *Client) UpdateStatus(ctx context.Context, id, status string) (pipeline.Application, error) {
	var payload api.ApplicationResponse
	body := api.StatusUpdateRequest{Status: status}
	if err := c.do(ctx, http.MethodPatch, "update status", []string{"applications", id, "status"}, body, &payload); err != nil {
		return pipeline.Application{}, err
	}
	app, err := api.ToApplication(payload.Item)
	if err != nil {
		return pipeline.Application{}, services.Wrap(services.ErrTransient, "remote", "update status", "malformed payload", err)
	}
	return app, nil
}

// BulkUpdateStatus issues POST /applications/bulk-status.
func (c *Client) BulkUpdateStatus(ctx context.Context, ids []string, status string) ([]pipeline.StatusOutcome, error) {
	var payload api.BulkStatusResponse
	body := api.BulkStatusRequest{IDs: ids, Status: status}
	if err := c.do(ctx, http.MethodPost, "bulk status", []string{"applications", "bulk-status"}, body, &payload); err != nil {
		return nil, err
	}
	return api.ToOutcomes(payload.Results), nil
}

func (c *Client) endpoint(segments []string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	return c.base.String() + "/" + strings.Join(escaped, "/")
}

func (c *Client) do(ctx context.Context, method, op string, segments []string, body, out any) error {
	if c == nil {
		return services.Wrap(services.ErrConfiguration, "remote", op, "no remote configured", nil)
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return services.Wrap(services.ErrValidation, "remote", op, "encode request", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(segments), reader)
	if err != nil {
		return services.Wrap(services.ErrValidation, "remote", op, "build request", err)
	}
	requestID := c.requestID()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return classifyTransportError(ctx, op, err)
	}
	defer resp.Body.Close()

	limited := io.LimitReader(resp.Body, maxResponseBytes)
	c.logger.Debug("remote request",
		logging.String("method", method),
		logging.String("path", req.URL.Path),
		logging.Int("status", resp.StatusCode),
		logging.Duration("elapsed", time.Since(started)),
		logging.String(logging.FieldCorrelationID, requestID),
	)

	if resp.StatusCode >= http.StatusMultipleChoices {
		return newStatusError(op, resp.StatusCode, limited)
	}
	if out == nil {
		return nil
	}
	data, err := io.ReadAll(limited)
	if err != nil {
		return classifyTransportError(ctx, op, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return services.Wrap(services.ErrTransient, "remote", op, "", errEmptyBody)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return services.Wrap(services.ErrTransient, "remote", op, "malformed payload", err)
	}
	return nil
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Operation string
	Code      int
	Message   string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("remote %s: status %d: %s", e.Operation, e.Code, e.Message)
	}
	return fmt.Sprintf("remote %s: status %d", e.Operation, e.Code)
}

// Unwrap maps the HTTP status onto a services marker.
func (e *StatusError) Unwrap() error {
	switch {
	case e.Code == http.StatusNotFound:
		return services.ErrNotFound
	case e.Code == http.StatusConflict:
		return services.ErrConflict
	case e.Code == http.StatusUnauthorized, e.Code == http.StatusForbidden:
		return services.ErrConfiguration
	case e.Code == http.StatusGatewayTimeout, e.Code == http.StatusRequestTimeout:
		return services.ErrTimeout
	case e.Code >= 500:
		return services.ErrTransient
	case e.Code >= 400:
		return services.ErrValidation
	default:
		return services.ErrTransient
	}
}

func newStatusError(op string, code int, body io.Reader) error {
	data, _ := io.ReadAll(io.LimitReader(body, 4096))
	var payload api.ErrorResponse
	msg := strings.TrimSpace(string(data))
	if json.Unmarshal(data, &payload) == nil && payload.Error != "" {
		msg = payload.Error
	}
	return &StatusError{Operation: op, Code: code, Message: msg}
}

func classifyTransportError(ctx context.Context, op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return services.Wrap(services.ErrTimeout, "remote", op, "deadline exceeded", err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return services.Wrap(services.ErrTimeout, "remote", op, "request timed out", err)
	}
	return services.Wrap(services.ErrTransient, "remote", op, "request failed", err)
}

// IsUnavailable reports whether err means the backend could not be reached
// at all, as opposed to answering with an error.
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code >= 500
	}
	var opErr *net.OpError
	return errors.As(err, &opErr) || errors.Is(err, services.ErrTimeout) || errors.Is(err, services.ErrTransient)
}
