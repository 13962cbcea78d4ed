package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"hospitalcms/internal/adapters/http/perf"
	"hospitalcms/internal/platform/logging"
)

const (
	defaultTimeout = 10 * time.Second
	maxBodyLog     = 300
	maxMessageLen  = 200
)

// ErrUnauthorized is matched by errors.Is for 401 and 403 responses, which the
// backend returns for missing, expired or wrong-role tokens.
var ErrUnauthorized = errors.New("backend rejected the session token")

// StatusError is returned by reads when the backend answers with a non-2xx status.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned %d: %s", e.Endpoint, e.StatusCode, e.Message)
}

// Is reports ErrUnauthorized for auth failures.
func (e *StatusError) Is(target error) bool {
	return target == ErrUnauthorized &&
		(e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden)
}

// Result is the outcome of a mutating call. Mutations never return an error:
// every failure mode becomes Success false with a user-facing Message.
type Result struct {
	Success bool
	Message string
}

// Client calls the hospital backend REST API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *logging.Logger
	metrics    *perf.Metrics
}

// NewClient constructs a backend client.
// PRE: baseURL is an absolute http(s) URL
// POST: timeout <= 0 selects the default; nil logger selects logging.Default; metrics may be nil
func NewClient(baseURL string, timeout time.Duration, logger *logging.Logger, metrics *perf.Metrics) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     logger,
		metrics:    metrics,
	}
}

// seg escapes one path segment. Empty segments stay empty so the backend
// sees them as "no constraint".
func seg(s string) string {
	return url.PathEscape(s)
}

// call is one request/response exchange. endpoint is a stable label used for
// logs and metrics; path may contain the token and is never logged.
func (c *Client) call(ctx context.Context, endpoint, method, path string, body any) (int, []byte, error) {
	var bodyReader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveUpstream(endpoint, perf.OutcomeTransport, time.Since(start))
		c.logger.Warn("api_call", "endpoint", endpoint, "method", method, "outcome", perf.OutcomeTransport, "error", err)
		return 0, nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	d := time.Since(start)
	if err != nil {
		c.metrics.ObserveUpstream(endpoint, perf.OutcomeTransport, d)
		return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.metrics.ObserveUpstream(endpoint, perf.OutcomeHTTPError, d)
		c.logger.Warn("api_call",
			"endpoint", endpoint, "method", method, "status", resp.StatusCode,
			"outcome", perf.OutcomeHTTPError, "body", truncate(string(respBody), maxBodyLog))
		return resp.StatusCode, respBody, nil
	}

	c.metrics.ObserveUpstream(endpoint, perf.OutcomeOK, d)
	c.logger.Debug("api_call", "endpoint", endpoint, "method", method, "status", resp.StatusCode, "duration_ms", d.Milliseconds())
	return resp.StatusCode, respBody, nil
}

// doJSON performs a read and decodes a 2xx body into out.
func (c *Client) doJSON(ctx context.Context, endpoint, method, path string, body, out any) error {
	status, respBody, err := c.call(ctx, endpoint, method, path, body)
	if err != nil {
		return err
	}
	if status < 200 || status > 299 {
		return &StatusError{Endpoint: endpoint, StatusCode: status, Message: messageFrom(respBody, http.StatusText(status))}
	}
	if len(bytes.TrimSpace(respBody)) == 0 || out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		c.logger.Warn("api_call", "endpoint", endpoint, "outcome", "decode_error", "error", err)
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}

// mutate performs a write and folds every failure into a Result.
// INVARIANT: never returns an error; transport failures yield failMsg
func (c *Client) mutate(ctx context.Context, endpoint, method, path string, body any, okMsg, failMsg string) Result {
	status, respBody, err := c.call(ctx, endpoint, method, path, body)
	if err != nil {
		return Result{Success: false, Message: failMsg}
	}
	if status < 200 || status > 299 {
		return Result{Success: false, Message: messageFrom(respBody, failMsg)}
	}
	return Result{Success: true, Message: messageFrom(respBody, okMsg)}
}

// messageFrom extracts a user-facing message from a backend body: the
// "message" or "error" field of a JSON object, a JSON string, or short plain
// text. Anything else yields fallback.
func messageFrom(body []byte, fallback string) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return fallback
	}
	switch trimmed[0] {
	case '{':
		var obj struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		if json.Unmarshal(trimmed, &obj) == nil {
			if obj.Message != "" {
				return obj.Message
			}
			if obj.Error != "" {
				return obj.Error
			}
		}
		return fallback
	case '"':
		var s string
		if json.Unmarshal(trimmed, &s) == nil && s != "" {
			return truncate(s, maxMessageLen)
		}
		return fallback
	case '[', '<':
		return fallback
	}
	return truncate(string(trimmed), maxMessageLen)
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
