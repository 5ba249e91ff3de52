package framework

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	defaultStatusQueryTimeout = time.Second * 10
	defaultRequestTimeout     = time.Second * 10
	statusQueryInterval       = time.Millisecond * 100

	// RequestIDHeader is sent with every request so that server-side logs can be correlated
	// with a specific test.
	RequestIDHeader = "X-Request-Id"
)

// HarnessConfig describes how to reach the target service.
type HarnessConfig struct {
	// BaseURL is the origin plus any path prefix, such as "http://localhost:7001/api".
	BaseURL string

	// StatusPath is requested with GET at startup until the target responds successfully.
	StatusPath string

	// StatusQueryTimeout is how long to keep polling StatusPath. Zero means 10 seconds.
	StatusQueryTimeout time.Duration

	// RequestTimeout applies to each request made by tests. Zero means 10 seconds.
	RequestTimeout time.Duration
}

// TestHarness is the test framework's connection to the target service.
type TestHarness struct {
	baseURL string
	client  *http.Client
	logger  Logger
}

// Response is the result of a single request to the target service. The body has already
// been fully read.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	RequestID  string
}

// NewTestHarness creates a TestHarness instance, and verifies that the target service is
// responding by querying its status resource.
func NewTestHarness(
	config HarnessConfig,
	debugLogger Logger,
	startupOutput io.Writer,
) (*TestHarness, error) {
	if config.BaseURL == "" {
		return nil, errors.New("target service URL was not specified")
	}
	if debugLogger == nil {
		debugLogger = NullLogger()
	}
	if startupOutput == nil {
		startupOutput = io.Discard
	}
	if config.StatusQueryTimeout <= 0 {
		config.StatusQueryTimeout = defaultStatusQueryTimeout
	}
	if config.RequestTimeout <= 0 {
		config.RequestTimeout = defaultRequestTimeout
	}

	h := &TestHarness{
		baseURL: strings.TrimSuffix(config.BaseURL, "/"),
		client:  &http.Client{Timeout: config.RequestTimeout},
		logger:  LoggerWithPrefix(debugLogger, "[harness] "),
	}

	if err := h.awaitTargetService(config.StatusPath, config.StatusQueryTimeout, startupOutput); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *TestHarness) awaitTargetService(statusPath string, timeout time.Duration, output io.Writer) error {
	url := h.baseURL + statusPath
	fmt.Fprintf(output, "Connecting to target service at %s", url)

	deadline := time.Now().Add(timeout)
	for {
		fmt.Fprintf(output, ".")
		resp, err := h.client.Get(url)
		if err == nil {
			fmt.Fprintln(output)
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			if resp.StatusCode < 200 || resp.StatusCode >= 300 {
				return fmt.Errorf("target service returned status code %d for %s", resp.StatusCode, url)
			}
			h.logger.Printf("Status query to %s succeeded", url)
			return nil
		}
		if !time.Now().Before(deadline) {
			fmt.Fprintln(output)
			return fmt.Errorf("timed out, result of last query was: %w", err)
		}
		time.Sleep(statusQueryInterval)
	}
}

// Do sends a request to the target service. The path is appended to the base URL. If body
// is non-nil it is sent as JSON.
//
// An error is returned only for transport failures; any HTTP status is a valid Response.
func (h *TestHarness) Do(method, path string, body []byte, logger Logger) (*Response, error) {
	if logger == nil {
		logger = h.logger
	}
	url := h.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}
	req, err := http.NewRequest(method, url, bodyReader)
	if err != nil {
		return nil, err
	}
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
		logger.Printf(">> %s %s (%s) %s", method, url, requestID, string(body))
	} else {
		logger.Printf(">> %s %s (%s)", method, url, requestID)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		logger.Printf("<< %s %s failed: %s", method, url, err)
		return nil, fmt.Errorf("%s %s: %w", method, url, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response body from %s %s: %w", method, url, err)
	}
	logger.Printf("<< %d %s", resp.StatusCode, string(data))

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
		RequestID:  requestID,
	}, nil
}
