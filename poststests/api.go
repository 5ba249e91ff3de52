package poststests

import (
	"net/http"

	"github.com/restcontract/posts-contract-tests/framework"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

// T represents a test or subtest in our posts test suite.
//
// It implements the same basic functionality as Go's testing.T, but in an environment that is
// outside of the Go test runner, and with some extra features such as debug logging that are
// provided by our lower-level framework package.
//
// It also knows the current parameter set and has methods for sending requests to the target
// service. To make test assertions, you can use the assert and require packages, passing the
// *T as if it were a *testing.T. Request methods fail the test immediately on a transport error,
// so tests only need to deal with HTTP responses.
type T struct {
	context *framework.Context
	harness *framework.TestHarness
	params  ParameterSet
}

func newTestScope(context *framework.Context, harness *framework.TestHarness, params ParameterSet) *T {
	return &T{
		context: context,
		harness: harness,
		params:  params,
	}
}

// Errorf is called by assertions to log a test failure. It does not cause an immediate exit.
func (t *T) Errorf(format string, args ...interface{}) {
	t.context.Errorf(format, args...)
}

// FailNow is called by assertions when a test should fail and immediately exit. The methods in
// the require package call FailNow.
func (t *T) FailNow() {
	t.context.FailNow()
}

// Run runs a subtest. This is equivalent to the Run method of testing.T.
func (t *T) Run(name string, action func(*T)) {
	t.context.Run(name, func(c *framework.Context) {
		action(newTestScope(c, t.harness, t.params))
	})
}

// Debug logs some debug output for the test. The output will be passed to the test logger at
// the end of the test.
func (t *T) Debug(format string, args ...interface{}) {
	t.context.Debug(format, args...)
}

// Params returns the fixture values for the current pass through the suite.
func (t *T) Params() ParameterSet {
	return t.params
}

// Get sends a GET request for a path relative to the target's base URL.
func (t *T) Get(path string) *Response {
	return t.send(http.MethodGet, path, nil)
}

// Delete sends a DELETE request.
func (t *T) Delete(path string) *Response {
	return t.send(http.MethodDelete, path, nil)
}

// SendJSON sends a request with a JSON body.
func (t *T) SendJSON(method, path string, body ldvalue.Value) *Response {
	return t.send(method, path, []byte(body.JSONString()))
}

func (t *T) send(method, path string, body []byte) *Response {
	resp, err := t.harness.Do(method, path, body, t.context.DebugLogger())
	require.NoError(t, err, "request to target service failed")
	return newResponse(resp)
}

// RequireStatus fails and exits the test if the response does not have the expected status.
func (t *T) RequireStatus(resp *Response, expected int) {
	require.Equal(t, expected, resp.StatusCode, "unexpected status for request %s, body: %s",
		resp.RequestID, string(resp.Body))
}

// RequireSuccessStatus fails and exits the test unless the response has a 2xx status.
func (t *T) RequireSuccessStatus(resp *Response) {
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		require.Fail(t, "expected a 2xx status", "got %s", resp)
	}
}

// RequireDataArray fails and exits the test unless the response envelope's "data" property is
// a JSON array. It returns the array elements.
func (t *T) RequireDataArray(resp *Response) []gjson.Result {
	data := t.requireData(resp)
	if !data.IsArray() {
		require.Fail(t, `"data" is not an array`, "got %s", resp)
	}
	return data.Array()
}

// RequireDataObject fails and exits the test unless the response envelope's "data" property is
// a JSON object.
func (t *T) RequireDataObject(resp *Response) gjson.Result {
	data := t.requireData(resp)
	if !data.IsObject() {
		require.Fail(t, `"data" is not an object`, "got %s", resp)
	}
	return data
}

func (t *T) requireData(resp *Response) gjson.Result {
	if !resp.IsJSON() {
		require.Fail(t, "response body is not valid JSON", "got %s", resp)
	}
	data := resp.Data()
	if !data.Exists() {
		require.Fail(t, `response has no "data" property`, "got %s", resp)
	}
	return data
}

// AssertJSONField checks a property of a JSON object against an expected int or string value.
// A missing property is a failure.
func (t *T) AssertJSONField(obj gjson.Result, path string, expected interface{}) bool {
	value := obj.Get(path)
	if !value.Exists() {
		return assert.Fail(t, "missing property", "expected %q to be %v in %s", path, expected, obj.Raw)
	}
	switch e := expected.(type) {
	case int:
		if value.Type != gjson.Number {
			return assert.Fail(t, "property is not a number", "%q was %s", path, value.Raw)
		}
		return assert.Equal(t, e, int(value.Int()), "incorrect value for %q", path)
	case string:
		if value.Type != gjson.String {
			return assert.Fail(t, "property is not a string", "%q was %s", path, value.Raw)
		}
		return assert.Equal(t, e, value.String(), "incorrect value for %q", path)
	default:
		return assert.Equal(t, expected, value.Value(), "incorrect value for %q", path)
	}
}
