package poststests

import (
	"fmt"
	"net/http"

	"github.com/restcontract/posts-contract-tests/framework"

	"github.com/tidwall/gjson"
)

// Response is a response from the target service, with helpers for looking up values in its
// JSON body by path.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	RequestID  string
}

func newResponse(r *framework.Response) *Response {
	return &Response{
		StatusCode: r.StatusCode,
		Header:     r.Header,
		Body:       r.Body,
		RequestID:  r.RequestID,
	}
}

// IsJSON returns true if the body is syntactically valid JSON.
func (r *Response) IsJSON() bool {
	return gjson.ValidBytes(r.Body)
}

// JSON returns the value at a gjson path such as "data.id" or "data.#". The result's Exists
// method is false if there is no such value.
func (r *Response) JSON(path string) gjson.Result {
	return gjson.GetBytes(r.Body, path)
}

// Data returns the top-level "data" property of the response envelope.
func (r *Response) Data() gjson.Result {
	return r.JSON("data")
}

func (r *Response) String() string {
	if contentType := r.Header.Get("Content-Type"); contentType != "" {
		return fmt.Sprintf("HTTP %d (%s) %s", r.StatusCode, contentType, string(r.Body))
	}
	return fmt.Sprintf("HTTP %d %s", r.StatusCode, string(r.Body))
}
