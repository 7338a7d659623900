package model

import (
	"net/http"
	"net/url"
	"time"
)

// Request describes a single outgoing HTTP request. Query, when non-nil, is
// encoded onto the URL by the webclient before sending.
type Request struct {
	Method  string
	URL     string
	Query   url.Values
	Headers http.Header
	Body    []byte
}

// Response is the raw result of one fetch: status, headers and the complete
// body. Header lookup is case-insensitive via http.Header. A Response is
// consumed by exactly one decode step and then discarded.
type Response struct {
	Request    *Request
	Headers    http.Header
	Body       []byte
	StatusCode int
	FetchedAt  time.Time
}

// ContentType returns the response content type header, if present.
func (r *Response) ContentType() string {
	if r == nil || r.Headers == nil {
		return ""
	}
	return r.Headers.Get("Content-Type")
}
