package httpclient

import "net/http"

// Request is one fully built outbound request. URL already carries the
// encoded query string.
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    []byte
}

// Response is the result of a completed exchange, whatever its status.
type Response struct {
	StatusCode int
	// Headers holds the first value of each response header, keyed canonically.
	Headers map[string]string
	Body    []byte
}

// IsSuccess returns true if the status code is 2xx.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// flattenHeaders converts multi-value headers to single-value.
func flattenHeaders(h http.Header) map[string]string {
	result := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) > 0 {
			result[k] = v[0]
		}
	}
	return result
}
