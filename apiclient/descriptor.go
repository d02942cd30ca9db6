package apiclient

import (
	"fmt"
	"net/textproto"
	"net/url"
	"strings"

	"github.com/kbukum/apikit/httpclient"
	"github.com/kbukum/apikit/params"
)

// Descriptor is one not-yet-sent request. It is built fresh for every call.
//
// Headers are keyed canonically and can only be added or overwritten, so a
// header set by Defaults survives unless a modifier sets the same key.
type Descriptor struct {
	Method string
	// URL is the base URL joined with Path, without the encoded parameters.
	URL  string
	Path string
	// Params are encoded into the query string at send time.
	Params params.Set
	// Body is sent as-is.
	Body []byte

	headers map[string]string
}

// NewDescriptor creates an empty descriptor for method and an absolute URL.
func NewDescriptor(method, rawURL string) *Descriptor {
	return &Descriptor{Method: method, URL: rawURL, headers: make(map[string]string)}
}

// SetHeader sets a header, replacing any previous value for the same key.
func (d *Descriptor) SetHeader(key, value string) {
	if d.headers == nil {
		d.headers = make(map[string]string)
	}
	d.headers[textproto.CanonicalMIMEHeaderKey(key)] = value
}

// Header returns the value of a header, or "".
func (d *Descriptor) Header(key string) string {
	return d.headers[textproto.CanonicalMIMEHeaderKey(key)]
}

// HasHeader reports whether a header is set.
func (d *Descriptor) HasHeader(key string) bool {
	_, ok := d.headers[textproto.CanonicalMIMEHeaderKey(key)]
	return ok
}

// Headers returns a copy of all headers.
func (d *Descriptor) Headers() map[string]string {
	out := make(map[string]string, len(d.headers))
	for k, v := range d.headers {
		out[k] = v
	}
	return out
}

// SetParam sets a query parameter.
func (d *Descriptor) SetParam(key string, value any) {
	if d.Params == nil {
		d.Params = params.Set{}
	}
	d.Params[key] = value
}

// Request encodes the parameters into the URL's query, after any query the
// path already carries, and returns the transport request.
func (d *Descriptor) Request() (*httpclient.Request, error) {
	query, err := d.Params.Query()
	if err != nil {
		return nil, err
	}
	full := d.URL
	if query != "" {
		u, err := url.Parse(full)
		if err != nil {
			return nil, fmt.Errorf("apiclient: invalid url %q: %w", full, err)
		}
		if u.RawQuery != "" {
			u.RawQuery += "&" + query
		} else {
			u.RawQuery = query
		}
		full = u.String()
	}
	return &httpclient.Request{
		Method:  d.Method,
		URL:     full,
		Headers: d.Headers(),
		Body:    d.Body,
	}, nil
}

// BuildDescriptor is the default construction used when a client does not
// implement Builder. It joins the base URL and path and copies the client's
// default headers. Paths that are already absolute http(s) URLs are used as-is.
func BuildDescriptor(c Identity, method, path string) (*Descriptor, error) {
	full, err := JoinURL(c.BaseURL(), path)
	if err != nil {
		return nil, err
	}
	d := NewDescriptor(method, full)
	d.Path = path
	if def, ok := c.(Defaults); ok {
		for k, v := range def.DefaultHeaders() {
			d.SetHeader(k, v)
		}
	}
	return d, nil
}

// JoinURL joins base and path with exactly one slash and checks that the
// result is an absolute URL.
func JoinURL(base, path string) (string, error) {
	full := path
	if !isAbsolute(path) {
		if base == "" {
			return "", fmt.Errorf("apiclient: no base URL for relative path %q", path)
		}
		full = strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
	}
	u, err := url.Parse(full)
	if err != nil {
		return "", fmt.Errorf("apiclient: invalid url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("apiclient: url %q is not absolute", full)
	}
	return full, nil
}

func isAbsolute(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

func isAuthorizationHeader(key string) bool {
	return textproto.CanonicalMIMEHeaderKey(key) == "Authorization"
}
