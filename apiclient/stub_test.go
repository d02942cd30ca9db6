package apiclient

import (
	"context"
	"sync"

	"github.com/kbukum/apikit/httpclient"
	"github.com/kbukum/apikit/params"
)

type valueResp struct {
	Value int `json:"value"`
}

type apiErr struct {
	Message string `json:"message"`
}

// stubTransport answers every request with a fixed response or error.
type stubTransport struct {
	status  int
	body    string
	headers map[string]string
	err     error

	mu       sync.Mutex
	requests []*httpclient.Request
}

func (s *stubTransport) Send(_ context.Context, req *httpclient.Request) (*httpclient.Response, error) {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return &httpclient.Response{StatusCode: s.status, Headers: s.headers, Body: []byte(s.body)}, nil
}

func (s *stubTransport) last() *httpclient.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return nil
	}
	return s.requests[len(s.requests)-1]
}

func (s *stubTransport) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

// minimalClient implements only Identity.
type minimalClient struct {
	base      string
	transport Transport
}

func (c *minimalClient) BaseURL() string      { return c.base }
func (c *minimalClient) Transport() Transport { return c.transport }

// defaultsClient adds Defaults.
type defaultsClient struct {
	minimalClient
	headers map[string]string
	params  params.Set
}

func (c *defaultsClient) DefaultHeaders() map[string]string { return c.headers }
func (c *defaultsClient) DefaultParams() params.Set         { return c.params }

// modifyingClient adds a Modifier to defaultsClient.
type modifyingClient struct {
	defaultsClient
	mod Modifier
}

func (c *modifyingClient) Modify(ctx context.Context, d *Descriptor) error {
	return c.mod.Modify(ctx, d)
}

func newStub(status int, body string) (*stubTransport, *minimalClient) {
	st := &stubTransport{status: status, body: body}
	return st, &minimalClient{base: "https://api.example.com/v1", transport: st}
}
