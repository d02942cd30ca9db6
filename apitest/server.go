package apitest

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// Recorded is a request received by the server.
type Recorded struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
}

// Server is a stub API server. Register routes before issuing requests.
type Server struct {
	*httptest.Server
	engine *gin.Engine

	mu       sync.Mutex
	requests []Recorded
}

// NewServer starts a server that is closed when the test ends.
func NewServer(t testing.TB) *Server {
	t.Helper()
	s := &Server{engine: gin.New()}
	s.engine.Use(s.record)
	s.Server = httptest.NewServer(s.engine)
	t.Cleanup(s.Close)
	return s
}

func (s *Server) record(c *gin.Context) {
	var body []byte
	if c.Request.Body != nil {
		body, _ = io.ReadAll(c.Request.Body)
		c.Request.Body = io.NopCloser(bytes.NewReader(body))
	}
	s.mu.Lock()
	s.requests = append(s.requests, Recorded{
		Method: c.Request.Method,
		Path:   c.Request.URL.Path,
		Query:  c.Request.URL.Query(),
		Header: c.Request.Header.Clone(),
		Body:   body,
	})
	s.mu.Unlock()
	c.Next()
}

// Engine returns the gin engine for custom routes.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Handle registers a gin handler.
func (s *Server) Handle(method, path string, h gin.HandlerFunc) {
	s.engine.Handle(method, path, h)
}

// JSON registers a route answering status with body encoded as JSON.
func (s *Server) JSON(method, path string, status int, body any) {
	s.engine.Handle(method, path, func(c *gin.Context) {
		c.JSON(status, body)
	})
}

// Raw registers a route answering status with body verbatim.
func (s *Server) Raw(method, path string, status int, contentType, body string) {
	s.engine.Handle(method, path, func(c *gin.Context) {
		c.Data(status, contentType, []byte(body))
	})
}

// Echo registers a route that answers 200 with a JSON description of the
// request: method, path, query, headers and body.
func (s *Server) Echo(method, path string) {
	s.engine.Handle(method, path, func(c *gin.Context) {
		body, _ := io.ReadAll(c.Request.Body)
		headers := make(map[string]string, len(c.Request.Header))
		for k := range c.Request.Header {
			headers[k] = c.Request.Header.Get(k)
		}
		query := make(map[string]string)
		for k := range c.Request.URL.Query() {
			query[k] = c.Query(k)
		}
		c.JSON(http.StatusOK, EchoResponse{
			Method:  c.Request.Method,
			Path:    c.Request.URL.Path,
			Query:   query,
			Headers: headers,
			Body:    string(body),
		})
	})
}

// EchoResponse is the body written by Echo routes.
type EchoResponse struct {
	Method  string            `json:"method"`
	Path    string            `json:"path"`
	Query   map[string]string `json:"query"`
	Headers map[string]string `json:"headers"`
	Body    string            `json:"body"`
}

// Requests returns a copy of every recorded request in arrival order.
func (s *Server) Requests() []Recorded {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Recorded, len(s.requests))
	copy(out, s.requests)
	return out
}

// Last returns the most recent request.
func (s *Server) Last() (Recorded, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return Recorded{}, false
	}
	return s.requests[len(s.requests)-1], true
}
