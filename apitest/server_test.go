package apitest

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
)

func TestServer_JSONAndRecord(t *testing.T) {
	srv := NewServer(t)
	srv.JSON(http.MethodGet, "/value", http.StatusOK, map[string]int{"value": 42})

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/value?x=1", nil)
	req.Header.Set("X-Test", "yes")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || strings.TrimSpace(string(body)) != `{"value":42}` {
		t.Errorf("got %d %q", resp.StatusCode, body)
	}

	last, ok := srv.Last()
	if !ok {
		t.Fatal("expected a recorded request")
	}
	if last.Path != "/value" || last.Query.Get("x") != "1" || last.Header.Get("X-Test") != "yes" {
		t.Errorf("unexpected record %+v", last)
	}
}

func TestServer_RawAndEcho(t *testing.T) {
	srv := NewServer(t)
	srv.Raw(http.MethodGet, "/broken", http.StatusNotFound, "text/plain", "nope")
	srv.Echo(http.MethodPost, "/echo")

	resp, err := http.Get(srv.URL + "/broken")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound || string(body) != "nope" {
		t.Errorf("got %d %q", resp.StatusCode, body)
	}

	resp, err = http.Post(srv.URL+"/echo?a=b", "application/json", strings.NewReader(`{"k":1}`))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	var echo EchoResponse
	if err := json.NewDecoder(resp.Body).Decode(&echo); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if echo.Method != http.MethodPost || echo.Query["a"] != "b" || echo.Body != `{"k":1}` {
		t.Errorf("unexpected echo %+v", echo)
	}
	if echo.Headers["Content-Type"] != "application/json" {
		t.Errorf("got content type %q", echo.Headers["Content-Type"])
	}

	if got := len(srv.Requests()); got != 2 {
		t.Errorf("got %d recorded requests, want 2", got)
	}
}
