package webtui

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	s, err := NewServer(ServerConfig{Addr: "127.0.0.1:0", Logger: zerolog.Nop()})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func TestNewServer_RequiresAddr(t *testing.T) {
	if _, err := NewServer(ServerConfig{}); err == nil {
		t.Fatalf("expected error for empty addr")
	}
}

func TestHandler_Pages(t *testing.T) {
	ts := newTestServer(t)
	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}}

	res, err := client.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusFound || res.Header.Get("Location") != "/terminal" {
		t.Fatalf("expected redirect to /terminal; got %d %q", res.StatusCode, res.Header.Get("Location"))
	}

	for path, want := range map[string]string{
		"/terminal":       `<div id="terminal">`,
		"/static/app.js":  "/ws",
		"/static/app.css": "#terminal",
	} {
		res, err := client.Get(ts.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		b, _ := io.ReadAll(res.Body)
		res.Body.Close()
		if res.StatusCode != http.StatusOK || !strings.Contains(string(b), want) {
			t.Fatalf("GET %s: status %d, missing %q", path, res.StatusCode, want)
		}
	}
}

func TestHandleWS_RejectsPlainHTTP(t *testing.T) {
	ts := newTestServer(t)

	res, err := http.Get(ts.URL + "/ws")
	if err != nil {
		t.Fatalf("GET /ws: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 without upgrade; got %d", res.StatusCode)
	}
}

func TestControlMessage(t *testing.T) {
	tests := []struct {
		name string
		mt   int
		data string
		want wsMsg
		ok   bool
	}{
		{"resize", websocket.TextMessage, `{"type":"Resize","cols":100,"rows":30}`, wsMsg{Type: "resize", Cols: 100, Rows: 30}, true},
		{"keystroke", websocket.TextMessage, "q", wsMsg{}, false},
		{"brace keystroke", websocket.TextMessage, "{", wsMsg{}, false},
		{"binary json", websocket.BinaryMessage, `{"type":"resize"}`, wsMsg{}, false},
		{"no type", websocket.TextMessage, `{"cols":1}`, wsMsg{Cols: 1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := controlMessage(tt.mt, []byte(tt.data))
			if ok != tt.ok || (ok && got != tt.want) {
				t.Fatalf("controlMessage(%q) = %+v, %v; want %+v, %v", tt.data, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestSameOrigin(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "http://localhost:8090/ws", nil)
	if !sameOrigin(r) {
		t.Fatalf("missing origin should be allowed")
	}
	r.Header.Set("Origin", "http://localhost:8090")
	if !sameOrigin(r) {
		t.Fatalf("same origin should be allowed")
	}
	r.Header.Set("Origin", "http://evil.example/?x=://localhost:8090x")
	if sameOrigin(r) {
		t.Fatalf("foreign origin should be rejected")
	}
}
