package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"social_post_generator/generator"
)

type stubLLM struct {
	mu      sync.Mutex
	reply   string
	err     error
	prompts []generator.Prompt
}

func (s *stubLLM) Complete(_ context.Context, p generator.Prompt) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = append(s.prompts, p)
	return s.reply, s.err
}

func (s *stubLLM) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.prompts)
}

type panicGen struct{}

func (panicGen) Generate(context.Context, generator.Request) ([]generator.Post, error) {
	panic("boom")
}

func (panicGen) DefaultCount() int { return generator.DefaultCount }

func newTestServer(t *testing.T, gen Generator) *httptest.Server {
	t.Helper()
	srv, err := New(gen)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return ts
}

func newAgentServer(t *testing.T, llm *stubLLM) *httptest.Server {
	t.Helper()
	agent, err := generator.NewAgent(llm, generator.AgentConfig{})
	if err != nil {
		t.Fatalf("NewAgent: %v", err)
	}
	return newTestServer(t, agent)
}

func post(t *testing.T, ts *httptest.Server, body string) (int, string) {
	t.Helper()
	resp, err := http.Post(ts.URL+GeneratePath, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("content-type = %q", ct)
	}
	return resp.StatusCode, strings.TrimSpace(string(data))
}

func TestNewRequiresGenerator(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Fatal("expected error")
	}
}

func TestGenerateTopicRequired(t *testing.T) {
	llm := &stubLLM{reply: `{"posts":[]}`}
	ts := newAgentServer(t, llm)

	bodies := []string{
		`{}`,
		`{"topic":""}`,
		`{"topic":7}`,
		`{"topic":null,"platforms":["x"]}`,
		`{"Topic":"Summer Sale"}`,
		`[]`,
		`5`,
		`"Summer Sale"`,
	}
	for _, body := range bodies {
		status, got := post(t, ts, body)
		if status != http.StatusBadRequest || got != `{"error":"Topic is required"}` {
			t.Errorf("body %s: status %d body %s", body, status, got)
		}
	}
	if llm.calls() != 0 {
		t.Fatalf("upstream called %d times", llm.calls())
	}
}

func TestGenerateSummerSale(t *testing.T) {
	llm := &stubLLM{reply: `{"posts":[{"platform":"instagram","caption":"Get ready for our Summer Sale!","hashtags":["sale","summer"]}]}`}
	ts := newAgentServer(t, llm)

	status, body := post(t, ts, `{"topic":"Summer Sale"}`)
	if status != http.StatusOK {
		t.Fatalf("status = %d body %s", status, body)
	}
	var resp generator.Response
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Posts) != 1 {
		t.Fatalf("posts = %#v", resp.Posts)
	}
	p := resp.Posts[0]
	if p.Platform != "instagram" || p.Caption != "Get ready for our Summer Sale!" || strings.Join(p.Hashtags, ",") != "sale,summer" {
		t.Fatalf("post = %#v", p)
	}
	if user := llm.prompts[0].User; !strings.Contains(user, "Summer Sale") || !strings.Contains(user, "instagram") {
		t.Fatalf("prompt = %s", user)
	}
}

func TestGenerateNonArrayPlatformsDefault(t *testing.T) {
	llm := &stubLLM{reply: `{"posts":[]}`}
	ts := newAgentServer(t, llm)

	status, _ := post(t, ts, `{"topic":"t","platforms":"facebook"}`)
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if user := llm.prompts[0].User; !strings.Contains(user, "platforms: instagram.") {
		t.Fatalf("prompt = %s", user)
	}
}

func TestGenerateEmptyPlatformsKept(t *testing.T) {
	llm := &stubLLM{reply: `{"posts":[]}`}
	ts := newAgentServer(t, llm)

	status, _ := post(t, ts, `{"topic":"t","platforms":[]}`)
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if user := llm.prompts[0].User; strings.Contains(user, "instagram.") || strings.Contains(user, "platforms:") {
		t.Fatalf("prompt = %s", user)
	}
}

func TestGenerateDegradesToEmptyPosts(t *testing.T) {
	for _, reply := range []string{
		"I'm sorry, I can't do that.",
		`{"items":[]}`,
		`{"posts":{"a":1}}`,
		``,
	} {
		ts := newAgentServer(t, &stubLLM{reply: reply})
		status, body := post(t, ts, `{"topic":"t"}`)
		if status != http.StatusOK || body != `{"posts":[]}` {
			t.Errorf("reply %q: status %d body %s", reply, status, body)
		}
	}
}

func TestGenerateUpstreamError(t *testing.T) {
	ts := newAgentServer(t, &stubLLM{err: errors.New("dial tcp: connection refused")})

	status, body := post(t, ts, `{"topic":"t"}`)
	if status != http.StatusInternalServerError || body != `{"error":"dial tcp: connection refused"}` {
		t.Fatalf("status %d body %s", status, body)
	}
}

func TestGenerateMalformedBody(t *testing.T) {
	llm := &stubLLM{}
	ts := newAgentServer(t, llm)

	for _, in := range []string{`{"topic":`, `null`} {
		status, body := post(t, ts, in)
		if status != http.StatusInternalServerError || !strings.Contains(body, `"error"`) {
			t.Fatalf("body %s: status %d body %s", in, status, body)
		}
	}
	if llm.calls() != 0 {
		t.Fatalf("upstream called %d times", llm.calls())
	}
}

func TestGeneratePanicRecovered(t *testing.T) {
	ts := newTestServer(t, panicGen{})

	status, body := post(t, ts, `{"topic":"t"}`)
	if status != http.StatusInternalServerError || body != `{"error":"Internal server error"}` {
		t.Fatalf("status %d body %s", status, body)
	}
}

func TestGenerateMethodNotAllowed(t *testing.T) {
	ts := newAgentServer(t, &stubLLM{})

	resp, err := http.Get(ts.URL + GeneratePath)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed || resp.Header.Get("Allow") != http.MethodPost {
		t.Fatalf("status %d allow %q", resp.StatusCode, resp.Header.Get("Allow"))
	}
}

func TestStaticAndAuxRoutes(t *testing.T) {
	ts := newAgentServer(t, &stubLLM{})

	cases := []struct {
		path   string
		status int
		want   string
	}{
		{"/", http.StatusOK, "AI Social Media Post Generator"},
		{"/assets/app.js", http.StatusOK, "/api/social/generate"},
		{"/healthz", http.StatusOK, `"status":"ok"`},
		{"/metrics", http.StatusOK, "social_post_generator_http_requests_total"},
		{"/api/unknown", http.StatusNotFound, "not found"},
	}
	for _, tc := range cases {
		resp, err := http.Get(ts.URL + tc.path)
		if err != nil {
			t.Fatalf("GET %s: %v", tc.path, err)
		}
		data, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		if resp.StatusCode != tc.status || !strings.Contains(string(data), tc.want) {
			t.Errorf("GET %s: status %d, body missing %q", tc.path, resp.StatusCode, tc.want)
		}
	}
}

func TestRequestIDHeader(t *testing.T) {
	ts := newAgentServer(t, &stubLLM{})

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if got := resp.Header.Get(RequestIDHeader); got != "abc-123" {
		t.Fatalf("request id = %q", got)
	}

	resp, err = http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.Header.Get(RequestIDHeader) == "" {
		t.Fatal("request id not generated")
	}
}
