package cli

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stockdesk/stockdesk/internal/config"
)

type recorded struct {
	method string
	path   string
	query  string
	body   string
	auth   string
}

// fakeBackend serves canned responses keyed by "METHOD /path" and records every request.
type fakeBackend struct {
	*httptest.Server

	mu     sync.Mutex
	routes map[string]string
	status map[string]int
	calls  []recorded
}

func newFakeBackend(t *testing.T, routes map[string]string) *fakeBackend {
	t.Helper()
	b := &fakeBackend{routes: routes, status: map[string]int{}}
	b.Server = httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(b.Close)
	return b
}

func (b *fakeBackend) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	key := r.Method + " " + r.URL.Path

	b.mu.Lock()
	b.calls = append(b.calls, recorded{
		method: r.Method, path: r.URL.Path, query: r.URL.RawQuery,
		body: string(body), auth: r.Header.Get("Authorization"),
	})
	resp, ok := b.routes[key]
	code := b.status[key]
	b.mu.Unlock()

	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"no route"}`))
		return
	}
	if code != 0 {
		w.WriteHeader(code)
	} else if resp == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	_, _ = w.Write([]byte(resp))
}

func (b *fakeBackend) Calls() []recorded {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]recorded(nil), b.calls...)
}

// setupCLI isolates the user config directory and the global config.
func setupCLI(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("STOCKDESK_HOME", home)
	for _, k := range []string{
		"STOCKDESK_API_URL", "STOCKDESK_TOKEN", "STOCKDESK_PROJECT_DIR",
		"STOCKDESK_OUTPUT_FORMAT", "STOCKDESK_LOG_FILE", "STOCKDESK_TIMEOUT",
	} {
		t.Setenv(k, "")
	}
	t.Setenv("STOCKDESK_LOG_LEVEL", "error")
	config.ResetGlobalConfigForTest()
	t.Cleanup(config.ResetGlobalConfigForTest)
	return home
}

// execute runs the root command against baseURL and returns everything written.
// Each run starts from a fresh global config, as a new process would.
func execute(t *testing.T, baseURL, stdin string, args ...string) (string, error) {
	t.Helper()
	config.ResetGlobalConfigForTest()
	cmd := NewRootCmd("test")
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	if baseURL != "" {
		args = append([]string{"--api-url", baseURL}, args...)
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}
