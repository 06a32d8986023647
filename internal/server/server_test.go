package server

import (
	"bufio"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/leapstack-labs/haiku/internal/engine"
	"github.com/leapstack-labs/haiku/internal/server/notifier"
	"github.com/leapstack-labs/haiku/internal/state"
	"github.com/leapstack-labs/haiku/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, store *state.SQLiteStore) (*Server, *httptest.Server) {
	t.Helper()
	logger := testutil.NewTestLogger(t)
	eng, err := engine.New(engine.Config{Logger: logger})
	require.NoError(t, err)

	s := NewServer(Config{Engine: eng, Store: store, Logger: logger})
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func postSource(t *testing.T, ts *httptest.Server, endpoint, src string) *http.Response {
	t.Helper()
	body, err := json.Marshal(SourceRequest{Path: "main.hk", Source: src})
	require.NoError(t, err)
	resp, err := http.Post(ts.URL+endpoint, "application/json", strings.NewReader(string(body)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestHealthz(t *testing.T) {
	_, ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAPITokens(t *testing.T) {
	_, ts := newTestServer(t, nil)

	resp := postSource(t, ts, "/api/tokens", "let x = 42;")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got TokensResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "main.hk", got.Path)
	require.GreaterOrEqual(t, len(got.Tokens), 5)
	assert.Equal(t, "let", got.Tokens[0].Type)
	assert.Equal(t, "IDENT", got.Tokens[1].Type)
	assert.Equal(t, "INT", got.Tokens[3].Type)
	assert.Equal(t, "42", got.Tokens[3].Value)
	assert.Equal(t, 1, got.Tokens[3].Line)
	assert.Equal(t, 9, got.Tokens[3].Column)
	assert.Empty(t, got.Diagnostics)
}

func TestAPIParseSyntaxError(t *testing.T) {
	_, ts := newTestServer(t, nil)

	resp := postSource(t, ts, "/api/parse", "fn main() {\n    let = 1;\n}\n")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got UnitResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.Len(t, got.Diagnostics, 1)
	assert.Equal(t, "syntax", got.Diagnostics[0].Kind)
	assert.Equal(t, 2, got.Diagnostics[0].Line)
	assert.Empty(t, got.IR)
}

func TestAPIIR(t *testing.T) {
	_, ts := newTestServer(t, nil)

	resp := postSource(t, ts, "/api/ir", "fn main() -> i32 = 1 + 2;\n")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got UnitResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Contains(t, got.Tree, "FuncDecl")
	assert.Contains(t, got.IR, "fn #0 main() -> i32")
	assert.Contains(t, got.IR, "return (+ 1 2)")
	assert.Empty(t, got.Diagnostics)
}

func TestAPIBadRequest(t *testing.T) {
	_, ts := newTestServer(t, nil)

	resp, err := http.Post(ts.URL+"/api/ir", "application/json", strings.NewReader("{"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPIRunsRequireStore(t *testing.T) {
	_, ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/api/runs")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPIRuns(t *testing.T) {
	ctx := context.Background()
	store := state.NewSQLiteStore(testutil.NewTestLogger(t))
	require.NoError(t, store.Open(ctx, ":memory:"))
	t.Cleanup(func() { _ = store.Close() })

	run, err := store.CreateRun(ctx, []string{"src"})
	require.NoError(t, err)
	require.NoError(t, store.RecordFiles(ctx, run.ID, []state.FileResult{{
		Path:   "src/broken.hk",
		Hash:   "ab",
		Errors: 1,
		Diagnostics: []state.Diagnostic{
			{Path: "src/broken.hk", Kind: "syntax", Severity: "error", Line: 2, Column: 9, Start: 21, End: 22, Message: "expected variable name after `let`"},
		},
	}}))
	_, err = store.CompleteRun(ctx, run.ID)
	require.NoError(t, err)

	_, ts := newTestServer(t, store)

	resp, err := http.Get(ts.URL + "/api/runs")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var runs []RunResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&runs))
	require.Len(t, runs, 1)
	assert.Equal(t, run.ID, runs[0].ID)
	assert.Equal(t, "failed", runs[0].Status)
	assert.Equal(t, 1, runs[0].Errors)

	detail, err := http.Get(ts.URL + "/api/runs/" + run.ID[:8])
	require.NoError(t, err)
	defer detail.Body.Close()
	require.Equal(t, http.StatusOK, detail.StatusCode)

	var got RunResponse
	require.NoError(t, json.NewDecoder(detail.Body).Decode(&got))
	require.Len(t, got.Diagnostics, 1)
	assert.Equal(t, "expected variable name after `let`", got.Diagnostics[0].Message)

	missing, err := http.Get(ts.URL + "/api/runs/zzzz")
	require.NoError(t, err)
	defer missing.Body.Close()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)

	bad, err := http.Get(ts.URL + "/api/runs?limit=x")
	require.NoError(t, err)
	defer bad.Body.Close()
	assert.Equal(t, http.StatusBadRequest, bad.StatusCode)
}

func TestPlaygroundIndex(t *testing.T) {
	_, ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
}

func TestPlaygroundCompile(t *testing.T) {
	_, ts := newTestServer(t, nil)

	tests := []struct {
		mode string
		want string
	}{
		{mode: "tokens", want: "INT"},
		{mode: "ast", want: "FuncDecl"},
		{mode: "ir", want: "return (+ 1 2)"},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			body := `{"source":"fn main() -> i32 = 1 + 2;","mode":"` + tt.mode + `"}`
			req, err := http.NewRequest(http.MethodPost, ts.URL+"/playground/compile", strings.NewReader(body))
			require.NoError(t, err)
			req.Header.Set("Content-Type", "application/json")

			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			var sb strings.Builder
			scanner := bufio.NewScanner(resp.Body)
			for scanner.Scan() {
				sb.WriteString(scanner.Text())
				sb.WriteByte('\n')
			}
			out := sb.String()
			assert.Contains(t, out, "datastar-patch-signals")
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestPlaygroundEvents(t *testing.T) {
	s, ts := newTestServer(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/playground/events", nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Eventually(t, func() bool {
		return s.Notifier().Listeners() == 1
	}, 5*time.Second, 10*time.Millisecond)

	s.Notifier().Broadcast(notifier.Event{Path: "src/main.hk", At: time.Now()})

	scanner := bufio.NewScanner(resp.Body)
	found := false
	for scanner.Scan() {
		if strings.Contains(scanner.Text(), "src/main.hk") {
			found = true
			break
		}
	}
	assert.True(t, found)
}

func TestServeListenerShutsDown(t *testing.T) {
	eng, err := engine.New(engine.Config{})
	require.NoError(t, err)
	s := NewServer(Config{Engine: eng})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ServeListener(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop after cancel")
	}
}

func TestServeListenerWatch(t *testing.T) {
	dir := testutil.SourceTree(t, map[string]string{"main.hk": "fn main() {}"})
	eng, err := engine.New(engine.Config{})
	require.NoError(t, err)
	s := NewServer(Config{Engine: eng, WatchRoots: []string{dir}})

	events := s.Notifier().Subscribe()
	defer s.Notifier().Unsubscribe(events)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ServeListener(ctx, ln) }()

	var got notifier.Event
	require.Eventually(t, func() bool {
		testutil.WriteFile(t, filepath.Join(dir, "main.hk"), "fn main() = 1;")
		select {
		case got = <-events:
			return true
		default:
			return false
		}
	}, 5*time.Second, 50*time.Millisecond)
	assert.True(t, strings.HasSuffix(got.Path, "main.hk"))

	cancel()
	require.NoError(t, <-done)
}
