package server

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/conneroisu/landing/internal/api"
	"github.com/conneroisu/landing/internal/config"
	"github.com/conneroisu/landing/internal/mockapi"
	"github.com/conneroisu/landing/internal/testutils"
)

type testEnv struct {
	mock   *mockapi.Server
	server *Server
	url    string
}

func newTestEnv(t *testing.T, configure func(cfg *config.Config)) *testEnv {
	t.Helper()

	mock, baseURL := testutils.StartMockAPI(t, nil)

	cfg := testutils.CreateTestConfig(baseURL)
	if configure != nil {
		configure(cfg)
	}

	srv := New(cfg, api.NewClient(baseURL), nil)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		srv.Shutdown(context.Background())
		ts.Close()
	})

	return &testEnv{mock: mock, server: srv, url: ts.URL}
}

func get(t *testing.T, url string, header http.Header) (*http.Response, string) {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	for k, v := range header {
		req.Header[k] = v
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func find(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var found []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && match(n) {
			found = append(found, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return found
}

func hasClass(class string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		for _, c := range strings.Fields(attr(n, "class")) {
			if c == class {
				return true
			}
		}
		return false
	}
}

func parse(t *testing.T, content string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(content))
	require.NoError(t, err)
	return doc
}

// openPage fetches the shell and returns its live path.
func openPage(t *testing.T, env *testEnv) string {
	t.Helper()
	resp, body := get(t, env.url+"/", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	bodies := find(parse(t, body), func(n *html.Node) bool { return n.Data == "body" })
	require.Len(t, bodies, 1)
	live := attr(bodies[0], "data-live")
	require.True(t, strings.HasPrefix(live, "/ws?session="), live)
	return live
}

func dial(t *testing.T, env *testEnv, path string) *websocket.Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(env.url, "http")+path, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "") })
	return conn
}

func readMessage(t *testing.T, ctx context.Context, conn *websocket.Conn) UpdateMessage {
	t.Helper()
	_, data, err := conn.Read(ctx)
	require.NoError(t, err)

	var msg UpdateMessage
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

// settledSections reads live messages until every section has left loading.
func settledSections(t *testing.T, conn *websocket.Conn) map[string]*html.Node {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	settled := make(map[string]*html.Node)
	for len(settled) < 3 {
		msg := readMessage(t, ctx, conn)
		require.Equal(t, MessageSection, msg.Type)

		sections := find(parse(t, msg.Content), func(n *html.Node) bool { return n.Data == "section" })
		require.Len(t, sections, 1)
		assert.Equal(t, msg.Target, attr(sections[0], "id"))

		if attr(sections[0], "data-phase") != "loading" {
			settled[msg.Target] = sections[0]
		}
	}
	return settled
}

func TestIndexRendersLoadingShell(t *testing.T) {
	env := newTestEnv(t, nil)

	resp, body := get(t, env.url+"/", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/html; charset=utf-8", resp.Header.Get("Content-Type"))

	doc := parse(t, body)
	sections := find(doc, func(n *html.Node) bool { return n.Data == "section" })
	require.Len(t, sections, 3)
	for i, id := range []string{"posts", "users", "stats"} {
		assert.Equal(t, id, attr(sections[i], "id"))
		assert.Equal(t, "loading", attr(sections[i], "data-phase"))
	}

	assert.Empty(t, find(doc, hasClass("post-card")))
	assert.Empty(t, find(doc, hasClass("user-card")))

	roots := find(doc, func(n *html.Node) bool { return n.Data == "html" })
	require.Len(t, roots, 1)
	assert.Equal(t, "es", attr(roots[0], "lang"))

	assert.Equal(t, 1, env.server.Sessions())
}

func TestIndexLocale(t *testing.T) {
	tests := []struct {
		name           string
		locale         string
		acceptLanguage string
		expected       string
	}{
		{"fixed spanish ignores browser", "es", "en-US", "es"},
		{"fixed english", "en", "", "en"},
		{"auto follows browser", "auto", "en-GB,en;q=0.9", "en"},
		{"auto without header", "auto", "", "es"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, func(cfg *config.Config) { cfg.Page.Locale = tt.locale })

			header := http.Header{}
			if tt.acceptLanguage != "" {
				header.Set("Accept-Language", tt.acceptLanguage)
			}
			_, body := get(t, env.url+"/", header)

			roots := find(parse(t, body), func(n *html.Node) bool { return n.Data == "html" })
			require.Len(t, roots, 1)
			assert.Equal(t, tt.expected, attr(roots[0], "lang"))
		})
	}
}

func TestLiveSessionPushesSections(t *testing.T) {
	env := newTestEnv(t, nil)
	conn := dial(t, env, openPage(t, env))

	settled := settledSections(t, conn)

	assert.Equal(t, "success", attr(settled["posts"], "data-phase"))
	assert.Len(t, find(settled["posts"], hasClass("post-card")), 6)

	assert.Equal(t, "success", attr(settled["users"], "data-phase"))
	assert.Len(t, find(settled["users"], hasClass("user-card")), 8)

	assert.Equal(t, "ready", attr(settled["stats"], "data-phase"))
	var values []string
	for _, figure := range find(settled["stats"], func(n *html.Node) bool { return n.Data == "h3" }) {
		values = append(values, attr(figure, "data-value"))
	}
	assert.Equal(t, []string{"100", "10", "500", "5000"}, values)

	// Articles and stats both read /posts concurrently.
	assert.ElementsMatch(t, []string{"_limit=6", "_limit=100"}, env.mock.Queries(api.ResourcePosts))
	assert.ElementsMatch(t, []string{"_limit=8", "_limit=10"}, env.mock.Queries(api.ResourceUsers))
}

func TestLiveSessionPushesErrors(t *testing.T) {
	env := newTestEnv(t, nil)
	env.mock.SetFault(api.ResourceUsers, mockapi.Fault{Status: http.StatusInternalServerError})

	conn := dial(t, env, openPage(t, env))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for {
		msg := readMessage(t, ctx, conn)
		if msg.Target != "users" {
			continue
		}
		sections := find(parse(t, msg.Content), func(n *html.Node) bool { return n.Data == "section" })
		require.Len(t, sections, 1)
		if attr(sections[0], "data-phase") == "loading" {
			continue
		}

		assert.Equal(t, "error", attr(sections[0], "data-phase"))
		alerts := find(sections[0], hasClass("error"))
		require.Len(t, alerts, 1)
		assert.Equal(t, "Error al cargar los usuarios", alerts[0].FirstChild.Data)
		return
	}
}

func TestWebSocketUnknownSession(t *testing.T) {
	env := newTestEnv(t, nil)

	resp, _ := get(t, env.url+"/ws?session=missing", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestWebSocketSessionIsClaimedOnce(t *testing.T) {
	env := newTestEnv(t, nil)
	live := openPage(t, env)
	dial(t, env, live)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, resp, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(env.url, "http")+live, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestClosingSocketUnmountsPage(t *testing.T) {
	env := newTestEnv(t, nil)
	conn := dial(t, env, openPage(t, env))
	require.Equal(t, 1, env.server.Sessions())

	require.NoError(t, conn.Close(websocket.StatusNormalClosure, "bye"))

	assert.Eventually(t, func() bool { return env.server.Sessions() == 0 }, 5*time.Second, 10*time.Millisecond)
}

func TestAPISections(t *testing.T) {
	env := newTestEnv(t, nil)

	resp, body := get(t, env.url+"/api/sections", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var report struct {
		ID    string `json:"id"`
		Posts struct {
			Phase string        `json:"phase"`
			Items []api.Article `json:"items"`
		} `json:"posts"`
		Users struct {
			Phase string     `json:"phase"`
			Items []api.User `json:"items"`
		} `json:"users"`
		Stats struct {
			Phase    string         `json:"phase"`
			Snapshot map[string]int `json:"snapshot"`
		} `json:"stats"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &report))

	assert.NotEmpty(t, report.ID)
	assert.Equal(t, "success", report.Posts.Phase)
	assert.Len(t, report.Posts.Items, 6)
	assert.Equal(t, "success", report.Users.Phase)
	assert.Len(t, report.Users.Items, 8)
	assert.Equal(t, "ready", report.Stats.Phase)
	assert.Equal(t, map[string]int{"posts": 100, "users": 10, "comments": 500, "photos": 5000}, report.Stats.Snapshot)

	assert.Equal(t, 0, env.server.Sessions(), "API pages are not live sessions")
}

func TestAPISectionsTimeout(t *testing.T) {
	env := newTestEnv(t, func(cfg *config.Config) { cfg.Server.RenderTimeout = 100 * time.Millisecond })
	env.mock.SetFault(api.ResourcePhotos, mockapi.Fault{Delay: 5 * time.Second})

	resp, body := get(t, env.url+"/api/sections", nil)
	require.Equal(t, http.StatusGatewayTimeout, resp.StatusCode)

	var report struct {
		Stats struct {
			Phase string `json:"phase"`
		} `json:"stats"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &report))
	assert.Equal(t, "loading", report.Stats.Phase)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, nil)
	openPage(t, env)

	resp, body := get(t, env.url+"/health", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var health map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(body), &health))
	assert.Equal(t, "healthy", health["status"])
	assert.NotEmpty(t, health["version"])
	assert.Equal(t, float64(1), health["sessions"])
	assert.Equal(t, float64(0), health["clients"])
}

func TestStaticEmbedded(t *testing.T) {
	env := newTestEnv(t, nil)

	resp, body := get(t, env.url+"/static/styles.css", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "scroll-behavior: smooth")

	resp, body = get(t, env.url+"/static/live.js", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "WebSocket")

	resp, _ = get(t, env.url+"/static/missing.css", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestStaticDirReload(t *testing.T) {
	dir := testutils.CreateStaticDir(t, map[string]string{"styles.css": "body { color: red; }"})
	stylesheet := filepath.Join(dir, "styles.css")

	mock, baseURL := testutils.StartMockAPI(t, nil)
	cfg := testutils.CreateTestConfig(baseURL)
	cfg.Server.StaticDir = dir

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	srv := New(cfg, api.NewClient(baseURL), nil)
	served := make(chan error, 1)
	go func() { served <- srv.Serve(ctx, listener) }()
	t.Cleanup(func() {
		cancel()
		<-served
	})

	env := &testEnv{mock: mock, server: srv, url: "http://" + listener.Addr().String()}

	require.Eventually(t, func() bool {
		resp, err := http.Get(env.url + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 10*time.Millisecond)

	resp, body := get(t, env.url+"/static/styles.css", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "body { color: red; }", body)

	conn := dial(t, env, openPage(t, env))
	settledSections(t, conn)

	require.NoError(t, os.WriteFile(stylesheet, []byte("body { color: blue; }"), 0o644))

	readCtx, readCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer readCancel()
	for {
		msg := readMessage(t, readCtx, conn)
		if msg.Type == MessageReload {
			break
		}
	}
}

func TestShutdownUnmountsSessions(t *testing.T) {
	env := newTestEnv(t, nil)
	openPage(t, env)
	openPage(t, env)
	require.Equal(t, 2, env.server.Sessions())

	require.NoError(t, env.server.Shutdown(context.Background()))
	assert.Equal(t, 0, env.server.Sessions())
	assert.NoError(t, env.server.Shutdown(context.Background()), "shutdown is idempotent")
}
