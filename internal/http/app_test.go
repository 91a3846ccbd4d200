package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/stretchr/testify/require"

	"warehouse/internal/config"
	"warehouse/internal/http/handlers"
	"warehouse/internal/repos"
	"warehouse/web"
)

func testConfig() config.Config {
	return config.Config{StoreBackend: "local", KVBackend: "sqlite", DBDSN: ":memory:"}
}

// newApp mirrors cmd/warehouse without the global rate limiter.
func newApp(t *testing.T, cfg config.Config) *fiber.App {
	t.Helper()
	st, closer, err := repos.OpenStore(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { closer.Close() })

	app := fiber.New(fiber.Config{Views: web.Engine(), ErrorHandler: handlers.ErrorHandler})
	app.Use(requestid.New())
	handlers.Routes(app, handlers.NewDeps(st, cfg), cfg)
	return app
}

type client struct {
	t   *testing.T
	app *fiber.App
	sid *http.Cookie
}

func newClient(t *testing.T) *client { return &client{t: t, app: newApp(t, testConfig())} }

// do sends a request, keeping the session cookie across calls.
func (c *client) do(method, path string, body any) (int, []byte) {
	c.t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(c.t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.sid != nil {
		req.AddCookie(c.sid)
	}
	resp, err := c.app.Test(req, -1)
	require.NoError(c.t, err)
	defer resp.Body.Close()
	for _, ck := range resp.Cookies() {
		if ck.Name == "sid" {
			c.sid = ck
		}
	}
	out, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	return resp.StatusCode, out
}

func (c *client) json(method, path string, body, into any) int {
	c.t.Helper()
	status, raw := c.do(method, path, body)
	if into != nil && len(raw) > 0 {
		require.NoError(c.t, json.Unmarshal(raw, into), string(raw))
	}
	return status
}

type apiError struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

type logEntry struct {
	Level  string         `json:"level"`
	Action string         `json:"action"`
	Status int            `json:"status"`
	Err    string         `json:"err"`
	Fields map[string]any `json:"fields"`
}

type lockedBuf struct {
	b  *bytes.Buffer
	mu *sync.Mutex
}

func (l *lockedBuf) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.Write(p)
}

func captureLogs(t *testing.T, fn func()) []logEntry {
	t.Helper()
	var buf bytes.Buffer
	var mu sync.Mutex
	oldW := log.Writer()
	oldFlags := log.Flags()
	log.SetOutput(&lockedBuf{b: &buf, mu: &mu})
	log.SetFlags(0)
	defer func() {
		log.SetOutput(oldW)
		log.SetFlags(oldFlags)
	}()

	fn()

	var entries []logEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var e logEntry
		if err := json.Unmarshal([]byte(strings.TrimSpace(line)), &e); err == nil {
			entries = append(entries, e)
		}
	}
	return entries
}

func findAction(entries []logEntry, action string) *logEntry {
	for i := range entries {
		if entries[i].Action == action {
			return &entries[i]
		}
	}
	return nil
}
