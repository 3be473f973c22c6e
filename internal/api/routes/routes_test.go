package routes

import (
	"bytes"
	"cloud-chat-backend/internal/api"
	"cloud-chat-backend/internal/assistant"
	"cloud-chat-backend/internal/libraries"
	"cloud-chat-backend/internal/metrics"
	"cloud-chat-backend/internal/repo"
	"cloud-chat-backend/internal/storage"
	"cloud-chat-backend/internal/uploads"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	publicDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(publicDir, "index.html"), []byte("<h1>landing</h1>"), 0644); err != nil {
		t.Fatal(err)
	}
	disk, err := storage.NewDisk(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	hub := libraries.NewHub(nil)
	go hub.Run(ctx)

	app := api.NewServer(api.ServerOptions{AppName: "test", BodyLimit: 8 << 20})
	Register(app, Dependencies{
		Chat:      assistant.NewService(repo.NewChatRepository(100), assistant.WithMetrics(m), assistant.WithNotifier(hub)),
		Uploads:   uploads.NewService(disk, uploads.WithMetrics(m)),
		Hub:       hub,
		Gatherer:  registry,
		PublicDir: publicDir,
	})
	return app
}

func do(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, string) {
	t.Helper()
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp, string(body)
}

func TestPreflight(t *testing.T) {
	app := newTestApp(t)

	for _, path := range []string{"/chat", "/upload", "/anything"} {
		req := httptest.NewRequest(http.MethodOptions, path, nil)
		req.Header.Set("Origin", "https://example.com")
		req.Header.Set("Access-Control-Request-Method", "POST")

		resp, body := do(t, app, req)
		if resp.StatusCode != http.StatusOK {
			t.Errorf("%s: status = %d, want 200", path, resp.StatusCode)
		}
		if body != "" {
			t.Errorf("%s: body = %q, want empty", path, body)
		}
		if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
			t.Errorf("%s: Allow-Origin = %q", path, got)
		}
		if got := resp.Header.Get("Access-Control-Allow-Methods"); !strings.Contains(got, "DELETE") {
			t.Errorf("%s: Allow-Methods = %q", path, got)
		}
	}
}

func TestCORSHeadersOnRegularRequests(t *testing.T) {
	app := newTestApp(t)

	resp, _ := do(t, app, httptest.NewRequest(http.MethodGet, "/chat", nil))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Allow-Origin = %q", got)
	}
}

func TestLandingPage(t *testing.T) {
	app := newTestApp(t)

	resp, body := do(t, app, httptest.NewRequest(http.MethodGet, "/", nil))
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, "landing") {
		t.Errorf("GET / = %d %q", resp.StatusCode, body)
	}
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)

	resp, body := do(t, app, httptest.NewRequest(http.MethodGet, "/health", nil))
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, `"ok":true`) {
		t.Errorf("GET /health = %d %q", resp.StatusCode, body)
	}
}

func TestMetricsAfterChat(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewBufferString(`{"name":"a","message":"مرحبا"}`))
	req.Header.Set("Content-Type", "application/json")
	if resp, body := do(t, app, req); resp.StatusCode != http.StatusOK {
		t.Fatalf("POST /chat = %d %q", resp.StatusCode, body)
	}

	resp, body := do(t, app, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.Contains(body, `cloudchat_chat_auto_replies_total{source="keyword"} 1`) {
		t.Errorf("metrics missing auto reply counter:\n%s", body)
	}
}

func TestWebSocketRequiresUpgrade(t *testing.T) {
	app := newTestApp(t)

	resp, _ := do(t, app, httptest.NewRequest(http.MethodGet, "/ws", nil))
	if resp.StatusCode != http.StatusUpgradeRequired {
		t.Errorf("status = %d, want 426", resp.StatusCode)
	}
}

func TestUnknownRoute(t *testing.T) {
	app := newTestApp(t)

	resp, body := do(t, app, httptest.NewRequest(http.MethodGet, "/missing/route", nil))
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
	if !strings.Contains(body, "error") {
		t.Errorf("body = %q", body)
	}
}
