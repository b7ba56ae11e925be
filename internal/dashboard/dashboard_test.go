package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/dviselman/pconsole/internal/assistant"
	"github.com/dviselman/pconsole/internal/batches"
	"github.com/dviselman/pconsole/internal/dataflows"
	"github.com/dviselman/pconsole/internal/datasets"
	"github.com/dviselman/pconsole/internal/db"
	"github.com/dviselman/pconsole/internal/dictionary"
	"github.com/dviselman/pconsole/internal/llm"
	"github.com/dviselman/pconsole/internal/segments"
)

type fakeDatasets struct {
	stats *datasets.Stats
	err   error
}

func (f fakeDatasets) Stats(ctx context.Context) (*datasets.Stats, error) { return f.stats, f.err }

type fakeBatches struct {
	stats *batches.Stats
	err   error
}

func (f fakeBatches) Stats(ctx context.Context) (*batches.Stats, error) { return f.stats, f.err }

type fakeSegments struct {
	stats *segments.Stats
	err   error
}

func (f fakeSegments) Stats(ctx context.Context) (*segments.Stats, error) { return f.stats, f.err }

type fakeFlows struct {
	stats *dataflows.Stats
	err   error
}

func (f fakeFlows) Stats(ctx context.Context) (*dataflows.Stats, error) { return f.stats, f.err }

type fakeDictStatus struct {
	status dictionary.CacheStatus
}

func (f fakeDictStatus) Status() dictionary.CacheStatus { return f.status }

type fixedProvider struct {
	reply string
}

func (p fixedProvider) Name() string { return "fixed" }

func (p fixedProvider) Complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	return &llm.Response{Content: p.reply, Model: "fixed-model"}, nil
}

func setupRouter(d *Dashboard) chi.Router {
	r := chi.NewRouter()
	d.RegisterRoutes(r)
	return r
}

func dialChat(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/chat"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestStatsEndpoint(t *testing.T) {
	generated := time.Now().Add(-time.Hour)
	d := New(Sources{
		Datasets:  fakeDatasets{stats: &datasets.Stats{Total: 12, TableEnabled: 7}},
		Batches:   fakeBatches{stats: &batches.Stats{Total: 40, ByStatus: map[string]int{"success": 38}}},
		Segments:  fakeSegments{stats: &segments.Stats{Total: 9}},
		Dataflows: fakeFlows{stats: &dataflows.Stats{Total: 4, Enabled: 3, Disabled: 1}},
		Dictionary: fakeDictStatus{status: dictionary.CacheStatus{
			Present: true, GeneratedAt: generated, TotalSchemas: 5, TotalFields: 320,
		}},
	}, nil)
	r := setupRouter(d)

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/stats", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var stats statsResponse
	if err := json.NewDecoder(w.Body).Decode(&stats); err != nil {
		t.Fatalf("decoding stats: %v", err)
	}
	if stats.Datasets == nil || stats.Datasets.Total != 12 {
		t.Errorf("datasets section: %+v", stats.Datasets)
	}
	if stats.Batches == nil || stats.Batches.ByStatus["success"] != 38 {
		t.Errorf("batches section: %+v", stats.Batches)
	}
	if stats.Segments == nil || stats.Segments.Total != 9 {
		t.Errorf("segments section: %+v", stats.Segments)
	}
	if stats.Dataflows == nil || stats.Dataflows.Enabled != 3 {
		t.Errorf("dataflows section: %+v", stats.Dataflows)
	}
	if !stats.Dictionary.Present || stats.Dictionary.TotalFields != 320 {
		t.Errorf("dictionary section: %+v", stats.Dictionary)
	}
}

func TestStatsSectionsFailIndependently(t *testing.T) {
	d := New(Sources{
		Datasets: fakeDatasets{err: errors.New("catalog unavailable")},
		Batches:  fakeBatches{stats: &batches.Stats{Total: 40}},
	}, nil)
	r := setupRouter(d)

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/stats", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var stats statsResponse
	if err := json.NewDecoder(w.Body).Decode(&stats); err != nil {
		t.Fatalf("decoding stats: %v", err)
	}
	if stats.DatasetsError != "catalog unavailable" {
		t.Errorf("DatasetsError = %q", stats.DatasetsError)
	}
	if stats.Datasets != nil {
		t.Error("failed section must not carry stats")
	}
	if stats.Batches == nil || stats.Batches.Total != 40 {
		t.Errorf("healthy section lost: %+v", stats.Batches)
	}
}

func TestWebSocketUpgrade(t *testing.T) {
	d := New(Sources{}, nil)
	server := httptest.NewServer(setupRouter(d))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/chat"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial: %v", err)
	}
	defer conn.Close()

	if resp.StatusCode != http.StatusSwitchingProtocols {
		t.Fatalf("expected 101, got %d", resp.StatusCode)
	}
}

func TestWebSocketNilAssistant(t *testing.T) {
	d := New(Sources{}, nil)
	server := httptest.NewServer(setupRouter(d))
	defer server.Close()

	conn := dialChat(t, server)
	if err := conn.WriteJSON(chatRequest{Type: "message", Content: "hello"}); err != nil {
		t.Fatalf("write: %v", err)
	}

	var resp chatResponse
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("read: %v", err)
	}
	if resp.Type != "error" {
		t.Errorf("expected error type, got %q", resp.Type)
	}
	if !strings.Contains(resp.Content, "LLM provider not configured") {
		t.Errorf("expected LLM error message, got %q", resp.Content)
	}
}

func TestWebSocketEmptyContent(t *testing.T) {
	d := New(Sources{}, nil)
	server := httptest.NewServer(setupRouter(d))
	defer server.Close()

	conn := dialChat(t, server)
	if err := conn.WriteJSON(chatRequest{Type: "message", Content: ""}); err != nil {
		t.Fatalf("write: %v", err)
	}

	var resp chatResponse
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("read: %v", err)
	}
	if resp.Type != "error" || !strings.Contains(resp.Content, "content is required") {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestWebSocketUnknownType(t *testing.T) {
	d := New(Sources{}, nil)
	server := httptest.NewServer(setupRouter(d))
	defer server.Close()

	conn := dialChat(t, server)
	if err := conn.WriteJSON(chatRequest{Type: "unknown", Content: "hello"}); err != nil {
		t.Fatalf("write: %v", err)
	}

	var resp chatResponse
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("read: %v", err)
	}
	if resp.Type != "error" || !strings.Contains(resp.Content, "unknown message type") {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestWebSocketChatTurn(t *testing.T) {
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	engine := assistant.NewEngine(fixedProvider{reply: "use `person.email`"}, assistant.NewStore(database), nil, "test-model")
	d := New(Sources{}, engine)
	server := httptest.NewServer(setupRouter(d))
	defer server.Close()

	conn := dialChat(t, server)
	if err := conn.WriteJSON(chatRequest{Type: "message", Content: "where is email?"}); err != nil {
		t.Fatalf("write: %v", err)
	}

	var resp chatResponse
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("read: %v", err)
	}
	if resp.Type != "response" {
		t.Fatalf("expected response, got %q: %s", resp.Type, resp.Content)
	}
	if resp.SessionID == "" {
		t.Error("expected a session id")
	}
	if resp.Content != "use `person.email`" {
		t.Errorf("content = %q", resp.Content)
	}
	if !strings.Contains(resp.ContentHTML, "<code>") {
		t.Errorf("expected rendered HTML, got %q", resp.ContentHTML)
	}

	// A second turn reuses the session.
	if err := conn.WriteJSON(chatRequest{Type: "message", SessionID: resp.SessionID, Content: "thanks"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	var second chatResponse
	if err := conn.ReadJSON(&second); err != nil {
		t.Fatalf("read: %v", err)
	}
	if second.SessionID != resp.SessionID {
		t.Errorf("session changed: %s vs %s", second.SessionID, resp.SessionID)
	}
}

func TestServeIndex(t *testing.T) {
	d := New(Sources{}, nil)
	r := setupRouter(d)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "text/html") {
		t.Errorf("expected text/html content type, got %q", ct)
	}
	if !strings.Contains(w.Body.String(), "Platform Console") {
		t.Error("expected HTML to contain 'Platform Console'")
	}
}
