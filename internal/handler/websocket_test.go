package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/vyrodovalexey/moviemanager/internal/model"
)

func startFeed(t *testing.T) (*WebSocketHandler, string) {
	t.Helper()

	handler := NewWebSocketHandler(zap.NewNop())
	server := httptest.NewServer(http.HandlerFunc(handler.HandleWebSocket))
	t.Cleanup(func() {
		handler.CloseAllConnections()
		server.Close()
	})

	return handler, "ws" + strings.TrimPrefix(server.URL, "http")
}

func dialFeed(t *testing.T, url string) *websocket.Conn {
	t.Helper()

	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	if resp.StatusCode != http.StatusSwitchingProtocols {
		t.Fatalf("Status = %d, want %d", resp.StatusCode, http.StatusSwitchingProtocols)
	}
	t.Cleanup(func() { _ = conn.Close() })

	return conn
}

func waitForClients(t *testing.T, handler *WebSocketHandler, want int) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if handler.ClientCount() == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("ClientCount() = %d, want %d", handler.ClientCount(), want)
}

func TestWebSocketHandler_RegisterRoutes(t *testing.T) {
	// Arrange
	handler := NewWebSocketHandler(zap.NewNop())
	router := mux.NewRouter()

	// Act
	handler.RegisterRoutes(router)

	// Assert
	var match mux.RouteMatch
	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	if !router.Match(req, &match) {
		t.Error("/ws route not registered")
	}
}

func TestWebSocketHandler_Publish_DeliversEvent(t *testing.T) {
	// Arrange
	handler, url := startFeed(t)
	conn := dialFeed(t, url)
	waitForClients(t, handler, 1)

	movie := model.Movie{ID: 4, Title: "Heat", Director: "Michael Mann", ReleasedYear: 1995}

	// Act
	handler.Publish(model.NewMovieEvent(model.EventMovieAdded, movie))

	// Assert
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var event model.ChangeEvent
	if err := conn.ReadJSON(&event); err != nil {
		t.Fatalf("ReadJSON() error: %v", err)
	}
	if event.Type != model.EventMovieAdded || event.MovieID != 4 {
		t.Errorf("event = %+v", event)
	}
	if event.Movie == nil || event.Movie.Title != "Heat" {
		t.Errorf("event.Movie = %+v", event.Movie)
	}
	if event.Timestamp.IsZero() {
		t.Error("Timestamp should not be zero")
	}
}

func TestWebSocketHandler_Publish_MultipleClients(t *testing.T) {
	// Arrange
	handler, url := startFeed(t)
	conns := []*websocket.Conn{dialFeed(t, url), dialFeed(t, url), dialFeed(t, url)}
	waitForClients(t, handler, len(conns))

	// Act
	handler.Publish(model.NewCatalogEvent(model.EventCatalogLoaded, 12))

	// Assert
	for i, conn := range conns {
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		var event model.ChangeEvent
		if err := conn.ReadJSON(&event); err != nil {
			t.Fatalf("client %d ReadJSON() error: %v", i, err)
		}
		if event.Type != model.EventCatalogLoaded || event.Count != 12 {
			t.Errorf("client %d event = %+v", i, event)
		}
	}
}

func TestWebSocketHandler_Publish_PreservesOrder(t *testing.T) {
	// Arrange
	handler, url := startFeed(t)
	conn := dialFeed(t, url)
	waitForClients(t, handler, 1)

	// Act
	for id := 1; id <= 5; id++ {
		handler.Publish(model.NewDeletedEvent(id))
	}

	// Assert
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for want := 1; want <= 5; want++ {
		var event model.ChangeEvent
		if err := conn.ReadJSON(&event); err != nil {
			t.Fatalf("ReadJSON() error: %v", err)
		}
		if event.MovieID != want {
			t.Errorf("MovieID = %d, want %d", event.MovieID, want)
		}
	}
}

func TestWebSocketHandler_Publish_NoClients(t *testing.T) {
	// Arrange
	handler := NewWebSocketHandler(zap.NewNop())

	// Act
	handler.Publish(model.NewDeletedEvent(1))

	// Assert
	if handler.ClientCount() != 0 {
		t.Errorf("ClientCount() = %d, want 0", handler.ClientCount())
	}
}

func TestWebSocketHandler_ClientDisconnect(t *testing.T) {
	// Arrange
	handler, url := startFeed(t)
	conn := dialFeed(t, url)
	waitForClients(t, handler, 1)

	// Act
	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"))
	_ = conn.Close()

	// Assert
	waitForClients(t, handler, 0)
}

func TestWebSocketHandler_CloseAllConnections(t *testing.T) {
	// Arrange
	handler, url := startFeed(t)
	conn := dialFeed(t, url)
	waitForClients(t, handler, 1)

	// Act
	handler.CloseAllConnections()

	// Assert
	if handler.ClientCount() != 0 {
		t.Errorf("ClientCount() = %d, want 0", handler.ClientCount())
	}

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
		t.Logf("ReadMessage() after shutdown = %v", err)
	}
	if err == nil {
		t.Error("expected the connection to be closed")
	}
}

func TestWebSocketHandler_CloseAllConnections_Empty(t *testing.T) {
	// Arrange
	handler := NewWebSocketHandler(zap.NewNop())

	// Act
	handler.CloseAllConnections()

	// Assert
	if handler.ClientCount() != 0 {
		t.Errorf("ClientCount() = %d, want 0", handler.ClientCount())
	}
}

func TestWebSocketHandler_InvalidUpgrade(t *testing.T) {
	// Arrange
	handler := NewWebSocketHandler(zap.NewNop())
	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	rr := httptest.NewRecorder()

	// Act
	handler.HandleWebSocket(rr, req)

	// Assert
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
	if handler.ClientCount() != 0 {
		t.Errorf("ClientCount() = %d, want 0", handler.ClientCount())
	}
}

func TestWebSocketConstants(t *testing.T) {
	if pingPeriod >= pongWait {
		t.Errorf("pingPeriod (%v) must be shorter than pongWait (%v)", pingPeriod, pongWait)
	}
	if sendBufferSize <= 0 {
		t.Errorf("sendBufferSize = %d, want > 0", sendBufferSize)
	}
}
