package realtime

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

func newHubServer(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()

	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ws", ServeWS(hub))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readEnvelope(t *testing.T, conn *websocket.Conn) Envelope {
	t.Helper()

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read frame: %v", err)
	}
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("decode frame %q: %v", raw, err)
	}
	return env
}

func TestPublish_ReachesConnectedClient(t *testing.T) {
	hub, srv := newHubServer(t)
	conn := dial(t, srv)

	// Registration goes through the hub goroutine; give it a beat.
	time.Sleep(50 * time.Millisecond)

	hub.Publish(EventChildCreated, map[string]string{"id": "c1", "name": "Mia"})

	env := readEnvelope(t, conn)
	if env.Event != EventChildCreated {
		t.Fatalf("expected %q, got %q", EventChildCreated, env.Event)
	}
	data, ok := env.Data.(map[string]any)
	if !ok || data["name"] != "Mia" {
		t.Fatalf("unexpected payload: %#v", env.Data)
	}
}

func TestPublish_FansOutToAllClients(t *testing.T) {
	hub, srv := newHubServer(t)
	c1 := dial(t, srv)
	c2 := dial(t, srv)
	time.Sleep(50 * time.Millisecond)

	hub.Publish(EventChildDeleted, map[string]string{"id": "c9"})

	for _, conn := range []*websocket.Conn{c1, c2} {
		env := readEnvelope(t, conn)
		if env.Event != EventChildDeleted {
			t.Fatalf("expected %q, got %q", EventChildDeleted, env.Event)
		}
	}
}

func TestPublish_NoClientsDoesNotBlock(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	defer cancel()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 500; i++ {
			hub.Publish(EventActionCreated, map[string]int{"n": i})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Publish must never block the caller")
	}
}

func TestPublish_UnmarshalableDataIsDropped(t *testing.T) {
	hub := NewHub()
	// Channels cannot be marshalled; Publish must swallow the error.
	hub.Publish(EventChildCreated, make(chan int))

	select {
	case msg := <-hub.broadcast:
		t.Fatalf("broken payload must not be queued, got %q", msg)
	default:
	}
}

func TestRun_ShutdownClosesClients(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ws", ServeWS(hub))
	srv := httptest.NewServer(r)
	defer srv.Close()

	conn := dial(t, srv)
	time.Sleep(50 * time.Millisecond)

	cancel()

	// The hub closes the send channel, the write pump sends a close
	// frame, and the read loop terminates.
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
