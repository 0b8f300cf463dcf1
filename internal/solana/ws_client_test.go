package solana

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// newWSServer runs handler on every upgraded connection and returns the ws:// URL.
func newWSServer(t *testing.T, handler func(conn *websocket.Conn)) string {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()
		handler(conn)
	}))
	t.Cleanup(server.Close)

	return "ws" + strings.TrimPrefix(server.URL, "http")
}

// drain keeps the connection open until the client goes away.
func drain(conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func TestWSClient_Connect(t *testing.T) {
	url := newWSServer(t, drain)

	client, err := NewWSClient(context.Background(), url, nil)
	if err != nil {
		t.Fatalf("NewWSClient: %v", err)
	}
	defer client.Close()

	if client.closed.Load() {
		t.Error("client should not be closed")
	}
	if client.config.Commitment != "confirmed" {
		t.Errorf("expected default commitment confirmed, got %s", client.config.Commitment)
	}
}

func TestWSClient_SubscribeLogs(t *testing.T) {
	requests := make(chan wsRequest, 1)

	url := newWSServer(t, func(c *websocket.Conn) {
		_, msg, err := c.ReadMessage()
		if err != nil {
			return
		}

		var req wsRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			t.Errorf("unmarshal request: %v", err)
			return
		}
		requests <- req

		if err := c.WriteJSON(wsSubscribeResponse{JSONRPC: "2.0", ID: req.ID, Result: 12345}); err != nil {
			t.Errorf("write response: %v", err)
			return
		}

		time.Sleep(50 * time.Millisecond)
		notif := wsNotification{
			JSONRPC: "2.0",
			Method:  "logsNotification",
			Params: &wsNotificationParams{
				Subscription: 12345,
				Result: wsNotificationResult{
					Context: &wsContext{Slot: 100},
					Value: wsLogsValue{
						Signature: "poolsig",
						Logs:      []string{"Program log: initialize2: InitializeInstruction2"},
					},
				},
			},
		}
		if err := c.WriteJSON(notif); err != nil {
			t.Errorf("write notification: %v", err)
			return
		}

		drain(c)
	})

	client, err := NewWSClient(context.Background(), url, &WSClientConfig{Commitment: "processed"})
	if err != nil {
		t.Fatalf("NewWSClient: %v", err)
	}
	defer client.Close()

	ch, err := client.SubscribeLogs(context.Background(), LogsFilter{
		Mentions: []string{testRaydiumProgram},
	})
	if err != nil {
		t.Fatalf("SubscribeLogs: %v", err)
	}

	req := <-requests
	if req.Method != "logsSubscribe" {
		t.Errorf("expected logsSubscribe, got %s", req.Method)
	}
	if len(req.Params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(req.Params))
	}
	opts, _ := req.Params[1].(map[string]interface{})
	if opts["commitment"] != "processed" {
		t.Errorf("expected commitment processed, got %v", opts["commitment"])
	}

	select {
	case notif := <-ch:
		if notif.Signature != "poolsig" {
			t.Errorf("expected poolsig, got %s", notif.Signature)
		}
		if len(notif.Logs) != 1 {
			t.Errorf("expected 1 log, got %d", len(notif.Logs))
		}
		if notif.Slot != 100 {
			t.Errorf("expected slot 100, got %d", notif.Slot)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for notification")
	}
}

func TestWSClient_SubscribeTimeout(t *testing.T) {
	url := newWSServer(t, drain)

	client, err := NewWSClient(context.Background(), url, &WSClientConfig{
		SubscribeTimeout: 50 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewWSClient: %v", err)
	}
	defer client.Close()

	if _, err := client.SubscribeLogs(context.Background(), LogsFilter{}); err == nil {
		t.Fatal("expected timeout error")
	}

	client.pendingMu.Lock()
	pending := len(client.pending)
	client.pendingMu.Unlock()
	if pending != 0 {
		t.Errorf("expected no pending requests after timeout, got %d", pending)
	}
}

func TestWSClient_CloseClosesSubscriptions(t *testing.T) {
	url := newWSServer(t, func(c *websocket.Conn) {
		_, msg, err := c.ReadMessage()
		if err != nil {
			return
		}
		var req wsRequest
		json.Unmarshal(msg, &req)
		c.WriteJSON(wsSubscribeResponse{JSONRPC: "2.0", ID: req.ID, Result: 7})
		drain(c)
	})

	client, err := NewWSClient(context.Background(), url, nil)
	if err != nil {
		t.Fatalf("NewWSClient: %v", err)
	}

	ch, err := client.SubscribeLogs(context.Background(), LogsFilter{})
	if err != nil {
		t.Fatalf("SubscribeLogs: %v", err)
	}

	if err := client.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
	if !client.closed.Load() {
		t.Error("client should be closed")
	}

	select {
	case _, ok := <-ch:
		if ok {
			t.Error("expected closed channel")
		}
	case <-time.After(time.Second):
		t.Fatal("subscription channel not closed")
	}

	// Double close should be safe
	if err := client.Close(); err != nil {
		t.Errorf("double Close: %v", err)
	}
}

func TestWSClient_SubscribeAfterClose(t *testing.T) {
	url := newWSServer(t, drain)

	client, err := NewWSClient(context.Background(), url, nil)
	if err != nil {
		t.Fatalf("NewWSClient: %v", err)
	}
	client.Close()

	if _, err := client.SubscribeLogs(context.Background(), LogsFilter{}); err != ErrClientClosed {
		t.Errorf("expected ErrClientClosed, got %v", err)
	}
}

func TestWSClientConfig_Defaults(t *testing.T) {
	cfg := WSClientConfig{PingInterval: 5 * time.Second}.withDefaults()

	if cfg.PingInterval != 5*time.Second {
		t.Errorf("expected PingInterval 5s, got %v", cfg.PingInterval)
	}
	if cfg.ReconnectDelay != time.Second {
		t.Errorf("expected default ReconnectDelay, got %v", cfg.ReconnectDelay)
	}
	if cfg.Buffer != 1024 {
		t.Errorf("expected default buffer 1024, got %d", cfg.Buffer)
	}
}

const testRaydiumProgram = "675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8"
