package session

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func startEchoServer(t *testing.T) (*httptest.Server, *Session) {
	t.Helper()
	var srv *Session
	ready := make(chan struct{})

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := Upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		srv = New(conn, r.RemoteAddr)
		close(ready)
		go srv.WritePump()
		srv.ReadPump()
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	client, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	<-ready
	_ = client
	return ts, srv
}

func TestSendDeliversToClient(t *testing.T) {
	var gotSrv *Session
	ready := make(chan struct{})
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := Upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		gotSrv = New(conn, r.RemoteAddr)
		close(ready)
		go gotSrv.WritePump()
		gotSrv.ReadPump()
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	client, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Close()
	<-ready

	if err := gotSrv.Send([]byte(`{"type":"connected"}`)); err != nil {
		t.Fatalf("Send: %v", err)
	}

	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := client.ReadMessage()
	if err != nil {
		t.Fatalf("client ReadMessage: %v", err)
	}
	if string(data) != `{"type":"connected"}` {
		t.Errorf("got %q", data)
	}
}

func TestReadPumpFeedsInboundChannel(t *testing.T) {
	var gotSrv *Session
	ready := make(chan struct{})
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := Upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		gotSrv = New(conn, r.RemoteAddr)
		close(ready)
		go gotSrv.WritePump()
		go gotSrv.ReadPump()
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	client, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Close()
	<-ready

	if err := client.WriteMessage(websocket.TextMessage, []byte(`{"type":"hello"}`)); err != nil {
		t.Fatalf("client write: %v", err)
	}

	select {
	case msg := <-gotSrv.Inbound():
		if string(msg.Data) != `{"type":"hello"}` {
			t.Errorf("got %q", msg.Data)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for inbound message")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	_, srv := startEchoServer(t)
	time.Sleep(50 * time.Millisecond)
	if srv == nil {
		t.Fatal("server session was never set")
	}
	if err := srv.Close(1001, "server shutting down"); err != nil {
		t.Fatalf("first close: %v", err)
	}
	if err := srv.Close(1001, "server shutting down"); err != nil {
		t.Fatalf("second close should be a no-op, got: %v", err)
	}
}
