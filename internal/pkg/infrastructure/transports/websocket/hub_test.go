package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/diwise/iot-machine-alerts/pkg/types"
	gwebsocket "github.com/gorilla/websocket"
	"github.com/matryer/is"
)

func TestPublishedEventsReachConnectedClients(t *testing.T) {
	is, ctx, hub, conn := testSetup(t)

	is.NoErr(hub.Publish(ctx, &types.AlertResolved{ID: "a1", MachineID: "m1"}))

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, b, err := conn.ReadMessage()
	is.NoErr(err)

	msg := struct {
		Type    string              `json:"type"`
		Payload types.AlertResolved `json:"payload"`
	}{}
	is.NoErr(json.Unmarshal(b, &msg))
	is.Equal(msg.Type, "alert.resolved")
	is.Equal(msg.Payload.ID, "a1")
}

func TestClientIsRemovedWhenItDisconnects(t *testing.T) {
	is, ctx, hub, conn := testSetup(t)

	conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.Clients(ctx) > 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	is.Equal(hub.Clients(ctx), 0)
}

func testSetup(t *testing.T) (*is.I, context.Context, *Hub, *gwebsocket.Conn) {
	is := is.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := NewHub()
	go hub.Run(ctx)

	s := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	t.Cleanup(s.Close)

	conn, _, err := gwebsocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(s.URL, "http"), nil)
	is.NoErr(err)
	t.Cleanup(func() { conn.Close() })

	deadline := time.Now().Add(2 * time.Second)
	for hub.Clients(ctx) == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	is.Equal(hub.Clients(ctx), 1)

	return is, ctx, hub, conn
}
