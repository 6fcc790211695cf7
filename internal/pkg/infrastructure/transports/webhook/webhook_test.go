package webhook

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/diwise/iot-machine-alerts/pkg/types"
	"github.com/matryer/is"
)

func TestConfig(t *testing.T) {
	is := is.New(t)

	cfg, err := LoadConfiguration(strings.NewReader(`
notifications:
  - id: maintenance
    name: Maintenance system
    type: machine.alert.created
    subscribers:
    - endpoint: http://maintenance:8080/events
`))
	is.NoErr(err)
	is.Equal(len(cfg.Notifications), 1)
	is.Equal(cfg.Notifications[0].Subscribers[0].Endpoint, "http://maintenance:8080/events")
}

func TestEventType(t *testing.T) {
	is := is.New(t)
	is.Equal(EventType("alert.created"), "machine.alert.created")
	is.Equal(EventType("alert.resolved"), "machine.alert.resolved")
}

func TestPublishSendsCloudEventToMatchingSubscribers(t *testing.T) {
	is, ctx, received, endpoint := testSetup(t)

	p, err := New(&Config{Notifications: []Notification{
		{Type: "machine.alert.created", Subscribers: []SubscriberConfig{{Endpoint: endpoint}}},
	}})
	is.NoErr(err)

	msg := &types.AlertCreated{Alert: types.Alert{ID: "a1"}, Timestamp: time.Now()}
	is.NoErr(p.Publish(ctx, msg))

	select {
	case r := <-received:
		is.Equal(r.Header.Get("Ce-Type"), "machine.alert.created")
		is.Equal(r.Header.Get("Ce-Source"), EventSource)

		body := struct {
			Alert types.Alert `json:"alert"`
		}{}
		is.NoErr(json.Unmarshal(r.body, &body))
		is.Equal(body.Alert.ID, "a1")
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
	}

	// resolved events have no subscribers
	is.NoErr(p.Publish(ctx, &types.AlertResolved{ID: "a1"}))
	is.Equal(len(received), 0)
}

func TestPublishReportsRefusedConnection(t *testing.T) {
	is := is.New(t)

	l, err := net.Listen("tcp", "127.0.0.1:0")
	is.NoErr(err)
	endpoint := "http://" + l.Addr().String()
	l.Close()

	p, err := New(&Config{Notifications: []Notification{
		{Type: "machine.alert.created", Subscribers: []SubscriberConfig{{Endpoint: endpoint}}},
	}})
	is.NoErr(err)

	err = p.Publish(context.Background(), &types.AlertCreated{Alert: types.Alert{ID: "a1"}})
	is.True(err != nil)
}

type request struct {
	Header http.Header
	body   []byte
}

func testSetup(t *testing.T) (*is.I, context.Context, chan request, string) {
	is := is.New(t)
	received := make(chan request, 4)

	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		received <- request{Header: r.Header.Clone(), body: b}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(s.Close)

	return is, context.Background(), received, s.URL
}
