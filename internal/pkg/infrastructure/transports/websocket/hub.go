package websocket

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/diwise/iot-machine-alerts/internal/pkg/infrastructure/logging"
	"github.com/diwise/iot-machine-alerts/internal/pkg/infrastructure/messaging"
	gwebsocket "github.com/gorilla/websocket"
)

var upgrader = gwebsocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub pushes alert lifecycle events to connected dashboard clients.
type Hub struct {
	clients    map[*client]bool
	broadcast  chan []byte
	register   chan *client
	unregister chan *client
	count      chan chan int
	done       chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*client]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *client),
		unregister: make(chan *client),
		count:      make(chan chan int),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run(ctx context.Context) {
	ctx, log := logging.WithComponent(ctx, "websocket-hub")
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				delete(h.clients, c)
				close(c.send)
			}
			return

		case c := <-h.register:
			h.clients[c] = true
			log.Debug().Str("remote", c.conn.RemoteAddr().String()).Msg("websocket client connected")

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				log.Debug().Str("remote", c.conn.RemoteAddr().String()).Msg("websocket client disconnected")
			}

		case message := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- message:
				default:
					log.Warn().Str("remote", c.conn.RemoteAddr().String()).Msg("websocket client is too slow, disconnecting")
					delete(h.clients, c)
					close(c.send)
				}
			}

		case reply := <-h.count:
			reply <- len(h.clients)
		}
	}
}

// Publish implements messaging.Publisher. Messages are dropped when the hub is backed up.
func (h *Hub) Publish(ctx context.Context, msg messaging.TopicMessage) error {
	b, err := json.Marshal(envelope{Type: msg.TopicName(), Payload: msg.Body()})
	if err != nil {
		return err
	}

	select {
	case h.broadcast <- b:
	default:
		log := logging.GetFromContext(ctx)
		log.Warn().Str("topic", msg.TopicName()).Msg("websocket broadcast queue full, dropping event")
	}

	return nil
}

// Clients returns the number of connected clients.
func (h *Hub) Clients(ctx context.Context) int {
	reply := make(chan int, 1)
	select {
	case h.count <- reply:
		return <-reply
	case <-h.done:
		return 0
	case <-ctx.Done():
		return 0
	}
}

func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	log := logging.GetFromContext(r.Context())

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	c := &client{hub: h, conn: conn, send: make(chan []byte, 256)}

	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	case <-r.Context().Done():
		conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}
