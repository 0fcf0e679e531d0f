package ws

import (
	"log/slog"

	"github.com/google/uuid"
)

// Client é uma conexão websocket do app; Send é drenado pelo writer da conexão.
type Client struct {
	ID   string
	Send chan []byte
}

func NewClient(buf int) *Client {
	return &Client{ID: uuid.NewString(), Send: make(chan []byte, buf)}
}

// Hub distribui os eventos do broker para todos os clientes conectados.
// Todo o estado vive na goroutine de Run; os demais métodos só trocam mensagens com ela.
type Hub struct {
	clients  map[string]*Client
	register chan *Client
	unreg    chan *Client
	sendAll  chan []byte
	count    chan chan int

	log     *slog.Logger
	stop    chan struct{}
	stopped chan struct{}
}

func NewHub(log *slog.Logger) *Hub {
	if log == nil {
		log = slog.Default()
	}
	return &Hub{
		clients:  make(map[string]*Client),
		register: make(chan *Client),
		unreg:    make(chan *Client),
		sendAll:  make(chan []byte, 1024),
		count:    make(chan chan int),
		log:      log.With("cmp", "ws.hub"),
		stop:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
}

func (h *Hub) drop(c *Client) {
	if _, ok := h.clients[c.ID]; ok {
		delete(h.clients, c.ID)
		close(c.Send)
	}
}

func (h *Hub) Run() {
	h.log.Info("hub_run_start")
	defer close(h.stopped)

	for {
		select {
		case c := <-h.register:
			h.clients[c.ID] = c
			h.log.Info("client_registered", "id", c.ID, "total", len(h.clients))

		case c := <-h.unreg:
			if c == nil {
				continue
			}
			h.drop(c)
			h.log.Info("client_unregistered", "id", c.ID, "total", len(h.clients))

		case msg := <-h.sendAll:
			for _, c := range h.clients {
				select {
				case c.Send <- msg:
				default:
					// cliente lento: derruba para não travar o hub
					h.drop(c)
					h.log.Warn("client_dropped_slow", "id", c.ID)
				}
			}

		case reply := <-h.count:
			reply <- len(h.clients)

		case <-h.stop:
			for _, c := range h.clients {
				h.drop(c)
			}
			h.log.Info("hub_run_stop")
			return
		}
	}
}

func (h *Hub) Stop() {
	close(h.stop)
	<-h.stopped
}

// Register/Unregister não bloqueiam depois do Stop.
func (h *Hub) Register(c *Client) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	select {
	case h.register <- c:
	case <-h.stopped:
	}
}

func (h *Hub) Unregister(c *Client) {
	select {
	case h.unreg <- c:
	case <-h.stopped:
	}
}

func (h *Hub) Broadcast(b []byte) {
	select {
	case h.sendAll <- b:
	case <-h.stopped:
	}
}

// Clients devolve quantos clientes estão conectados (usado pelo /healthz do relay).
func (h *Hub) Clients() int {
	reply := make(chan int, 1)
	select {
	case h.count <- reply:
		return <-reply
	case <-h.stopped:
		return 0
	}
}
