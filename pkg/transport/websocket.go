package transport

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebSocketServer exposes a hub over WebSocket. Each connection becomes a
// hub subscriber: it receives the snapshot and every remote operation,
// and may submit operation lists of its own.
type WebSocketServer struct {
	hub *Hub
}

// NewWebSocketServer wraps a hub.
func NewWebSocketServer(hub *Hub) *WebSocketServer {
	return &WebSocketServer{hub: hub}
}

// ServeHTTP upgrades the request and pumps messages until either side
// closes.
func (s *WebSocketServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	id, ch := s.hub.Subscribe(0)
	defer s.hub.Unsubscribe(id)

	// Writer: hub → socket.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for msg := range ch {
			data, err := msg.Encode()
			if err != nil {
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		}
	}()

	// Reader: socket → hub.
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		msg, err := DecodeMessage(data)
		if err != nil {
			s.reject(conn, err)
			continue
		}
		switch msg.Type {
		case MessageTypeOperation:
			if err := s.hub.Submit(id, msg.Ops); err != nil {
				s.reject(conn, err)
			}
		case MessageTypeUnsubscribe:
			return
		}
	}
	// Closing the subscription ends the writer's range loop.
	s.hub.Unsubscribe(id)
	<-done
}

func (s *WebSocketServer) reject(conn *websocket.Conn, err error) {
	msg := NewMessage(MessageTypeError, s.hub.doc.ID())
	msg.Error = err.Error()
	if data, encErr := msg.Encode(); encErr == nil {
		_ = conn.WriteMessage(websocket.TextMessage, data)
	}
}

// WebSocketClient follows a document over a WebSocket connection.
type WebSocketClient struct {
	mu        sync.Mutex
	conn      *websocket.Conn
	endpoint  string
	onMessage func(*Message)
	closed    bool
}

// NewWebSocketClient prepares a client for the given endpoint.
func NewWebSocketClient(endpoint string, onMessage func(*Message)) *WebSocketClient {
	return &WebSocketClient{endpoint: endpoint, onMessage: onMessage}
}

// Connect dials the server and starts the receive loop.
func (c *WebSocketClient) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return fmt.Errorf("client is closed")
	}
	dialer := websocket.Dialer{}
	conn, _, err := dialer.DialContext(ctx, c.endpoint, nil)
	if err != nil {
		return err
	}
	c.conn = conn
	go c.receiveLoop()
	return nil
}

func (c *WebSocketClient) receiveLoop() {
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		msg, err := DecodeMessage(data)
		if err != nil {
			continue
		}
		if c.onMessage != nil {
			c.onMessage(msg)
		}
	}
}

// Send transmits a message to the server.
func (c *WebSocketClient) Send(msg *Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return fmt.Errorf("not connected")
	}
	data, err := msg.Encode()
	if err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Close tears the connection down.
func (c *WebSocketClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
