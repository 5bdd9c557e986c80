package ws

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer. One stuck socket must not
	// stall the fanout for everyone else; a missed deadline drops the client.
	writeWait = 10 * time.Second

	// Maximum frame size accepted from the peer. The channel is push-only,
	// clients have nothing meaningful to send.
	maxFrameSize = 512
)

// Conn is the transport under a Client. *websocket.Conn satisfies it; tests
// substitute mocks.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// Client wraps one registered connection. Writes are serialized through the
// mutex since broadcasts from other lifecycles and this one's own handler
// share the socket.
type Client struct {
	id          string
	userID      int64
	conn        Conn
	connectedAt time.Time

	mu sync.Mutex
}

func NewClient(userID int64, conn Conn) *Client {
	return &Client{
		id:          uuid.New().String(),
		userID:      userID,
		conn:        conn,
		connectedAt: time.Now(),
	}
}

func (c *Client) ID() string {
	return c.id
}

func (c *Client) UserID() int64 {
	return c.userID
}

func (c *Client) ConnectedAt() time.Time {
	return c.connectedAt
}

// Send writes one text frame under the write deadline.
func (c *Client) Send(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Close tears down the transport.
func (c *Client) Close() error {
	return c.conn.Close()
}

// closeWithReason sends a close frame carrying reason, then closes. Used
// before the client ever reaches the registry.
func (c *Client) closeWithReason(code int, reason string) {
	c.mu.Lock()
	msg := websocket.FormatCloseMessage(code, reason)
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	c.conn.WriteMessage(websocket.CloseMessage, msg)
	c.mu.Unlock()
	c.conn.Close()
}
