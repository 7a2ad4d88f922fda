package ws

import (
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 128 * 1024
	maxQueued      = 256 // Ordered frames a client may fall behind by
)

// outFrame is an encoded frame waiting for the write pump. Frames sharing a
// non-empty key replace each other so only the latest is sent.
type outFrame struct {
	key  string
	data []byte
}

// client owns one connection. All data writes go through writePump, the
// only goroutine allowed to call WriteMessage on conn.
type client struct {
	id     string
	conn   *websocket.Conn
	wake   chan struct{}
	done   chan struct{}
	logger *zap.Logger

	mu    sync.Mutex
	queue []outFrame // Protected by mu

	closeOnce sync.Once
}

func newClient(id string, conn *websocket.Conn, logger *zap.Logger) *client {
	return &client{
		id:     id,
		conn:   conn,
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
		logger: logger,
	}
}

// push queues a frame in order. A client that falls maxQueued frames
// behind is disconnected rather than silently missing frames.
func (c *client) push(v interface{}) bool {
	return c.enqueue("", v)
}

// pushLatest queues a state frame. A pending frame with the same key is
// dropped and the new one goes to the back of the queue, so the client
// always ends on the latest state.
func (c *client) pushLatest(key string, v interface{}) bool {
	return c.enqueue(key, v)
}

func (c *client) enqueue(key string, v interface{}) bool {
	data, err := sonic.Marshal(v)
	if err != nil {
		c.logger.Error("Failed to encode frame", zap.Error(err))
		return false
	}

	select {
	case <-c.done:
		return false
	default:
	}

	c.mu.Lock()
	if key != "" {
		for i, f := range c.queue {
			if f.key == key {
				c.queue = append(c.queue[:i], c.queue[i+1:]...)
				break
			}
		}
	}
	c.queue = append(c.queue, outFrame{key: key, data: data})
	overflow := len(c.queue) > maxQueued
	c.mu.Unlock()

	if overflow {
		c.logger.Warn("Client too slow, disconnecting", zap.Int("queued", maxQueued))
		c.closeWith(websocket.CloseTryAgainLater, "client too slow")
		return false
	}

	select {
	case c.wake <- struct{}{}:
	default:
	}
	return true
}

// take removes every queued frame
func (c *client) take() []outFrame {
	c.mu.Lock()
	defer c.mu.Unlock()

	frames := c.queue
	c.queue = nil
	return frames
}

// writePump writes queued frames until the client closes
func (c *client) writePump() {
	for {
		select {
		case <-c.done:
			return
		case <-c.wake:
			for _, f := range c.take() {
				_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := c.conn.WriteMessage(websocket.TextMessage, f.data); err != nil {
					c.logger.Debug("WebSocket write failed", zap.Error(err))
					c.close()
					return
				}
			}
		}
	}
}

// closeWith stops the client at once and sends a close frame before
// dropping the connection. The frame is written off the caller's goroutine,
// which may be a desktop listener; WriteControl is safe beside writePump.
func (c *client) closeWith(code int, reason string) {
	c.closeOnce.Do(func() {
		close(c.done)
		go func() {
			msg := websocket.FormatCloseMessage(code, reason)
			_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
			_ = c.conn.Close()
		}()
	})
}

func (c *client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}
