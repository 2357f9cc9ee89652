package cobrowse

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/custom-agent-demo/agentui/internal/session"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeTimeout = 10 * time.Second
	pongTimeout  = 60 * time.Second
	pingInterval = 30 * time.Second

	// closeGrace bounds the close frame written by Destroy. Callers may
	// be on the UI goroutine.
	closeGrace = 250 * time.Millisecond
)

// ErrClosed is returned by commands issued after Destroy.
var ErrClosed = errors.New("cobrowse context destroyed")

// Context is the live binding between the console and a remote session.
type Context struct {
	conn   *websocket.Conn
	logger *zap.Logger

	writeMu sync.Mutex // serialises all conn writes (ping, commands, close)
	events  chan session.Event
	done    chan struct{}
	once    sync.Once
}

func newContext(conn *websocket.Conn, logger *zap.Logger, buffer int) *Context {
	c := &Context{
		conn:   conn,
		logger: logger,
		events: make(chan session.Event, buffer),
		done:   make(chan struct{}),
	}
	go c.readLoop()
	go c.pingLoop()
	return c
}

// Events delivers session.updated, screen.updated and error events in
// arrival order. It is closed when the connection ends.
func (c *Context) Events() <-chan session.Event {
	return c.events
}

func (c *Context) SetTool(tool session.Tool) error {
	return c.send(NewCommand(CmdSetTool, string(tool)))
}

func (c *Context) ClearAnnotations() error {
	return c.send(NewCommand(CmdClearAnnotations, ""))
}

func (c *Context) SetFullDevice(value session.FullDevice) error {
	return c.send(NewCommand(CmdSetFullDevice, string(value)))
}

func (c *Context) EndSession() error {
	return c.send(NewCommand(CmdEndSession, ""))
}

// Destroy releases the binding. Only the first call has an effect.
func (c *Context) Destroy() error {
	var err error
	c.once.Do(func() {
		close(c.done)
		c.writeMu.Lock()
		deadline := time.Now().Add(closeGrace)
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "context destroyed")
		if werr := c.conn.WriteControl(websocket.CloseMessage, msg, deadline); werr != nil && !errors.Is(werr, websocket.ErrCloseSent) {
			c.logger.Debug("close frame not sent", zap.Error(werr))
		}
		c.writeMu.Unlock()
		err = c.conn.Close()
		c.logger.Info("cobrowse context destroyed")
	})
	return err
}

func (c *Context) destroyed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

func (c *Context) send(cmd Command) error {
	if c.destroyed() {
		return ErrClosed
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := c.conn.WriteJSON(cmd); err != nil {
		return err
	}
	c.logger.Debug("command sent", zap.String("command", string(cmd.Command)), zap.String("value", cmd.Value))
	return nil
}

func (c *Context) readLoop() {
	defer close(c.events)

	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongTimeout))
		return nil
	})
	c.conn.SetReadDeadline(time.Now().Add(pongTimeout))

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if !c.destroyed() {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					c.logger.Warn("cobrowse connection lost", zap.Error(err))
				} else {
					c.logger.Info("cobrowse connection closed", zap.Error(err))
				}
			}
			return
		}

		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			c.logger.Warn("invalid frame", zap.Error(err))
			continue
		}
		ev, err := DecodeEvent(env)
		if err != nil {
			c.logger.Warn("dropping frame", zap.String("type", env.Type), zap.Error(err))
			continue
		}

		select {
		case c.events <- ev:
		case <-c.done:
			return
		}
	}
}

// pingLoop keeps the read deadline alive until the context is destroyed
// or a ping fails.
func (c *Context) pingLoop() {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.writeMu.Lock()
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			err := c.conn.WriteMessage(websocket.PingMessage, nil)
			c.writeMu.Unlock()
			if err != nil {
				return
			}
		}
	}
}
