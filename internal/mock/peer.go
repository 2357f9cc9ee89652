package mock

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/custom-agent-demo/agentui/internal/cobrowse"
	"github.com/custom-agent-demo/agentui/internal/session"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const writeWait = 10 * time.Second

// peer is one agent connection.
type peer struct {
	conn   *websocket.Conn
	send   chan []byte
	logger *zap.Logger
	seq    uint64
	done   chan struct{}

	closeOnce sync.Once
}

func newPeer(conn *websocket.Conn, logger *zap.Logger) *peer {
	return &peer{
		conn:   conn,
		send:   make(chan []byte, 64),
		logger: logger,
		done:   make(chan struct{}),
	}
}

// emit frames events in order. Only the driving goroutine calls it.
func (p *peer) emit(events []session.Event) {
	for _, ev := range events {
		p.seq++
		env, err := cobrowse.NewEnvelope(ev, p.seq)
		if err != nil {
			p.logger.Error("envelope", zap.Error(err))
			continue
		}
		data, err := json.Marshal(env)
		if err != nil {
			p.logger.Error("marshal", zap.Error(err))
			continue
		}
		select {
		case p.send <- data:
		default:
			p.logger.Warn("agent too slow, dropping frame", zap.String("type", env.Type))
		}
	}
}

func (p *peer) close() {
	p.closeOnce.Do(func() {
		close(p.done)
		close(p.send)
	})
}

// writePump drains queued frames, then says goodbye and closes the socket.
func (p *peer) writePump() {
	defer p.conn.Close()
	for msg := range p.send {
		p.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := p.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			p.logger.Debug("write failed", zap.Error(err))
			return
		}
	}
	p.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session closed"),
		time.Now().Add(writeWait))
}

// readPump forwards command frames until the agent disconnects.
func (p *peer) readPump(out chan<- cobrowse.Command) {
	defer close(out)
	for {
		_, data, err := p.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				p.logger.Warn("agent read error", zap.Error(err))
			}
			return
		}
		var cmd cobrowse.Command
		if err := json.Unmarshal(data, &cmd); err != nil || !cmd.IsCommand() {
			p.logger.Warn("ignoring non-command frame")
			continue
		}
		select {
		case out <- cmd:
		case <-p.done:
			return
		}
	}
}
