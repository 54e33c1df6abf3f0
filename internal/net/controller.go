package net

import (
	"context"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"go.uber.org/zap"
)

const (
	peerQueueSize = 64
	writeTimeout  = 5 * time.Second
)

// peer is one WebSocket connection. Its id doubles as the player id for the
// lifetime of the connection.
type peer struct {
	id  string
	ws  *websocket.Conn
	out chan ServerMessage

	done      chan struct{}
	closeOnce sync.Once
}

func newPeer(id string, ws *websocket.Conn) *peer {
	return &peer{
		id:   id,
		ws:   ws,
		out:  make(chan ServerMessage, peerQueueSize),
		done: make(chan struct{}),
	}
}

// send queues msg without blocking. A peer that cannot keep up loses messages
// rather than stalling the room.
func (p *peer) send(msg ServerMessage) bool {
	select {
	case <-p.done:
		return false
	default:
	}
	select {
	case p.out <- msg:
		return true
	default:
		return false
	}
}

// writeLoop drains the queue in order until the peer closes.
func (p *peer) writeLoop(ctx context.Context, logger *zap.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-p.done:
			return
		case msg := <-p.out:
			wctx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := wsjson.Write(wctx, p.ws, msg)
			cancel()
			if err != nil {
				logger.Debug("write failed", zap.String("player_id", p.id), zap.Error(err))
				p.close(websocket.StatusInternalError, "write failed")
				return
			}
		}
	}
}

func (p *peer) close(code websocket.StatusCode, reason string) {
	p.closeOnce.Do(func() {
		close(p.done)
		p.ws.Close(code, reason)
	})
}
