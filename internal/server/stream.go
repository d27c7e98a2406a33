package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// cursorMessage is a client query. Clients may also send the bare position
// as a text frame.
type cursorMessage struct {
	X string `json:"x"`
}

type streamReply struct {
	Query  string          `json:"query"`
	Found  bool            `json:"found"`
	Error  string          `json:"error,omitempty"`
	Result *cursorResponse `json:"result,omitempty"`
}

// latestQuery holds at most one pending cursor position. Offering a new one
// replaces a position that has not been answered yet.
type latestQuery struct {
	ch chan string
}

func newLatestQuery() *latestQuery {
	return &latestQuery{ch: make(chan string, 1)}
}

// Offer queues x and reports whether an unanswered query was dropped.
// It must only be called from one goroutine.
func (l *latestQuery) Offer(x string) (superseded bool) {
	for {
		select {
		case l.ch <- x:
			return superseded
		default:
		}
		select {
		case <-l.ch:
			superseded = true
		default:
		}
	}
}

func (l *latestQuery) C() <-chan string { return l.ch }

func (s *Server) handleCursorStream(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer conn.Close()
	s.log.WithField("remote", c.ClientIP()).Debug("cursor stream opened")

	pending := newLatestQuery()
	done := make(chan struct{})
	go s.readCursorQueries(conn, pending, done)

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			s.log.WithField("remote", c.ClientIP()).Debug("cursor stream closed")
			return
		case raw := <-pending.C():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(s.answer(raw)); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *Server) readCursorQueries(conn *websocket.Conn, pending *latestQuery, done chan<- struct{}) {
	defer close(done)

	conn.SetReadLimit(1024)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))

		x := string(bytes.TrimSpace(msg))
		if bytes.HasPrefix(msg, []byte("{")) {
			var m cursorMessage
			if err := json.Unmarshal(msg, &m); err != nil {
				x = ""
			} else {
				x = m.X
			}
		}
		if pending.Offer(x) {
			s.metrics.CursorSuperseded.Inc()
		}
	}
}

func (s *Server) answer(raw string) streamReply {
	reply := streamReply{Query: raw}
	x, err := ParseX(raw)
	if err != nil {
		reply.Error = err.Error()
		return reply
	}
	s.metrics.CursorQueries.WithLabelValues("ws").Inc()
	if resp, ok := s.locate(x); ok {
		reply.Found = true
		reply.Result = &resp
	}
	return reply
}
