package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	rrerrors "github.com/matzehuels/rrgraph/pkg/errors"
	"github.com/matzehuels/rrgraph/pkg/interact"
	sectorio "github.com/matzehuels/rrgraph/pkg/io"
	"github.com/matzehuels/rrgraph/pkg/layout"
	"github.com/matzehuels/rrgraph/pkg/observability"
	"github.com/matzehuels/rrgraph/pkg/pipeline"
	"github.com/matzehuels/rrgraph/pkg/rrg"
)

const writeWait = 10 * time.Second

// Client message types.
const (
	msgLoad  = "load"
	msgEnter = "enter"
	msgLeave = "leave"
	msgMove  = "move"
	msgReset = "reset"
)

// Server message types.
const (
	msgHello  = "hello"
	msgLayout = "layout"
	msgView   = "view"
	msgError  = "error"
)

// clientMessage is a frame sent by the browser.
type clientMessage struct {
	Type    string           `json:"type"`
	ID      string           `json:"id,omitempty"`
	X       float64          `json:"x,omitempty"`
	Y       float64          `json:"y,omitempty"`
	Sectors json.RawMessage  `json:"sectors,omitempty"`
	Options pipeline.Options `json:"options,omitempty"`
}

// serverMessage is a frame sent to the browser.
type serverMessage struct {
	Type    string         `json:"type"`
	Session string         `json:"session,omitempty"`
	Layout  *layout.Layout `json:"layout,omitempty"`
	Hovered string         `json:"hovered,omitempty"`
	View    *interact.View `json:"view,omitempty"`
	Error   *errorDetail   `json:"error,omitempty"`
}

// sessions tracks open websocket connections.
type sessions struct {
	mu   sync.Mutex
	max  int
	open map[string]*websocket.Conn
	// reserved counts upgrades in flight.
	reserved int
}

func newSessions(max int) *sessions {
	return &sessions{max: max, open: make(map[string]*websocket.Conn)}
}

func (s *sessions) reserve() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.open)+s.reserved >= s.max {
		return false
	}
	s.reserved++
	return true
}

func (s *sessions) add(id string, c *websocket.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reserved--
	s.open[id] = c
}

func (s *sessions) release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reserved--
}

func (s *sessions) remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.open, id)
}

func (s *sessions) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.open)
}

func (s *sessions) closeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.open {
		_ = c.Close()
	}
}

// session owns one hover machine. Only the read loop touches it.
type session struct {
	id      string
	srv     *Server
	conn    *websocket.Conn
	machine *interact.Machine
	layout  *layout.Layout
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	if !s.sessions.reserve() {
		http.Error(w, "too many sessions", http.StatusServiceUnavailable)
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.sessions.release()
		s.log.Debug("websocket upgrade failed", "err", err)
		return
	}

	id := uuid.NewString()
	s.sessions.add(id, conn)
	ctx := context.WithoutCancel(r.Context())

	sess := &session{id: id, srv: s, conn: conn, machine: interact.NewMachine()}
	sess.machine.OnTransition = func(from, to interact.State) {
		observability.Server().OnHover(ctx, stateName(from), stateName(to))
	}

	start := time.Now()
	observability.Server().OnSessionOpen(ctx, id)
	s.log.Debug("session opened", "session", id)
	defer func() {
		s.sessions.remove(id)
		_ = conn.Close()
		observability.Server().OnSessionClose(ctx, id, time.Since(start))
		s.log.Debug("session closed", "session", id)
	}()

	sess.run(ctx)
}

func (ss *session) run(ctx context.Context) {
	ss.conn.SetReadLimit(ss.srv.cfg.Server.MaxBodyBytes)
	if err := ss.send(serverMessage{Type: msgHello, Session: ss.id}); err != nil {
		return
	}

	for {
		var msg clientMessage
		if err := ss.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				ss.srv.log.Debug("session read failed", "session", ss.id, "err", err)
			}
			return
		}

		reply, err := ss.handle(ctx, msg)
		if err != nil {
			_, detail := toDetail(err)
			reply = serverMessage{Type: msgError, Error: &detail}
		}
		if err := ss.send(reply); err != nil {
			return
		}
	}
}

// handle applies one client message and returns the reply.
func (ss *session) handle(ctx context.Context, msg clientMessage) (serverMessage, error) {
	switch msg.Type {
	case msgLoad:
		return ss.load(ctx, msg)
	case msgEnter:
		ss.machine.Enter(msg.ID, rrg.Screen{X: msg.X, Y: msg.Y})
	case msgLeave:
		ss.machine.Leave(msg.ID)
	case msgMove:
		ss.machine.Move(rrg.Screen{X: msg.X, Y: msg.Y})
	case msgReset:
		ss.machine.Reset()
	default:
		return serverMessage{}, rrerrors.New(rrerrors.ErrCodeInvalidInput, "unknown message type %q", msg.Type)
	}
	if ss.layout == nil {
		return serverMessage{}, rrerrors.New(rrerrors.ErrCodeInvalidInput, "no layout loaded")
	}
	return ss.view(), nil
}

func (ss *session) load(ctx context.Context, msg clientMessage) (serverMessage, error) {
	if len(msg.Sectors) == 0 {
		return serverMessage{}, rrerrors.New(rrerrors.ErrCodeInvalidInput, "sectors is required")
	}
	sectors, err := sectorio.DecodeBytes(msg.Sectors, sectorio.FormatJSON)
	if err != nil {
		return serverMessage{}, err
	}
	opts := msg.Options
	opts.Logger = ss.srv.log
	ss.srv.cfg.ApplyLayout(&opts)

	l, err := ss.srv.runner.GenerateLayout(ctx, sectors, opts)
	if err != nil {
		return serverMessage{}, err
	}
	ss.layout = &l
	ss.machine.Reset()
	return serverMessage{Type: msgLayout, Session: ss.id, Layout: ss.layout}, nil
}

func (ss *session) view() serverMessage {
	v := interact.Render(*ss.layout, ss.machine, interact.Options{})
	msg := serverMessage{Type: msgView, View: &v}
	if v.Active() {
		msg.Hovered = v.Emphasis.ID
	}
	return msg
}

func (ss *session) send(msg serverMessage) error {
	_ = ss.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return ss.conn.WriteJSON(msg)
}

func stateName(s interact.State) string {
	if h, ok := s.(interact.Hovering); ok {
		return h.ID
	}
	return "idle"
}
