package hub

import (
	"context"
	"log/slog"
	"sync/atomic"

	"ctchen222/Solo-Tic-Tac-Toe/internal/events"
	"ctchen222/Solo-Tic-Tac-Toe/internal/player"
	"ctchen222/Solo-Tic-Tac-Toe/internal/session"
	"ctchen222/Solo-Tic-Tac-Toe/internal/telemetry"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var (
	tracer = otel.Tracer("hub")
	meter  = otel.Meter("hub")

	activeSessions = telemetry.Int64UpDownCounter(meter, "tictactoe.sessions.active", "Sessions currently running.")
)

// registration asks the hub to start a session for a freshly connected player.
type registration struct {
	ctx    context.Context
	player *player.Player
	opts   session.Options
	result chan *session.Session
}

// Hub keeps track of every running session and stops them on shutdown.
type Hub struct {
	sessions   map[string]*session.Session
	register   chan *registration
	unregister chan *session.Session
	calculator session.MoveCalculator
	publisher  events.Publisher
	active     atomic.Int64
	stopped    chan struct{}
}

// NewHub creates a hub whose sessions share calculator and publisher.
func NewHub(calculator session.MoveCalculator, publisher events.Publisher) *Hub {
	return &Hub{
		sessions:   make(map[string]*session.Session),
		register:   make(chan *registration),
		unregister: make(chan *session.Session),
		calculator: calculator,
		publisher:  publisher,
		stopped:    make(chan struct{}),
	}
}

// Run serves registrations until ctx is cancelled, then closes every
// remaining session.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.stopped)

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Hub shutting down", "sessions", len(h.sessions))
			for id, s := range h.sessions {
				s.Close()
				delete(h.sessions, id)
				h.track(ctx, -1)
			}
			return

		case req := <-h.register:
			s := h.startSession(ctx, req)
			req.result <- s

		case s := <-h.unregister:
			if _, ok := h.sessions[s.ID]; !ok {
				continue
			}
			delete(h.sessions, s.ID)
			h.track(ctx, -1)
			slog.InfoContext(ctx, "Session ended", "session.id", s.ID)
		}
	}
}

func (h *Hub) startSession(ctx context.Context, req *registration) *session.Session {
	_, span := tracer.Start(req.ctx, "hub.startSession", trace.WithAttributes(
		attribute.String("player.id", req.player.ID),
		attribute.String("game.difficulty", string(req.opts.Difficulty)),
	))
	defer span.End()

	id := uuid.New().String()
	span.SetAttributes(attribute.String("session.id", id))

	s := session.NewSession(id, req.player, h.calculator, h.publisher, req.opts)
	h.sessions[id] = s
	h.track(ctx, 1)

	go func() {
		s.Run(ctx)
		select {
		case h.unregister <- s:
		case <-h.stopped:
		}
	}()

	slog.InfoContext(ctx, "Session started", "session.id", id, "player.id", req.player.ID,
		"game.difficulty", req.opts.Difficulty, "delay", req.opts.Delay)
	return s
}

func (h *Hub) track(ctx context.Context, delta int64) {
	h.active.Add(delta)
	activeSessions.Add(ctx, delta)
}

// Start hands p to the hub and returns the session created for it. It
// returns nil if the hub is not running anymore.
func (h *Hub) Start(ctx context.Context, p *player.Player, opts session.Options) *session.Session {
	req := &registration{ctx: ctx, player: p, opts: opts, result: make(chan *session.Session, 1)}
	select {
	case h.register <- req:
		return <-req.result
	case <-h.stopped:
		return nil
	case <-ctx.Done():
		return nil
	}
}

// ActiveSessions returns the number of sessions currently running.
func (h *Hub) ActiveSessions() int64 {
	return h.active.Load()
}

// Stopped is closed after Run returns.
func (h *Hub) Stopped() <-chan struct{} {
	return h.stopped
}
