package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"ctchen222/Solo-Tic-Tac-Toe/internal/bot"
	"ctchen222/Solo-Tic-Tac-Toe/internal/events"
	"ctchen222/Solo-Tic-Tac-Toe/internal/game"
	"ctchen222/Solo-Tic-Tac-Toe/internal/player"
	"ctchen222/Solo-Tic-Tac-Toe/internal/telemetry"
	"ctchen222/Solo-Tic-Tac-Toe/pkg/proto"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	heartbeatInterval = 10 * time.Second
	publishTimeout    = 2 * time.Second
)

var (
	tracer = otel.Tracer("session")
	meter  = otel.Meter("session")

	movesCounter    = telemetry.Int64Counter(meter, "tictactoe.moves", "Moves applied to a board, by side.")
	finishedCounter = telemetry.Int64Counter(meter, "tictactoe.games.finished", "Finished games, by outcome and difficulty.")
)

// Options configure a new session.
type Options struct {
	Difficulty bot.Difficulty
	Delay      time.Duration
}

// command is one unit of work for the session loop: either a raw client
// message or a scheduled computer move.
type command struct {
	message    []byte
	tick       bool
	generation uint64
}

// Session runs one human-versus-computer game over a connection. All
// controller calls happen on the goroutine running Run.
type Session struct {
	ID         string
	player     *player.Player
	controller *Controller
	publisher  events.Publisher
	delay      time.Duration

	commands  chan command
	done      chan struct{}
	closeOnce sync.Once
}

// NewSession creates a session for p. A nil publisher drops events.
func NewSession(id string, p *player.Player, calculator MoveCalculator, publisher events.Publisher, opts Options) *Session {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if opts.Difficulty == "" {
		opts.Difficulty = bot.DefaultDifficulty
	}
	return &Session{
		ID:         id,
		player:     p,
		controller: NewController(calculator, opts.Difficulty),
		publisher:  publisher,
		delay:      opts.Delay,
		commands:   make(chan command, 16),
		done:       make(chan struct{}),
	}
}

// Run starts reading from the player's connection and processes commands
// until the connection drops, the session is closed, or ctx is cancelled.
func (s *Session) Run(ctx context.Context) {
	ctx, span := tracer.Start(ctx, "session.Run", trace.WithAttributes(
		attribute.String("session.id", s.ID),
		attribute.String("player.id", s.player.ID),
	))
	defer span.End()

	defer s.Close()

	s.publish(ctx, events.TypeSessionStarted, s.sessionPayload())
	defer func() {
		s.publish(context.WithoutCancel(ctx), events.TypeSessionClosed, s.sessionPayload())
	}()

	go s.ReadPump(ctx)
	s.pushUpdate(ctx)

	pingTicker := time.NewTicker(heartbeatInterval)
	defer pingTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Session context cancelled, stopping.", "session.id", s.ID)
			return

		case <-s.done:
			slog.InfoContext(ctx, "Session closed, stopping.", "session.id", s.ID)
			return

		case cmd := <-s.commands:
			if cmd.tick {
				if err := s.computerMove(ctx, cmd.generation); err != nil {
					slog.ErrorContext(ctx, "Fatal controller error, closing session", "session.id", s.ID, "error", err)
					span.RecordError(err)
					span.SetStatus(codes.Error, "Controller invariant violated")
					return
				}
				continue
			}
			s.HandleMessage(ctx, cmd.message)

		case <-pingTicker.C:
			if err := s.player.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				slog.WarnContext(ctx, "Failed to send ping to player, assuming disconnect", "session.id", s.ID, "error", err)
				return
			}
		}
	}
}

// Close stops the session and closes the underlying connection. It is safe
// to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		_ = s.player.Conn.Close()
	})
}

// Done is closed once the session stops.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// ReadPump pumps messages from the connection into the session loop.
func (s *Session) ReadPump(ctx context.Context) {
	defer s.Close()

	for {
		_, msg, err := s.player.Conn.ReadMessage()
		if err != nil {
			slog.InfoContext(ctx, "Player connection closed", "session.id", s.ID, "player.id", s.player.ID, "error", err)
			return
		}
		select {
		case s.commands <- command{message: msg}:
		case <-s.done:
			return
		}
	}
}

// scheduleComputerMove queues the computer's move after the thinking delay.
// The tick carries the current generation so a reset in the meantime turns
// it into a no-op.
func (s *Session) scheduleComputerMove() {
	cmd := command{tick: true, generation: s.controller.Generation()}
	time.AfterFunc(s.delay, func() {
		select {
		case s.commands <- cmd:
		case <-s.done:
		}
	})
}

// pushUpdate sends the current snapshot to the player.
func (s *Session) pushUpdate(ctx context.Context) {
	data, err := json.Marshal(s.updateMessage())
	if err != nil {
		slog.ErrorContext(ctx, "error marshalling update", "session.id", s.ID, "error", err)
		return
	}
	if err := s.player.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
		slog.WarnContext(ctx, "error writing update to player", "session.id", s.ID, "player.id", s.player.ID, "error", err)
	}
}

func (s *Session) updateMessage() *proto.ServerToClientMessage {
	snap := s.controller.Snapshot()
	msg := &proto.ServerToClientMessage{
		Type:      proto.TypeUpdate,
		SessionID: s.ID,
		Board:     snap.Board,
		State:     string(snap.State),
		Status:    snap.Status,
		Next:      s.controller.ActiveMark(),
		Score: proto.ScoreMessage{
			Player:   snap.Score.PlayerWins,
			Computer: snap.Score.OpponentWins,
			Draws:    snap.Score.Draws,
		},
		Difficulty: string(snap.Difficulty),
		DelayMs:    s.delay.Milliseconds(),
	}
	if snap.Result.Status == game.Win {
		msg.Winner = snap.Result.Winner
		msg.WinningLine = snap.Result.Line[:]
	}
	return msg
}

// recordFinish reports a game that just ended.
func (s *Session) recordFinish(ctx context.Context) {
	snap := s.controller.Snapshot()
	outcome := snap.Result.Status.String()

	finishedCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("game.outcome", outcome),
		attribute.String("game.winner", string(snap.Result.Winner)),
		attribute.String("game.difficulty", string(snap.Difficulty)),
	))
	slog.InfoContext(ctx, "Game finished", "session.id", s.ID, "game.outcome", outcome,
		"game.winner", snap.Result.Winner, "game.board", snap.Board.String())

	s.publish(ctx, events.TypeGameFinished, events.GameFinishedPayload{
		SessionID:    s.ID,
		Outcome:      outcome,
		Winner:       string(snap.Result.Winner),
		Difficulty:   string(snap.Difficulty),
		Board:        snap.Board.String(),
		PlayerWins:   snap.Score.PlayerWins,
		ComputerWins: snap.Score.OpponentWins,
		Draws:        snap.Score.Draws,
	})
}

func (s *Session) sessionPayload() events.SessionPayload {
	return events.SessionPayload{
		SessionID:  s.ID,
		PlayerID:   s.player.ID,
		Difficulty: string(s.controller.Difficulty()),
	}
}

// publish sends an event and only logs failures; gameplay never depends on it.
func (s *Session) publish(ctx context.Context, eventType string, payload any) {
	event, err := events.NewEvent(eventType, payload)
	if err != nil {
		slog.ErrorContext(ctx, "failed to build event", "session.id", s.ID, "event.type", eventType, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := s.publisher.Publish(ctx, event); err != nil {
		slog.WarnContext(ctx, "failed to publish event", "session.id", s.ID, "event.type", eventType, "error", err)
	}
}
