package session

import (
	"context"
	"encoding/json"
	"log/slog"

	"ctchen222/Solo-Tic-Tac-Toe/internal/bot"
	"ctchen222/Solo-Tic-Tac-Toe/internal/validator"
	"ctchen222/Solo-Tic-Tac-Toe/pkg/proto"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// HandleMessage decodes a client command and dispatches it. Malformed or
// invalid commands are logged and dropped.
func (s *Session) HandleMessage(ctx context.Context, rawMessage []byte) {
	ctx, span := tracer.Start(ctx, "session.HandleMessage", trace.WithAttributes(
		attribute.String("session.id", s.ID),
		attribute.String("player.id", s.player.ID),
	))
	defer span.End()

	var message proto.ClientToServerMessage
	if err := json.Unmarshal(rawMessage, &message); err != nil {
		slog.WarnContext(ctx, "error unmarshalling message", "session.id", s.ID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Error unmarshalling message")
		return
	}

	if err := validator.Validate(message); err != nil {
		slog.WarnContext(ctx, "invalid message from player", "session.id", s.ID, "player.id", s.player.ID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid message format")
		return
	}

	span.SetAttributes(attribute.String("message.type", message.Type))

	switch message.Type {
	case proto.TypeMove:
		s.handleMove(ctx, *message.Cell)
	case proto.TypeReset:
		s.controller.Reset()
		slog.InfoContext(ctx, "Board reset", "session.id", s.ID)
		s.pushUpdate(ctx)
	case proto.TypeResetScore:
		s.controller.ResetScore()
		slog.InfoContext(ctx, "Score reset", "session.id", s.ID)
		s.pushUpdate(ctx)
	case proto.TypeDifficulty:
		s.handleDifficulty(ctx, message.Difficulty)
	case proto.TypeDelay:
		s.delay = ParseDelay(message.Delay)
		slog.InfoContext(ctx, "Computer delay changed", "session.id", s.ID, "delay", s.delay)
		s.pushUpdate(ctx)
	}
}

// handleMove applies the human's move and, if the game goes on, schedules
// the computer's reply.
func (s *Session) handleMove(ctx context.Context, cell int) {
	ctx, span := tracer.Start(ctx, "session.handleMove", trace.WithAttributes(
		attribute.String("session.id", s.ID),
		attribute.Int("move.cell", cell),
	))
	defer span.End()

	if !s.controller.HumanPlays(cell) {
		slog.DebugContext(ctx, "ignoring move", "session.id", s.ID, "move.cell", cell, "state", s.controller.State())
		span.SetAttributes(attribute.Bool("move.valid", false))
		return
	}
	span.SetAttributes(attribute.Bool("move.valid", true))
	movesCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("move.side", "human")))

	if !s.controller.GameActive() {
		s.recordFinish(ctx)
		s.pushUpdate(ctx)
		return
	}

	s.pushUpdate(ctx)
	s.scheduleComputerMove()
}

// computerMove plays a scheduled computer move. Stale ticks are dropped. An
// error means the controller reached a state it cannot recover from.
func (s *Session) computerMove(ctx context.Context, generation uint64) error {
	ctx, span := tracer.Start(ctx, "session.computerMove", trace.WithAttributes(
		attribute.String("session.id", s.ID),
		attribute.String("game.difficulty", string(s.controller.Difficulty())),
		attribute.Int64("game.generation", int64(generation)),
	))
	defer span.End()

	applied, err := s.controller.Tick(generation)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Computer move failed")
		return err
	}
	if !applied {
		slog.DebugContext(ctx, "dropping stale computer move", "session.id", s.ID, "game.generation", generation)
		return nil
	}
	movesCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("move.side", "computer")))

	if !s.controller.GameActive() {
		s.recordFinish(ctx)
	}
	s.pushUpdate(ctx)
	return nil
}

func (s *Session) handleDifficulty(ctx context.Context, raw string) {
	d, err := bot.ParseDifficulty(raw)
	if err != nil {
		slog.WarnContext(ctx, "ignoring difficulty change", "session.id", s.ID, "error", err)
		return
	}
	s.controller.ChangeDifficulty(d)
	slog.InfoContext(ctx, "Difficulty changed", "session.id", s.ID, "game.difficulty", d)
	s.pushUpdate(ctx)
}
