package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"ctchen222/Solo-Tic-Tac-Toe/internal/api/controller"
	"ctchen222/Solo-Tic-Tac-Toe/internal/api/models"
	"ctchen222/Solo-Tic-Tac-Toe/internal/api/response"
	"ctchen222/Solo-Tic-Tac-Toe/internal/bot"
	"ctchen222/Solo-Tic-Tac-Toe/internal/player"
	"ctchen222/Solo-Tic-Tac-Toe/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("server")

// SessionStarter creates a game session for a connected player.
type SessionStarter interface {
	Start(ctx context.Context, p *player.Player, opts session.Options) *session.Session
}

// Options are the server-wide defaults.
type Options struct {
	StaticDir         string
	DefaultDifficulty bot.Difficulty
	DefaultDelay      time.Duration
}

type Server struct {
	engine   *gin.Engine
	sessions SessionStarter
	upgrader websocket.Upgrader
	opts     Options
}

func NewServer(sessions SessionStarter, configController *controller.ConfigController, opts Options) *Server {
	if opts.DefaultDifficulty == "" {
		opts.DefaultDifficulty = bot.DefaultDifficulty
	}
	s := &Server{
		engine:   gin.New(),
		sessions: sessions,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		opts: opts,
	}
	s.registerHandlers(configController)
	return s
}

func (s *Server) registerHandlers(configController *controller.ConfigController) {
	s.engine.Use(gin.Recovery(), requestLogger())

	api := s.engine.Group("/api")
	{
		api.GET("/config", configController.Config)
		api.GET("/stats", configController.Stats)
	}
	s.engine.GET("/healthz", configController.Health)
	s.engine.GET("/ws", s.handleWebSocket)

	s.engine.NoRoute(gin.WrapH(http.FileServer(http.Dir(s.opts.StaticDir))))
}

// Engine returns the HTTP handler serving the API, the websocket and the
// static client.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// handleWebSocket validates the session parameters, upgrades the connection
// and hands the player over to the session starter.
func (s *Server) handleWebSocket(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "server.handleWebSocket", trace.WithAttributes(
		attribute.String("http.url", c.Request.URL.String()),
		attribute.String("http.method", c.Request.Method),
	))
	defer span.End()

	var req models.SessionRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		slog.WarnContext(ctx, "rejecting websocket request", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid session parameters")
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	opts := session.Options{Difficulty: s.opts.DefaultDifficulty, Delay: s.opts.DefaultDelay}
	if req.Difficulty != "" {
		d, err := bot.ParseDifficulty(req.Difficulty)
		if err != nil {
			response.ErrorResponse(c, http.StatusBadRequest, err.Error())
			return
		}
		opts.Difficulty = d
	}
	if req.Delay != "" {
		opts.Delay = session.ParseDelay(req.Delay)
	}
	span.SetAttributes(
		attribute.String("game.difficulty", string(opts.Difficulty)),
		attribute.Int64("game.delay_ms", opts.Delay.Milliseconds()),
	)

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.WarnContext(ctx, "Failed to upgrade connection", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to upgrade connection")
		return
	}

	playerID := uuid.New().String()
	span.SetAttributes(attribute.String("player.id", playerID))

	sess := s.sessions.Start(ctx, player.NewPlayer(playerID, conn), opts)
	if sess == nil {
		slog.WarnContext(ctx, "server is shutting down, dropping connection", "player.id", playerID)
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
		_ = conn.Close()
		return
	}
	span.SetAttributes(attribute.String("session.id", sess.ID))
}

// requestLogger logs each HTTP request through slog.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.DebugContext(c.Request.Context(), "http request",
			"http.method", c.Request.Method,
			"http.path", c.Request.URL.Path,
			"http.status", c.Writer.Status(),
			"http.duration", time.Since(start),
		)
	}
}
