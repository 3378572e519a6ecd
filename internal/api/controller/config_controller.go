package controller

import (
	"net/http"

	"ctchen222/Solo-Tic-Tac-Toe/internal/api/models"
	"ctchen222/Solo-Tic-Tac-Toe/internal/api/response"
	"ctchen222/Solo-Tic-Tac-Toe/internal/api/service"

	"github.com/gin-gonic/gin"
)

// SessionCounter reports how many game sessions are running.
type SessionCounter interface {
	ActiveSessions() int64
}

// ConfigController serves the small read-only HTTP API next to the game.
type ConfigController struct {
	configService service.ConfigService
	sessions      SessionCounter
}

// NewConfigController creates a new ConfigController.
func NewConfigController(configService service.ConfigService, sessions SessionCounter) *ConfigController {
	return &ConfigController{
		configService: configService,
		sessions:      sessions,
	}
}

// Config handles GET /api/config. The body is the bare config object so
// the client can read apiKey directly.
func (cc *ConfigController) Config(c *gin.Context) {
	c.JSON(http.StatusOK, cc.configService.PublicConfig(c.Request.Context()))
}

// Health handles GET /healthz.
func (cc *ConfigController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Stats handles GET /api/stats.
func (cc *ConfigController) Stats(c *gin.Context) {
	response.SuccessResponse(c, models.Stats{ActiveSessions: cc.sessions.ActiveSessions()})
}
