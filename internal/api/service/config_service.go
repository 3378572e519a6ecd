package service

import (
	"context"

	"ctchen222/Solo-Tic-Tac-Toe/internal/api/models"
)

// ConfigService decides what configuration the client is allowed to see.
type ConfigService interface {
	PublicConfig(ctx context.Context) models.PublicConfig
}

type configService struct {
	apiKeyConfigured bool
}

// NewConfigService creates a ConfigService. Only whether apiKey is set is
// retained; the credential itself never leaves this constructor.
func NewConfigService(apiKey string) ConfigService {
	return &configService{apiKeyConfigured: apiKey != ""}
}

// PublicConfig returns the masked key when one is configured, nil otherwise.
func (s *configService) PublicConfig(_ context.Context) models.PublicConfig {
	if !s.apiKeyConfigured {
		return models.PublicConfig{}
	}
	masked := models.MaskedAPIKey
	return models.PublicConfig{APIKey: &masked}
}
