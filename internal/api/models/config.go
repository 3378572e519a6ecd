package models

// MaskedAPIKey stands in for the configured credential in public responses.
const MaskedAPIKey = "***PROTECTED***"

// PublicConfig is the non-sensitive configuration exposed to the browser.
type PublicConfig struct {
	APIKey *string `json:"apiKey"`
}

// SessionRequest holds the query parameters of a websocket upgrade.
type SessionRequest struct {
	Difficulty string `form:"difficulty" binding:"omitempty,oneof=easy medium hard EASY MEDIUM HARD"`
	Delay      string `form:"delay"`
}

// Stats is a point-in-time view of server load.
type Stats struct {
	ActiveSessions int64 `json:"activeSessions"`
}
