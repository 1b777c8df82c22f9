package interfaces

import "github.com/lazyserp/CuraVie/internal/common"

// ConfigService exposes the loaded configuration to handlers
type ConfigService interface {
	// GetConfig returns a deep copy of the configuration
	GetConfig() *common.Config
	// Redacted returns a copy with secrets masked, safe to serve over the API
	Redacted() *common.Config
	GetServerURL() string
	GetRegion() string
	GetProfileURL() string
	GetMaxBodyBytes() int64
}
