package config

import (
	"fmt"

	"github.com/lazyserp/CuraVie/internal/common"
)

const redacted = "********"

// Service is a read-only view of the loaded configuration
type Service struct {
	config *common.Config
}

// NewService creates a new config service
func NewService(cfg *common.Config) *Service {
	return &Service{config: cfg}
}

// GetConfig returns a deep copy of the configuration; callers may modify it freely
func (s *Service) GetConfig() *common.Config {
	return common.DeepCloneConfig(s.config)
}

// Redacted returns a copy safe to expose over the API, with API keys masked
func (s *Service) Redacted() *common.Config {
	cfg := common.DeepCloneConfig(s.config)
	if cfg.Gemini.APIKey != "" {
		cfg.Gemini.APIKey = redacted
	}
	if cfg.Claude.APIKey != "" {
		cfg.Claude.APIKey = redacted
	}
	return cfg
}

// Server configuration accessors
func (s *Service) GetServerPort() int {
	return s.config.Server.Port
}

func (s *Service) GetServerHost() string {
	return s.config.Server.Host
}

func (s *Service) GetServerURL() string {
	return fmt.Sprintf("http://%s:%d", s.config.Server.Host, s.config.Server.Port)
}

// Report configuration accessors
func (s *Service) GetRegion() string {
	return s.config.Report.Region
}

func (s *Service) GetProfileURL() string {
	return s.config.Report.ProfileURL
}

func (s *Service) GetMaxBodyBytes() int64 {
	return s.config.Server.MaxBodyBytes
}

// GetLLMModel returns the configured model identifier, provider prefix included
func (s *Service) GetLLMModel() string {
	return s.config.LLM.Model
}
