package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/lazyserp/CuraVie/internal/common"
	"github.com/lazyserp/CuraVie/internal/interfaces"
)

type ConfigHandler struct {
	logger    arbor.ILogger
	configSvc interfaces.ConfigService
}

func NewConfigHandler(logger arbor.ILogger, configSvc interfaces.ConfigService) *ConfigHandler {
	return &ConfigHandler{
		logger:    logger,
		configSvc: configSvc,
	}
}

// ConfigResponse represents the configuration response
type ConfigResponse struct {
	Version string         `json:"version"`
	Build   string         `json:"build"`
	URL     string         `json:"url"`
	Config  *common.Config `json:"config"`
}

// GetConfig returns the loaded configuration with API keys masked
func (h *ConfigHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	response := ConfigResponse{
		Version: common.Version,
		Build:   common.Build,
		URL:     h.configSvc.GetServerURL(),
		Config:  h.configSvc.Redacted(),
	}

	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error().Err(err).Msg("Failed to encode config response")
	}
}
