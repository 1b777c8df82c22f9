package app

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/lazyserp/CuraVie/internal/common"
	"github.com/lazyserp/CuraVie/internal/handlers"
	"github.com/lazyserp/CuraVie/internal/interfaces"
	"github.com/lazyserp/CuraVie/internal/metrics"
	"github.com/lazyserp/CuraVie/internal/services/config"
	"github.com/lazyserp/CuraVie/internal/services/llm"
	"github.com/lazyserp/CuraVie/internal/services/pdf"
	"github.com/lazyserp/CuraVie/internal/services/report"
)

// App holds all application components and dependencies
type App struct {
	Config  *common.Config
	Logger  arbor.ILogger
	Metrics *metrics.Metrics

	// Services
	ConfigService interfaces.ConfigService
	LLMService    interfaces.LLMService
	PDFService    interfaces.PDFService
	ReportService *report.Service

	// HTTP handlers
	APIHandler    *handlers.APIHandler
	ConfigHandler *handlers.ConfigHandler
	ReportHandler *handlers.ReportHandler
}

// New initializes the application. No network connection is made: the
// generation service is only contacted when a report is requested.
func New(ctx context.Context, cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config:  cfg,
		Logger:  logger,
		Metrics: metrics.New(),
	}

	if err := app.initServices(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.initHandlers()

	logger.Info().
		Str("model", app.LLMService.Model()).
		Str("region", cfg.Report.Region).
		Msg("Application initialization complete")

	return app, nil
}

func (a *App) initServices(ctx context.Context) error {
	a.ConfigService = config.NewService(a.Config)

	llmClient, err := llm.NewClientFromConfig(ctx, a.Config, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to create generation client: %w", err)
	}
	a.LLMService = llmClient

	a.PDFService = pdf.NewService(a.Config.PDF, a.Logger)

	a.ReportService = report.NewService(a.LLMService, a.PDFService, a.Config.Report.Region, a.Logger, a.Metrics)
	return nil
}

func (a *App) initHandlers() {
	a.APIHandler = handlers.NewAPIHandler(a.Logger, a.LLMService.Model())
	a.ConfigHandler = handlers.NewConfigHandler(a.Logger, a.ConfigService)
	a.ReportHandler = handlers.NewReportHandler(a.ReportService, a.ConfigService, a.Logger)
}

// Close releases provider resources
func (a *App) Close() error {
	if a.LLMService != nil {
		if err := a.LLMService.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close LLM service")
			return err
		}
		a.Logger.Debug().Msg("LLM service closed")
	}
	return nil
}
