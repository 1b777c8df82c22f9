package report

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/lazyserp/CuraVie/internal/common"
	"github.com/lazyserp/CuraVie/internal/interfaces"
	"github.com/lazyserp/CuraVie/internal/metrics"
	"github.com/lazyserp/CuraVie/internal/models"
)

// Result is a delivered report
type Result struct {
	ReportID string
	Document *models.ReportDocument
}

// Service runs the report pipeline: aggregate, compile, generate, sanitize, render.
// It holds no per-run state and is safe for concurrent use.
type Service struct {
	llm      interfaces.LLMService
	renderer interfaces.PDFService
	region   string
	logger   arbor.ILogger
	metrics  *metrics.Metrics
}

// NewService creates a report service. metrics may be nil.
func NewService(llmService interfaces.LLMService, renderer interfaces.PDFService, region string, logger arbor.ILogger, m *metrics.Metrics) *Service {
	if region == "" {
		region = DefaultRegion
	}
	return &Service{
		llm:      llmService,
		renderer: renderer,
		region:   region,
		logger:   logger,
		metrics:  m,
	}
}

// Prompt compiles the prompt that Generate would send, without generating
func (s *Service) Prompt(w *models.Worker) (string, error) {
	if w == nil || w.Profile == nil {
		return "", &Failure{Stage: StageNoProfile, Err: ErrProfileMissing}
	}
	return CompilePrompt(w.Profile, Aggregate(w), s.region), nil
}

// Generate produces the health report document for a worker.
// On failure the error is a *Failure and no document is returned.
func (s *Service) Generate(ctx context.Context, w *models.Worker) (*Result, error) {
	run := &pipelineRun{
		id:     common.NewReportID(),
		logger: s.logger,
		start:  time.Now(),
	}

	if w == nil || w.Profile == nil {
		return nil, s.fail(run, StageNoProfile, ErrProfileMissing)
	}
	run.logger.Info().Str("report_id", run.id).Int64("worker_id", w.ID).Msg("Generating health report")

	run.enter(StageAggregating)
	sel := Aggregate(w)

	run.enter(StageCompiling)
	prompt := CompilePrompt(w.Profile, sel, s.region)
	run.logger.Debug().
		Str("report_id", run.id).
		Int("prompt_length", len(prompt)).
		Bool("has_checkup", sel.Latest != nil).
		Int("vaccinations", len(sel.Vaccinations)).
		Int("visits", len(sel.Visits)).
		Msg("Prompt compiled")

	run.enter(StageGenerating)
	genStart := time.Now()
	narrative, err := s.llm.Generate(ctx, prompt)
	s.metrics.ObserveGeneration(s.llm.Model(), genStart)
	if err != nil {
		return nil, s.fail(run, StageGenerating, err)
	}

	run.enter(StageSanitizing)
	narrative = Sanitize(narrative)

	run.enter(StageRendering)
	renderStart := time.Now()
	doc, err := s.renderer.RenderReport(narrative, w.DisplayName())
	if err != nil {
		return nil, s.fail(run, StageRendering, err)
	}
	if doc == nil || doc.Content == nil || doc.Content.Len() == 0 {
		return nil, s.fail(run, StageRendering, fmt.Errorf("renderer returned an empty document"))
	}
	s.metrics.ObserveRender(renderStart, doc.Pages)

	run.enter(StageDelivered)
	s.metrics.RecordOutcome(string(StageDelivered))
	run.logger.Info().
		Str("report_id", run.id).
		Str("filename", doc.Filename).
		Int("pages", doc.Pages).
		Int64("bytes", doc.Size).
		Dur("duration", time.Since(run.start)).
		Msg("Health report delivered")

	return &Result{ReportID: run.id, Document: doc}, nil
}

func (s *Service) fail(run *pipelineRun, stage Stage, err error) *Failure {
	f := &Failure{Stage: stage, ReportID: run.id, Err: err}
	s.metrics.RecordOutcome(f.Reason())

	event := run.logger.Error()
	if stage == StageNoProfile {
		event = run.logger.Warn()
	}
	event.
		Str("report_id", run.id).
		Str("stage", string(stage)).
		Str("reason", f.Reason()).
		Dur("duration", time.Since(run.start)).
		Err(err).
		Msg("Health report failed")

	return f
}

// pipelineRun tracks one invocation for logging
type pipelineRun struct {
	id     string
	logger arbor.ILogger
	start  time.Time
	stage  Stage
}

func (r *pipelineRun) enter(stage Stage) {
	r.logger.Debug().
		Str("report_id", r.id).
		Str("from", string(r.stage)).
		Str("to", string(stage)).
		Msg("Report stage transition")
	r.stage = stage
}
