package report

import (
	"errors"
	"fmt"

	"github.com/lazyserp/CuraVie/internal/services/llm"
	"github.com/lazyserp/CuraVie/internal/services/pdf"
)

// Stage is a step of a single report run
type Stage string

const (
	StageNoProfile   Stage = "no_profile"
	StageAggregating Stage = "aggregating"
	StageCompiling   Stage = "compiling"
	StageGenerating  Stage = "generating"
	StageSanitizing  Stage = "sanitizing"
	StageRendering   Stage = "rendering"
	StageDelivered   Stage = "delivered"
	StageFailed      Stage = "failed"
)

// ErrProfileMissing is returned when a report is requested for a worker without a profile
var ErrProfileMissing = errors.New("worker profile is missing")

// Failure describes why a report run stopped. Stage is where it stopped.
type Failure struct {
	Stage    Stage
	ReportID string
	Err      error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("report %s failed at %s: %v", f.ReportID, f.Stage, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Reason is a short machine-readable cause, used for metrics and API responses
func (f *Failure) Reason() string {
	var genErr *llm.GenerationError
	var renderErr *pdf.RenderError
	switch {
	case errors.Is(f.Err, ErrProfileMissing):
		return "profile_missing"
	case errors.As(f.Err, &genErr):
		return "generation_" + string(genErr.Kind)
	case errors.As(f.Err, &renderErr):
		return "render_failed"
	default:
		return "internal"
	}
}

// UserMessage is the text shown to the person who asked for the report
func (f *Failure) UserMessage() string {
	var genErr *llm.GenerationError
	switch {
	case errors.Is(f.Err, ErrProfileMissing):
		return "Error: Please complete the worker profile before generating a health report."
	case errors.As(f.Err, &genErr):
		return genErr.UserMessage()
	case f.Stage == StageRendering:
		return "Error: The health report could not be rendered as a document."
	default:
		return "Error: The health report could not be generated."
	}
}
