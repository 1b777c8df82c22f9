package interfaces

import "github.com/lazyserp/CuraVie/internal/models"

// PDFService renders a sanitized narrative into a downloadable document
type PDFService interface {
	// RenderReport lays out the narrative under a header naming the worker.
	// Failures are returned as *pdf.RenderError; a partial document is never
	// returned.
	RenderReport(narrative, displayName string) (*models.ReportDocument, error)
}
