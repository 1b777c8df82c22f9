package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/ternarybob/arbor"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"github.com/lazyserp/CuraVie/internal/common"
	"github.com/lazyserp/CuraVie/internal/interfaces"
	"github.com/lazyserp/CuraVie/internal/models"
)

const (
	pageMargin   = 15.0
	bodyFont     = "Arial"
	reportTitle  = "Health Report"
	defaultSize  = 11.0
	lineHeightPt = 0.45 // mm of line height per point of font size
)

var disableConfigDir sync.Once

// Service implements interfaces.PDFService
type Service struct {
	fontSize float64
	compress bool
	author   string
	logger   arbor.ILogger
	now      func() time.Time
}

// Compile-time assertion
var _ interfaces.PDFService = (*Service)(nil)

// NewService creates a new PDF service
func NewService(cfg common.PDFConfig, logger arbor.ILogger) *Service {
	// pdfcpu must not create its config directory under the user's home
	disableConfigDir.Do(api.DisableConfigDir)

	fontSize := cfg.FontSize
	if fontSize <= 0 {
		fontSize = defaultSize
	}
	author := cfg.Author
	if author == "" {
		author = common.AppName
	}

	return &Service{
		fontSize: fontSize,
		compress: cfg.Compress,
		author:   author,
		logger:   logger,
		now:      time.Now,
	}
}

// RenderReport lays out the narrative under a header naming the worker and
// returns the finished, validated document.
func (s *Service) RenderReport(narrative, displayName string) (doc *models.ReportDocument, err error) {
	filename := models.ReportFilename(displayName)

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().Str("filename", filename).Str("panic", fmt.Sprintf("%v", r)).Msg("Recovered from panic while rendering PDF")
			doc = nil
			err = &RenderError{Filename: filename, Op: "panic", Err: fmt.Errorf("%v", r)}
		}
	}()

	if strings.TrimSpace(narrative) == "" {
		return nil, &RenderError{Filename: filename, Op: "layout", Err: fmt.Errorf("narrative is empty")}
	}

	s.logger.Debug().
		Int("narrative_len", len(narrative)).
		Str("filename", filename).
		Msg("Rendering health report PDF")

	name := strings.TrimSpace(displayName)
	if name == "" {
		name = "Worker"
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetCompression(s.compress)
	pdf.SetTitle(reportTitle+": "+name, true)
	pdf.SetAuthor(s.author, true)
	pdf.SetCreator(common.AppName+" "+common.Version, true)
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin+5)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-pageMargin)
		pdf.SetFont(bodyFont, "I", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(0, 8, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	})
	pdf.AddPage()

	s.writeHeader(pdf, tr, name)

	md := goldmark.New(goldmark.WithExtensions(extension.Table, extension.Strikethrough))
	source := []byte(narrative)
	root := md.Parser().Parse(text.NewReader(source))

	renderer := newPDFRenderer(pdf, tr, source, s.fontSize)
	if err := renderer.render(root); err != nil {
		return nil, &RenderError{Filename: filename, Op: "layout", Err: err}
	}
	if pdf.Err() {
		return nil, &RenderError{Filename: filename, Op: "layout", Err: pdf.Error()}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, &RenderError{Filename: filename, Op: "output", Err: err}
	}

	pages, err := verify(buf.Bytes())
	if err != nil {
		s.logger.Error().Err(err).Str("filename", filename).Int("pdf_size", buf.Len()).Msg("Rendered PDF failed validation")
		return nil, &RenderError{Filename: filename, Op: "validate", Err: err}
	}

	s.logger.Debug().
		Str("filename", filename).
		Int("pdf_size", buf.Len()).
		Int("pages", pages).
		Msg("PDF generated successfully")

	return &models.ReportDocument{
		Filename:    filename,
		ContentType: models.ContentTypePDF,
		Pages:       pages,
		Size:        int64(buf.Len()),
		Content:     bytes.NewReader(buf.Bytes()),
	}, nil
}

func (s *Service) writeHeader(pdf *fpdf.Fpdf, tr func(string) string, name string) {
	pdf.SetFont(bodyFont, "B", s.fontSize+7)
	pdf.CellFormat(0, 10, tr(reportTitle), "", 1, "L", false, 0, "")

	pdf.SetFont(bodyFont, "", s.fontSize+1)
	pdf.CellFormat(0, 7, tr(name), "", 1, "L", false, 0, "")

	pdf.SetFont(bodyFont, "I", s.fontSize-2)
	pdf.SetTextColor(110, 110, 110)
	pdf.CellFormat(0, 6, "Generated on "+s.now().Format(models.DateLayout), "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)

	y := pdf.GetY() + 2
	pdf.SetDrawColor(160, 160, 160)
	pdf.Line(pageMargin, y, 210-pageMargin, y)
	pdf.SetY(y + 4)

	pdf.SetFont(bodyFont, "", s.fontSize)
}

// verify checks the rendered bytes with pdfcpu and returns the page count
func verify(data []byte) (int, error) {
	if len(data) == 0 {
		return 0, fmt.Errorf("document is empty")
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	if err := api.Validate(bytes.NewReader(data), conf); err != nil {
		return 0, fmt.Errorf("invalid PDF: %w", err)
	}

	pages, err := api.PageCount(bytes.NewReader(data), conf)
	if err != nil {
		return 0, fmt.Errorf("failed to count pages: %w", err)
	}
	if pages < 1 {
		return 0, fmt.Errorf("document has no pages")
	}
	return pages, nil
}
