package pdf

import (
	"strconv"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"
)

// pdfRenderer walks the narrative's markdown tree and writes it to the page.
// Generated narratives are mostly numbered sections with bullet lists.
type pdfRenderer struct {
	pdf        *fpdf.Fpdf
	tr         func(string) string
	source     []byte
	size       float64
	lineHeight float64
	bold       bool
	italic     bool
	lists      []listState
}

type listState struct {
	ordered bool
	next    int
}

func newPDFRenderer(pdf *fpdf.Fpdf, tr func(string) string, source []byte, size float64) *pdfRenderer {
	return &pdfRenderer{
		pdf:        pdf,
		tr:         tr,
		source:     source,
		size:       size,
		lineHeight: size * lineHeightPt,
	}
}

func (r *pdfRenderer) render(node ast.Node) error {
	return ast.Walk(node, r.walk)
}

func (r *pdfRenderer) updateFont() {
	style := ""
	if r.bold {
		style += "B"
	}
	if r.italic {
		style += "I"
	}
	r.pdf.SetFont(bodyFont, style, r.size)
}

// newline ends the current line unless the cursor is already at its start
func (r *pdfRenderer) newline() {
	if r.pdf.GetX() > pageMargin+0.01 {
		r.pdf.Ln(r.lineHeight)
	}
}

func (r *pdfRenderer) write(s string) {
	r.pdf.Write(r.lineHeight, r.tr(s))
}

func (r *pdfRenderer) walk(n ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node := n.(type) {
	case *ast.Heading:
		return r.handleHeading(node, entering)
	case *ast.Paragraph:
		if !entering {
			r.newline()
			if len(r.lists) == 0 {
				r.pdf.Ln(r.lineHeight / 2)
			}
		}
	case *ast.TextBlock:
		if !entering {
			r.newline()
		}
	case *ast.Text:
		if entering {
			r.write(string(node.Segment.Value(r.source)))
			switch {
			case node.HardLineBreak():
				r.pdf.Ln(r.lineHeight)
			case node.SoftLineBreak():
				r.write(" ")
			}
		}
	case *ast.String:
		if entering {
			r.write(string(node.Value))
		}
	case *ast.Emphasis:
		if node.Level >= 2 {
			r.bold = entering
		} else {
			r.italic = entering
		}
		r.updateFont()
	case *ast.CodeSpan:
		if entering {
			r.write(string(node.Text(r.source)))
		}
		return ast.WalkSkipChildren, nil
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		if entering {
			r.writeLines(n)
		}
		return ast.WalkSkipChildren, nil
	case *ast.List:
		return r.handleList(node, entering)
	case *ast.ListItem:
		return r.handleListItem(entering)
	case *ast.ThematicBreak:
		if entering {
			y := r.pdf.GetY() + 1
			r.pdf.Line(pageMargin, y, 210-pageMargin, y)
			r.pdf.Ln(3)
		}
	case *ast.HTMLBlock, *ast.RawHTML:
		return ast.WalkSkipChildren, nil
	case *extast.Table:
		if entering {
			r.renderTable(r.tableRows(node))
		}
		return ast.WalkSkipChildren, nil
	}
	return ast.WalkContinue, nil
}

func (r *pdfRenderer) handleHeading(n *ast.Heading, entering bool) (ast.WalkStatus, error) {
	if entering {
		r.pdf.Ln(r.lineHeight / 2)
		size := r.size
		switch n.Level {
		case 1:
			size += 4
		case 2:
			size += 2
		case 3:
			size += 1
		}
		r.pdf.SetFont(bodyFont, "B", size)
	} else {
		r.newline()
		r.pdf.Ln(1)
		r.updateFont()
	}
	return ast.WalkContinue, nil
}

func (r *pdfRenderer) handleList(n *ast.List, entering bool) (ast.WalkStatus, error) {
	if entering {
		start := n.Start
		if start == 0 {
			start = 1
		}
		r.lists = append(r.lists, listState{ordered: n.IsOrdered(), next: start})
	} else {
		r.lists = r.lists[:len(r.lists)-1]
		if len(r.lists) == 0 {
			r.pdf.Ln(r.lineHeight / 2)
		}
	}
	return ast.WalkContinue, nil
}

func (r *pdfRenderer) handleListItem(entering bool) (ast.WalkStatus, error) {
	if !entering {
		r.newline()
		return ast.WalkContinue, nil
	}
	if len(r.lists) == 0 {
		return ast.WalkContinue, nil
	}
	r.newline()
	depth := len(r.lists)
	state := &r.lists[depth-1]

	marker := "- "
	if state.ordered {
		marker = strconv.Itoa(state.next) + ". "
		state.next++
	}

	r.pdf.SetX(pageMargin + float64(depth-1)*6)
	r.write(marker)
	return ast.WalkContinue, nil
}

func (r *pdfRenderer) writeLines(n ast.Node) {
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		r.pdf.MultiCell(0, r.lineHeight, r.tr(strings.TrimRight(string(line.Value(r.source)), "\n")), "", "L", false)
	}
	r.pdf.Ln(r.lineHeight / 2)
}

func (r *pdfRenderer) tableRows(n *extast.Table) [][]string {
	var rows [][]string
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch child.(type) {
		case *extast.TableHeader, *extast.TableRow:
			var row []string
			for cell := child.FirstChild(); cell != nil; cell = cell.NextSibling() {
				row = append(row, strings.TrimSpace(string(cell.Text(r.source))))
			}
			rows = append(rows, row)
		}
	}
	return rows
}

// renderTable draws rows with equal-width columns; the first row is the header
func (r *pdfRenderer) renderTable(rows [][]string) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return
	}
	cols := len(rows[0])
	width := (210 - 2*pageMargin) / float64(cols)
	cellHeight := r.lineHeight + 1

	r.pdf.Ln(1)
	for i, row := range rows {
		style := ""
		if i == 0 {
			style = "B"
		}
		r.pdf.SetFont(bodyFont, style, r.size-1)
		for j := 0; j < cols; j++ {
			value := ""
			if j < len(row) {
				value = row[j]
			}
			r.pdf.CellFormat(width, cellHeight, fit(r.pdf, r.tr(value), width-2), "1", 0, "L", i == 0, 0, "")
		}
		r.pdf.Ln(cellHeight)
	}
	r.pdf.Ln(r.lineHeight / 2)
	r.updateFont()
}

// fit shortens an already translated string with an ellipsis until it is
// no wider than width
func fit(pdf *fpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	for len(s) > 0 && pdf.GetStringWidth(s+"...") > width {
		s = s[:len(s)-1]
	}
	return s + "..."
}
