package models

import (
	"bytes"
	"regexp"
	"strings"
)

// ContentTypePDF is the media type of every rendered report
const ContentTypePDF = "application/pdf"

// ReportDocument is a fully materialized health report ready for download.
// Content is positioned at offset 0.
type ReportDocument struct {
	Filename    string        `json:"filename"`
	ContentType string        `json:"content_type"`
	Pages       int           `json:"pages"`
	Size        int64         `json:"size"`
	Content     *bytes.Reader `json:"-"`
}

var nonAlphanumeric = regexp.MustCompile(`[^A-Za-z0-9]+`)

// ReportFilename builds "Health_Report_<name>.pdf", replacing every run of
// non-alphanumeric characters in the name with a single underscore.
func ReportFilename(displayName string) string {
	name := nonAlphanumeric.ReplaceAllString(strings.TrimSpace(displayName), "_")
	if name == "" {
		name = "Worker"
	}
	return "Health_Report_" + name + ".pdf"
}
