package extract

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/akolanti/intellifile/internal/domain/docmodel"
	"github.com/akolanti/intellifile/pkg/logger_i"
)

var logger = logger_i.NewLogger("Extract")

// Properties are the format-specific structural fields. Empty string / zero
// means the format did not carry the property.
type Properties struct {
	Title     string
	Author    string
	Subject   string
	Creator   string
	PageCount int
}

type Result struct {
	Text       string
	Properties Properties
}

func GetDocType(path string) docmodel.DocType {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".pdf":
		return docmodel.PDF
	case ".docx":
		return docmodel.DOCX
	case ".doc", ".rtf", ".txt", ".odt":
		return docmodel.DOC
	default:
		return docmodel.ERR
	}
}

// ExtractDocument pulls plain text and whatever structural properties the
// format exposes. Property extraction is best effort and never fails the
// call, a text extraction failure does.
func ExtractDocument(path string) (Result, error) {
	switch GetDocType(path) {
	case docmodel.PDF:
		return extractPDF(path)
	case docmodel.DOCX:
		return extractDOCX(path)
	case docmodel.DOC:
		return extractWithCat(path)
	default:
		return Result{}, fmt.Errorf("%w: %s", docmodel.ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// normalizeWhitespace collapses runs of whitespace so chunk boundaries are
// stable across extractors.
func normalizeWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
