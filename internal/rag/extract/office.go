package extract

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/lu4p/cat"

	"github.com/akolanti/intellifile/internal/domain/docmodel"
)

// extractWithCat reads .doc, .odt, .rtf or plaintext files. Those formats
// carry no structural properties we can reach.
func extractWithCat(path string) (Result, error) {
	text, err := cat.File(path)
	if err != nil {
		logger.Error("Error extracting content from doc", "error", err)
		return Result{}, fmt.Errorf("%w: %v", docmodel.ErrExtractionFailed, err)
	}
	return Result{Text: normalizeWhitespace(text)}, nil
}

func extractDOCX(path string) (Result, error) {
	text, err := cat.File(path)
	if err != nil {
		logger.Error("Error extracting content from docx", "error", err)
		return Result{}, fmt.Errorf("%w: %v", docmodel.ErrExtractionFailed, err)
	}

	//core properties live in the zip next to the document body
	props := docxProperties(path)
	return Result{Text: normalizeWhitespace(text), Properties: props}, nil
}

// coreXML mirrors docProps/core.xml. Prefixes are ignored by the decoder so
// dc:title matches "title".
type coreXML struct {
	Title   string `xml:"title"`
	Subject string `xml:"subject"`
	Creator string `xml:"creator"`
}

func docxProperties(path string) Properties {
	reader, err := zip.OpenReader(path)
	if err != nil {
		logger.Debug("docxProperties", "not a readable zip", path)
		return Properties{}
	}
	defer reader.Close()

	for _, file := range reader.File {
		if file.Name != "docProps/core.xml" {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			break
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			break
		}

		var core coreXML
		if err := xml.Unmarshal(content, &core); err != nil {
			logger.Debug("docxProperties", "core.xml parse failed", err)
			break
		}
		return Properties{
			Title:   strings.TrimSpace(core.Title),
			Author:  strings.TrimSpace(core.Creator),
			Subject: strings.TrimSpace(core.Subject),
		}
	}
	return Properties{}
}
