package extract

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dslipak/pdf"

	"github.com/akolanti/intellifile/internal/domain/docmodel"
)

func extractPDF(path string) (Result, error) {
	logger.Debug("extractPDF", "attempting extraction", path)
	f, err := pdf.Open(path)
	if err != nil {
		logger.Error("failed opening of pdf file", "error", err)
		return Result{}, fmt.Errorf("%w: open pdf: %v", docmodel.ErrExtractionFailed, err)
	}

	numPages := f.NumPage()
	var parts []string
	for i := 1; i <= numPages; i++ {
		page := f.Page(i)
		if page.V.IsNull() {
			continue
		}

		content, err := protectExtract(page)
		if err != nil {
			// keep going, other pages may still parse
			logger.Error("Error parsing page content", "page", i, "error", err)
			continue
		}
		parts = append(parts, content)
	}

	if numPages > 0 && len(parts) == 0 {
		return Result{}, fmt.Errorf("%w: no readable pages in pdf", docmodel.ErrExtractionFailed)
	}

	props := pdfProperties(f, numPages)
	return Result{Text: normalizeWhitespace(strings.Join(parts, " ")), Properties: props}, nil
}

// pdfProperties reads the Info dictionary, best effort. The return is named
// so a recovered panic still hands back the page count gathered before it.
func pdfProperties(f *pdf.Reader, numPages int) (props Properties) {
	props = Properties{PageCount: numPages}

	defer func() {
		//malformed trailers can panic inside the reader
		if r := recover(); r != nil {
			logger.Error("pdfProperties", "recovered", r)
		}
	}()

	info := f.Trailer().Key("Info")
	if info.IsNull() {
		return props
	}
	props.Title = info.Key("Title").Text()
	props.Author = info.Key("Author").Text()
	props.Subject = info.Key("Subject").Text()
	props.Creator = info.Key("Creator").Text()
	return props
}

func protectExtract(page pdf.Page) (string, error) {
	type result struct {
		content string
		err     error
	}
	resChan := make(chan result, 1)

	go func() {
		content, err := page.GetPlainText(nil)
		resChan <- result{content, err}
	}()
	select {
	case r := <-resChan:
		return r.content, r.err
	case <-time.After(time.Second * 10):
		logger.Error("pageExtract", "timeout")
		return "", errors.New("timeout")
	}
}
