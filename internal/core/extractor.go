package core

import (
	"fmt"
	"log"
	"os"

	"github.com/ledongthuc/pdf"
)

// Extractor produces per-page text for one uploaded file. Implementations
// must scope any filesystem resources to the duration of the call.
type Extractor interface {
	Extract(file UploadedFile) ([]PageRecord, *ExtractError)
}

// PDFExtractor extracts text from PDF bytes. The parsing library wants a
// seekable file, so the blob is written to a temporary file that is
// removed before Extract returns, on every exit path.
type PDFExtractor struct{}

func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

func (e *PDFExtractor) Extract(file UploadedFile) ([]PageRecord, *ExtractError) {
	tmp, err := os.CreateTemp("", "asknotes-*.pdf")
	if err != nil {
		return nil, &ExtractError{File: file.Name, Reason: fmt.Errorf("creating temp file: %w", err)}
	}
	defer removeTempFile(tmp.Name())

	if _, err := tmp.Write(file.Data); err != nil {
		tmp.Close()
		return nil, &ExtractError{File: file.Name, Reason: fmt.Errorf("writing temp file: %w", err)}
	}
	if err := tmp.Close(); err != nil {
		return nil, &ExtractError{File: file.Name, Reason: fmt.Errorf("closing temp file: %w", err)}
	}

	pages, err := extractPages(tmp.Name(), file.Name)
	if err != nil {
		return nil, &ExtractError{File: file.Name, Reason: err}
	}
	return pages, nil
}

func extractPages(path, sourceName string) (pages []PageRecord, err error) {
	// The parser panics on some malformed inputs; a corrupt upload must
	// surface as an ExtractError for that file, not take down the batch.
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("pdf parser panic: %v", r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening pdf: %w", err)
	}
	defer f.Close()

	total := r.NumPage()
	for i := 1; i <= total; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			// A single unreadable page does not fail the file. Image-only
			// pages simply yield empty text and are filtered downstream.
			log.Printf("Skipping page %d of %s: %v", i, sourceName, err)
			continue
		}
		pages = append(pages, PageRecord{SourceFile: sourceName, Text: text})
	}
	return pages, nil
}

// removeTempFile deletes a scoped temp file. Failure only leaks disk, so
// it is logged as a warning and never escalated.
func removeTempFile(path string) {
	if err := os.Remove(path); err != nil {
		log.Printf("Warning: failed to delete temp file %s: %v", path, err)
	}
}
