package ocr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nfe-tools/nf-indexer/constants"
)

// extractPDF prefers the embedded text layer; scanned PDFs with no usable
// layer fall back to rasterize+OCR.
func (e *Extractor) extractPDF(ctx context.Context, path string) (Result, error) {
	text, pages, warns, err := e.pdfToText(ctx, path)
	if err == nil && len(strings.TrimSpace(text)) >= 32 {
		return Result{
			Candidates: []Candidate{{ConfigID: ConfigGeneral, Text: text}},
			Pages:      pages,
			SourceType: constants.PDF,
			Method:     "pdf-text",
			Warnings:   warns,
		}, nil
	}
	if err != nil {
		warns = append(warns, fmt.Sprintf("pdftotext: %v", err))
	}

	cands, pages, w, err := e.pdfToOCR(ctx, path)
	warns = append(warns, w...)
	if err != nil {
		return Result{SourceType: constants.PDF, Warnings: warns}, err
	}
	return Result{
		Candidates: cands,
		Pages:      pages,
		SourceType: constants.PDF,
		Method:     "pdf-ocr",
		Language:   e.cfg.TesseractLang,
		Warnings:   warns,
	}, nil
}

func (e *Extractor) pdfToText(ctx context.Context, path string) (text string, pages int, warnings []string, err error) {
	// pdftotext -layout -enc UTF-8 -eol unix <path> -
	out, errb, err := e.runner.Run(ctx, e.cfg.Pdftotext, "-layout", "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		return "", 0, []string{string(errb)}, err
	}
	text = string(out)
	// A form-feed \f is used as page separator by default
	pages = 1 + strings.Count(text, "\f")
	return text, pages, nil, nil
}

// pdfToOCR rasterizes the PDF and runs both recognition passes per page,
// concatenating pages within each pass so the two candidates stay comparable.
func (e *Extractor) pdfToOCR(ctx context.Context, path string) ([]Candidate, int, []string, error) {
	tmpDir, err := os.MkdirTemp("", "nf-pp-*")
	if err != nil {
		return nil, 0, nil, err
	}
	defer func() {
		if rmErr := os.RemoveAll(tmpDir); rmErr != nil {
			e.logger.Warn("failed to remove temp dir", "dir", tmpDir, "error", rmErr)
		}
	}()

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -r 300 -png <in.pdf> <tmp/page>
	_, errb, err := e.runner.Run(ctx, e.cfg.Pdftoppm, "-r", fmt.Sprintf("%d", e.cfg.DPI), "-png", path, prefix)
	if err != nil {
		return nil, 0, []string{string(errb)}, err
	}

	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if e.cfg.MaxPages > 0 && len(matches) > e.cfg.MaxPages {
		matches = matches[:e.cfg.MaxPages]
	}
	if len(matches) == 0 {
		return nil, 0, []string{"pdftoppm produced no images"}, fmt.Errorf("no pages rendered")
	}

	var general, numeric strings.Builder
	var warns []string
	for _, img := range matches {
		cands, w, err := e.ocrCandidates(ctx, img)
		warns = append(warns, w...)
		if err != nil {
			warns = append(warns, err.Error())
			continue
		}
		for _, c := range cands {
			b := &general
			if c.ConfigID == ConfigNumeric {
				b = &numeric
			}
			if b.Len() > 0 {
				b.WriteString("\n\f\n") // keep a clear page break marker
			}
			b.WriteString(c.Text)
		}
	}

	var out []Candidate
	if general.Len() > 0 {
		out = append(out, Candidate{ConfigID: ConfigGeneral, Text: general.String()})
	}
	if numeric.Len() > 0 {
		out = append(out, Candidate{ConfigID: ConfigNumeric, Text: numeric.String()})
	}
	return out, len(matches), warns, nil
}
