package ocr

import (
	"context"
	"fmt"
	"regexp"

	"github.com/nfe-tools/nf-indexer/constants"
)

var reBoxNoise = regexp.MustCompile(`(?m)^\s*[_\-]{3,}\s*$`)

func (e *Extractor) extractImage(ctx context.Context, path string) (Result, error) {
	cands, warns, err := e.ocrCandidates(ctx, path)
	if err != nil {
		return Result{SourceType: constants.IMAGE, Warnings: warns}, err
	}
	return Result{
		Candidates: cands,
		Pages:      1,
		SourceType: constants.IMAGE,
		Method:     "image-ocr",
		Language:   e.cfg.TesseractLang,
		Warnings:   warns,
	}, nil
}

// ocrCandidates runs two recognition passes over one image: a general pass and
// a numeric pass restricted to digit-heavy characters. Both are returned as
// competing candidates; a failed numeric pass is downgraded to a warning since
// the general pass alone is usable.
func (e *Extractor) ocrCandidates(ctx context.Context, path string) ([]Candidate, []string, error) {
	var warns []string

	general, w, err := e.tesseract(ctx, path, "")
	warns = append(warns, w...)
	if err != nil {
		return nil, warns, err
	}
	cands := []Candidate{{ConfigID: ConfigGeneral, Text: general}}

	numeric, w, err := e.tesseract(ctx, path, numericWhitelist)
	warns = append(warns, w...)
	if err != nil {
		warns = append(warns, fmt.Sprintf("numeric pass failed: %v", err))
		return cands, warns, nil
	}
	cands = append(cands, Candidate{ConfigID: ConfigNumeric, Text: numeric})
	return cands, warns, nil
}

// tesseract <file> stdout -l <lang> --psm N --oem N [-c tessedit_char_whitelist=...]
func (e *Extractor) tesseract(ctx context.Context, path, whitelist string) (string, []string, error) {
	args := []string{path, "stdout", "-l", e.cfg.TesseractLang}
	if e.cfg.PSM > 0 {
		args = append(args, "--psm", fmt.Sprintf("%d", e.cfg.PSM))
	}
	if e.cfg.OEM > 0 {
		args = append(args, "--oem", fmt.Sprintf("%d", e.cfg.OEM))
	}
	if e.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", e.cfg.TessdataDir)
	}
	if whitelist != "" {
		args = append(args, "-c", "tessedit_char_whitelist="+whitelist)
	}

	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, args...)
	if err != nil {
		return "", []string{string(errb)}, fmt.Errorf("tesseract: %w", err)
	}

	// minor cleanup of obvious line noise
	txt := reBoxNoise.ReplaceAllString(string(out), "")
	return txt, nil, nil
}
