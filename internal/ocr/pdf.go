package ocr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joseph-ayodele/legal-intake/constants"
)

func (e *Extractor) extractPDF(ctx context.Context, path string) (Result, error) {
	pages, warns, err := e.pdfToText(ctx, path)
	if err == nil && hasUsableText(pages) {
		return Result{
			PageTexts:  pages,
			Pages:      len(pages),
			SourceType: constants.PDF,
			Method:     "pdf-text",
			Language:   e.cfg.Language,
			Warnings:   warns,
		}, nil
	}
	if err != nil {
		warns = append(warns, fmt.Sprintf("pdftotext: %v", err))
	}
	e.logger.Info("ocr.pdf.fallback_to_raster", "path", path)

	pages, rasterWarns, err := e.pdfToOCR(ctx, path)
	warns = append(warns, rasterWarns...)
	if err != nil {
		return Result{SourceType: constants.PDF, Warnings: warns}, err
	}
	return Result{
		PageTexts:  pages,
		Pages:      len(pages),
		SourceType: constants.PDF,
		Method:     "pdf-ocr",
		Language:   e.cfg.Language,
		Warnings:   warns,
	}, nil
}

func (e *Extractor) pdfToText(ctx context.Context, path string) (pages []string, warnings []string, err error) {
	// pdftotext -layout -enc UTF-8 -eol unix <path> -
	out, errb, err := e.runner.Run(ctx, e.cfg.Pdftotext, "-layout", "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		return nil, []string{string(errb)}, err
	}
	// A form-feed \f is used as page separator by default
	pages = strings.Split(string(out), "\f")
	if n := len(pages); n > 1 && strings.TrimSpace(pages[n-1]) == "" {
		pages = pages[:n-1] // trailing separator leaves an empty tail page
	}
	if e.cfg.MaxPages > 0 && len(pages) > e.cfg.MaxPages {
		pages = pages[:e.cfg.MaxPages]
	}
	return pages, nil, nil
}

func (e *Extractor) pdfToOCR(ctx context.Context, path string) (pages []string, warnings []string, err error) {
	tmpDir, err := os.MkdirTemp("", "li-pp-*")
	if err != nil {
		return nil, nil, err
	}
	defer func(path string) {
		if err := os.RemoveAll(path); err != nil {
			e.logger.Warn("ocr.pdf.tmp_cleanup_failed", "path", path, "error", err)
		}
	}(tmpDir)

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -r 300 -png <in.pdf> <tmp/page>
	_, errb, err := e.runner.Run(ctx, e.cfg.Pdftoppm, "-r", fmt.Sprintf("%d", e.cfg.DPI), "-png", path, prefix)
	if err != nil {
		return nil, []string{string(errb)}, err
	}

	// collect generated pngs (prefix-1.png, prefix-2.png, ...)
	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if e.cfg.MaxPages > 0 && len(matches) > e.cfg.MaxPages {
		matches = matches[:e.cfg.MaxPages]
	}
	if len(matches) == 0 {
		return nil, []string{"pdftoppm produced no images"}, fmt.Errorf("no pages rendered")
	}

	var warns []string
	for _, img := range matches {
		txt, w, err := e.tesseractOCR(ctx, img)
		warns = append(warns, w...)
		if err != nil {
			// keep page alignment: a failed page stays empty
			warns = append(warns, err.Error())
			pages = append(pages, "")
			continue
		}
		pages = append(pages, txt)
	}
	return pages, warns, nil
}
