package ocr

import (
	"context"
	"fmt"

	"github.com/joseph-ayodele/legal-intake/constants"
)

func (e *Extractor) extractImage(ctx context.Context, path string) (Result, error) {
	txt, warns, err := e.tesseractOCR(ctx, path)
	if err != nil {
		return Result{SourceType: constants.IMAGE, Warnings: warns}, err
	}
	return Result{
		PageTexts:  []string{txt},
		Pages:      1,
		SourceType: constants.IMAGE,
		Method:     "image-ocr",
		Language:   e.cfg.Language,
		Warnings:   warns,
	}, nil
}

func (e *Extractor) tesseractOCR(ctx context.Context, path string) (string, []string, error) {
	// tesseract <file> stdout -l <lang>
	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, path, "stdout", "-l", e.cfg.Language)
	if err != nil {
		return "", []string{string(errb)}, fmt.Errorf("tesseract: %w", err)
	}
	return string(out), nil, nil
}
