package ocr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// stubRunner scripts external commands per binary name.
type stubRunner struct {
	t     *testing.T
	calls []string
	run   func(name string, args []string) ([]byte, error)
}

func (s *stubRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	s.calls = append(s.calls, name)
	out, err := s.run(name, args)
	return out, nil, err
}

func TestPDFTextLayerFastPath(t *testing.T) {
	e := NewExtractor(Config{}, nil)
	stub := &stubRunner{t: t, run: func(name string, args []string) ([]byte, error) {
		require.Equal(t, "pdftotext", name)
		return []byte("page one text\fpage two text\f"), nil
	}}
	e.runner = stub

	res, err := e.Extract(context.Background(), "/docs/complaint.pdf")
	require.NoError(t, err)
	require.Equal(t, "pdf-text", res.Method)
	require.Equal(t, 2, res.Pages)
	require.Equal(t, []string{"page one text", "page two text"}, res.PageTexts)
	require.Equal(t, []string{"pdftotext"}, stub.calls, "no raster fallback when the text layer is usable")
}

func TestPDFFallsBackToRasterOCR(t *testing.T) {
	e := NewExtractor(Config{}, nil)
	stub := &stubRunner{t: t}
	stub.run = func(name string, args []string) ([]byte, error) {
		switch name {
		case "pdftotext":
			return []byte("\f \f"), nil // scanned pdf: blank text layer
		case "pdftoppm":
			prefix := args[len(args)-1]
			for i := 1; i <= 2; i++ {
				require.NoError(t, os.WriteFile(fmt.Sprintf("%s-%d.png", prefix, i), []byte("png"), 0o644))
			}
			return nil, nil
		case "tesseract":
			return []byte("ocr text for " + filepath.Base(args[0])), nil
		}
		t.Fatalf("unexpected command %q", name)
		return nil, nil
	}
	e.runner = stub

	res, err := e.Extract(context.Background(), "/docs/scan.pdf")
	require.NoError(t, err)
	require.Equal(t, "pdf-ocr", res.Method)
	require.Equal(t, 2, res.Pages)
	require.Contains(t, res.PageTexts[0], "page-1.png")
	require.Contains(t, res.PageTexts[1], "page-2.png")
}

func TestImageOCR(t *testing.T) {
	e := NewExtractor(Config{Language: "deu"}, nil)
	e.runner = &stubRunner{t: t, run: func(name string, args []string) ([]byte, error) {
		require.Equal(t, "tesseract", name)
		require.Equal(t, []string{args[0], "stdout", "-l", "deu"}, args)
		return []byte("scanned intake form"), nil
	}}

	res, err := e.Extract(context.Background(), "/docs/id-card.png")
	require.NoError(t, err)
	require.Equal(t, "image-ocr", res.Method)
	require.Equal(t, []string{"scanned intake form"}, res.PageTexts)
}

func TestUnsupportedExtension(t *testing.T) {
	e := NewExtractor(Config{}, nil)
	_, err := e.Extract(context.Background(), "/docs/notes.docx")
	require.Error(t, err)
}

func TestMaxPagesCapsTextLayer(t *testing.T) {
	e := NewExtractor(Config{MaxPages: 2}, nil)
	e.runner = &stubRunner{t: t, run: func(name string, args []string) ([]byte, error) {
		return []byte("a\fb\fc\fd"), nil
	}}

	res, err := e.Extract(context.Background(), "/docs/long.pdf")
	require.NoError(t, err)
	require.Equal(t, 2, res.Pages)
}
