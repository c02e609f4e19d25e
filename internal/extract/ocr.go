package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ocr растрит каждую страницу в PNG (pdftoppm, фикс. DPI) и гонит через
// tesseract с языковой подсказкой; результаты склеиваются в порядке страниц.
func (e *Extractor) ocr(ctx context.Context, data []byte) (string, error) {
	tmpDir, err := os.MkdirTemp("", "tender-ocr-*")
	if err != nil {
		return "", err
	}
	defer os.RemoveAll(tmpDir)

	src := filepath.Join(tmpDir, "spec.pdf")
	if err := os.WriteFile(src, data, 0o600); err != nil {
		return "", err
	}

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -r 300 -png spec.pdf tmp/page
	_, errb, err := e.runner.Run(ctx, e.cfg.Pdftoppm, "-r", fmt.Sprintf("%d", e.cfg.DPI), "-png", src, prefix)
	if err != nil {
		return "", fmt.Errorf("pdftoppm: %v (%s)", err, truncate(string(errb), 512))
	}

	// pdftoppm нумерует страницы: page-1.png, page-2.png, ...
	pages, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(pages)
	if len(pages) == 0 {
		return "", fmt.Errorf("pdftoppm produced no images")
	}

	var sb strings.Builder
	for _, img := range pages {
		// tesseract page.png stdout -l rus
		out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, img, "stdout", "-l", e.cfg.Lang)
		if err != nil {
			return "", fmt.Errorf("tesseract %s: %v (%s)", filepath.Base(img), err, truncate(string(errb), 512))
		}
		sb.Write(out)
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}
