// Извлечение текста из документа ТЗ: сперва текстовый слой PDF,
// для сканов — OCR-фоллбэк через pdftoppm+tesseract.
package extract

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"tender-service/internal/tender/model"
)

type Config struct {
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"
	Lang      string // языковая подсказка tesseract, default "rus"
	DPI       int    // растеризация сканов, default 300
	EnableOCR bool
}

type Extractor struct {
	cfg    Config
	runner Runner
	logger zerolog.Logger
}

func New(cfg Config, logger zerolog.Logger) *Extractor {
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Lang == "" {
		cfg.Lang = "rus"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	return &Extractor{cfg: cfg, runner: execRunner{logger: logger}, logger: logger}
}

// WithRunner подменяет исполнитель внешних команд (для тестов).
func (e *Extractor) WithRunner(r Runner) *Extractor { e.runner = r; return e }

// Extract возвращает текст документа либо ошибку извлечения.
// Частичный/битый текст наружу не уходит: ошибка — значит пустой результат.
func (e *Extractor) Extract(ctx context.Context, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("%w: read: %v", model.ErrExtraction, err)
	}

	text, err := pdfTextLayer(data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrExtraction, err)
	}

	if strings.TrimSpace(text) != "" {
		e.logger.Debug().Int("chars", len(text)).Msg("text layer extracted")
		return text, nil
	}

	if !e.cfg.EnableOCR {
		e.logger.Warn().Msg("empty text layer, ocr disabled")
		return text, nil
	}

	e.logger.Info().Int("dpi", e.cfg.DPI).Str("lang", e.cfg.Lang).Msg("empty text layer, falling back to ocr")
	text, err = e.ocr(ctx, data)
	if err != nil {
		return "", fmt.Errorf("%w: ocr: %v", model.ErrExtraction, err)
	}
	return text, nil
}
