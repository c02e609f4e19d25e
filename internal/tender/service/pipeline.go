// Канонический конвейер: текст ТЗ → позиции → GPT-анализ → подбор по
// прайсам → скидки → отчёт + заполненная форма. Варианты поведения
// (OCR, анализ, подробный лог) — флаги Options.
package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"tender-service/internal/tender/catalog"
	"tender-service/internal/tender/match"
	"tender-service/internal/tender/model"
	"tender-service/internal/tender/report"
)

type Options struct {
	EnableOCRFallback bool // прокидывается в экстрактор при сборке
	EnrichmentEnabled bool
	VerboseLog        bool
	MaxCandidates     int // default 3
	EnableFuzzy       bool
	Threshold         float64
	Keywords          []string // словарь категорий для прайсов
}

// TextExtractor — извлечение текста ТЗ (PDF-слой + OCR) как внешняя способность.
type TextExtractor interface {
	Extract(ctx context.Context, r io.Reader) (string, error)
}

// Enricher — GPT-обогащение пачки позиций с сохранением порядка.
type Enricher interface {
	Enrich(ctx context.Context, reqs []model.Requirement) []model.Requirement
}

// Parser — разбор текста в позиции; в тестах подменяется.
type Parser func(text string) []model.Requirement

type Pipeline struct {
	extractor    TextExtractor
	enricher     Enricher
	parse        Parser
	templatePath string
	logger       zerolog.Logger
}

func New(extractor TextExtractor, enricher Enricher, parse Parser, templatePath string, logger zerolog.Logger) *Pipeline {
	return &Pipeline{
		extractor:    extractor,
		enricher:     enricher,
		parse:        parse,
		templatePath: templatePath,
		logger:       logger,
	}
}

// Inputs — три потока от вызывающей стороны: ТЗ, прайсы, скидки (опционально).
type Inputs struct {
	Spec          io.Reader
	Prices        []catalog.Source
	Discounts     io.Reader // nil — скидок нет
	DiscountsName string
}

// Result — контракт «тройки»: лог, таблица, книга. Книги нет ровно тогда,
// когда прогон завершился ошибкой.
type Result struct {
	Log       string           `json:"log"`
	Rows      []report.Row     `json:"rows"`
	RowErrors []model.RowError `json:"rowErrors,omitempty"`
	Workbook  []byte           `json:"workbook,omitempty"`
}

// Process прогоняет полный конвейер. Любая непредвиденная паника ловится
// здесь один раз и возвращается ошибкой с пустым результатом.
func (p *Pipeline) Process(ctx context.Context, in Inputs, opt Options) (res Result, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			p.logger.Error().Interface("panic", rec).Msg("pipeline panic")
			res = Result{}
			err = fmt.Errorf("pipeline failed: %v", rec)
		}
	}()

	steps := &stepLog{verbose: opt.VerboseLog}

	// 1. Текст ТЗ
	text, err := p.extractor.Extract(ctx, in.Spec)
	if err != nil {
		return Result{}, err
	}
	steps.addf("текст извлечён: %d символов", len([]rune(text)))

	// 2. Позиции
	reqs := p.parse(text)
	steps.addf("распознано позиций: %d", len(reqs))

	// 3. GPT-анализ (порядок позиций сохраняется)
	if opt.EnrichmentEnabled && p.enricher != nil {
		reqs = p.enricher.Enrich(ctx, reqs)
		steps.addf("GPT-анализ выполнен для %d позиций", len(reqs))
	}

	// 4. Каталог и скидки
	offers, err := catalog.Load(in.Prices, opt.Keywords, p.logger)
	if err != nil {
		return Result{}, err
	}
	steps.addf("каталог: %d предложений из %d прайсов", len(offers), len(in.Prices))

	discounts := catalog.LoadDiscounts(in.Discounts, in.DiscountsName, p.logger)
	steps.addf("скидки: %d поставщиков", len(discounts))

	// 5. Подбор: ошибка одной позиции не валит прогон
	matcher := match.New(offers, match.Options{
		MaxCandidates: opt.MaxCandidates,
		EnableFuzzy:   opt.EnableFuzzy,
		Threshold:     opt.Threshold,
	})
	matches, rowErrs := p.matchAll(matcher, reqs, discounts)
	steps.addf("подбор завершён, ошибок по позициям: %d", len(rowErrs))

	// 6. Отчёт и форма
	rows := report.Build(reqs, matches)
	wb, err := report.FillTemplate(p.templatePath, rows)
	if err != nil {
		return Result{}, err
	}
	steps.addf("форма заполнена: %d строк", len(rows))

	return Result{
		Log:       steps.render(text),
		Rows:      rows,
		RowErrors: rowErrs,
		Workbook:  wb,
	}, nil
}

// matchAll ранжирует все позиции; паника на одной позиции превращается
// в RowError и маркер «не найдено», остальные позиции обрабатываются дальше.
func (p *Pipeline) matchAll(m *match.Matcher, reqs []model.Requirement, discounts model.Discounts) ([][]model.Ranked, []model.RowError) {
	matches := make([][]model.Ranked, len(reqs))
	var rowErrs []model.RowError
	for i, req := range reqs {
		func() {
			defer func() {
				if rec := recover(); rec != nil {
					p.logger.Error().Int("row", i).Interface("panic", rec).Msg("row processing failed")
					rowErrs = append(rowErrs, model.RowError{Index: i, Err: fmt.Errorf("%v", rec)})
					matches[i] = []model.Ranked{{Supplier: model.NotFound}}
				}
			}()
			matches[i] = m.Rank(req, discounts)
		}()
	}
	return matches, rowErrs
}

// stepLog: либо пошаговый журнал, либо превью извлечённого текста.
type stepLog struct {
	verbose bool
	lines   []string
}

func (s *stepLog) addf(format string, args ...any) {
	if s.verbose {
		s.lines = append(s.lines, fmt.Sprintf(format, args...))
	}
}

func (s *stepLog) render(text string) string {
	if s.verbose {
		return strings.Join(s.lines, "\n")
	}
	r := []rune(text)
	if len(r) > 1000 {
		r = r[:1000]
	}
	return string(r)
}
