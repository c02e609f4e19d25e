package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	excelize "github.com/xuri/excelize/v2"

	"tender-service/internal/enrich"
	"tender-service/internal/tender/catalog"
	"tender-service/internal/tender/model"
	"tender-service/internal/tender/parser"
)

type fakeExtractor struct {
	text string
	err  error
}

func (f fakeExtractor) Extract(context.Context, io.Reader) (string, error) { return f.text, f.err }

// failAnalyzer роняет GPT — обогащение уходит в эвристические ключи.
type failAnalyzer struct{}

func (failAnalyzer) Analyze(context.Context, string) (enrich.Analysis, error) {
	return enrich.Analysis{}, errors.New("service unavailable")
}

func template(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue(f.GetSheetName(0), "A1", "Форма"))
	path := filepath.Join(t.TempDir(), "форма.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
	return path
}

func inputs() Inputs {
	return Inputs{
		Spec: strings.NewReader("unused"),
		Prices: []catalog.Source{{
			Name:   "SupplierX.csv",
			Reader: strings.NewReader("A100,Стол офисный,4500\nB200,Стол ученический,1000\n"),
		}},
		Discounts:     strings.NewReader("Поставщик,Скидка\nSupplierX.csv,10\n"),
		DiscountsName: "скидки.csv",
	}
}

func newPipeline(t *testing.T, text string) *Pipeline {
	enricher := enrich.New(failAnalyzer{}, 2, zerolog.Nop())
	return New(fakeExtractor{text: text}, enricher, parser.Requirements, template(t), zerolog.Nop())
}

func TestProcess_EndToEnd(t *testing.T) {
	text := "Стол письменный    10\nПроектор мультимедийный    2\n"
	p := newPipeline(t, text)

	res, err := p.Process(context.Background(), inputs(), Options{EnrichmentEnabled: true})
	require.NoError(t, err)

	require.Len(t, res.Rows, 2)
	assert.Empty(t, res.RowErrors)

	// позиция 1: подбор по fallback-ключу «Стол», дешёвое предложение первое
	r0 := res.Rows[0]
	assert.Equal(t, "Стол письменный", r0.Name)
	assert.Equal(t, "10", r0.Qty)
	assert.Equal(t, model.EnrichFailed, r0.Type)
	require.Len(t, r0.Offers, 2)
	assert.Equal(t, 1000.0, r0.Offers[0].Price)
	assert.Equal(t, 10.0, r0.Offers[0].DiscountPct)
	assert.Equal(t, 900.0, r0.Offers[0].Final)

	// позиция 2: не найдена, но строка в отчёте есть
	r1 := res.Rows[1]
	assert.Equal(t, "Проектор мультимедийный", r1.Name)
	require.Len(t, r1.Offers, 1)
	assert.Equal(t, model.NotFound, r1.Offers[0].Supplier)

	// книга есть и открывается
	require.NotEmpty(t, res.Workbook)
	wb, err := excelize.OpenReader(bytes.NewReader(res.Workbook))
	require.NoError(t, err)
	defer wb.Close()
	v, _ := wb.GetCellValue(wb.GetSheetName(0), "B10")
	assert.Equal(t, "Стол письменный", v)

	// лог без verbose — превью извлечённого текста
	assert.Equal(t, text, res.Log)
}

func TestProcess_VerboseLog(t *testing.T) {
	p := newPipeline(t, "Стол    1\n")
	res, err := p.Process(context.Background(), inputs(), Options{VerboseLog: true})
	require.NoError(t, err)
	assert.Contains(t, res.Log, "распознано позиций: 1")
	assert.Contains(t, res.Log, "каталог:")
	assert.NotContains(t, res.Log, "Стол    1")
}

func TestProcess_LogPreviewCapped(t *testing.T) {
	long := strings.Repeat("Стол    1\n", 200)
	p := newPipeline(t, long)
	res, err := p.Process(context.Background(), inputs(), Options{})
	require.NoError(t, err)
	assert.Equal(t, 1000, len([]rune(res.Log)))
}

func TestProcess_ExtractionFatal(t *testing.T) {
	enricher := enrich.New(failAnalyzer{}, 1, zerolog.Nop())
	p := New(fakeExtractor{err: model.ErrExtraction}, enricher, parser.Requirements, template(t), zerolog.Nop())

	res, err := p.Process(context.Background(), inputs(), Options{})
	require.Error(t, err)
	assert.Empty(t, res.Rows)
	assert.Empty(t, res.Workbook)
}

func TestProcess_CatalogFatal(t *testing.T) {
	p := newPipeline(t, "Стол    1\n")
	in := inputs()
	in.Prices = []catalog.Source{{Name: "п.docx", Reader: strings.NewReader("x")}}

	_, err := p.Process(context.Background(), in, Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrCatalogLoad)
}

func TestProcess_DiscountFailureNotFatal(t *testing.T) {
	p := newPipeline(t, "Стол    1\n")
	in := inputs()
	in.Discounts = strings.NewReader("мусор")
	in.DiscountsName = "скидки.bin"

	res, err := p.Process(context.Background(), in, Options{})
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	// скидок нет — итог равен цене
	top := res.Rows[0].Offers[0]
	assert.Equal(t, 0.0, top.DiscountPct)
	assert.Equal(t, top.Price, top.Final)
}

func TestProcess_MissingTemplateFatal(t *testing.T) {
	enricher := enrich.New(failAnalyzer{}, 1, zerolog.Nop())
	p := New(fakeExtractor{text: "Стол    1\n"}, enricher, parser.Requirements,
		filepath.Join(t.TempDir(), "нет.xlsx"), zerolog.Nop())

	res, err := p.Process(context.Background(), inputs(), Options{})
	require.Error(t, err)
	assert.Empty(t, res.Workbook)
	assert.Empty(t, res.Rows)
}

func TestProcess_NoRequirements(t *testing.T) {
	p := newPipeline(t, "текст без табличных строк\n")
	res, err := p.Process(context.Background(), inputs(), Options{})
	require.NoError(t, err)
	assert.Empty(t, res.Rows)
	assert.NotEmpty(t, res.Workbook)
}
