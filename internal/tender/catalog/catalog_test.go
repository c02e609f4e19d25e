package catalog

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tender-service/internal/tender/model"
)

func src(name, csv string) Source {
	return Source{Name: name, Reader: strings.NewReader(csv)}
}

func TestLoad_KeywordRow(t *testing.T) {
	offers, err := Load([]Source{
		src("Поставщик А.csv", "A100,Стол офисный,4500\n"),
	}, nil, zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, offers, 1)
	assert.Equal(t, "A100", offers[0].Article)
	assert.Equal(t, "Стол офисный", offers[0].Name)
	assert.True(t, offers[0].HasPrice)
	assert.Equal(t, 4500.0, offers[0].Price)
	assert.Equal(t, "Поставщик А.csv", offers[0].Supplier)
}

func TestLoad_FirstKeywordCellWins(t *testing.T) {
	// две позиции в одной строке — берём только первую
	offers, err := Load([]Source{
		src("p.csv", "B1,Стол ученический,Кресло детское,1200\n"),
	}, nil, zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, offers, 1)
	assert.Equal(t, "Стол ученический", offers[0].Name)
}

func TestLoad_SkipsRowsWithoutKeywords(t *testing.T) {
	offers, err := Load([]Source{
		src("p.csv", "A1,Доска магнитная,900\nA2,Шкаф для документов,5400\n"),
	}, nil, zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, offers, 1)
	assert.Equal(t, "Шкаф для документов", offers[0].Name)
}

func TestLoad_ArticleIsNotPrice(t *testing.T) {
	// "А100" содержит цифры, но это артикул, а не числовая ячейка
	offers, err := Load([]Source{
		src("p.csv", "А100,Лампа настольная,2 350.50\n"),
	}, nil, zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, offers, 1)
	assert.True(t, offers[0].HasPrice)
	assert.InDelta(t, 2350.50, offers[0].Price, 1e-9)
}

func TestLoad_NoPriceCell(t *testing.T) {
	offers, err := Load([]Source{
		src("p.csv", ",Банкетка мягкая,по запросу\n"),
	}, nil, zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, offers, 1)
	assert.False(t, offers[0].HasPrice)
}

func TestLoad_CustomKeywords(t *testing.T) {
	offers, err := Load([]Source{
		src("p.csv", "1,Доска магнитная,900\n"),
	}, []string{"доска"}, zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, offers, 1)
}

func TestLoad_BadFileIsFatal(t *testing.T) {
	_, err := Load([]Source{
		src("p.docx", "whatever"),
	}, nil, zerolog.Nop())
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrCatalogLoad)
}

func TestLoadDiscounts(t *testing.T) {
	d := LoadDiscounts(strings.NewReader("Поставщик,Скидка\nSupplierX,10\n,5\nSupplierY,7.5\n"), "d.csv", zerolog.Nop())
	assert.Equal(t, 10.0, d.Get("SupplierX"))
	assert.Equal(t, 7.5, d.Get("SupplierY"))
	// строка без поставщика пропущена, неизвестный поставщик = 0
	assert.Equal(t, 0.0, d.Get("SupplierZ"))
	assert.Len(t, d, 2)
}

func TestLoadDiscounts_HeaderVariants(t *testing.T) {
	d := LoadDiscounts(strings.NewReader("Поставщик (файл),Скидка %\nАльфа,12\n"), "d.csv", zerolog.Nop())
	assert.Equal(t, 12.0, d.Get("Альфа"))
}

func TestLoadDiscounts_DegradesToEmpty(t *testing.T) {
	assert.Empty(t, LoadDiscounts(strings.NewReader("x"), "d.bin", zerolog.Nop()))
	assert.Empty(t, LoadDiscounts(nil, "", zerolog.Nop()))
}
