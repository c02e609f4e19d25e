package fileio

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	excelize "github.com/xuri/excelize/v2"

	"golang.org/x/text/encoding/charmap"
)

func TestReadAnyRows_CSV(t *testing.T) {
	rows, err := ReadAnyRows(strings.NewReader("a,b\n1,2\n"), "f.csv")
	require.NoError(t, err)
	require.Equal(t, [][]string{{"a", "b"}, {"1", "2"}}, rows)
}

func TestReadAnyRows_CSVWindows1251(t *testing.T) {
	src := "Артикул,Наименование поставляемого оборудования\n" +
		strings.Repeat("А100,Стол офисный для руководителя с тумбой\n", 20)
	enc := charmap.Windows1251.NewEncoder()
	raw, err := enc.String(src)
	require.NoError(t, err)

	rows, err := ReadAnyRows(strings.NewReader(raw), "f.csv")
	require.NoError(t, err)
	require.Len(t, rows, 21)
	assert.Equal(t, "Стол офисный для руководителя с тумбой", rows[1][1])
}

func TestReadAnyRows_XLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetCellValue(sheet, "A1", "A100"))
	require.NoError(t, f.SetCellValue(sheet, "B1", "Стол офисный"))
	require.NoError(t, f.SetCellValue(sheet, "C1", 4500))
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())

	rows, err := ReadAnyRows(&buf, "прайс.xlsx")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "A100", rows[0][0])
	assert.Equal(t, "Стол офисный", rows[0][1])
	assert.Equal(t, "4500", rows[0][2])
}

func TestReadAnyRows_Unsupported(t *testing.T) {
	_, err := ReadAnyRows(strings.NewReader(""), "f.pdf")
	require.Error(t, err)
}

func TestReadAnyMaps_Headers(t *testing.T) {
	maps, err := ReadAnyMaps(strings.NewReader("Поставщик,Скидка\nАльфа,10\n  ,  \n"), "d.csv", 1)
	require.NoError(t, err)
	require.Len(t, maps, 1) // пустая строка выброшена
	assert.Equal(t, "Альфа", maps[0]["Поставщик"])
	assert.Equal(t, "10", maps[0]["Скидка"])
}

func TestPickHeader_EmptyNames(t *testing.T) {
	h := pickHeader([][]string{{"Поставщик", "", "Скидка"}}, 1)
	assert.Equal(t, []string{"Поставщик", "Column 2", "Скидка"}, h)
}
