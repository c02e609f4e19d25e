package parser

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequirements_TabularLine(t *testing.T) {
	reqs := Requirements("Стол письменный    10\n")
	require.Len(t, reqs, 1)
	assert.Equal(t, "Стол письменный", reqs[0].Name)
	assert.Equal(t, "10", reqs[0].Qty)
}

func TestRequirements_TabSeparated(t *testing.T) {
	reqs := Requirements("Кресло офисное\t5 шт\nЛампа настольная\t12")
	require.Len(t, reqs, 2)
	assert.Equal(t, "Кресло офисное", reqs[0].Name)
	assert.Equal(t, "5", reqs[0].Qty)
	assert.Equal(t, "Лампа настольная", reqs[1].Name)
	assert.Equal(t, "12", reqs[1].Qty)
}

func TestRequirements_SkipsLinesWithoutDigits(t *testing.T) {
	reqs := Requirements("Перечень оборудования\nСтол    10\nПримечание   без числа")
	require.Len(t, reqs, 1)
	assert.Equal(t, "Стол", reqs[0].Name)
}

func TestRequirements_SkipsSingleColumnLines(t *testing.T) {
	// цифра есть, но колонка одна — не позиция
	assert.Empty(t, Requirements("Раздел 2. Мебель"))
}

func TestRequirements_NoQuantityDigits(t *testing.T) {
	reqs := Requirements("Шкаф 2-створчатый\tпо согласованию")
	require.Len(t, reqs, 1)
	assert.Equal(t, "", reqs[0].Qty)
}

func TestRequirements_OrderAndNoDedup(t *testing.T) {
	text := "Стол    1\nКресло    2\nСтол    1\n"
	reqs := Requirements(text)
	require.Len(t, reqs, 3)
	assert.Equal(t, "Стол", reqs[0].Name)
	assert.Equal(t, "Кресло", reqs[1].Name)
	assert.Equal(t, "Стол", reqs[2].Name)
}

// Выход не длиннее входа, имя всегда равно первому полю строки
// после разбиения по табам/2+ пробелам.
func TestRequirements_LineInvariant(t *testing.T) {
	text := "Стол ученический    30\nストул    5\nfooter page 3\nЛампа\t7\n"
	lines := strings.Split(text, "\n")
	reqs := Requirements(text)
	require.LessOrEqual(t, len(reqs), len(lines))

	split := regexp.MustCompile(`\s{2,}|\t`)
	j := 0
	for _, line := range lines {
		if !strings.ContainsAny(line, "0123456789") {
			continue
		}
		parts := split.Split(strings.TrimSpace(line), -1)
		if len(parts) < 2 {
			continue
		}
		require.Less(t, j, len(reqs))
		assert.Equal(t, parts[0], reqs[j].Name)
		j++
	}
	assert.Equal(t, j, len(reqs))
}

func TestQuantity_Idempotent(t *testing.T) {
	for _, in := range []string{"10 шт", "примерно 25", "", "нет", "3-4"} {
		q := Quantity(in)
		assert.Equal(t, q, Quantity(q), "повторный разбор должен давать ту же группу цифр")
	}
}
