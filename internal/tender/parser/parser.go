// Парсер позиций ТЗ из извлечённого текста.
//
// Эвристика табличного PDF: колонки разделены табом или 2+ пробелами,
// строка без единой цифры — не позиция (нет количества/номера).
// Строки с «паразитной» цифрой (номер страницы и т.п.) неизбежно
// проходят фильтр — приемлемый процент ложных срабатываний.
package parser

import (
	"regexp"
	"strings"

	"tender-service/internal/tender/model"
)

var (
	reColumns = regexp.MustCompile(`\s{2,}|\t`)
	reDigits  = regexp.MustCompile(`\d+`)
)

// Requirements разбирает текст построчно в позиции (имя, количество).
// Порядок строк сохраняется, дубликаты не схлопываются.
func Requirements(text string) []model.Requirement {
	var out []model.Requirement
	for _, line := range strings.Split(text, "\n") {
		if !strings.ContainsAny(line, "0123456789") {
			continue
		}
		parts := reColumns.Split(strings.TrimSpace(line), -1)
		if len(parts) < 2 {
			continue
		}
		out = append(out, model.Requirement{
			Name: parts[0],
			Qty:  Quantity(parts[1]),
		})
	}
	return out
}

// Quantity — первая непрерывная группа цифр; пусто, если цифр нет.
func Quantity(field string) string {
	return reDigits.FindString(field)
}
