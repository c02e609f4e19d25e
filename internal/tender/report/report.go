// Итоговый отчёт: табличные строки в порядке позиций ТЗ
// плюс заполнение шаблона результата (xlsx).
package report

import (
	"fmt"
	"strconv"

	excelize "github.com/xuri/excelize/v2"

	"tender-service/internal/tender/model"
)

// Row — одна позиция ТЗ с её топ-K предложениями. Каждая позиция попадает
// в отчёт ровно один раз, совпала она с чем-то или нет.
type Row struct {
	Num    int            `json:"num"`
	Name   string         `json:"name"` // Наименование из ТЗ
	Qty    string         `json:"qty"`  // Кол-во
	Type   string         `json:"type,omitempty"`
	Offers []model.Ranked `json:"offers"`
}

// Build собирает строки отчёта, сохраняя порядок позиций.
func Build(reqs []model.Requirement, matches [][]model.Ranked) []Row {
	rows := make([]Row, 0, len(reqs))
	for i, req := range reqs {
		var offers []model.Ranked
		if i < len(matches) {
			offers = matches[i]
		}
		rows = append(rows, Row{
			Num:    i + 1,
			Name:   req.Name,
			Qty:    req.Qty,
			Type:   req.Type,
			Offers: offers,
		})
	}
	return rows
}

// Flatten разворачивает строку в фиксированные колонки
// «Поставщик i», «Цена i», «Скидка i», «Итог i».
func (r Row) Flatten() map[string]string {
	m := map[string]string{
		"Наименование из ТЗ": r.Name,
		"Кол-во":             r.Qty,
	}
	for i, o := range r.Offers {
		n := strconv.Itoa(i + 1)
		m["Поставщик "+n] = o.Supplier
		if o.Supplier == model.NotFound {
			continue
		}
		if o.HasPrice {
			m["Цена "+n] = formatPrice(o.Price)
		}
		m["Скидка "+n] = fmt.Sprintf("%g%%", o.DiscountPct)
		if o.HasFinal {
			m["Итог "+n] = formatPrice(o.Final)
		}
	}
	return m
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Заполнение шаблона: всё выше startRow (шапка, стили) остаётся как есть.
const (
	startRow = 10
	sheetIdx = 0
)

// FillTemplate пишет первое предложение каждой позиции в шаблон формы
// и возвращает готовую книгу байтами. Ошибка — книги нет вовсе
// (полузаполненный результат наружу не отдаём).
func FillTemplate(templatePath string, rows []Row) ([]byte, error) {
	f, err := excelize.OpenFile(templatePath)
	if err != nil {
		return nil, fmt.Errorf("open template: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(sheetIdx)
	for i, row := range rows {
		set := func(col int, v any) error {
			cell, err := excelize.CoordinatesToCellName(col, startRow+i)
			if err != nil {
				return err
			}
			return f.SetCellValue(sheet, cell, v)
		}
		cells := []any{row.Num, row.Name, row.Qty, "", "", "", ""}
		if len(row.Offers) > 0 {
			top := row.Offers[0]
			cells[3] = top.Supplier
			if top.Supplier != model.NotFound {
				if top.HasPrice {
					cells[4] = top.Price
				}
				cells[5] = fmt.Sprintf("%g%%", top.DiscountPct)
				if top.HasFinal {
					cells[6] = top.Final
				}
			}
		}
		for col, v := range cells {
			if err := set(col+1, v); err != nil {
				return nil, fmt.Errorf("fill row %d: %w", startRow+i, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}
