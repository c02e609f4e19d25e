// Загрузка прайс-листов поставщиков. Формат свободный: шапки нет,
// позиции ищем по словарю категорий мебели в ячейках строки.
package catalog

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"tender-service/internal/fileio"
	"tender-service/internal/tender/model"
	"tender-service/internal/utils"
)

// DefaultKeywords — словарь категорий из постановки (школьная мебель).
var DefaultKeywords = []string{"стол", "кресло", "лампа", "шкаф", "банкетка", "барьер"}

// Source — один прайс-лист; Name (обычно имя файла) становится ключом поставщика.
type Source struct {
	Name   string
	Reader io.Reader
}

// Load собирает предложения из всех прайсов. Ошибка любого файла фатальна:
// сверка без каталога бессмысленна.
func Load(sources []Source, keywords []string, logger zerolog.Logger) ([]model.Offer, error) {
	if len(keywords) == 0 {
		keywords = DefaultKeywords
	}
	lowered := make([]string, len(keywords))
	for i, k := range keywords {
		lowered[i] = strings.ToLower(k)
	}

	var offers []model.Offer
	for _, src := range sources {
		rows, err := fileio.ReadAnyRows(src.Reader, src.Name)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", model.ErrCatalogLoad, src.Name, err)
		}
		n := 0
		for _, row := range rows {
			if off, ok := scanRow(row, lowered, src.Name); ok {
				offers = append(offers, off)
				n++
			}
		}
		logger.Info().Str("supplier", src.Name).Int("rows", len(rows)).Int("offers", n).Msg("price list loaded")
	}
	return offers, nil
}

// scanRow идёт по ячейкам слева направо; первая ячейка со словом из словаря —
// наименование, дальше строку не смотрим (одна позиция на строку).
func scanRow(row []string, keywords []string, supplier string) (model.Offer, bool) {
	for _, cell := range row {
		if cell == "" {
			continue
		}
		low := strings.ToLower(cell)
		if !containsAnyKeyword(low, keywords) {
			continue
		}
		price, hasPrice := firstNumeric(row)
		article := ""
		if len(row) > 0 {
			article = strings.TrimSpace(row[0])
		}
		return model.Offer{
			Article:  article,
			Name:     cell,
			Price:    price,
			HasPrice: hasPrice,
			Supplier: supplier,
		}, true
	}
	return model.Offer{}, false
}

func containsAnyKeyword(low string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(low, k) {
			return true
		}
	}
	return false
}

// numericLike отсекает ячейки с буквами («А100» — артикул, не цена).
var numericLike = regexp.MustCompile(`^[\d\s\x{00A0}\x{202F}.,\-]+$`)

// firstNumeric — первая ячейка строки, целиком читающаяся как число.
func firstNumeric(row []string) (float64, bool) {
	for _, cell := range row {
		if cell == "" || !numericLike.MatchString(cell) {
			continue
		}
		if f, ok := utils.ParseFloatRU(cell); ok {
			return f, true
		}
	}
	return 0, false
}
