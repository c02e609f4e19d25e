package catalog

import (
	"io"
	"strings"

	"github.com/rs/zerolog"

	"tender-service/internal/fileio"
	"tender-service/internal/tender/model"
	"tender-service/internal/utils"
)

// LoadDiscounts читает таблицу скидок (колонки «Поставщик» и «Скидка», %).
// Файл опционален, любая ошибка деградирует в пустую таблицу:
// отсутствие скидок не должно блокировать сверку.
func LoadDiscounts(r io.Reader, filename string, logger zerolog.Logger) model.Discounts {
	out := model.Discounts{}
	if r == nil {
		return out
	}
	maps, err := fileio.ReadAnyMaps(r, filename, 1)
	if err != nil {
		logger.Warn().Err(err).Str("file", filename).Msg("discounts load failed, using empty table")
		return out
	}
	for _, rec := range maps {
		supplier := strings.TrimSpace(valueByHeader(rec, "поставщик"))
		if supplier == "" {
			continue
		}
		pct, _ := utils.ParseFloatRU(valueByHeader(rec, "скидка"))
		out[supplier] = pct
	}
	logger.Info().Int("suppliers", len(out)).Msg("discounts loaded")
	return out
}

// valueByHeader ищет колонку по подстроке имени без учёта регистра
// («Скидка, %» тоже распознаётся).
func valueByHeader(rec map[string]string, want string) string {
	for k, v := range rec {
		if strings.Contains(strings.ToLower(strings.TrimSpace(k)), want) {
			return v
		}
	}
	return ""
}
