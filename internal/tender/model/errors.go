package model

import (
	"errors"
	"fmt"
)

// Ошибки этапов конвейера. Извлечение текста и загрузка прайсов фатальны,
// скидки и GPT-анализ деградируют молча, построчные ошибки копятся в RowError.
var (
	ErrExtraction  = errors.New("extraction failed")
	ErrCatalogLoad = errors.New("catalog load failed")
)

// RowError — ошибка обработки одной позиции; прогон не прерывает.
type RowError struct {
	Index int   `json:"index"`
	Err   error `json:"-"`
}

func (e RowError) Error() string { return fmt.Sprintf("row %d: %v", e.Index, e.Err) }

func (e RowError) Unwrap() error { return e.Err }

// MarshalText — чтобы ошибка попадала в JSON-ответ строкой.
func (e RowError) MarshalText() ([]byte, error) { return []byte(e.Error()), nil }
