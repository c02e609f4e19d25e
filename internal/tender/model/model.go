package model

// Requirement — позиция ТЗ. Парсер заполняет Name и Qty, GPT-анализ один раз
// дописывает тип/синонимы/ключи; дальше запись не меняется.
type Requirement struct {
	Name     string   `json:"name"`     // наименование из ТЗ
	Qty      string   `json:"qty"`      // количество как текст (может быть пустым)
	Type     string   `json:"type,omitempty"`
	Synonyms []string `json:"synonyms,omitempty"`
	Keys     []string `json:"keys,omitempty"` // поисковые ключи для прайсов
}

// Offer — строка прайс-листа поставщика.
type Offer struct {
	Article  string  `json:"article"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	HasPrice bool    `json:"hasPrice"` // false — в строке не нашлось числовой ячейки
	Supplier string  `json:"supplier"`
}

// Discounts — скидка поставщика в процентах; отсутствующий поставщик = 0.
type Discounts map[string]float64

// Get возвращает скидку поставщика, 0 для неизвестных.
func (d Discounts) Get(supplier string) float64 { return d[supplier] }

// Ranked — одно предложение в топ-K позиции, цена уже со скидкой.
type Ranked struct {
	Supplier    string  `json:"supplier"`
	Price       float64 `json:"price"`
	HasPrice    bool    `json:"hasPrice"`
	DiscountPct float64 `json:"discountPct"`
	Final       float64 `json:"final"`
	HasFinal    bool    `json:"hasFinal"`
}

// NotFound — маркер первой строки результата, когда по позиции ничего не нашлось.
const NotFound = "не найдено"

// EnrichFailed — маркер типа при недоступном GPT-анализе.
const EnrichFailed = "ошибка анализа"
