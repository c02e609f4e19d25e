// Подбор предложений под позицию ТЗ: substring-поиск по ключам,
// дедупликация, сортировка по цене, топ-K, применение скидки.
package match

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"tender-service/internal/tender/model"
)

type Options struct {
	MaxCandidates int     // топ-K, default 3
	EnableFuzzy   bool    // fuzzy-фоллбэк, когда substring ничего не дал
	Threshold     float64 // порог схожести для fuzzy (0..1)
}

const (
	DefaultMaxCandidates = 3
	DefaultThreshold     = 0.83
)

// Matcher держит каталог и предрассчитанные нормализованные имена;
// один экземпляр обслуживает все позиции прогона.
type Matcher struct {
	offers []model.Offer
	norms  []string
	idx    *index
	opt    Options
}

func New(offers []model.Offer, opt Options) *Matcher {
	if opt.MaxCandidates <= 0 {
		opt.MaxCandidates = DefaultMaxCandidates
	}
	if opt.Threshold <= 0 {
		opt.Threshold = DefaultThreshold
	}
	norms := make([]string, len(offers))
	for i, o := range offers {
		norms[i] = normalize(o.Name)
	}
	m := &Matcher{offers: offers, norms: norms, opt: opt}
	if opt.EnableFuzzy {
		m.idx = buildIndex(norms)
	}
	return m
}

// Rank возвращает 0..K ранжированных предложений. Пустой результат здесь
// не бывает: при нуле кандидатов отдаём маркер «не найдено» в первом слоте.
func (m *Matcher) Rank(req model.Requirement, discounts model.Discounts) []model.Ranked {
	keys := req.Keys
	if len(keys) == 0 {
		keys = []string{req.Name}
	}

	cand := m.searchSubstring(keys)
	if len(cand) == 0 && m.opt.EnableFuzzy {
		cand = m.searchFuzzy(keys)
	}
	if len(cand) == 0 {
		return []model.Ranked{{Supplier: model.NotFound}}
	}

	// цена по возрастанию; без цены — в хвост; стабильность даёт детерминизм
	sort.SliceStable(cand, func(i, j int) bool {
		a, b := m.offers[cand[i]], m.offers[cand[j]]
		if a.HasPrice != b.HasPrice {
			return a.HasPrice
		}
		return a.Price < b.Price
	})
	if len(cand) > m.opt.MaxCandidates {
		cand = cand[:m.opt.MaxCandidates]
	}

	out := make([]model.Ranked, 0, len(cand))
	for _, i := range cand {
		out = append(out, applyDiscount(m.offers[i], discounts))
	}
	return out
}

// searchSubstring — объединение совпадений по всем ключам,
// дедуп по содержимому предложения (не по ключу).
func (m *Matcher) searchSubstring(keys []string) []int {
	var cand []int
	seen := make(map[string]struct{})
	for _, key := range keys {
		nk := normalize(key)
		if nk == "" {
			continue
		}
		for i, nn := range m.norms {
			if nn == "" || !strings.Contains(nn, nk) {
				continue
			}
			ck := contentKey(m.offers[i])
			if _, ok := seen[ck]; ok {
				continue
			}
			seen[ck] = struct{}{}
			cand = append(cand, i)
		}
	}
	return cand
}

// searchFuzzy — триграммные кандидаты + схожесть Дамерау-Левенштейна.
func (m *Matcher) searchFuzzy(keys []string) []int {
	var cand []int
	seen := make(map[string]struct{})
	for _, key := range keys {
		nk := normalize(key)
		if nk == "" {
			continue
		}
		for _, nn := range m.idx.candidateNames(nk) {
			if similarity(nk, nn) < m.opt.Threshold {
				continue
			}
			for _, i := range m.idx.byName[nn] {
				ck := contentKey(m.offers[i])
				if _, ok := seen[ck]; ok {
					continue
				}
				seen[ck] = struct{}{}
				cand = append(cand, i)
			}
		}
	}
	return cand
}

func contentKey(o model.Offer) string {
	return fmt.Sprintf("%s\x00%s\x00%s\x00%v\x00%v", o.Article, o.Name, o.Supplier, o.HasPrice, o.Price)
}

// applyDiscount: итог = округлённая до копеек цена со скидкой поставщика,
// неизвестный поставщик — скидка 0.
func applyDiscount(o model.Offer, discounts model.Discounts) model.Ranked {
	r := model.Ranked{
		Supplier:    o.Supplier,
		Price:       o.Price,
		HasPrice:    o.HasPrice,
		DiscountPct: discounts.Get(o.Supplier),
	}
	if o.HasPrice {
		r.Final = math.Round(o.Price*(1-r.DiscountPct/100)*100) / 100
		r.HasFinal = true
	}
	return r
}
