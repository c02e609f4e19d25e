package match

import "sort"

// Триграммный инверт-индекс по нормализованным именам предложений —
// сужает перебор кандидатов для fuzzy-фоллбэка.
type index struct {
	byName map[string][]int                // норм. имя -> индексы предложений
	inv    map[string]map[string]struct{}  // trigram -> set(норм. имя)
}

func buildIndex(norms []string) *index {
	idx := &index{
		byName: make(map[string][]int),
		inv:    make(map[string]map[string]struct{}),
	}
	for i, nn := range norms {
		if nn == "" {
			continue
		}
		idx.byName[nn] = append(idx.byName[nn], i)
		for g := range trigramSet(nn) {
			bucket, ok := idx.inv[g]
			if !ok {
				bucket = make(map[string]struct{})
				idx.inv[g] = bucket
			}
			bucket[nn] = struct{}{}
		}
	}
	return idx
}

func trigramSet(s string) map[string]struct{} {
	m := make(map[string]struct{})
	if s == "" {
		return m
	}
	p := " " + s + " "
	r := []rune(p)
	if len(r) < 3 {
		m[p] = struct{}{}
		return m
	}
	for i := 0; i <= len(r)-3; i++ {
		m[string(r[i:i+3])] = struct{}{}
	}
	return m
}

func (idx *index) candidateNames(norm string) []string {
	if norm == "" {
		return nil
	}
	seen := make(map[string]struct{})
	for g := range trigramSet(norm) {
		if bucket, ok := idx.inv[g]; ok {
			for nn := range bucket {
				seen[nn] = struct{}{}
			}
		}
	}
	out := make([]string, 0, len(seen))
	for nn := range seen {
		out = append(out, nn)
	}
	sort.Strings(out) // для детерминированного порядка
	return out
}
