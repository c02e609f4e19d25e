package match

import "strings"

// Латиница→кириллица (визуальные двойники): в прайсах "Cтол" через латинскую C
// встречается сплошь и рядом.
var lookalikes = map[rune]rune{
	'A': 'А', 'B': 'В', 'C': 'С', 'E': 'Е', 'H': 'Н', 'K': 'К', 'M': 'М', 'O': 'О', 'P': 'Р', 'T': 'Т', 'X': 'Х', 'Y': 'У',
	'a': 'а', 'c': 'с', 'e': 'е', 'o': 'о', 'p': 'р', 'x': 'х',
}

// normalize — регистронезависимая форма для substring-поиска:
// нижний регистр, ё→е, унификация двойников, схлопнутые пробелы.
func normalize(s string) string {
	if s == "" {
		return ""
	}
	b := make([]rune, 0, len(s))
	for _, r := range strings.ToLower(s) {
		if r == 'ё' {
			r = 'е'
		}
		if rr, ok := lookalikes[r]; ok {
			r = rr
		}
		b = append(b, r)
	}
	return strings.Join(strings.Fields(string(b)), " ")
}
