package analytics

// Generation - когорта по году рождения, границы включительно
type Generation struct {
	Name string
	From int
	To   int
}

var Generations = []Generation{
	{Name: "Alpha", From: 2013, To: 2025},
	{Name: "Gen Z", From: 1997, To: 2012},
	{Name: "Millennials", From: 1981, To: 1996},
	{Name: "Gen X", From: 1965, To: 1980},
	{Name: "Baby Boomers", From: 1946, To: 1964},
}

// GenerationFor возвращает false для годов вне всех когорт
func GenerationFor(year int) (string, bool) {
	for _, g := range Generations {
		if year >= g.From && year <= g.To {
			return g.Name, true
		}
	}
	return "", false
}

// YearCount - число кандидатов с данным годом рождения
type YearCount struct {
	Year  int
	Count int
}

type GenerationStat struct {
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// GenerationalBreakdown раскладывает годы по когортам. Пустые когорты и годы
// вне диапазонов в результат не попадают, проценты считаются от total.
func GenerationalBreakdown(years []YearCount, total int) map[string]GenerationStat {
	counts := make(map[string]int)
	for _, y := range years {
		if y.Count <= 0 {
			continue
		}
		if name, ok := GenerationFor(y.Year); ok {
			counts[name] += y.Count
		}
	}

	out := make(map[string]GenerationStat, len(counts))
	for name, c := range counts {
		out[name] = GenerationStat{Count: c, Percentage: Percentage(c, total)}
	}
	return out
}
