package analytics

import (
	"sort"
	"strings"
)

// Facet - function и industries одного кандидата
type Facet struct {
	Function   string
	Industries []string
}

type FunctionStat struct {
	ApplicantsCount int            `json:"applicants_count"`
	Industries      map[string]int `json:"industries"`
}

// FunctionDistribution - кросс-таблица function x industry.
// Кандидаты без function пропускаются, ключи индустрий имеют вид "<industry>_applicants".
func FunctionDistribution(facets []Facet) map[string]FunctionStat {
	out := make(map[string]FunctionStat)
	for _, f := range facets {
		fn := strings.TrimSpace(f.Function)
		if fn == "" {
			continue
		}
		stat, ok := out[fn]
		if !ok {
			stat = FunctionStat{Industries: make(map[string]int)}
		}
		stat.ApplicantsCount++
		for _, ind := range f.Industries {
			if strings.TrimSpace(ind) == "" {
				continue
			}
			stat.Industries[ind+"_applicants"]++
		}
		out[fn] = stat
	}
	return out
}

// CityGroup - группа (city, lat, lng) из репозитория
type CityGroup struct {
	City      string
	Latitude  *float64
	Longitude *float64
	Count     int
}

type TopCity struct {
	City        string     `json:"city"`
	Count       int        `json:"count"`
	Percentage  float64    `json:"percentage"`
	Coordinates [2]float64 `json:"coordinates"`
}

// TopCities сортирует группы по проценту (по убыванию) и отбрасывает группы без координат
func TopCities(groups []CityGroup, total int) []TopCity {
	out := make([]TopCity, 0, len(groups))
	for _, g := range groups {
		if g.Latitude == nil || g.Longitude == nil {
			continue
		}
		out = append(out, TopCity{
			City:        g.City,
			Count:       g.Count,
			Percentage:  Percentage(g.Count, total),
			Coordinates: [2]float64{*g.Latitude, *g.Longitude},
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Percentage > out[j].Percentage
	})
	return out
}

type Ratio struct {
	Resume float64 `json:"resume"`
	Video  float64 `json:"video"`
}

// ResumeToVideoRatio - доли total и video в знаменателе (total + video)
func ResumeToVideoRatio(total, video int) Ratio {
	parts := total + video
	if parts == 0 {
		return Ratio{}
	}
	return Ratio{
		Resume: Round2(float64(total) / float64(parts) * 100),
		Video:  Round2(float64(video) / float64(parts) * 100),
	}
}
