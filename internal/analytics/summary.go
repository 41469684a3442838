package analytics

import "time"

// Input - все производные значения запроса, посчитанные один раз
type Input struct {
	Current Counts
	// Previous == nil, если диапазон дат не задан: тренды тогда null
	Previous *Counts

	BirthYears []YearCount
	Facets     []Facet
	Cities     []CityGroup

	StartDate *time.Time
	EndDate   *time.Time
}

type Metric struct {
	Value float64  `json:"value"`
	Trend *float64 `json:"trend"`
}

type TotalMetric struct {
	Value int      `json:"value"`
	Trend *float64 `json:"trend"`
}

type UploadRates struct {
	Resume            Metric `json:"resume"`
	Video             Metric `json:"video"`
	ProfileCompletion Metric `json:"profile_completion"`
}

type DateRange struct {
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
}

// Summary - тело ответа дашборда
type Summary struct {
	TotalApplicants       TotalMetric               `json:"total_applicants"`
	UploadRates           UploadRates               `json:"upload_rates"`
	GenerationalBreakdown map[string]GenerationStat `json:"generational_breakdown"`
	FunctionDistribution  map[string]FunctionStat   `json:"function_distribution"`
	DropOffRate           Funnel                    `json:"drop_off_rate"`
	TopCities             []TopCity                 `json:"top_cities"`
	ResumeToVideoRatio    Ratio                     `json:"resume_to_video_ratio"`
	DateRange             DateRange                 `json:"date_range"`
}

func BuildSummary(in Input) Summary {
	cur := in.Current

	s := Summary{
		TotalApplicants: TotalMetric{Value: cur.Total},
		UploadRates: UploadRates{
			Resume:            Metric{Value: Percentage(cur.Resume, cur.Total)},
			Video:             Metric{Value: Percentage(cur.Video, cur.Total)},
			ProfileCompletion: Metric{Value: Percentage(cur.Complete, cur.Total)},
		},
		GenerationalBreakdown: GenerationalBreakdown(in.BirthYears, cur.Total),
		FunctionDistribution:  FunctionDistribution(in.Facets),
		DropOffRate:           DropOff(cur),
		TopCities:             TopCities(in.Cities, cur.Total),
		ResumeToVideoRatio:    ResumeToVideoRatio(cur.Total, cur.Video),
		DateRange:             DateRange{StartDate: in.StartDate, EndDate: in.EndDate},
	}

	if prev := in.Previous; prev != nil {
		s.TotalApplicants.Trend = ptr(Trend(float64(cur.Total), float64(prev.Total)))
		s.UploadRates.Resume.Trend = rateTrend(cur.Resume, cur.Total, prev.Resume, prev.Total)
		s.UploadRates.Video.Trend = rateTrend(cur.Video, cur.Total, prev.Video, prev.Total)
		s.UploadRates.ProfileCompletion.Trend = rateTrend(cur.Complete, cur.Total, prev.Complete, prev.Total)
	}
	return s
}

func rateTrend(cur, curTotal, prev, prevTotal int) *float64 {
	return ptr(Trend(Percentage(cur, curTotal), Percentage(prev, prevTotal)))
}

func ptr(f float64) *float64 {
	return &f
}
