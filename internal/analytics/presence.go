package analytics

// Presence - число вложений по слотам у одного кандидата
type Presence struct {
	CandidateID string
	Resume      int
	Video       int
	Photo       int
}

// Complete - есть и резюме, и видео, и фото
func (p Presence) Complete() bool {
	return p.Resume > 0 && p.Video > 0 && p.Photo > 0
}

// Counts - агрегаты одного периода
type Counts struct {
	Total    int
	Resume   int
	Video    int
	Complete int
}

// CountPresence сворачивает строки резолвера в счетчики периода
func CountPresence(total int, rows []Presence) Counts {
	c := Counts{Total: total}
	for _, r := range rows {
		if r.Resume > 0 {
			c.Resume++
		}
		if r.Video > 0 {
			c.Video++
		}
		if r.Complete() {
			c.Complete++
		}
	}
	return c
}

type FunnelStage struct {
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type Funnel struct {
	TotalApplicants   FunnelStage `json:"total_applicants"`
	ResumeUploads     FunnelStage `json:"resume_uploads"`
	VideoUploads      FunnelStage `json:"video_uploads"`
	CompletedProfiles FunnelStage `json:"completed_profiles"`
}

// DropOff - воронка total -> resume -> video -> complete, каждый этап в % от total
func DropOff(c Counts) Funnel {
	return Funnel{
		TotalApplicants:   FunnelStage{Count: c.Total, Percentage: 100},
		ResumeUploads:     FunnelStage{Count: c.Resume, Percentage: Percentage(c.Resume, c.Total)},
		VideoUploads:      FunnelStage{Count: c.Video, Percentage: Percentage(c.Video, c.Total)},
		CompletedProfiles: FunnelStage{Count: c.Complete, Percentage: Percentage(c.Complete, c.Total)},
	}
}
