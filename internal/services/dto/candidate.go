package dto

import (
	"mime/multipart"

	"pinkcollar_backend/internal/models"
	"pinkcollar_backend/internal/repositories"
)

// CandidateListRequest - query-параметры списка и экспорта кандидатов
type CandidateListRequest struct {
	Search         string   `form:"search"`
	Experience     string   `form:"experience" validate:"omitempty,is-experience"`
	Function       string   `form:"function" validate:"omitempty,is-function"`
	ExpectedSalary string   `form:"expected_salary"`
	CurrentSalary  string   `form:"current_salary"`
	CareerPhase    string   `form:"career_phase"`
	Institute      string   `form:"institute"`
	City           string   `form:"city"`
	Industries     []string `form:"industries[]"`
	StartDate      string   `form:"start_date"`
	EndDate        string   `form:"end_date"`

	// Sort - "field dir"; q[s] имеет приоритет
	Sort  string `form:"sort"`
	QSort string `form:"q[s]"`

	Page   int    `form:"page"`
	Export bool   `form:"export"`
	Format string `form:"format" validate:"omitempty,oneof=json csv xlsx"`
}

// SortParam - итоговая строка сортировки
func (r *CandidateListRequest) SortParam() string {
	if r.QSort != "" {
		return r.QSort
	}
	return r.Sort
}

type SortingInfo struct {
	ExperienceOptions []string `json:"experience_options"`
	CurrentSort       []string `json:"current_sort"`
}

// CandidateListResponse - страница кандидатов
type CandidateListResponse struct {
	Candidates []models.Candidate    `json:"candidates"`
	Pagination repositories.PageMeta `json:"pagination"`
	Sorting    SortingInfo           `json:"sorting"`
}

// ExportResponse - JSON-вариант экспорта, CSV собирается на фронтенде
type ExportResponse struct {
	CSVData  interface{} `json:"csv_data"`
	Filename string      `json:"filename"`
}

// CreateCandidateRequest - multipart-форма публичной анкеты
type CreateCandidateRequest struct {
	FirstName         string   `form:"candidate[first_name]" validate:"required"`
	LastName          string   `form:"candidate[last_name]" validate:"required"`
	Email             string   `form:"candidate[email]" validate:"required,email"`
	ContactNumber     string   `form:"candidate[contact_number]" validate:"required"`
	Dob               string   `form:"candidate[dob]" validate:"required"`
	Education         string   `form:"candidate[education]" validate:"required,is-education"`
	Experience        string   `form:"candidate[experience]" validate:"required,is-experience"`
	ExpectedSalary    string   `form:"candidate[expected_salary]" validate:"required_if=Experience Fresh"`
	CareerPhase       string   `form:"candidate[career_phase]" validate:"required"`
	AdditionalNotes   string   `form:"candidate[additional_notes]"`
	Institute         string   `form:"candidate[institute]" validate:"required"`
	CurrentlyEmployed bool     `form:"candidate[currently_employed]"`
	CurrentSalary     string   `form:"candidate[current_salary]" validate:"required_if=CurrentlyEmployed true"`
	CurrentEmployer   string   `form:"candidate[current_employer]" validate:"required_if=CurrentlyEmployed true"`
	Function          string   `form:"candidate[function]" validate:"required_if=Experience Fresh,is-function"`
	Address           string   `form:"candidate[address]" validate:"required"`
	Industries        []string `form:"candidate[industries][]" validate:"required,dive,is-industry"`
	City              string   `form:"candidate[city]" validate:"required"`
	State             string   `form:"candidate[state]" validate:"required"`
}

// CandidateFiles - вложения анкеты по слотам, отсутствующий файл = nil
type CandidateFiles map[models.AttachmentSlot]*multipart.FileHeader

// URLDetails - ссылки на вложения в карточке кандидата
type URLDetails struct {
	ResumeURL     *string `json:"resume_url"`
	PhotoURL      *string `json:"photo_url"`
	IntroVideoURL *string `json:"intro_video_url"`
}

// CandidateDetails - кандидат и ссылки на его файлы
type CandidateDetails struct {
	*models.Candidate
	URLDetails URLDetails `json:"url_details"`
}
