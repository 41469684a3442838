package models

import (
	"time"

	"github.com/lib/pq"
)

// CandidateRecordType - значение record_type у вложений кандидата
const CandidateRecordType = "Candidate"

// Candidate - анкета соискателя. После создания не редактируется, только удаляется.
type Candidate struct {
	BaseModel
	FirstName         string         `gorm:"not null" json:"first_name"`
	LastName          string         `gorm:"not null" json:"last_name"`
	Email             string         `gorm:"uniqueIndex;not null" json:"email"`
	ContactNumber     string         `gorm:"not null" json:"contact_number"`
	Dob               time.Time      `gorm:"type:date;not null" json:"dob"`
	Education         Education      `gorm:"not null" json:"education"`
	Experience        Experience     `gorm:"not null;index" json:"experience"`
	ExpectedSalary    string         `json:"expected_salary"`
	CareerPhase       string         `gorm:"not null" json:"career_phase"`
	AdditionalNotes   string         `json:"additional_notes"`
	Institute         string         `gorm:"index" json:"institute"`
	CurrentlyEmployed bool           `gorm:"not null;default:false" json:"currently_employed"`
	CurrentSalary     string         `json:"current_salary"`
	CurrentEmployer   string         `json:"current_employer"`
	Function          *JobFunction   `gorm:"index" json:"function"`
	Address           string         `json:"address"`
	City              string         `gorm:"index" json:"city"`
	State             string         `json:"state"`
	Industries        pq.StringArray `gorm:"type:text[];not null;default:'{}'" json:"industries"`
	Latitude          *float64       `gorm:"index:idx_candidates_coordinates" json:"latitude"`
	Longitude         *float64       `gorm:"index:idx_candidates_coordinates" json:"longitude"`

	Attachments []Attachment `gorm:"polymorphic:Record;polymorphicValue:Candidate" json:"-"`
}

// IsFresh - нижняя ступень опыта: обязательны function и expected_salary
func (c *Candidate) IsFresh() bool {
	return c.Experience == ExperienceFresh
}

// Coordinates возвращает [lat, lng] только когда известны обе координаты
func (c *Candidate) Coordinates() []float64 {
	if c.Latitude == nil || c.Longitude == nil {
		return nil
	}
	return []float64{*c.Latitude, *c.Longitude}
}

// Attachment ищет вложение по слоту среди предзагруженных
func (c *Candidate) Attachment(slot AttachmentSlot) *Attachment {
	for i := range c.Attachments {
		if c.Attachments[i].Name == slot {
			return &c.Attachments[i]
		}
	}
	return nil
}
