package repositories

import (
	"errors"

	"pinkcollar_backend/internal/analytics"
	"pinkcollar_backend/internal/models"

	"gorm.io/gorm"
)

var ErrAttachmentNotFound = errors.New("attachment not found")

type AttachmentRepository interface {
	Create(db *gorm.DB, attachment *models.Attachment) error
	FindByID(db *gorm.DB, id string) (*models.Attachment, error)
	FindByRecord(db *gorm.DB, recordType, recordID string) ([]models.Attachment, error)
	DeleteByRecord(db *gorm.DB, recordType, recordID string) error

	// Presence - число вложений по слотам для каждого кандидата из фильтра
	Presence(db *gorm.DB, filter CandidateFilter) ([]analytics.Presence, error)
}

type AttachmentRepositoryImpl struct{}

func NewAttachmentRepository() AttachmentRepository {
	return &AttachmentRepositoryImpl{}
}

func (r *AttachmentRepositoryImpl) Create(db *gorm.DB, attachment *models.Attachment) error {
	return db.Create(attachment).Error
}

func (r *AttachmentRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Attachment, error) {
	if !validID(id) {
		return nil, ErrAttachmentNotFound
	}
	var attachment models.Attachment
	err := db.Where("id = ?", id).First(&attachment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttachmentNotFound
		}
		return nil, err
	}
	return &attachment, nil
}

func (r *AttachmentRepositoryImpl) FindByRecord(db *gorm.DB, recordType, recordID string) ([]models.Attachment, error) {
	var attachments []models.Attachment
	err := db.Where("record_type = ? AND record_id = ?", recordType, recordID).
		Find(&attachments).Error
	return attachments, err
}

func (r *AttachmentRepositoryImpl) DeleteByRecord(db *gorm.DB, recordType, recordID string) error {
	return db.Where("record_type = ? AND record_id = ?", recordType, recordID).
		Delete(&models.Attachment{}).Error
}

// Presence: LEFT JOIN по каждому слоту и COUNT(DISTINCT), кандидаты без
// вложений дают нули.
func (r *AttachmentRepositoryImpl) Presence(db *gorm.DB, filter CandidateFilter) ([]analytics.Presence, error) {
	var rows []analytics.Presence
	err := presenceQuery(db, filter).Scan(&rows).Error
	return rows, err
}

func presenceQuery(db *gorm.DB, filter CandidateFilter) *gorm.DB {
	return ApplyCandidateFilter(db.Model(&models.Candidate{}), filter).
		Select(`candidates.id AS candidate_id,
			COUNT(DISTINCT resume_attach.id) AS resume,
			COUNT(DISTINCT video_attach.id) AS video,
			COUNT(DISTINCT photo_attach.id) AS photo`).
		Joins(slotJoin("resume_attach"), models.CandidateRecordType, string(models.SlotResume)).
		Joins(slotJoin("video_attach"), models.CandidateRecordType, string(models.SlotIntroVideo)).
		Joins(slotJoin("photo_attach"), models.CandidateRecordType, string(models.SlotPhoto)).
		Group("candidates.id")
}

func slotJoin(alias string) string {
	return "LEFT JOIN attachments " + alias + " ON " + alias + ".record_id = candidates.id" +
		" AND " + alias + ".record_type = ? AND " + alias + ".name = ?"
}
