package models

import (
	"gorm.io/datatypes"
)

type AttachmentSlot string

const (
	SlotResume      AttachmentSlot = "resume"
	SlotResumeImage AttachmentSlot = "resume_image"
	SlotPhoto       AttachmentSlot = "photo"
	SlotIntroVideo  AttachmentSlot = "intro_video"
)

// AttachmentSlots - все слоты в порядке обработки при загрузке
var AttachmentSlots = []AttachmentSlot{SlotResume, SlotResumeImage, SlotPhoto, SlotIntroVideo}

// Attachment - полиморфная ссылка на файл в хранилище (owner type + id + слот).
// Один файл на слот у владельца, записи не изменяются.
type Attachment struct {
	BaseModel
	RecordType      string         `gorm:"not null;uniqueIndex:idx_attachments_record_slot" json:"record_type"`
	RecordID        string         `gorm:"type:uuid;not null;uniqueIndex:idx_attachments_record_slot" json:"record_id"`
	Name            AttachmentSlot `gorm:"type:varchar(32);not null;uniqueIndex:idx_attachments_record_slot" json:"name"`
	StorageKey      string         `gorm:"not null" json:"-"`
	StorageProvider string         `gorm:"default:'local'" json:"storage_provider"`
	Filename        string         `json:"filename"`
	ContentType     string         `json:"content_type"`
	ByteSize        int64          `json:"byte_size"`
	Checksum        string         `json:"checksum"`
	Metadata        datatypes.JSON `gorm:"type:jsonb" json:"metadata,omitempty"`
}
