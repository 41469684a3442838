package config

// DefaultAttachmentTypes - разрешенные MIME-типы по слотам вложений кандидата
func DefaultAttachmentTypes() map[string][]string {
	return map[string][]string{
		"resume": {
			"application/pdf",
			"application/msword",
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		},
		"resume_image": {"image/jpeg", "image/png", "image/webp", "image/heic"},
		"photo":        {"image/jpeg", "image/png", "image/webp", "image/heic"},
		"intro_video":  {"video/mp4", "video/quicktime", "video/webm"},
	}
}
