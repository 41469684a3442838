package dto

import (
	"pinkcollar_backend/internal/models"
	"pinkcollar_backend/internal/repositories"
)

// AdminListRequest - query-параметры списка админов
type AdminListRequest struct {
	Search       string `form:"search"`
	InviteStatus string `form:"invite_status"`
	Page         int    `form:"page"`
	Export       bool   `form:"export"`
	Format       string `form:"format" validate:"omitempty,oneof=json csv xlsx"`
}

type AdminListResponse struct {
	Admins     []models.User         `json:"admins"`
	Pagination repositories.PageMeta `json:"pagination"`
}
