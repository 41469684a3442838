package services

import (
	"errors"
	"strings"

	"pinkcollar_backend/internal/export"
	"pinkcollar_backend/internal/models"
	"pinkcollar_backend/internal/repositories"
	"pinkcollar_backend/internal/services/dto"
	"pinkcollar_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// AdminExportSheet - имя листа в XLSX-выгрузке админов
const AdminExportSheet = "Admins"

// adminExportColumns - без id, дат и секретов (хеш пароля, токены сброса)
var adminExportColumns = []string{
	"email", "first_name", "last_name", "contact", "role", "invite_status", "is_active",
}

type AdminService interface {
	List(db *gorm.DB, currentUserID string, req *dto.AdminListRequest) (*dto.AdminListResponse, error)
	Export(db *gorm.DB, currentUserID string, req *dto.AdminListRequest) (export.Table, error)
	Show(db *gorm.DB, id string) (*models.User, error)
	Deactivate(db *gorm.DB, id string) (*models.User, error)
	Activate(db *gorm.DB, id string) (*models.User, error)
	Delete(db *gorm.DB, id string) (*models.User, error)
}

type AdminServiceImpl struct {
	userRepo       repositories.UserRepository
	invitationRepo repositories.InvitationRepository
}

func NewAdminService(userRepo repositories.UserRepository, invitationRepo repositories.InvitationRepository) AdminService {
	return &AdminServiceImpl{
		userRepo:       userRepo,
		invitationRepo: invitationRepo,
	}
}

func adminFilter(currentUserID string, req *dto.AdminListRequest) repositories.AdminFilter {
	f := repositories.AdminFilter{
		ExcludeID: currentUserID,
		Search:    req.Search,
	}
	// Неизвестный статус молча игнорируется
	if status, ok := models.ParseInviteStatus(strings.TrimSpace(req.InviteStatus)); ok {
		f.InviteStatus = &status
	}
	return f
}

func (s *AdminServiceImpl) List(db *gorm.DB, currentUserID string, req *dto.AdminListRequest) (*dto.AdminListResponse, error) {
	admins, meta, err := s.userRepo.ListAdmins(db, adminFilter(currentUserID, req), repositories.PageRequest{
		Page:  req.Page,
		Limit: repositories.DefaultPageSize,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.AdminListResponse{Admins: admins, Pagination: meta}, nil
}

func (s *AdminServiceImpl) Export(db *gorm.DB, currentUserID string, req *dto.AdminListRequest) (export.Table, error) {
	admins, err := s.userRepo.ListAllAdmins(db, adminFilter(currentUserID, req))
	if err != nil {
		return export.Table{}, apperrors.InternalError(err)
	}

	t := export.Table{Columns: adminExportColumns, Rows: make([][]any, 0, len(admins))}
	for _, u := range admins {
		t.Rows = append(t.Rows, []any{
			u.Email, u.FirstName, u.LastName, u.Contact, string(u.Role), string(u.InviteStatus), u.IsActive,
		})
	}
	return t, nil
}

func (s *AdminServiceImpl) Show(db *gorm.DB, id string) (*models.User, error) {
	user, err := s.userRepo.FindByID(db, id)
	if err != nil {
		return nil, handleUserError(err)
	}
	return user, nil
}

func (s *AdminServiceImpl) Deactivate(db *gorm.DB, id string) (*models.User, error) {
	return s.setState(db, id, false, models.InviteStatusDeactivated)
}

// Activate запрещен, пока админ не принял приглашение
func (s *AdminServiceImpl) Activate(db *gorm.DB, id string) (*models.User, error) {
	user, err := s.userRepo.FindByID(db, id)
	if err != nil {
		return nil, handleUserError(err)
	}
	if !user.CanActivate() {
		return nil, apperrors.ErrInviteNotAccepted
	}
	return s.setState(db, id, true, models.InviteStatusAccepted)
}

func (s *AdminServiceImpl) setState(db *gorm.DB, id string, active bool, status models.InviteStatus) (*models.User, error) {
	err := s.userRepo.UpdateFields(db, id, map[string]interface{}{
		"is_active":     active,
		"invite_status": status,
	})
	if err != nil {
		return nil, handleUserError(err)
	}
	return s.Show(db, id)
}

// Delete удаляет админа вместе с его приглашением
func (s *AdminServiceImpl) Delete(db *gorm.DB, id string) (*models.User, error) {
	var user *models.User
	err := inTransaction(db, func(tx *gorm.DB) error {
		var err error
		if user, err = s.userRepo.FindByID(tx, id); err != nil {
			return handleUserError(err)
		}
		if err := s.invitationRepo.DeleteByEmail(tx, user.Email); err != nil {
			return err
		}
		if err := s.userRepo.Delete(tx, user.ID); err != nil {
			return handleUserError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func handleUserError(err error) error {
	if errors.Is(err, repositories.ErrUserNotFound) {
		return apperrors.ErrNotFound("User")
	}
	return apperrors.InternalError(err)
}
