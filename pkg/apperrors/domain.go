package apperrors

import (
	"fmt"
	"net/http"
)

/*
Фабрики и предопределенные переменные для ошибок домена.
Тексты сообщений - часть контракта с фронтендом, менять их нельзя.
*/

// ErrNotFound - "<Resource> does not exist" (404), сообщение дублируется в поле error
func ErrNotFound(resource string) *AppError {
	msg := fmt.Sprintf("%s does not exist", resource)
	return New(CodeNotFound, "resource", msg, http.StatusNotFound).WithDetails(msg)
}

// --- Auth & Sessions ---

var ErrUnauthenticated = New(
	CodeUnauthorized,
	"auth",
	"You need to sign in or sign up before continuing.",
	http.StatusUnauthorized,
)

var ErrSessionExpired = New(
	CodeTokenExpired,
	"auth",
	"Your session has expired. Please log in again.",
	http.StatusUnauthorized,
)

var ErrNoActiveSession = New(
	CodeUnauthorized,
	"auth",
	"Couldn't find an active session!",
	http.StatusUnauthorized,
)

var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid Email or password.",
	http.StatusUnauthorized,
)

var ErrAccountLocked = New(
	CodeAccountLocked,
	"auth",
	"Your account is locked.",
	http.StatusUnauthorized,
)

// ErrAccountInactive - деактивированный админ пытается войти
var ErrAccountInactive = New(
	CodeAccountInactive,
	"auth",
	"Your account is not active. Please contact admin for more information.",
	http.StatusBadRequest,
).WithDetails("Your account is not active. Please contact admin for more information.")

var ErrEmailNotFound = New(CodeNotFound, "auth", "Email not found", http.StatusBadRequest)

var ErrResetTokenInvalid = New(CodeInvalidToken, "auth", "Reset password token is invalid", http.StatusBadRequest)

var ErrResetTokenExpired = New(
	CodeTokenExpired,
	"auth",
	"Reset password token has expired, please request a new one",
	http.StatusBadRequest,
)

// --- Invitations & Admins ---

var ErrAdminEmailTaken = New(
	CodeAlreadyExists,
	"invitation",
	"This email is already associated with an admin.",
	http.StatusBadRequest,
)

var ErrInvitationInvalid = New(
	CodeInvalidStatus,
	"invitation",
	"Invalid or expired invitation",
	http.StatusBadRequest,
)

var ErrInviteNotAccepted = New(
	CodeInvalidStatus,
	"admin",
	"Invite has not been accepted for this admin yet.",
	http.StatusBadRequest,
)

// --- Candidates ---

var ErrEmailRequired = New(CodeValidationFailed, "candidate", "Email is required", http.StatusUnprocessableEntity)

var ErrEmailUndeliverable = New(
	CodeEmailUndeliverable,
	"candidate",
	"Email address does not exist",
	http.StatusUnprocessableEntity,
)

var ErrApplicantEmailTaken = New(
	CodeAlreadyExists,
	"candidate",
	"Applicant already register with this email",
	http.StatusUnprocessableEntity,
)

// --- Dashboard ---

var ErrInvalidDateFormat = New(CodeBadRequest, "dashboard", "Invalid date format", http.StatusBadRequest)

// --- Uploads ---

var ErrFileTooLarge = New(
	CodeFileRejected,
	"validation",
	"File size exceeds the allowed limit",
	http.StatusUnprocessableEntity,
)

// ErrInvalidFileType - MIME-тип вложения не разрешен для слота
func ErrInvalidFileType(slot string) *AppError {
	msg := fmt.Sprintf("%s has an invalid content type", humanizeSlot(slot))
	return New(CodeFileRejected, "validation", msg, http.StatusUnprocessableEntity).WithDetails(msg)
}

func humanizeSlot(slot string) string {
	switch slot {
	case "resume":
		return "Resume"
	case "resume_image":
		return "Resume image"
	case "photo":
		return "Photo"
	case "intro_video":
		return "Intro video"
	default:
		return slot
	}
}
