package apperrors

// ErrorCode - машинный код ошибки, уходит в логи вместе с доменом
type ErrorCode string

const (
	CodeInternalError ErrorCode = "INTERNAL_ERROR"

	// Запрос
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeBadRequest       ErrorCode = "BAD_REQUEST"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeAlreadyExists    ErrorCode = "ALREADY_EXISTS"
	CodeInvalidStatus    ErrorCode = "INVALID_STATUS"
	CodeInvalidOperation ErrorCode = "INVALID_OPERATION"

	// Анкеты и вложения
	CodeFileRejected       ErrorCode = "FILE_REJECTED"
	CodeEmailUndeliverable ErrorCode = "EMAIL_UNDELIVERABLE"

	// Сессии администраторов
	CodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	CodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	CodeTokenExpired       ErrorCode = "TOKEN_EXPIRED"
	CodeAccountInactive    ErrorCode = "ACCOUNT_INACTIVE"
	CodeAccountLocked      ErrorCode = "ACCOUNT_LOCKED"
)
