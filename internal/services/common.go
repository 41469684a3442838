package services

import (
	"context"
	"strings"
	"time"

	"pinkcollar_backend/internal/logger"
	"pinkcollar_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// JSONCache - часть cache.Redis, нужная сервисам
type JSONCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// EmailVerifier - проверка формата и MX-записей адреса
type EmailVerifier interface {
	EmailDeliverable(ctx context.Context, email string) bool
}

const dateLayout = "2006-01-02"

// parseDate принимает "2006-01-02" и RFC3339. dateOnly сообщает, было ли время.
func parseDate(raw string) (t time.Time, dateOnly bool, err error) {
	raw = strings.TrimSpace(raw)
	if t, err = time.Parse(dateLayout, raw); err == nil {
		return t, true, nil
	}
	if t, err = time.Parse(time.RFC3339, raw); err == nil {
		return t, false, nil
	}
	return time.Time{}, false, err
}

func beginningOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return beginningOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// parseStartDate - начало дня для даты без времени
func parseStartDate(raw string) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	t, dateOnly, err := parseDate(raw)
	if err != nil {
		return nil, apperrors.ErrInvalidDateFormat.WithError(err)
	}
	if dateOnly {
		t = beginningOfDay(t)
	}
	return &t, nil
}

// parseEndDate - дата без времени покрывает весь день
func parseEndDate(raw string) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	t, dateOnly, err := parseDate(raw)
	if err != nil {
		return nil, apperrors.ErrInvalidDateFormat.WithError(err)
	}
	if dateOnly {
		t = endOfDay(t)
	}
	return &t, nil
}

// inTransaction выполняет fn атомарно; внутри открытой транзакции gorm ставит savepoint.
// Ошибка без AppError отдается как 500.
func inTransaction(db *gorm.DB, fn func(tx *gorm.DB) error) error {
	err := db.Transaction(fn)
	if err == nil {
		return nil
	}
	if _, ok := apperrors.AsAppError(err); ok {
		return err
	}
	return apperrors.InternalError(err)
}

// missingParam - 400 "Bad request" для отсутствующего корневого ключа тела
func missingParam(name string) error {
	return apperrors.NewBadRequestError("param is missing or the value is empty: " + name)
}

// sendAsync - письма уходят в фоне, ошибка только логируется
func sendAsync(ctx context.Context, kind, to string, send func() error) {
	ctx = context.WithoutCancel(ctx)
	go func() {
		if err := send(); err != nil {
			logger.CtxWithError(ctx, "Failed to send email", err, "kind", kind, "to", to)
			return
		}
		logger.CtxInfo(ctx, "Email sent", "kind", kind, "to", to)
	}()
}
