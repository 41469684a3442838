package workers

import (
	"context"
	"time"

	"pinkcollar_backend/internal/logger"
	"pinkcollar_backend/internal/repositories"

	"gorm.io/gorm"
)

const (
	invitationWorkerName = "invitation_sweeper"
	// sweepBatchSize - сколько приглашений обрабатывается за один проход
	sweepBatchSize = 100
	// DefaultSweepInterval - период, если в конфиге ничего не задано
	DefaultSweepInterval = 15 * time.Minute
)

// InvitationExpirer - часть services.InvitationService, нужная воркеру
type InvitationExpirer interface {
	ExpireStale(ctx context.Context, db *gorm.DB, limit int) (int, error)
}

// InvitationWorker периодически переводит просроченные pending-приглашения в expired
// и чистит истекшие записи таблицы отозванных токенов.
type InvitationWorker struct {
	db           *gorm.DB
	invitations  InvitationExpirer
	denylistRepo repositories.DenylistRepository
	interval     time.Duration
	now          func() time.Time
}

func NewInvitationWorker(db *gorm.DB, invitations InvitationExpirer, denylistRepo repositories.DenylistRepository, interval time.Duration) *InvitationWorker {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &InvitationWorker{
		db:           db,
		invitations:  invitations,
		denylistRepo: denylistRepo,
		interval:     interval,
		now:          time.Now,
	}
}

// Start запускает фоновый цикл; он завершается вместе с ctx
func (w *InvitationWorker) Start(ctx context.Context) {
	go w.run(ctx)
}

func (w *InvitationWorker) run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logger.Info("Invitation worker started", "interval", w.interval)
	for {
		select {
		case <-ctx.Done():
			logger.Info("Invitation worker stopped")
			return
		case <-ticker.C:
			w.Sweep(ctx)
		}
	}
}

// Sweep - один проход: приглашения пачками, пока пачка полная, затем denylist
func (w *InvitationWorker) Sweep(ctx context.Context) {
	db := w.db.WithContext(ctx)

	var total int64
	for ctx.Err() == nil {
		expired, err := w.invitations.ExpireStale(ctx, db, sweepBatchSize)
		total += int64(expired)
		if err != nil {
			logger.WorkerLog(invitationWorkerName, "expire_invitations", total, err)
			break
		}
		if expired < sweepBatchSize {
			logger.WorkerLog(invitationWorkerName, "expire_invitations", total, nil)
			break
		}
	}

	if w.denylistRepo == nil {
		return
	}
	purged, err := w.denylistRepo.PurgeExpired(db, w.now())
	logger.WorkerLog(invitationWorkerName, "purge_denylist", purged, err)
}
