package workers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// offlineDB - *gorm.DB без соединения: заглушки ниже в базу не ходят
func offlineDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.Open("host=127.0.0.1 port=1 user=none dbname=none sslmode=disable"), &gorm.Config{
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)
	return db
}

type fakeExpirer struct {
	mu      sync.Mutex
	batches []int
	calls   int
	err     error
}

func (f *fakeExpirer) ExpireStale(_ context.Context, _ *gorm.DB, limit int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls >= len(f.batches) {
		f.calls++
		return 0, f.err
	}
	n := f.batches[f.calls]
	f.calls++
	if n > limit {
		n = limit
	}
	return n, nil
}

func (f *fakeExpirer) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeDenylist struct {
	mu     sync.Mutex
	purges []time.Time
}

func (f *fakeDenylist) Add(_ *gorm.DB, _ string, _ time.Time) error { return nil }

func (f *fakeDenylist) Exists(_ *gorm.DB, _ string) (bool, error) { return false, nil }

func (f *fakeDenylist) PurgeExpired(_ *gorm.DB, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.purges = append(f.purges, now)
	return 3, nil
}

func (f *fakeDenylist) Purges() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.purges)
}

func TestSweep_ProcessesFullBatchesThenPurges(t *testing.T) {
	// 1. Подготовка: две полные пачки и хвост
	expirer := &fakeExpirer{batches: []int{sweepBatchSize, sweepBatchSize, 7}}
	denylist := &fakeDenylist{}
	now := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	w := NewInvitationWorker(offlineDB(t), expirer, denylist, time.Minute)
	w.now = func() time.Time { return now }

	// 2. Действие
	w.Sweep(context.Background())

	// 3. Проверка
	assert.Equal(t, 3, expirer.Calls())
	require.Equal(t, 1, denylist.Purges())
	assert.Equal(t, now, denylist.purges[0])
}

func TestSweep_StopsOnError(t *testing.T) {
	expirer := &fakeExpirer{err: errors.New("db is down")}
	denylist := &fakeDenylist{}
	w := NewInvitationWorker(offlineDB(t), expirer, denylist, time.Minute)

	w.Sweep(context.Background())

	assert.Equal(t, 1, expirer.Calls())
	assert.Equal(t, 1, denylist.Purges())
}

func TestStart_RunsOnTickerUntilCancelled(t *testing.T) {
	expirer := &fakeExpirer{}
	w := NewInvitationWorker(offlineDB(t), expirer, nil, 10*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())

	w.Start(ctx)
	require.Eventually(t, func() bool { return expirer.Calls() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()

	time.Sleep(30 * time.Millisecond)
	stopped := expirer.Calls()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, stopped, expirer.Calls())
}

func TestNewInvitationWorker_DefaultInterval(t *testing.T) {
	w := NewInvitationWorker(nil, &fakeExpirer{}, nil, 0)

	assert.Equal(t, DefaultSweepInterval, w.interval)
}
