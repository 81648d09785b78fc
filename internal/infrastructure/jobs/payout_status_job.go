package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
	"prop-vault.backend/internal/domain/repositories"
	"prop-vault.backend/internal/usecases"
	"prop-vault.backend/pkg/logger"
)

// PayoutStatusJob periodically reconciles approved withdrawals against the
// payout gateway. Gateways drop callbacks; without this, a paid-out
// withdrawal could stay approved forever.
type PayoutStatusJob struct {
	withdrawals *usecases.WithdrawalUsecase
	repo        repositories.WithdrawalRepository
	interval    time.Duration
	stop        chan struct{}
}

func NewPayoutStatusJob(withdrawals *usecases.WithdrawalUsecase, repo repositories.WithdrawalRepository, interval time.Duration) *PayoutStatusJob {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &PayoutStatusJob{
		withdrawals: withdrawals,
		repo:        repo,
		interval:    interval,
		stop:        make(chan struct{}),
	}
}

func (j *PayoutStatusJob) Start(ctx context.Context) {
	logger.Info(ctx, "starting payout status job", zap.Duration("interval", j.interval))

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "payout status job stopped (context cancelled)")
			return
		case <-j.stop:
			logger.Info(ctx, "payout status job stopped")
			return
		case <-ticker.C:
			j.syncPending(ctx)
		}
	}
}

func (j *PayoutStatusJob) Stop() {
	close(j.stop)
}

func (j *PayoutStatusJob) syncPending(ctx context.Context) {
	pending, err := j.repo.ListApprovedWithPayout(ctx, 100)
	if err != nil {
		logger.Error(ctx, "payout status job: list approved withdrawals", zap.Error(err))
		return
	}
	if len(pending) == 0 {
		return
	}

	synced := 0
	for _, w := range pending {
		if err := j.withdrawals.SyncPayoutStatus(ctx, w); err != nil {
			// A gateway outage fails all remaining polls this cycle too.
			logger.Warn(ctx, "payout status job: sync failed",
				zap.String("withdrawal_id", w.ID.String()),
				zap.Error(err),
			)
			continue
		}
		synced++
	}

	logger.Info(ctx, "payout status job cycle complete",
		zap.Int("checked", len(pending)),
		zap.Int("synced", synced),
	)
}
