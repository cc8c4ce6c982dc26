package cron

import (
	"context"
	"time"

	"github.com/cmlabs-hris/commission-payroll-go/internal/domain/salary"
	"go.uber.org/zap"
)

// TokenPurger removes refresh tokens past their expiry.
type TokenPurger interface {
	DeleteExpiredRefreshTokens(ctx context.Context) (int64, error)
}

// MaintenanceJobs keeps the tax discounts and the token table tidy.
type MaintenanceJobs struct {
	salaryService salary.SalaryService
	tokens        TokenPurger
	taxInterval   time.Duration
	tokenInterval time.Duration
	logger        *zap.Logger
}

func NewMaintenanceJobs(salaryService salary.SalaryService, tokens TokenPurger, taxInterval, tokenInterval time.Duration, logger ...*zap.Logger) *MaintenanceJobs {
	l := zap.L().Named("cron.maintenance")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("cron.maintenance")
	}
	return &MaintenanceJobs{
		salaryService: salaryService,
		tokens:        tokens,
		taxInterval:   taxInterval,
		tokenInterval: tokenInterval,
		logger:        l,
	}
}

// RegisterJobs registers all maintenance cron jobs
func (j *MaintenanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("cleanup_duplicate_tax_discounts", j.taxInterval, j.CleanupDuplicateTaxDiscounts)
	scheduler.AddJob("purge_expired_refresh_tokens", j.tokenInterval, j.PurgeExpiredRefreshTokens)
}

// CleanupDuplicateTaxDiscounts heals duplicates left by interleaved recalculations.
func (j *MaintenanceJobs) CleanupDuplicateTaxDiscounts(ctx context.Context) error {
	result, err := j.salaryService.CleanupDuplicateTaxDiscounts(ctx)
	if err != nil {
		return err
	}
	if result.Removed > 0 {
		j.logger.Info("tax discount cleanup finished", zap.Int("groups", result.Groups), zap.Int64("removed", result.Removed))
	}
	return nil
}

func (j *MaintenanceJobs) PurgeExpiredRefreshTokens(ctx context.Context) error {
	removed, err := j.tokens.DeleteExpiredRefreshTokens(ctx)
	if err != nil {
		return err
	}
	if removed > 0 {
		j.logger.Info("expired refresh tokens purged", zap.Int64("removed", removed))
	}
	return nil
}
