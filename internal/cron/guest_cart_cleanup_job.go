package cron

import (
	"context"
	"fmt"
	"time"
)

const defaultGuestCartRetentionDays = 30

type guestCartPurger interface {
	DeleteGuestItemsOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// GuestCartCleanupJobParams configure the abandoned guest cart purge.
type GuestCartCleanupJobParams struct {
	Carts         guestCartPurger
	RetentionDays int
}

// NewGuestCartCleanupJob builds the job that removes guest cart lines whose
// cookie has long expired. Rows untouched for the retention window are dead:
// the cookie registration in Redis lives at most that long.
func NewGuestCartCleanupJob(params GuestCartCleanupJobParams) (Job, error) {
	if params.Carts == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	retention := params.RetentionDays
	if retention <= 0 {
		retention = defaultGuestCartRetentionDays
	}
	return &guestCartCleanupJob{
		carts:     params.Carts,
		retention: time.Duration(retention) * 24 * time.Hour,
		now:       time.Now,
	}, nil
}

type guestCartCleanupJob struct {
	carts     guestCartPurger
	retention time.Duration
	now       func() time.Time
}

func (j *guestCartCleanupJob) Name() string { return "guest-cart-cleanup" }

func (j *guestCartCleanupJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.retention)
	if _, err := j.carts.DeleteGuestItemsOlderThan(ctx, cutoff); err != nil {
		return fmt.Errorf("purge stale guest cart lines: %w", err)
	}
	return nil
}
