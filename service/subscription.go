package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/ansuman-shukla/hippocampus-backend/db"
	"github.com/ansuman-shukla/hippocampus-backend/kv"
	"github.com/ansuman-shukla/hippocampus-backend/models"
)

const proPeriod = 30 * 24 * time.Hour

// usageKinds are the resources counted per user.
var usageKinds = []string{"memories", "notes"}

// SubscriptionService manages subscription-tier records. All mutation goes
// through admin endpoints; usage counters live in the key-value store.
type SubscriptionService struct {
	db db.Database
	kv kv.KeyValueStore
}

// NewSubscriptionService creates a SubscriptionService over the given stores.
func NewSubscriptionService(database db.Database, store kv.KeyValueStore) *SubscriptionService {
	return &SubscriptionService{db: database, kv: store}
}

// Get returns the user's subscription record, synthesizing an active free
// tier when none has been written yet. A pro subscription past its period is
// reported as expired.
func (s SubscriptionService) Get(ctx context.Context, userID string) (models.Subscription, error) {
	sub, err := s.db.GetSubscription(ctx, userID)
	if errors.Is(err, db.ErrNotFound) {
		return models.Subscription{
			UserID: userID,
			Tier:   models.TierFree,
			Status: models.StatusActive,
		}, nil
	}
	if err != nil {
		return models.Subscription{}, err
	}

	if sub.Status == models.StatusActive && sub.ExpiresAt > 0 && sub.ExpiresAt < time.Now().Unix() {
		sub.Status = models.StatusExpired
	}

	return sub, nil
}

// Usage returns the user's usage counters per resource kind. A missing
// counter reads as zero.
func (s SubscriptionService) Usage(userID string) map[string]int64 {
	usage := make(map[string]int64, len(usageKinds))
	for _, kind := range usageKinds {
		raw, err := s.kv.Get(models.UsageKey(userID, kind))
		if err != nil {
			usage[kind] = 0
			continue
		}

		count, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			slog.Error("corrupt usage counter", "user_id", userID, "kind", kind, "raw", raw)
			count = 0
		}
		usage[kind] = count
	}

	return usage
}

// Upgrade puts the user on an active pro subscription for one period.
func (s SubscriptionService) Upgrade(ctx context.Context, userID string) (models.Subscription, error) {
	now := time.Now()
	sub := models.Subscription{
		UserID:    userID,
		Tier:      models.TierPro,
		Status:    models.StatusActive,
		StartedAt: now.Unix(),
		ExpiresAt: now.Add(proPeriod).Unix(),
	}

	if err := s.db.UpsertSubscription(ctx, sub); err != nil {
		return models.Subscription{}, err
	}

	return sub, nil
}

// Downgrade returns the user to the free tier.
func (s SubscriptionService) Downgrade(ctx context.Context, userID string) (models.Subscription, error) {
	sub := models.Subscription{
		UserID:    userID,
		Tier:      models.TierFree,
		Status:    models.StatusActive,
		StartedAt: time.Now().Unix(),
	}

	if err := s.db.UpsertSubscription(ctx, sub); err != nil {
		return models.Subscription{}, err
	}

	return sub, nil
}

// Cancel marks the user's subscription cancelled, keeping its date range.
func (s SubscriptionService) Cancel(ctx context.Context, userID string) (models.Subscription, error) {
	sub, err := s.Get(ctx, userID)
	if err != nil {
		return models.Subscription{}, err
	}

	sub.Status = models.StatusCancelled
	if err := s.db.UpsertSubscription(ctx, sub); err != nil {
		return models.Subscription{}, err
	}

	return sub, nil
}

// ResetUsage zeroes every usage counter for the user. Missing counters are
// already zero, so deletion failures for absent keys are ignored.
func (s SubscriptionService) ResetUsage(userID string) {
	for _, kind := range usageKinds {
		if _, err := s.kv.Del(models.UsageKey(userID, kind)); err != nil {
			slog.Debug("usage counter already absent", "user_id", userID, "kind", kind, "error", err)
		}
	}
}
