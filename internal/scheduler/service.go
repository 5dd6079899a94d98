package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/Linn-Htet123/mini-gym-api/internal/logger"
	"github.com/Linn-Htet123/mini-gym-api/internal/metrics"
	"github.com/Linn-Htet123/mini-gym-api/internal/notification"
	"github.com/Linn-Htet123/mini-gym-api/internal/subscription"
	"github.com/Linn-Htet123/mini-gym-api/internal/trainersub"
)

// reminder window: subscriptions ending within the next week
const expiringSoonDays = 7

// Summary reports what one pass touched. Failed counts records that
// errored; the pass keeps going past them.
type Summary struct {
	Scanned  int `json:"scanned"`
	Expired  int `json:"expired"`
	Notified int `json:"notified"`
	Failed   int `json:"failed"`
}

type Service interface {
	// ExpireDuePass flips every active subscription whose end date has
	// passed. Safe to run repeatedly: a second run finds nothing.
	ExpireDuePass(ctx context.Context) (*Summary, error)
	// ExpiringSoonPass reminds members whose subscriptions end within
	// the window. No dedupe: each run sends the reminder again.
	ExpiringSoonPass(ctx context.Context) (*Summary, error)
}

type service struct {
	subs        subscription.Service
	trainerSubs trainersub.Service
	sink        notification.Sink
	now         func() time.Time
}

func NewService(subs subscription.Service, trainerSubs trainersub.Service, sink notification.Sink) Service {
	return &service{
		subs:        subs,
		trainerSubs: trainerSubs,
		sink:        sink,
		now:         time.Now,
	}
}

func (s *service) ExpireDuePass(ctx context.Context) (*Summary, error) {
	start := s.now()
	asOf := subscription.Today(start)
	summary := &Summary{}

	due, err := s.subs.FindExpiredActive(ctx, asOf)
	if err != nil {
		return nil, fmt.Errorf("scan expired subscriptions: %w", err)
	}
	for i := range due {
		summary.Scanned++
		changed, err := s.subs.Expire(ctx, &due[i].Subscription, "scheduler")
		if err != nil {
			logger.Errorf("Failed to expire subscription %s: %v", due[i].ID, err)
			summary.Failed++
			continue
		}
		if changed {
			summary.Expired++
		}
	}

	trainerDue, err := s.trainerSubs.FindExpiredActive(ctx, asOf)
	if err != nil {
		return nil, fmt.Errorf("scan expired trainer subscriptions: %w", err)
	}
	for i := range trainerDue {
		summary.Scanned++
		changed, err := s.trainerSubs.Expire(ctx, &trainerDue[i].TrainerSubscription, "scheduler")
		if err != nil {
			logger.Errorf("Failed to expire trainer subscription %s: %v", trainerDue[i].ID, err)
			summary.Failed++
			continue
		}
		if changed {
			summary.Expired++
		}
	}

	metrics.RecordSchedulerPass("expire_due", time.Since(start).Seconds())
	logger.Info("Expire-due pass finished",
		"scanned", summary.Scanned, "expired", summary.Expired, "failed", summary.Failed)

	return summary, nil
}

func (s *service) ExpiringSoonPass(ctx context.Context) (*Summary, error) {
	start := s.now()
	from := subscription.Today(start)
	to := from.AddDate(0, 0, expiringSoonDays)
	summary := &Summary{}

	soon, err := s.subs.FindExpiringBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("scan expiring subscriptions: %w", err)
	}
	for _, d := range soon {
		summary.Scanned++
		if d.UserID == nil {
			continue
		}
		days := subscription.DaysRemaining(d.EndDate, start)
		s.sink.NotifyUser(ctx, *d.UserID, notification.TypeSubscriptionExpiring,
			"Subscription expiring soon",
			fmt.Sprintf("Your %s membership ends in %d days. Renew to keep checking in.", d.PackageTitle, days))
		summary.Notified++
	}

	trainerSoon, err := s.trainerSubs.FindExpiringBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("scan expiring trainer subscriptions: %w", err)
	}
	for _, d := range trainerSoon {
		summary.Scanned++
		if d.UserID == nil {
			continue
		}
		days := subscription.DaysRemaining(d.EndDate, start)
		s.sink.NotifyUser(ctx, *d.UserID, notification.TypeSubscriptionExpiring,
			"Trainer subscription expiring soon",
			fmt.Sprintf("Your sessions with %s end in %d days.", d.TrainerName, days))
		summary.Notified++
	}

	metrics.RecordSchedulerPass("expiring_soon", time.Since(start).Seconds())
	logger.Info("Expiring-soon pass finished",
		"scanned", summary.Scanned, "notified", summary.Notified)

	return summary, nil
}
