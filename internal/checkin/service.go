package checkin

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Linn-Htet123/mini-gym-api/internal/logger"
	"github.com/Linn-Htet123/mini-gym-api/internal/member"
	"github.com/Linn-Htet123/mini-gym-api/internal/membership"
	"github.com/Linn-Htet123/mini-gym-api/internal/metrics"
	"github.com/Linn-Htet123/mini-gym-api/internal/notification"
	"github.com/Linn-Htet123/mini-gym-api/internal/subscription"
	"github.com/google/uuid"
)

type Service interface {
	// CheckIn runs the gate decision for a member. A denied attempt is
	// a normal result, not an error; only a same-day duplicate or an
	// infrastructure failure comes back as an error.
	CheckIn(ctx context.Context, memberID uuid.UUID) (*Result, error)
	History(ctx context.Context, memberID uuid.UUID, limit, offset int) ([]HistoryEntry, int, error)
	List(ctx context.Context, status string, limit, offset int) ([]Detail, int, error)
}

type service struct {
	repo     Repository
	members  member.Repository
	packages membership.Repository
	subs     subscription.Service
	sink     notification.Sink
	now      func() time.Time
}

func NewService(repo Repository, members member.Repository, packages membership.Repository, subs subscription.Service, sink notification.Sink) Service {
	return &service{
		repo:     repo,
		members:  members,
		packages: packages,
		subs:     subs,
		sink:     sink,
		now:      time.Now,
	}
}

func (s *service) CheckIn(ctx context.Context, memberID uuid.UUID) (*Result, error) {
	m, err := s.members.GetByID(ctx, memberID)
	if err != nil {
		return nil, err
	}

	now := s.now()

	sub, err := s.subs.FindActiveForMember(ctx, memberID)
	if err != nil {
		if errors.Is(err, subscription.ErrSubscriptionNotFound) {
			return s.deny(ctx, m, ReasonNoActiveSubscription, now)
		}
		return nil, err
	}

	if subscription.IsExpired(sub.EndDate, now) {
		// the gate is where stale subscriptions actually get noticed
		if _, err := s.subs.Expire(ctx, sub, "checkin"); err != nil {
			logger.Errorf("Failed to expire subscription %s at gate: %v", sub.ID, err)
		}
		// the denial row carries no subscription reference: the member
		// had no admitting subscription at the gate
		return s.deny(ctx, m, ReasonSubscriptionExpired, now)
	}

	rec, err := s.record(ctx, memberID, &sub.ID, StatusAllowed, nil, now)
	if err != nil {
		return nil, err
	}

	days := subscription.DaysRemaining(sub.EndDate, now)

	pkgTitle := ""
	if pkg, err := s.packages.GetByID(ctx, sub.PackageID); err == nil {
		pkgTitle = pkg.Title
	} else {
		logger.Errorf("Failed to load package %s for check-in: %v", sub.PackageID, err)
	}

	logger.Info("Check-in allowed", "member_id", memberID, "days_remaining", days)
	metrics.RecordCheckIn("allowed")

	if m.UserID != nil {
		s.sink.NotifyUser(ctx, *m.UserID, notification.TypeCheckInSuccess,
			"Check-in recorded",
			fmt.Sprintf("Welcome back, %s! Your membership has %d days left.", m.Name, days))
	}

	return &Result{
		CheckIn: *rec,
		Allowed: true,
		Member:  MemberSummary{ID: m.ID, Name: m.Name},
		Subscription: &SubscriptionSummary{
			ID:            sub.ID,
			PackageID:     sub.PackageID,
			PackageTitle:  pkgTitle,
			StartDate:     sub.StartDate,
			EndDate:       sub.EndDate,
			DaysRemaining: days,
		},
	}, nil
}

func (s *service) deny(ctx context.Context, m *member.Member, reason string, now time.Time) (*Result, error) {
	rec, err := s.record(ctx, m.ID, nil, StatusDenied, &reason, now)
	if err != nil {
		return nil, err
	}

	logger.Info("Check-in denied", "member_id", m.ID, "reason", reason)
	metrics.RecordCheckIn("denied")

	if m.UserID != nil {
		s.sink.NotifyUser(ctx, *m.UserID, notification.TypeCheckInDenied,
			"Check-in denied", reason)
	}

	return &Result{
		CheckIn:      *rec,
		Allowed:      false,
		Member:       MemberSummary{ID: m.ID, Name: m.Name},
		DeniedReason: reason,
	}, nil
}

// record guards every insert, allowed and denied alike: once a member
// holds an allowed check-in for the day, any further attempt conflicts.
func (s *service) record(ctx context.Context, memberID uuid.UUID, subID *uuid.UUID, status Status, reason *string, now time.Time) (*CheckIn, error) {
	dayStart := subscription.Today(now)
	dayEnd := dayStart.AddDate(0, 0, 1)

	already, err := s.repo.HasAllowedCheckInBetween(ctx, memberID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	if already {
		return nil, ErrAlreadyCheckedIn
	}

	return s.repo.Create(ctx, memberID, subID, status, reason, now)
}

func (s *service) History(ctx context.Context, memberID uuid.UUID, limit, offset int) ([]HistoryEntry, int, error) {
	return s.repo.ListByMember(ctx, memberID, limit, offset)
}

func (s *service) List(ctx context.Context, status string, limit, offset int) ([]Detail, int, error) {
	return s.repo.List(ctx, status, limit, offset)
}
