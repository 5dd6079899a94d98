package subscription

import (
	"context"
	"fmt"
	"time"

	"github.com/Linn-Htet123/mini-gym-api/internal/logger"
	"github.com/Linn-Htet123/mini-gym-api/internal/member"
	"github.com/Linn-Htet123/mini-gym-api/internal/membership"
	"github.com/Linn-Htet123/mini-gym-api/internal/metrics"
	"github.com/Linn-Htet123/mini-gym-api/internal/notification"
	"github.com/google/uuid"
)

type Service interface {
	Create(ctx context.Context, req CreateSubscriptionRequest) (*Subscription, error)
	Get(ctx context.Context, id uuid.UUID) (*Subscription, error)
	List(ctx context.Context, status string, limit, offset int) ([]Detail, int, error)
	FindActiveForMember(ctx context.Context, memberID uuid.UUID) (*Subscription, error)
	// Expire moves an active subscription to expired. Returns false
	// when the subscription was no longer active, without error.
	Expire(ctx context.Context, sub *Subscription, source string) (bool, error)
	Cancel(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindExpiredActive(ctx context.Context, asOf time.Time) ([]Detail, error)
	FindExpiringBetween(ctx context.Context, from, to time.Time) ([]Detail, error)
}

type service struct {
	repo     Repository
	packages membership.Repository
	members  member.Repository
	sink     notification.Sink
	now      func() time.Time
}

func NewService(repo Repository, packages membership.Repository, members member.Repository, sink notification.Sink) Service {
	return &service{
		repo:     repo,
		packages: packages,
		members:  members,
		sink:     sink,
		now:      time.Now,
	}
}

func (s *service) Create(ctx context.Context, req CreateSubscriptionRequest) (*Subscription, error) {
	memberID, err := uuid.Parse(req.MemberID)
	if err != nil {
		return nil, fmt.Errorf("invalid member id: %w", err)
	}
	packageID, err := uuid.Parse(req.PackageID)
	if err != nil {
		return nil, fmt.Errorf("invalid package id: %w", err)
	}

	var registrationID *uuid.UUID
	if req.RegistrationID != "" {
		regID, err := uuid.Parse(req.RegistrationID)
		if err != nil {
			return nil, fmt.Errorf("invalid registration id: %w", err)
		}
		registrationID = &regID
	}

	m, err := s.members.GetByID(ctx, memberID)
	if err != nil {
		return nil, err
	}

	pkg, err := s.packages.GetActiveByID(ctx, packageID)
	if err != nil {
		return nil, err
	}

	start := Today(s.now())
	end := start.AddDate(0, 0, pkg.DurationDays)

	sub, err := s.repo.Create(ctx, CreateParams{
		MemberID:       memberID,
		PackageID:      packageID,
		RegistrationID: registrationID,
		Start:          start,
		End:            end,
		// the price is frozen here; later package edits do not touch it
		Amount:       pkg.Price,
		PaymentProof: req.PaymentProof,
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Subscription created",
		"subscription_id", sub.ID, "member_id", memberID, "package", pkg.Title)
	metrics.RecordSubscriptionCreated("membership")

	if m.UserID != nil {
		s.sink.NotifyUser(ctx, *m.UserID, notification.TypeMembershipRegistered,
			"Membership registered",
			fmt.Sprintf("Your %s membership is active until %s.", pkg.Title, end.Format("Jan 2, 2006")))
	}

	return sub, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Subscription, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, status string, limit, offset int) ([]Detail, int, error) {
	return s.repo.List(ctx, status, limit, offset)
}

func (s *service) FindActiveForMember(ctx context.Context, memberID uuid.UUID) (*Subscription, error) {
	return s.repo.FindActiveByMember(ctx, memberID)
}

func (s *service) Expire(ctx context.Context, sub *Subscription, source string) (bool, error) {
	changed, err := s.repo.UpdateStatus(ctx, sub.ID, StatusActive, StatusExpired)
	if err != nil {
		return false, err
	}
	if !changed {
		return false, nil
	}

	logger.Info("Subscription expired", "subscription_id", sub.ID, "source", source)
	metrics.RecordSubscriptionExpired("membership", source)

	if m, err := s.members.GetByID(ctx, sub.MemberID); err == nil && m.UserID != nil {
		days := DaysExpired(sub.EndDate, s.now())
		s.sink.NotifyUser(ctx, *m.UserID, notification.TypeSubscriptionExpired,
			"Subscription expired",
			fmt.Sprintf("Your membership expired %d day(s) ago, on %s. Renew to keep checking in.",
				days, sub.EndDate.Format("Jan 2, 2006")))
	}

	return true, nil
}

func (s *service) Cancel(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.SetStatus(ctx, id, StatusCancelled)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) FindExpiredActive(ctx context.Context, asOf time.Time) ([]Detail, error) {
	return s.repo.FindExpiredActive(ctx, asOf)
}

func (s *service) FindExpiringBetween(ctx context.Context, from, to time.Time) ([]Detail, error) {
	return s.repo.FindExpiringBetween(ctx, from, to)
}
