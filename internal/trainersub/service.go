package trainersub

import (
	"context"
	"fmt"
	"time"

	"github.com/Linn-Htet123/mini-gym-api/internal/logger"
	"github.com/Linn-Htet123/mini-gym-api/internal/member"
	"github.com/Linn-Htet123/mini-gym-api/internal/metrics"
	"github.com/Linn-Htet123/mini-gym-api/internal/notification"
	"github.com/Linn-Htet123/mini-gym-api/internal/subscription"
	"github.com/Linn-Htet123/mini-gym-api/internal/trainer"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*TrainerSubscription, error)
	Get(ctx context.Context, id uuid.UUID) (*TrainerSubscription, error)
	List(ctx context.Context, status string, limit, offset int) ([]Detail, int, error)
	FindActiveForMember(ctx context.Context, memberID uuid.UUID) (*TrainerSubscription, error)
	Expire(ctx context.Context, ts *TrainerSubscription, source string) (bool, error)
	Cancel(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindExpiredActive(ctx context.Context, asOf time.Time) ([]Detail, error)
	FindExpiringBetween(ctx context.Context, from, to time.Time) ([]Detail, error)
}

type service struct {
	repo     Repository
	trainers trainer.Repository
	members  member.Repository
	sink     notification.Sink
	now      func() time.Time
}

func NewService(repo Repository, trainers trainer.Repository, members member.Repository, sink notification.Sink) Service {
	return &service{
		repo:     repo,
		trainers: trainers,
		members:  members,
		sink:     sink,
		now:      time.Now,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*TrainerSubscription, error) {
	memberID, err := uuid.Parse(req.MemberID)
	if err != nil {
		return nil, fmt.Errorf("invalid member id: %w", err)
	}
	trainerID, err := uuid.Parse(req.TrainerID)
	if err != nil {
		return nil, fmt.Errorf("invalid trainer id: %w", err)
	}

	m, err := s.members.GetByID(ctx, memberID)
	if err != nil {
		return nil, err
	}

	tr, err := s.trainers.GetByID(ctx, trainerID)
	if err != nil {
		return nil, err
	}

	start := subscription.Today(s.now())
	end := start.AddDate(0, req.Months, 0)
	amount := tr.PricePerMonth.Mul(decimal.NewFromInt(int64(req.Months)))

	ts, err := s.repo.Create(ctx, memberID, trainerID, start, end, req.Months, amount, req.PaymentProof)
	if err != nil {
		return nil, err
	}

	logger.Info("Trainer subscription created",
		"trainer_subscription_id", ts.ID, "member_id", memberID, "trainer", tr.Name, "months", req.Months)
	metrics.RecordSubscriptionCreated("trainer")

	if m.UserID != nil {
		s.sink.NotifyUser(ctx, *m.UserID, notification.TypeMembershipRegistered,
			"Trainer booked",
			fmt.Sprintf("You are booked with %s until %s.", tr.Name, end.Format("Jan 2, 2006")))
	}

	return ts, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*TrainerSubscription, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, status string, limit, offset int) ([]Detail, int, error) {
	return s.repo.List(ctx, status, limit, offset)
}

func (s *service) FindActiveForMember(ctx context.Context, memberID uuid.UUID) (*TrainerSubscription, error) {
	return s.repo.FindActiveByMember(ctx, memberID)
}

func (s *service) Expire(ctx context.Context, ts *TrainerSubscription, source string) (bool, error) {
	changed, err := s.repo.UpdateStatus(ctx, ts.ID, subscription.StatusActive, subscription.StatusExpired)
	if err != nil {
		return false, err
	}
	if !changed {
		return false, nil
	}

	logger.Info("Trainer subscription expired", "trainer_subscription_id", ts.ID, "source", source)
	metrics.RecordSubscriptionExpired("trainer", source)

	if m, err := s.members.GetByID(ctx, ts.MemberID); err == nil && m.UserID != nil {
		days := subscription.DaysExpired(ts.EndDate, s.now())
		s.sink.NotifyUser(ctx, *m.UserID, notification.TypeSubscriptionExpired,
			"Trainer subscription expired",
			fmt.Sprintf("Your trainer subscription ended %d day(s) ago, on %s.",
				days, ts.EndDate.Format("Jan 2, 2006")))
	}

	return true, nil
}

func (s *service) Cancel(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.SetStatus(ctx, id, subscription.StatusCancelled)
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
