package registration

import (
	"context"
	"errors"
	"fmt"

	"github.com/Linn-Htet123/mini-gym-api/internal/logger"
	"github.com/Linn-Htet123/mini-gym-api/internal/member"
	"github.com/Linn-Htet123/mini-gym-api/internal/membership"
	"github.com/Linn-Htet123/mini-gym-api/internal/metrics"
	"github.com/Linn-Htet123/mini-gym-api/internal/notification"
	"github.com/Linn-Htet123/mini-gym-api/internal/subscription"
	"github.com/google/uuid"
)

var (
	ErrAlreadyApproved      = errors.New("registration already approved")
	ErrAlreadyRejected      = errors.New("registration already rejected")
	ErrCannotRejectApproved = errors.New("cannot reject an approved registration")
)

type Service interface {
	Submit(ctx context.Context, memberID, packageID uuid.UUID, paymentScreenshot *string) (*Registration, error)
	// Approve turns a pending registration into an active subscription.
	Approve(ctx context.Context, id uuid.UUID) (*Registration, *subscription.Subscription, error)
	Reject(ctx context.Context, id uuid.UUID, reason string) (*Registration, error)
	Get(ctx context.Context, id uuid.UUID) (*Registration, error)
	List(ctx context.Context, status string, limit, offset int) ([]Detail, int, error)
	ListByMember(ctx context.Context, memberID uuid.UUID, limit, offset int) ([]Registration, int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo     Repository
	members  member.Repository
	packages membership.Repository
	subs     subscription.Service
	sink     notification.Sink
}

func NewService(repo Repository, members member.Repository, packages membership.Repository, subs subscription.Service, sink notification.Sink) Service {
	return &service{
		repo:     repo,
		members:  members,
		packages: packages,
		subs:     subs,
		sink:     sink,
	}
}

func (s *service) Submit(ctx context.Context, memberID, packageID uuid.UUID, paymentScreenshot *string) (*Registration, error) {
	m, err := s.members.GetByID(ctx, memberID)
	if err != nil {
		return nil, err
	}

	pkg, err := s.packages.GetActiveByID(ctx, packageID)
	if err != nil {
		return nil, err
	}

	reg, err := s.repo.Create(ctx, memberID, packageID, paymentScreenshot)
	if err != nil {
		return nil, err
	}

	logger.Info("Registration submitted",
		"registration_id", reg.ID, "member_id", memberID, "package", pkg.Title)
	metrics.RecordRegistration("pending")

	s.sink.NotifyAdmins(ctx, notification.TypeRegistrationSubmitted,
		"New registration",
		fmt.Sprintf("%s applied for the %s package.", m.Name, pkg.Title))

	if m.UserID != nil {
		s.sink.NotifyUser(ctx, *m.UserID, notification.TypeMembershipRegistered,
			"Registration received",
			fmt.Sprintf("Your registration for %s is waiting for approval.", pkg.Title))
	}

	return reg, nil
}

func (s *service) Approve(ctx context.Context, id uuid.UUID) (*Registration, *subscription.Subscription, error) {
	reg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	switch reg.Status {
	case StatusApproved:
		return nil, nil, ErrAlreadyApproved
	case StatusRejected:
		return nil, nil, ErrAlreadyRejected
	}

	changed, err := s.repo.Decide(ctx, id, StatusApproved, nil)
	if err != nil {
		return nil, nil, err
	}
	if !changed {
		// lost the race to another admin
		return nil, nil, ErrAlreadyApproved
	}

	sub, err := s.subs.Create(ctx, subscription.CreateSubscriptionRequest{
		MemberID:       reg.MemberID.String(),
		PackageID:      reg.PackageID.String(),
		RegistrationID: reg.ID.String(),
		PaymentProof:   reg.PaymentScreenshot,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create subscription for registration %s: %w", id, err)
	}

	logger.Info("Registration approved", "registration_id", id, "subscription_id", sub.ID)
	metrics.RecordRegistration("approved")

	m, memberErr := s.members.GetByID(ctx, reg.MemberID)
	if memberErr == nil && m.UserID != nil {
		s.sink.NotifyUser(ctx, *m.UserID, notification.TypeRegistrationApproved,
			"Registration approved",
			fmt.Sprintf("Welcome aboard! Your membership runs until %s.", sub.EndDate.Format("Jan 2, 2006")))
	}

	memberName := reg.MemberID.String()
	if memberErr == nil {
		memberName = m.Name
	}
	s.sink.NotifyAdmins(ctx, notification.TypeRegistrationApproved,
		"Registration approved",
		fmt.Sprintf("%s's registration was approved.", memberName))

	reg.Status = StatusApproved
	return reg, sub, nil
}

func (s *service) Reject(ctx context.Context, id uuid.UUID, reason string) (*Registration, error) {
	reg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch reg.Status {
	case StatusApproved:
		return nil, ErrCannotRejectApproved
	case StatusRejected:
		return nil, ErrAlreadyRejected
	}

	changed, err := s.repo.Decide(ctx, id, StatusRejected, &reason)
	if err != nil {
		return nil, err
	}
	if !changed {
		return nil, ErrAlreadyRejected
	}

	logger.Info("Registration rejected", "registration_id", id, "reason", reason)
	metrics.RecordRegistration("rejected")

	m, memberErr := s.members.GetByID(ctx, reg.MemberID)
	if memberErr == nil && m.UserID != nil {
		s.sink.NotifyUser(ctx, *m.UserID, notification.TypeRegistrationRejected,
			"Registration rejected", reason)
	}

	memberName := reg.MemberID.String()
	if memberErr == nil {
		memberName = m.Name
	}
	s.sink.NotifyAdmins(ctx, notification.TypeRegistrationRejected,
		"Registration rejected",
		fmt.Sprintf("%s's registration was rejected: %s", memberName, reason))

	reg.Status = StatusRejected
	reg.RejectReason = &reason
	return reg, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Registration, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, status string, limit, offset int) ([]Detail, int, error) {
	return s.repo.List(ctx, status, limit, offset)
}

func (s *service) ListByMember(ctx context.Context, memberID uuid.UUID, limit, offset int) ([]Registration, int, error) {
	return s.repo.ListByMember(ctx, memberID, limit, offset)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
