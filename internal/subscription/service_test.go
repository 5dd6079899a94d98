package subscription

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/Linn-Htet123/mini-gym-api/internal/logger"
	"github.com/Linn-Htet123/mini-gym-api/internal/member"
	"github.com/Linn-Htet123/mini-gym-api/internal/membership"
	"github.com/Linn-Htet123/mini-gym-api/internal/notification"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestMain(m *testing.M) {
	logger.Init()

	code := m.Run()
	os.Exit(code)
}

type MockSubscriptionRepo struct {
	mock.Mock
}

func (m *MockSubscriptionRepo) Create(ctx context.Context, p CreateParams) (*Subscription, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Subscription), args.Error(1)
}

func (m *MockSubscriptionRepo) GetByID(ctx context.Context, id uuid.UUID) (*Subscription, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Subscription), args.Error(1)
}

func (m *MockSubscriptionRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status) (bool, error) {
	args := m.Called(ctx, id, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *MockSubscriptionRepo) SetStatus(ctx context.Context, id uuid.UUID, to Status) error {
	return m.Called(ctx, id, to).Error(0)
}

func (m *MockSubscriptionRepo) FindActiveByMember(ctx context.Context, memberID uuid.UUID) (*Subscription, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Subscription), args.Error(1)
}

func (m *MockSubscriptionRepo) FindExpiredActive(ctx context.Context, asOf time.Time) ([]Detail, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Detail), args.Error(1)
}

func (m *MockSubscriptionRepo) FindExpiringBetween(ctx context.Context, from, to time.Time) ([]Detail, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Detail), args.Error(1)
}

func (m *MockSubscriptionRepo) List(ctx context.Context, status string, limit, offset int) ([]Detail, int, error) {
	args := m.Called(ctx, status, limit, offset)
	return args.Get(0).([]Detail), args.Int(1), args.Error(2)
}

func (m *MockSubscriptionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockPackageRepo struct {
	mock.Mock
}

func (m *MockPackageRepo) Create(ctx context.Context, title string, description *string, price decimal.Decimal, durationDays int) (*membership.Package, error) {
	args := m.Called(ctx, title, description, price, durationDays)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*membership.Package), args.Error(1)
}

func (m *MockPackageRepo) GetByID(ctx context.Context, id uuid.UUID) (*membership.Package, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*membership.Package), args.Error(1)
}

func (m *MockPackageRepo) GetActiveByID(ctx context.Context, id uuid.UUID) (*membership.Package, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*membership.Package), args.Error(1)
}

func (m *MockPackageRepo) List(ctx context.Context, search string, limit, offset int) ([]membership.Package, int, error) {
	args := m.Called(ctx, search, limit, offset)
	return args.Get(0).([]membership.Package), args.Int(1), args.Error(2)
}

func (m *MockPackageRepo) ListActive(ctx context.Context, search string, limit, offset int) ([]membership.Package, int, error) {
	args := m.Called(ctx, search, limit, offset)
	return args.Get(0).([]membership.Package), args.Int(1), args.Error(2)
}

func (m *MockPackageRepo) Update(ctx context.Context, id uuid.UUID, req membership.UpdatePackageRequest) (*membership.Package, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*membership.Package), args.Error(1)
}

func (m *MockPackageRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) (*membership.Package, error) {
	args := m.Called(ctx, id, active)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*membership.Package), args.Error(1)
}

func (m *MockPackageRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockMemberRepo struct {
	mock.Mock
}

func (m *MockMemberRepo) Create(ctx context.Context, req member.CreateMemberRequest) (*member.Member, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*member.Member), args.Error(1)
}

func (m *MockMemberRepo) GetByID(ctx context.Context, id uuid.UUID) (*member.Member, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*member.Member), args.Error(1)
}

func (m *MockMemberRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*member.Member, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*member.Member), args.Error(1)
}

func (m *MockMemberRepo) List(ctx context.Context, search string, limit, offset int) ([]member.Member, int, error) {
	args := m.Called(ctx, search, limit, offset)
	return args.Get(0).([]member.Member), args.Int(1), args.Error(2)
}

func (m *MockMemberRepo) Update(ctx context.Context, id uuid.UUID, req member.UpdateMemberRequest) (*member.Member, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*member.Member), args.Error(1)
}

func (m *MockMemberRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockSink struct {
	mock.Mock
}

func (m *MockSink) NotifyUser(ctx context.Context, userID uuid.UUID, typ notification.Type, title, message string) {
	m.Called(ctx, userID, typ, title, message)
}

func (m *MockSink) NotifyAdmins(ctx context.Context, typ notification.Type, title, message string) {
	m.Called(ctx, typ, title, message)
}

func (m *MockSink) BroadcastAll(ctx context.Context, typ notification.Type, title, message string) {
	m.Called(ctx, typ, title, message)
}

func newTestService(repo *MockSubscriptionRepo, packages *MockPackageRepo, members *MockMemberRepo, sink *MockSink) Service {
	return NewService(repo, packages, members, sink)
}

func TestCreateSubscription(t *testing.T) {
	ctx := context.Background()

	repo := new(MockSubscriptionRepo)
	packages := new(MockPackageRepo)
	members := new(MockMemberRepo)
	sink := new(MockSink)

	memberID := uuid.New()
	packageID := uuid.New()
	userID := uuid.New()

	price := decimal.NewFromInt(50000)
	members.On("GetByID", ctx, memberID).
		Return(&member.Member{ID: memberID, Name: "Aung Aung", UserID: &userID}, nil)
	packages.On("GetActiveByID", ctx, packageID).
		Return(&membership.Package{ID: packageID, Title: "Monthly", Price: price, DurationDays: 30, IsActive: true}, nil)

	created := &Subscription{ID: uuid.New(), MemberID: memberID, PackageID: packageID, Status: StatusActive}
	repo.On("Create", ctx, mock.AnythingOfType("CreateParams")).
		Return(created, nil).
		Run(func(args mock.Arguments) {
			p := args.Get(1).(CreateParams)
			assert.Equal(t, Today(time.Now()), p.Start)
			assert.Equal(t, p.Start.AddDate(0, 0, 30), p.End)
			assert.True(t, p.Amount.Equal(price))
		})
	sink.On("NotifyUser", ctx, userID, notification.TypeMembershipRegistered, mock.Anything, mock.Anything).Return()

	svc := newTestService(repo, packages, members, sink)
	sub, err := svc.Create(ctx, CreateSubscriptionRequest{MemberID: memberID.String(), PackageID: packageID.String()})

	assert.NoError(t, err)
	assert.Equal(t, created.ID, sub.ID)
	repo.AssertExpectations(t)
	sink.AssertExpectations(t)
}

// The amount on the row is the package price at approval time, and a
// registration-driven create carries the registration link and the
// payment proof onto the subscription.
func TestCreateSubscriptionSnapshotsPriceAndRegistration(t *testing.T) {
	ctx := context.Background()

	repo := new(MockSubscriptionRepo)
	packages := new(MockPackageRepo)
	members := new(MockMemberRepo)
	sink := new(MockSink)

	memberID := uuid.New()
	packageID := uuid.New()
	registrationID := uuid.New()
	proof := "uploads/proof.png"
	price := decimal.RequireFromString("149.99")

	members.On("GetByID", ctx, memberID).Return(&member.Member{ID: memberID}, nil)
	packages.On("GetActiveByID", ctx, packageID).
		Return(&membership.Package{ID: packageID, Title: "Quarterly", Price: price, DurationDays: 90, IsActive: true}, nil)

	created := &Subscription{ID: uuid.New(), MemberID: memberID, PackageID: packageID, Status: StatusActive}
	repo.On("Create", ctx, mock.AnythingOfType("CreateParams")).
		Return(created, nil).
		Run(func(args mock.Arguments) {
			p := args.Get(1).(CreateParams)
			assert.True(t, p.Amount.Equal(price))
			if assert.NotNil(t, p.RegistrationID) {
				assert.Equal(t, registrationID, *p.RegistrationID)
			}
			if assert.NotNil(t, p.PaymentProof) {
				assert.Equal(t, proof, *p.PaymentProof)
			}
		})

	svc := newTestService(repo, packages, members, sink)
	_, err := svc.Create(ctx, CreateSubscriptionRequest{
		MemberID:       memberID.String(),
		PackageID:      packageID.String(),
		RegistrationID: registrationID.String(),
		PaymentProof:   &proof,
	})

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestCreateSubscriptionInactivePackage(t *testing.T) {
	ctx := context.Background()

	repo := new(MockSubscriptionRepo)
	packages := new(MockPackageRepo)
	members := new(MockMemberRepo)
	sink := new(MockSink)

	memberID := uuid.New()
	packageID := uuid.New()

	members.On("GetByID", ctx, memberID).Return(&member.Member{ID: memberID}, nil)
	packages.On("GetActiveByID", ctx, packageID).Return(nil, membership.ErrPackageNotFound)

	svc := newTestService(repo, packages, members, sink)
	_, err := svc.Create(ctx, CreateSubscriptionRequest{MemberID: memberID.String(), PackageID: packageID.String()})

	assert.ErrorIs(t, err, membership.ErrPackageNotFound)
	repo.AssertNotCalled(t, "Create")
}

func TestExpireTransitionsOnce(t *testing.T) {
	ctx := context.Background()

	repo := new(MockSubscriptionRepo)
	members := new(MockMemberRepo)
	sink := new(MockSink)

	memberID := uuid.New()
	userID := uuid.New()
	sub := &Subscription{ID: uuid.New(), MemberID: memberID, EndDate: date(2026, time.March, 1), Status: StatusActive}

	repo.On("UpdateStatus", ctx, sub.ID, StatusActive, StatusExpired).Return(true, nil).Once()
	members.On("GetByID", ctx, memberID).Return(&member.Member{ID: memberID, UserID: &userID}, nil)
	sink.On("NotifyUser", ctx, userID, notification.TypeSubscriptionExpired, mock.Anything, mock.Anything).Return()

	svc := newTestService(repo, new(MockPackageRepo), members, sink)

	changed, err := svc.Expire(ctx, sub, "scheduler")
	assert.NoError(t, err)
	assert.True(t, changed)

	// a second expiry attempt finds the row already expired and stays quiet
	repo.On("UpdateStatus", ctx, sub.ID, StatusActive, StatusExpired).Return(false, nil).Once()
	changed, err = svc.Expire(ctx, sub, "scheduler")
	assert.NoError(t, err)
	assert.False(t, changed)

	sink.AssertNumberOfCalls(t, "NotifyUser", 1)
}

func TestExpireNotificationCountsDaysExpired(t *testing.T) {
	ctx := context.Background()

	repo := new(MockSubscriptionRepo)
	members := new(MockMemberRepo)
	sink := new(MockSink)

	memberID := uuid.New()
	userID := uuid.New()
	end := Today(time.Now()).AddDate(0, 0, -3)
	sub := &Subscription{ID: uuid.New(), MemberID: memberID, EndDate: end, Status: StatusActive}

	repo.On("UpdateStatus", ctx, sub.ID, StatusActive, StatusExpired).Return(true, nil)
	members.On("GetByID", ctx, memberID).Return(&member.Member{ID: memberID, UserID: &userID}, nil)
	sink.On("NotifyUser", ctx, userID, notification.TypeSubscriptionExpired, mock.Anything,
		mock.MatchedBy(func(msg string) bool {
			return strings.Contains(msg, "3 day(s) ago")
		})).Return()

	svc := newTestService(repo, new(MockPackageRepo), members, sink)

	changed, err := svc.Expire(ctx, sub, "scheduler")
	assert.NoError(t, err)
	assert.True(t, changed)
	sink.AssertExpectations(t)
}

func TestCancelOverwritesExpired(t *testing.T) {
	ctx := context.Background()

	repo := new(MockSubscriptionRepo)
	sub := &Subscription{ID: uuid.New(), Status: StatusExpired}

	repo.On("GetByID", ctx, sub.ID).Return(sub, nil)
	repo.On("SetStatus", ctx, sub.ID, StatusCancelled).Return(nil)

	svc := newTestService(repo, new(MockPackageRepo), new(MockMemberRepo), new(MockSink))

	assert.NoError(t, svc.Cancel(ctx, sub.ID))
	repo.AssertExpectations(t)
}

func TestCancelMissingSubscription(t *testing.T) {
	ctx := context.Background()

	repo := new(MockSubscriptionRepo)
	id := uuid.New()
	repo.On("GetByID", ctx, id).Return(nil, ErrSubscriptionNotFound)

	svc := newTestService(repo, new(MockPackageRepo), new(MockMemberRepo), new(MockSink))

	assert.ErrorIs(t, svc.Cancel(ctx, id), ErrSubscriptionNotFound)
	repo.AssertNotCalled(t, "SetStatus")
}
