package notification

import (
	"context"
	"testing"

	"github.com/Linn-Htet123/mini-gym-api/internal/user"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, email, passwordHash, role string) (*user.User, error) {
	args := m.Called(ctx, email, passwordHash, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepo) ListByRole(ctx context.Context, role string) ([]user.User, error) {
	args := m.Called(ctx, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]user.User), args.Error(1)
}

func TestNotifyUserQueuesOneEvent(t *testing.T) {
	db, redisMock := redismock.NewClientMock()
	ctx := context.Background()

	redisMock.Regexp().ExpectLPush("notifications", `.*subscription_expired.*`).SetVal(1)

	sink := NewService(NewDispatcher(db, new(MockNotificationRepo), NewHub()), new(MockUserRepo))
	sink.NotifyUser(ctx, uuid.New(), TypeSubscriptionExpired, "Subscription expired", "Renew to keep checking in")

	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestNotifyAdminsFansOut(t *testing.T) {
	db, redisMock := redismock.NewClientMock()
	ctx := context.Background()

	admins := []user.User{
		{ID: uuid.New(), Email: "a@gym.test", Role: "admin"},
		{ID: uuid.New(), Email: "b@gym.test", Role: "admin"},
	}

	users := new(MockUserRepo)
	users.On("ListByRole", ctx, "admin").Return(admins, nil)

	redisMock.Regexp().ExpectLPush("notifications", `.*registration_submitted.*`).SetVal(1)
	redisMock.Regexp().ExpectLPush("notifications", `.*registration_submitted.*`).SetVal(2)

	sink := NewService(NewDispatcher(db, new(MockNotificationRepo), NewHub()), users)
	sink.NotifyAdmins(ctx, TypeRegistrationSubmitted, "New registration", "A member applied for a package")

	assert.NoError(t, redisMock.ExpectationsWereMet())
	users.AssertExpectations(t)
}

func TestNotifyAdminsSwallowsLookupError(t *testing.T) {
	db, redisMock := redismock.NewClientMock()
	ctx := context.Background()

	users := new(MockUserRepo)
	users.On("ListByRole", ctx, "admin").Return(nil, assert.AnError)

	sink := NewService(NewDispatcher(db, new(MockNotificationRepo), NewHub()), users)

	// must not panic and must not enqueue anything
	sink.NotifyAdmins(ctx, TypeRegistrationSubmitted, "New registration", "body")

	assert.NoError(t, redisMock.ExpectationsWereMet())
}
