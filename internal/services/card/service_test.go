package card

import (
	"context"
	"errors"
	"testing"
	"time"

	errs "payva/internal/errors"
	"payva/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockCardRepo struct {
	mock.Mock
}

func (m *MockCardRepo) Create(card *models.Card) error {
	args := m.Called(card)
	return args.Error(0)
}

func (m *MockCardRepo) GetByID(id uint) (*models.Card, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Card), args.Error(1)
}

func (m *MockCardRepo) ListByOwner(userID uint) ([]models.Card, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Card), args.Error(1)
}

func (m *MockCardRepo) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func TestValidLuhn(t *testing.T) {
	tests := []struct {
		number string
		want   bool
	}{
		{"4242424242424242", true},  // Visa test number
		{"5555555555554444", true},  // Mastercard test number
		{"4242424242424241", false}, // checksum off by one
		{"1234567890123456", false},
		{"42424242", false},      // too short
		{"4242a24242424242", false}, // non-digit
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.number, func(t *testing.T) {
			assert.Equal(t, tt.want, validLuhn(tt.number))
		})
	}
}

func TestExpired(t *testing.T) {
	now := time.Date(2026, time.June, 15, 0, 0, 0, 0, time.UTC)

	assert.False(t, expired(6, 2026, now), "current month is still valid")
	assert.False(t, expired(12, 2026, now))
	assert.True(t, expired(5, 2026, now))
	assert.True(t, expired(12, 2025, now))
	assert.True(t, expired(0, 2030, now), "invalid month")
	assert.True(t, expired(13, 2030, now), "invalid month")
}

func TestMaskNumber(t *testing.T) {
	assert.Equal(t, "************4242", maskNumber("4242424242424242"))
	assert.Equal(t, "123", maskNumber("123"))
}

func TestRegister_RejectsBadCardsBeforeTokenizing(t *testing.T) {
	repo := new(MockCardRepo)
	svc := NewService(repo).(*service)
	svc.now = func() time.Time { return time.Date(2026, time.June, 15, 0, 0, 0, 0, time.UTC) }
	owner := &models.User{ID: 1}

	t.Run("invalid number", func(t *testing.T) {
		_, err := svc.Register(context.Background(), owner, RegisterInput{
			Number: "4242424242424241", ExpiryMonth: 12, ExpiryYear: 2030,
		})
		assert.True(t, errors.Is(err, ErrInvalidCardNumber))
	})

	t.Run("number with spaces is normalized", func(t *testing.T) {
		_, err := svc.Register(context.Background(), owner, RegisterInput{
			Number: "4242 4242 4242 4241", ExpiryMonth: 12, ExpiryYear: 2030,
		})
		assert.True(t, errors.Is(err, ErrInvalidCardNumber))
	})

	t.Run("expired card", func(t *testing.T) {
		_, err := svc.Register(context.Background(), owner, RegisterInput{
			Number: "4242424242424242", ExpiryMonth: 1, ExpiryYear: 2020,
		})
		assert.True(t, errors.Is(err, ErrCardExpired))
	})

	repo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestCardService_Ownership(t *testing.T) {
	repo := new(MockCardRepo)
	svc := NewService(repo)
	repo.On("GetByID", uint(9)).Return(&models.Card{ID: 9, UserID: 1}, nil)

	t.Run("owner reads own card", func(t *testing.T) {
		_, err := svc.Get(context.Background(), &models.User{ID: 1}, 9)
		assert.NoError(t, err)
	})

	t.Run("employee reads any card", func(t *testing.T) {
		_, err := svc.Get(context.Background(), &models.User{ID: 5, Employee: true}, 9)
		assert.NoError(t, err)
	})

	t.Run("stranger denied", func(t *testing.T) {
		_, err := svc.Get(context.Background(), &models.User{ID: 2}, 9)
		assert.True(t, errors.Is(err, errs.ErrUnauthorizedOperation))
	})

	t.Run("employee cannot delete another user's card", func(t *testing.T) {
		err := svc.Delete(context.Background(), &models.User{ID: 5, Employee: true}, 9)
		assert.True(t, errors.Is(err, errs.ErrUnauthorizedOperation))
		repo.AssertNotCalled(t, "Delete", mock.Anything)
	})
}
