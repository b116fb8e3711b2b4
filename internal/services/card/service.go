// Package card registers and manages payment cards. Cards are external
// funding endpoints: the ledger never tracks a balance for them.
package card

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	errs "payva/internal/errors"
	"payva/internal/models"
	"payva/internal/repositories"
	"payva/internal/services/ledger"

	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/token"
)

var (
	ErrInvalidCardNumber = errors.New("invalid card number")
	ErrCardExpired       = errors.New("card is expired")
)

// RegisterInput carries the raw card details. Only the Stripe token and
// a masked number are persisted.
type RegisterInput struct {
	Number         string
	CardholderName string
	ExpiryMonth    int
	ExpiryYear     int
	CVC            string
}

type Service interface {
	Register(ctx context.Context, owner *models.User, input RegisterInput) (*models.Card, error)
	Get(ctx context.Context, actingUser *models.User, id uint) (*models.Card, error)
	List(ctx context.Context, owner *models.User) ([]models.Card, error)
	Delete(ctx context.Context, actingUser *models.User, id uint) error
}

type service struct {
	repo repositories.CardRepository
	now  func() time.Time
}

func NewService(repo repositories.CardRepository) Service {
	if repo == nil {
		panic("repo is required")
	}
	return &service{repo: repo, now: time.Now}
}

func (s *service) Register(ctx context.Context, owner *models.User, input RegisterInput) (*models.Card, error) {
	number := strings.ReplaceAll(input.Number, " ", "")
	if !validLuhn(number) {
		return nil, ErrInvalidCardNumber
	}
	if expired(input.ExpiryMonth, input.ExpiryYear, s.now()) {
		return nil, ErrCardExpired
	}

	stripeToken, cardType, err := s.tokenize(number, input)
	if err != nil {
		return nil, fmt.Errorf("card tokenization failed: %w", err)
	}

	card := &models.Card{
		UserID:         owner.ID,
		MaskedNumber:   maskNumber(number),
		StripeToken:    stripeToken,
		CardholderName: input.CardholderName,
		ExpiryMonth:    input.ExpiryMonth,
		ExpiryYear:     input.ExpiryYear,
		CardType:       cardType,
	}
	if err := s.repo.Create(card); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrPersistenceFailure, err)
	}
	return card, nil
}

func (s *service) Get(ctx context.Context, actingUser *models.User, id uint) (*models.Card, error) {
	card, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !ledger.OwnsPaymentMethod(actingUser, card) && !ledger.IsEmployee(actingUser) {
		return nil, errs.ErrUnauthorizedOperation
	}
	return card, nil
}

func (s *service) List(ctx context.Context, owner *models.User) ([]models.Card, error) {
	return s.repo.ListByOwner(owner.ID)
}

func (s *service) Delete(ctx context.Context, actingUser *models.User, id uint) error {
	card, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if !ledger.OwnsPaymentMethod(actingUser, card) {
		return errs.ErrUnauthorizedOperation
	}
	return s.repo.Delete(id)
}

// tokenize exchanges raw card details for a Stripe token so the raw
// number never reaches the database.
func (s *service) tokenize(number string, input RegisterInput) (string, string, error) {
	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")

	params := &stripe.TokenParams{
		Card: &stripe.CardParams{
			Number:   stripe.String(number),
			ExpMonth: stripe.String(fmt.Sprintf("%02d", input.ExpiryMonth)),
			ExpYear:  stripe.String(fmt.Sprintf("%d", input.ExpiryYear)),
			CVC:      stripe.String(input.CVC),
			Name:     stripe.String(input.CardholderName),
		},
	}
	t, err := token.New(params)
	if err != nil {
		return "", "", err
	}

	cardType := "Unknown"
	if t.Card != nil {
		cardType = string(t.Card.Brand)
	}
	return t.ID, cardType, nil
}

func validLuhn(number string) bool {
	if len(number) < 12 || len(number) > 19 {
		return false
	}
	sum := 0
	double := false
	for i := len(number) - 1; i >= 0; i-- {
		c := number[i]
		if c < '0' || c > '9' {
			return false
		}
		digit := int(c - '0')
		if double {
			digit *= 2
			if digit > 9 {
				digit -= 9
			}
		}
		sum += digit
		double = !double
	}
	return sum%10 == 0
}

func expired(month, year int, now time.Time) bool {
	if month < 1 || month > 12 {
		return true
	}
	endOfMonth := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	return !now.Before(endOfMonth)
}

func maskNumber(number string) string {
	if len(number) < 4 {
		return number
	}
	return strings.Repeat("*", len(number)-4) + number[len(number)-4:]
}
