// Package user handles registration, authentication and account
// administration.
package user

import (
	"context"
	"errors"
	"fmt"

	errs "payva/internal/errors"
	"payva/internal/models"
	"payva/internal/repositories"
	"payva/internal/services/ledger"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountBlocked     = errors.New("account is blocked")
)

// Inviter delivers registration invitations.
type Inviter interface {
	DeliverInvitation(inviting *models.User, recipient string)
}

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
}

type Service interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	Invite(ctx context.Context, invitingUser *models.User, email string) error
	SetBlocked(ctx context.Context, actingUser *models.User, targetID uint, blocked bool) error
}

type service struct {
	repo    repositories.UserRepository
	inviter Inviter
}

func NewService(repo repositories.UserRepository, inviter Inviter) Service {
	if repo == nil {
		panic("repo is required")
	}
	return &service{repo: repo, inviter: inviter}
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	if _, err := s.repo.GetByEmail(input.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, fmt.Errorf("%w: %v", errs.ErrPersistenceFailure, err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:     input.Email,
		Password:  string(hashed),
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Phone:     input.Phone,
	}
	if err := s.repo.Create(user); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrPersistenceFailure, err)
	}
	return user, nil
}

func (s *service) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.repo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: %v", errs.ErrPersistenceFailure, err)
	}
	if user.Blocked {
		return nil, ErrAccountBlocked
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}


func (s *service) Invite(ctx context.Context, invitingUser *models.User, email string) error {
	if email == "" {
		return errs.ErrInvalidOperation
	}
	if s.inviter != nil {
		s.inviter.DeliverInvitation(invitingUser, email)
	}
	return nil
}

// SetBlocked toggles an account's blocked flag. Employee only.
func (s *service) SetBlocked(ctx context.Context, actingUser *models.User, targetID uint, blocked bool) error {
	if !ledger.IsEmployee(actingUser) {
		return errs.ErrUnauthorizedOperation
	}
	target, err := s.repo.GetByID(targetID)
	if err != nil {
		return err
	}
	target.Blocked = blocked
	if err := s.repo.Update(target); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrPersistenceFailure, err)
	}
	return nil
}
