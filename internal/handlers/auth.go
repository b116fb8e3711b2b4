// Package handlers contains the HTTP controllers. They parse requests,
// call services and translate domain errors; no business logic lives here.
package handlers

import (
	"errors"

	"payva/internal/middleware"
	"payva/internal/services/user"
	"payva/internal/services/wallet"
	"payva/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	users   user.Service
	wallets wallet.Service
}

func NewAuthHandler(users user.Service, wallets wallet.Service) *AuthHandler {
	return &AuthHandler{users: users, wallets: wallets}
}

type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return utils.BadRequest(c, "email and password are required")
	}

	created, err := h.users.Register(c.Context(), user.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			return utils.Respond(c, fiber.StatusConflict, fiber.Map{"error": err.Error()})
		}
		return utils.DomainError(c, err)
	}

	// Every account starts with a wallet, which becomes the default.
	welcome, err := h.wallets.Create(c.Context(), created, "Main")
	if err != nil {
		return utils.DomainError(c, err)
	}

	return utils.Created(c, fiber.Map{
		"id":                created.ID,
		"email":             created.Email,
		"default_wallet_id": welcome.ID,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}

	account, err := h.users.Authenticate(c.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) || errors.Is(err, user.ErrAccountBlocked) {
			return utils.Unauthorized(c, err.Error())
		}
		return utils.DomainError(c, err)
	}

	token, err := utils.GenerateToken(account)
	if err != nil {
		return utils.DomainError(c, err)
	}
	return utils.Success(c, fiber.Map{"token": token})
}

// Me returns the authenticated user's own profile.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	account := middleware.CurrentUser(c)
	return utils.Success(c, fiber.Map{
		"id":                account.ID,
		"email":             account.Email,
		"first_name":        account.FirstName,
		"last_name":         account.LastName,
		"phone":             account.Phone,
		"employee":          account.Employee,
		"default_wallet_id": account.DefaultWalletID,
	})
}

type inviteRequest struct {
	Email string `json:"email"`
}

func (h *AuthHandler) Invite(c *fiber.Ctx) error {
	var req inviteRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}

	if err := h.users.Invite(c.Context(), middleware.CurrentUser(c), req.Email); err != nil {
		return utils.DomainError(c, err)
	}
	return utils.Success(c, fiber.Map{"status": "invitation sent"})
}
