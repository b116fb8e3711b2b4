package handlers

import (
	"strconv"

	"payva/internal/middleware"
	"payva/internal/services/wallet"
	"payva/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type WalletHandler struct {
	wallets wallet.Service
}

func NewWalletHandler(wallets wallet.Service) *WalletHandler {
	return &WalletHandler{wallets: wallets}
}

type walletRequest struct {
	Name string `json:"name"`
}

func (h *WalletHandler) Create(c *fiber.Ctx) error {
	var req walletRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}

	created, err := h.wallets.Create(c.Context(), middleware.CurrentUser(c), req.Name)
	if err != nil {
		return utils.DomainError(c, err)
	}
	return utils.Created(c, created)
}

func (h *WalletHandler) List(c *fiber.Ctx) error {
	wallets, err := h.wallets.List(c.Context(), middleware.CurrentUser(c))
	if err != nil {
		return utils.DomainError(c, err)
	}
	return utils.Success(c, wallets)
}

func (h *WalletHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "invalid wallet id")
	}

	found, err := h.wallets.Get(c.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		return utils.DomainError(c, err)
	}
	return utils.Success(c, found)
}

func (h *WalletHandler) Balance(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "invalid wallet id")
	}

	balance, err := h.wallets.GetBalance(c.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		return utils.DomainError(c, err)
	}
	return utils.Success(c, fiber.Map{"wallet_id": id, "balance": balance})
}

func (h *WalletHandler) Rename(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "invalid wallet id")
	}
	var req walletRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}

	updated, err := h.wallets.Rename(c.Context(), middleware.CurrentUser(c), id, req.Name)
	if err != nil {
		return utils.DomainError(c, err)
	}
	return utils.Success(c, updated)
}

func (h *WalletHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "invalid wallet id")
	}

	if err := h.wallets.Delete(c.Context(), middleware.CurrentUser(c), id); err != nil {
		return utils.DomainError(c, err)
	}
	return utils.Success(c, fiber.Map{"status": "deleted"})
}

func (h *WalletHandler) SetDefault(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "invalid wallet id")
	}

	if err := h.wallets.SetDefault(c.Context(), middleware.CurrentUser(c), id); err != nil {
		return utils.DomainError(c, err)
	}
	return utils.Success(c, fiber.Map{"status": "default wallet updated"})
}

func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	return uint(id), err
}
