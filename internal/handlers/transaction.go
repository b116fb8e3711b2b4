package handlers

import (
	"payva/internal/middleware"
	"payva/internal/models"
	"payva/internal/repositories"
	"payva/internal/services/wallet"
	"payva/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type TransactionHandler struct {
	transactions repositories.TransactionRepository
	wallets      wallet.Service
}

func NewTransactionHandler(transactions repositories.TransactionRepository, wallets wallet.Service) *TransactionHandler {
	return &TransactionHandler{transactions: transactions, wallets: wallets}
}

func pagination(c *fiber.Ctx) (limit, offset int) {
	limit = c.QueryInt("limit", 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset = c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// History lists the authenticated user's transactions, most recent first.
func (h *TransactionHandler) History(c *fiber.Ctx) error {
	limit, offset := pagination(c)
	user := middleware.CurrentUser(c)

	transactions, err := h.transactions.ListByUser(user.ID, limit, offset)
	if err != nil {
		return utils.DomainError(c, err)
	}
	return utils.Success(c, fiber.Map{
		"transactions": transactions,
		"limit":        limit,
		"offset":       offset,
	})
}

func (h *TransactionHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "invalid transaction id")
	}

	tx, err := h.transactions.GetByID(id)
	if err != nil {
		return utils.DomainError(c, err)
	}
	return h.respondIfVisible(c, tx)
}

// GetByReference looks a transaction up by its receipt reference.
func (h *TransactionHandler) GetByReference(c *fiber.Ctx) error {
	reference := c.Params("reference")
	if reference == "" {
		return utils.BadRequest(c, "invalid reference")
	}

	tx, err := h.transactions.GetByReference(reference)
	if err != nil {
		return utils.DomainError(c, err)
	}
	return h.respondIfVisible(c, tx)
}

// WalletHistory lists transactions touching one wallet. The ownership
// check rides on the wallet service, so employees may read too.
func (h *TransactionHandler) WalletHistory(c *fiber.Ctx) error {
	walletID, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "invalid wallet id")
	}
	if _, err := h.wallets.Get(c.Context(), middleware.CurrentUser(c), walletID); err != nil {
		return utils.DomainError(c, err)
	}

	limit, offset := pagination(c)
	transactions, err := h.transactions.ListByWallet(walletID, limit, offset)
	if err != nil {
		return utils.DomainError(c, err)
	}
	return utils.Success(c, fiber.Map{
		"transactions": transactions,
		"limit":        limit,
		"offset":       offset,
	})
}

// respondIfVisible hides other users' records from non-employees. A
// 404 rather than 403 so existence is not leaked.
func (h *TransactionHandler) respondIfVisible(c *fiber.Ctx, tx *models.Transaction) error {
	user := middleware.CurrentUser(c)
	if tx.SenderUserID != user.ID && tx.RecipientUserID != user.ID && !user.IsEmployee() {
		return utils.NotFound(c, "transaction not found")
	}
	return utils.Success(c, tx)
}
