package handlers

import (
	"payva/internal/middleware"
	"payva/internal/models"
	"payva/internal/services/ledger"
	"payva/internal/services/verification"
	"payva/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type TransferHandler struct {
	engine   ledger.Service
	verifier verification.Service
}

func NewTransferHandler(engine ledger.Service, verifier verification.Service) *TransferHandler {
	return &TransferHandler{engine: engine, verifier: verifier}
}

type transferRequest struct {
	SenderKind      string `json:"sender_kind"`
	SenderID        uint   `json:"sender_id"`
	RecipientKind   string `json:"recipient_kind"`
	RecipientID     uint   `json:"recipient_id"`
	RecipientUserID uint   `json:"recipient_user_id"`
	Amount          string `json:"amount"`
	Description     string `json:"description"`
	CategoryID      *uint  `json:"category_id"`
}

// Execute creates a transfer. A pending response means the transfer
// awaits token verification and no funds have moved yet.
func (h *TransferHandler) Execute(c *fiber.Ctx) error {
	var req transferRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return utils.BadRequest(c, "invalid amount")
	}

	receipt, err := h.engine.Execute(c.Context(), middleware.CurrentUser(c), ledger.TransferRequest{
		SenderKind:      models.MethodKind(req.SenderKind),
		SenderID:        req.SenderID,
		RecipientKind:   models.MethodKind(req.RecipientKind),
		RecipientID:     req.RecipientID,
		RecipientUserID: req.RecipientUserID,
		Amount:          amount,
		Description:     req.Description,
		CategoryID:      req.CategoryID,
	})
	if err != nil {
		return utils.DomainError(c, err)
	}

	if receipt.Pending {
		return utils.Respond(c, fiber.StatusAccepted, fiber.Map{
			"status":      "pending_verification",
			"transaction": receipt.Transaction,
		})
	}
	return utils.Created(c, receipt.Transaction)
}

type redeemRequest struct {
	Token string `json:"token"`
}

// Redeem finalizes a pending transfer with its verification token.
func (h *TransferHandler) Redeem(c *fiber.Ctx) error {
	var req redeemRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}
	if req.Token == "" {
		return utils.BadRequest(c, "token is required")
	}

	tx, err := h.verifier.Redeem(c.Context(), req.Token)
	if err != nil {
		return utils.DomainError(c, err)
	}
	return utils.Success(c, tx)
}
