package handlers

import (
	"payva/internal/middleware"
	"payva/internal/services/card"
	"payva/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type CardHandler struct {
	cards card.Service
}

func NewCardHandler(cards card.Service) *CardHandler {
	return &CardHandler{cards: cards}
}

type registerCardRequest struct {
	Number         string `json:"number"`
	CardholderName string `json:"cardholder_name"`
	ExpiryMonth    int    `json:"expiry_month"`
	ExpiryYear     int    `json:"expiry_year"`
	CVC            string `json:"cvc"`
}

func (h *CardHandler) Register(c *fiber.Ctx) error {
	var req registerCardRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}

	registered, err := h.cards.Register(c.Context(), middleware.CurrentUser(c), card.RegisterInput{
		Number:         req.Number,
		CardholderName: req.CardholderName,
		ExpiryMonth:    req.ExpiryMonth,
		ExpiryYear:     req.ExpiryYear,
		CVC:            req.CVC,
	})
	if err != nil {
		return utils.DomainError(c, err)
	}
	return utils.Created(c, registered)
}

func (h *CardHandler) List(c *fiber.Ctx) error {
	cards, err := h.cards.List(c.Context(), middleware.CurrentUser(c))
	if err != nil {
		return utils.DomainError(c, err)
	}
	return utils.Success(c, cards)
}

func (h *CardHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "invalid card id")
	}

	found, err := h.cards.Get(c.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		return utils.DomainError(c, err)
	}
	return utils.Success(c, found)
}

func (h *CardHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "invalid card id")
	}

	if err := h.cards.Delete(c.Context(), middleware.CurrentUser(c), id); err != nil {
		return utils.DomainError(c, err)
	}
	return utils.Success(c, fiber.Map{"status": "deleted"})
}
