package utils

import (
	"errors"

	errs "payva/internal/errors"
	"payva/internal/repositories"

	"github.com/gofiber/fiber/v2"
)

// Respond sends a JSON response with the specified status code.
func Respond(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(data)
}

// Success sends a successful JSON response.
func Success(c *fiber.Ctx, data interface{}) error {
	return Respond(c, fiber.StatusOK, data)
}

// Created sends a 201 JSON response.
func Created(c *fiber.Ctx, data interface{}) error {
	return Respond(c, fiber.StatusCreated, data)
}

// BadRequest sends a JSON error response with status 400.
func BadRequest(c *fiber.Ctx, message string) error {
	return Respond(c, fiber.StatusBadRequest, fiber.Map{"error": message})
}

// Unauthorized sends a JSON error response with status 401.
func Unauthorized(c *fiber.Ctx, message string) error {
	return Respond(c, fiber.StatusUnauthorized, fiber.Map{"error": message})
}

// NotFound sends a JSON error response with status 404.
func NotFound(c *fiber.Ctx, message string) error {
	return Respond(c, fiber.StatusNotFound, fiber.Map{"error": message})
}

// DomainError maps a service failure onto an HTTP response using the
// error's domain code, falling back to 500 for unknown failures.
func DomainError(c *fiber.Ctx, err error) error {
	switch errs.CodeOf(err) {
	case errs.ErrInvalidAmount.Code, errs.ErrInvalidOperation.Code:
		return Respond(c, fiber.StatusBadRequest, errorBody(err))
	case errs.ErrUnauthorizedOperation.Code:
		return Respond(c, fiber.StatusForbidden, errorBody(err))
	case errs.ErrInsufficientFunds.Code:
		return Respond(c, fiber.StatusUnprocessableEntity, errorBody(err))
	case errs.ErrDuplicateEntity.Code:
		return Respond(c, fiber.StatusConflict, errorBody(err))
	case errs.ErrInvalidToken.Code, errs.ErrTokenExpired.Code:
		return Respond(c, fiber.StatusGone, errorBody(err))
	case errs.ErrPersistenceFailure.Code:
		return Respond(c, fiber.StatusServiceUnavailable, errorBody(err))
	}

	switch {
	case errors.Is(err, repositories.ErrWalletNotFound),
		errors.Is(err, repositories.ErrCardNotFound),
		errors.Is(err, repositories.ErrUserNotFound),
		errors.Is(err, repositories.ErrCategoryNotFound),
		errors.Is(err, repositories.ErrTransactionNotFound):
		return NotFound(c, err.Error())
	}
	return Respond(c, fiber.StatusInternalServerError, fiber.Map{"error": "internal error"})
}

func errorBody(err error) fiber.Map {
	body := fiber.Map{"error": err.Error()}
	if code := errs.CodeOf(err); code != "" {
		body["code"] = code
	}
	return body
}
