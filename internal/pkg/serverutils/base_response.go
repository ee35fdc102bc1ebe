package serverutils

import (
	"github.com/gofiber/fiber/v2"
)

type BaseResponse[T any] struct {
	Success bool   `json:"success"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

func OK[T any](ctx *fiber.Ctx, message string, data T) error {
	return ctx.JSON(BaseResponse[T]{
		Success: true,
		Code:    fiber.StatusOK,
		Message: message,
		Data:    data,
	})
}

func Fail(ctx *fiber.Ctx, code int, message string) error {
	return ctx.Status(code).JSON(BaseResponse[interface{}]{
		Success: false,
		Code:    code,
		Message: message,
	})
}

// FailWith keeps previously loaded data visible next to the error, so a
// failed refresh does not blank the screen.
func FailWith[T any](ctx *fiber.Ctx, code int, message string, data T) error {
	return ctx.Status(code).JSON(BaseResponse[T]{
		Success: false,
		Code:    code,
		Message: message,
		Data:    data,
	})
}
