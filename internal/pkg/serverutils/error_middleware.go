package serverutils

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware converts panics and unhandled handler errors into
// 500 envelopes. No error is fatal to the process.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = Fail(ctx, fiber.StatusInternalServerError, fmt.Sprintf("internal error: %v", r))
			}
		}()

		if err := ctx.Next(); err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				return Fail(ctx, fe.Code, fe.Message)
			}
			return Fail(ctx, fiber.StatusInternalServerError, err.Error())
		}
		return nil
	}
}
