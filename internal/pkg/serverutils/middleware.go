package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"portfolio-be/internal/pkg/logger"
)

// ErrorHandlerMiddleware renders every error returned down the chain as an
// ErrorResponse.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		if appErr, ok := AsAppError(err); ok {
			if appErr.Status >= fiber.StatusInternalServerError {
				log.Error("HTTP", appErr.Message, map[string]interface{}{
					"path":  ctx.Path(),
					"code":  appErr.Code,
					"error": errString(appErr.Err),
				})
			}
			return ctx.Status(appErr.Status).JSON(NewErrorResponse(appErr.Code, appErr.Message, appErr.Details))
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			code := CodeInternal
			switch fiberErr.Code {
			case fiber.StatusNotFound:
				code = CodeNotFound
			case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity:
				code = CodeBadRequest
			}
			return ctx.Status(fiberErr.Code).JSON(NewErrorResponse(code, fiberErr.Message, nil))
		}

		log.Error("HTTP", "Unhandled error", map[string]interface{}{
			"path":  ctx.Path(),
			"error": err.Error(),
		})
		return ctx.Status(fiber.StatusInternalServerError).JSON(NewErrorResponse(CodeInternal, "Internal server error", nil))
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
