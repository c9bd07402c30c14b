package utils

import (
	"errors"
	"net/http"

	apperrors "maintenance-system/pkg/errors"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type HTTPResponse struct {
	Status  bool        `json:"status"`
	Body    interface{} `json:"body,omitempty"`
	Message string      `json:"message"`
	Total   *uint64     `json:"total,omitempty"`
}

// SuccessResponse — единый конверт успешного ответа; total опционален
// и используется списками.
func SuccessResponse(ctx echo.Context, body interface{}, message string, code int, total ...uint64) error {
	response := &HTTPResponse{
		Status:  true,
		Body:    body,
		Message: message,
	}
	if len(total) > 0 {
		response.Total = &total[0]
	}
	return ctx.JSON(code, response)
}

// ErrorResponse подбирает HTTP-статус по типу ошибки и отдаёт конверт.
func ErrorResponse(ctx echo.Context, err error, logger *zap.Logger) error {
	code := http.StatusInternalServerError
	message := "Внутренняя ошибка сервера"

	var httpErr *apperrors.HttpError
	var invalidInput *apperrors.InvalidInputError
	var validationErrs validator.ValidationErrors

	switch {
	case errors.As(err, &httpErr):
		code = httpErr.Code
		message = httpErr.Message
	case errors.As(err, &invalidInput):
		code = http.StatusBadRequest
		message = invalidInput.Error()
	case errors.As(err, &validationErrs):
		code = http.StatusBadRequest
		message = "Ошибка валидации: " + validationErrs.Error()
	default:
		if status := apperrors.StatusOf(err); status != http.StatusInternalServerError {
			code = status
			message = err.Error()
		}
	}

	if code >= http.StatusInternalServerError && logger != nil {
		logger.Error("Необработанная ошибка запроса",
			zap.String("uri", ctx.Request().RequestURI),
			zap.Error(err),
		)
	}

	return ctx.JSON(code, &HTTPResponse{
		Status:  false,
		Body:    struct{}{},
		Message: message,
	})
}
