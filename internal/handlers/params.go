package handlers

import (
	"errors"
	"net/http"

	"moldmes/internal/common"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// pageParams reads limit/offset query parameters and clamps them.
func pageParams(c echo.Context) (int, int, error) {
	var limit, offset int
	err := echo.QueryParamsBinder(c).
		Int("limit", &limit).
		Int("offset", &offset).
		BindError()
	if err != nil {
		return 0, 0, common.Validationf("limit and offset must be integers")
	}
	limit, offset = common.Paginate(limit, offset)
	return limit, offset, nil
}

func bindBody(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return common.Validationf("invalid request body")
	}
	return nil
}

// ErrorHandler renders every error, domain or echo, with the standard
// envelope. Server-side failures are logged and their cause is withheld.
func ErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			message := http.StatusText(he.Code)
			if m, ok := he.Message.(string); ok && m != "" {
				message = m
			}
			code := "HTTP_ERROR"
			switch he.Code {
			case http.StatusNotFound:
				code = "NOT_FOUND"
			case http.StatusRequestEntityTooLarge:
				code = "PAYLOAD_TOO_LARGE"
			case http.StatusMethodNotAllowed:
				code = "METHOD_NOT_ALLOWED"
			}
			_ = c.JSON(he.Code, common.CreateErrorResponse(code, message, nil))
			return
		}

		if common.StatusCode(err) == http.StatusInternalServerError {
			logger.Error("Request failed",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Path()),
				zap.Error(err))
		}
		_ = common.SendDomainError(c, err)
	}
}
