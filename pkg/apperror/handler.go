package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/fekuna/omnipos-erp-service/pkg/i18n"
	"github.com/fekuna/omnipos-erp-service/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type errorBody struct {
	Error  string       `json:"error"`
	Errors []FieldError `json:"errors,omitempty"`
}

const headerAcceptLanguage = "Accept-Language"

// NewHTTPErrorHandler renders every error returned by a handler or middleware as
// {"error": "..."}. Causes of internal errors are logged and never sent to the client.
func NewHTTPErrorHandler(log logger.ZapLogger, tr *i18n.Translator) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		lang := c.Request().Header.Get(headerAcceptLanguage)
		reqLog := logger.FromContext(c.Request().Context(), log)

		var (
			status int
			body   errorBody
		)

		var appErr *Error
		var httpErr *echo.HTTPError
		switch {
		case errors.As(err, &appErr):
			status = HTTPStatus(appErr.Kind)
			msg := appErr.Message
			if msg == "" {
				msg = http.StatusText(status)
			}
			body.Error = tr.Localize(lang, appErr.MessageID, msg)
			body.Errors = appErr.Fields
			if appErr.Kind == KindInternal {
				reqLog.Error("request failed", zap.Error(err), zap.String("path", c.Path()))
			}
		case errors.As(err, &httpErr):
			status = httpErr.Code
			body.Error = tr.Localize(lang, httpMessageID(status), fmt.Sprint(httpErr.Message))
			if status >= http.StatusInternalServerError {
				reqLog.Error("request failed", zap.Error(err), zap.String("path", c.Path()))
			}
		default:
			status = http.StatusInternalServerError
			body.Error = tr.Localize(lang, "InternalError", "Internal server error")
			reqLog.Error("unhandled error", zap.Error(err), zap.String("path", c.Path()))
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			reqLog.Error("failed to write error response", zap.Error(err))
		}
	}
}

func httpMessageID(status int) string {
	switch status {
	case http.StatusNotFound:
		return "NotFound"
	case http.StatusInternalServerError:
		return "InternalError"
	default:
		return ""
	}
}
