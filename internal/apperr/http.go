package apperr

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/garrettladley/fitgate/internal/xhttp"
	"github.com/garrettladley/fitgate/internal/xslog"
)

type errorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// WriteError encodes err as a failure body. Errors that are not *Error
// become a 500 without leaking their text.
func WriteError(ctx context.Context, w http.ResponseWriter, err error) {
	appErr := AsError(err)
	if appErr == nil {
		appErr = Internal(CodeInternal, "an unexpected error occurred", err)
	}

	logError(ctx, appErr)

	xhttp.WriteJSON(w, appErr.StatusCode, errorResponse{
		Error:   appErr.Code,
		Message: appErr.Message,
		Fields:  appErr.Fields,
	})
}

func logError(ctx context.Context, err *Error) {
	logger := xslog.FromContext(ctx)
	attrs := []any{
		xslog.HTTPStatus(err.StatusCode),
		slog.String("code", err.Code),
		slog.String("message", err.Message),
	}
	if err.Cause != nil {
		attrs = append(attrs, xslog.Error(err.Cause))
	}
	if len(err.Fields) > 0 {
		attrs = append(attrs, slog.Any("fields", err.Fields))
	}

	switch err.StatusCode / 100 {
	case 5:
		logger.ErrorContext(ctx, "server error", attrs...)
	case 4:
		logger.WarnContext(ctx, "client error", attrs...)
	default:
		logger.InfoContext(ctx, "error response", attrs...)
	}
}
