package xslog

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/garrettladley/fitgate/internal/xhttp"
)

const (
	groupRequest  = "request"
	groupResponse = "response"
	groupError    = "error"
	groupRange    = "range"
)

const (
	keyID         = "id"
	keyUserAgent  = "user_agent"
	keyQuery      = "query"
	keyBytes      = "bytes"
	keyDurationMS = "duration_ms"
	keyMessage    = "message"
	keyType       = "type"
	keyValue      = "value"
	keySpan       = "span"
)

func RequestGroup(r *http.Request) slog.Attr {
	attrs := []slog.Attr{
		RequestMethod(r),
		RequestPath(r),
		RequestIP(r),
		slog.String(keyUserAgent, r.UserAgent()),
	}
	if id, ok := xhttp.RequestIDFrom(r.Context()); ok {
		attrs = append(attrs, slog.String(keyID, id))
	}
	if r.URL.RawQuery != "" {
		attrs = append(attrs, slog.String(keyQuery, r.URL.RawQuery))
	}
	return slog.GroupAttrs(groupRequest, attrs...)
}

func ResponseGroup(status int, bytes int, duration time.Duration) slog.Attr {
	return slog.Group(groupResponse,
		HTTPStatus(status),
		slog.Int(keyBytes, bytes),
		slog.Int64(keyDurationMS, duration.Milliseconds()),
	)
}

// statusCoder is implemented by errors that carry an upstream HTTP status.
type statusCoder interface {
	HTTPStatus() int
}

// ErrorGroup records the message and concrete type of err, plus the
// upstream status when something in its chain reports one.
func ErrorGroup(err error) slog.Attr {
	if err == nil {
		return slog.Group(groupError)
	}
	attrs := []slog.Attr{
		slog.String(keyMessage, err.Error()),
		slog.String(keyType, fmt.Sprintf("%T", err)),
	}
	var sc statusCoder
	if errors.As(err, &sc) {
		attrs = append(attrs, HTTPStatus(sc.HTTPStatus()))
	}
	return slog.GroupAttrs(groupError, attrs...)
}

func ErrorGroupWithStack(err any) slog.Attr {
	return slog.Group(groupError,
		slog.Any(keyValue, err),
		slog.String(keyType, fmt.Sprintf("%T", err)),
		Stack(),
	)
}

func RangeGroup(start, end time.Time) slog.Attr {
	return slog.Group(groupRange,
		Start(start),
		End(end),
		slog.Duration(keySpan, end.Sub(start)),
	)
}
