package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/garrettladley/fitgate/internal/apperr"
	"github.com/garrettladley/fitgate/internal/xslog"
)

var errPanic = errors.New("handler panicked")

// Recovery turns a handler panic into a logged 500 with an opaque body.
// http.ErrAbortHandler is re-raised so net/http can drop the connection.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if err, ok := v.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(v)
			}

			ctx := r.Context()
			xslog.FromContext(ctx).ErrorContext(ctx, "panic recovered",
				xslog.RequestGroup(r),
				xslog.ErrorGroupWithStack(v),
			)
			apperr.WriteError(ctx, w, fmt.Errorf("%w: %v", errPanic, v))
		}()
		next.ServeHTTP(w, r)
	})
}
