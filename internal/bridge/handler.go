// Package bridge exposes the gateway operations over HTTP. Instants on the
// wire are epoch milliseconds.
package bridge

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	go_json "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/garrettladley/fitgate/internal/apperr"
	"github.com/garrettladley/fitgate/internal/gateway"
	"github.com/garrettladley/fitgate/internal/permission"
	"github.com/garrettladley/fitgate/internal/validator"
	"github.com/garrettladley/fitgate/internal/xhttp"
	"github.com/garrettladley/fitgate/internal/xhttp/middleware"
	"github.com/garrettladley/fitgate/internal/xslog"
)

const (
	maxBodyBytes  = 1 << 20
	healthTimeout = 2 * time.Second
)

type Handler struct {
	gateway *gateway.Gateway
	health  func(ctx context.Context) error
}

type Option func(*Handler)

// WithHealthCheck makes GET /health report the result of check.
func WithHealthCheck(check func(ctx context.Context) error) Option {
	return func(h *Handler) { h.health = check }
}

func NewHandler(gw *gateway.Gateway, opts ...Option) *Handler {
	h := &Handler{gateway: gw}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes registers every endpoint on mux.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/authorize", h.HandleAuthorize)
	mux.HandleFunc("POST /v1/tracking-available", h.HandleTrackingAvailable)
	mux.HandleFunc("POST /v1/query/total", h.HandleQueryTotal)
	mux.HandleFunc("POST /v1/query/daily-totals", h.HandleQueryDailyTotals)
	mux.HandleFunc("GET /v1/statistics/{dataType}/week-daily", h.HandleWeekDaily)
	mux.HandleFunc("GET /v1/statistics/{dataType}/week-total", h.HandleWeekTotal)
	mux.HandleFunc("GET /v1/statistics/{dataType}/today-total", h.HandleTodayTotal)
	mux.HandleFunc("GET /v1/records/{dataType}/latest", h.HandleLatestRecord)
	mux.HandleFunc("POST /v1/workouts", h.HandleWriteWorkout)
	mux.HandleFunc("POST /v1/workouts/delete", h.HandleDeleteWorkouts)
	mux.HandleFunc("GET /health", h.HandleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())
}

// Server wraps the routes in the standard middleware chain.
func (h *Handler) Server(logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	h.Routes(mux)

	return middleware.Chain(mux,
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Recovery,
		middleware.Logging,
		middleware.SecurityHeaders,
	)
}

// HandleAuthorize handles POST /v1/authorize requests.
func (h *Handler) HandleAuthorize(w http.ResponseWriter, r *http.Request) {
	set, resolveErrs, ok := h.resolve(w, r)
	if !ok {
		return
	}

	authorized, err := h.gateway.Authorize(r.Context(), set)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeResult(w, authorized, resolveErrs)
}

// HandleTrackingAvailable handles POST /v1/tracking-available requests.
func (h *Handler) HandleTrackingAvailable(w http.ResponseWriter, r *http.Request) {
	set, resolveErrs, ok := h.resolve(w, r)
	if !ok {
		return
	}

	available, err := h.gateway.IsTrackingAvailable(r.Context(), set)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeResult(w, available, resolveErrs)
}

// HandleQueryTotal handles POST /v1/query/total requests.
func (h *Handler) HandleQueryTotal(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	kind, ok := decodeQuery(w, r, &req)
	if !ok {
		return
	}

	start, end := req.window()
	total, err := h.gateway.QueryTotal(r.Context(), kind, start, end)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeResult(w, total, nil)
}

// HandleQueryDailyTotals handles POST /v1/query/daily-totals requests.
func (h *Handler) HandleQueryDailyTotals(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	kind, ok := decodeQuery(w, r, &req)
	if !ok {
		return
	}

	start, end := req.window()
	totals, err := h.gateway.QueryDailyTotals(r.Context(), kind, start, end)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeResult(w, toDailyTotals(totals), nil)
}

// HandleWeekDaily handles GET /v1/statistics/{dataType}/week-daily requests.
func (h *Handler) HandleWeekDaily(w http.ResponseWriter, r *http.Request) {
	kind, ok := pathKind(w, r)
	if !ok {
		return
	}

	totals, err := h.gateway.StatisticWeekDaily(r.Context(), kind)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeResult(w, toDailyTotals(totals), nil)
}

// HandleWeekTotal handles GET /v1/statistics/{dataType}/week-total requests.
func (h *Handler) HandleWeekTotal(w http.ResponseWriter, r *http.Request) {
	kind, ok := pathKind(w, r)
	if !ok {
		return
	}

	total, err := h.gateway.StatisticWeekTotal(r.Context(), kind)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeResult(w, total, nil)
}

// HandleTodayTotal handles GET /v1/statistics/{dataType}/today-total requests.
func (h *Handler) HandleTodayTotal(w http.ResponseWriter, r *http.Request) {
	kind, ok := pathKind(w, r)
	if !ok {
		return
	}

	total, err := h.gateway.StatisticTodayTotal(r.Context(), kind)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeResult(w, total, nil)
}

// HandleLatestRecord handles GET /v1/records/{dataType}/latest requests.
func (h *Handler) HandleLatestRecord(w http.ResponseWriter, r *http.Request) {
	kind, ok := pathKind(w, r)
	if !ok {
		return
	}

	record, err := h.gateway.LatestDataRecord(r.Context(), kind)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeResult(w, toRecord(record), nil)
}

// HandleWriteWorkout handles POST /v1/workouts requests.
func (h *Handler) HandleWriteWorkout(w http.ResponseWriter, r *http.Request) {
	var req writeWorkoutRequest
	if !decode(w, r, &req) {
		return
	}

	start, end := time.UnixMilli(*req.StartTime), time.UnixMilli(*req.EndTime)
	if err := h.gateway.WriteWorkout(r.Context(), start, end, req.Options.toGateway()); err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeResult(w, true, nil)
}

// HandleDeleteWorkouts handles POST /v1/workouts/delete requests.
func (h *Handler) HandleDeleteWorkouts(w http.ResponseWriter, r *http.Request) {
	var req deleteWorkoutsRequest
	if !decode(w, r, &req) {
		return
	}

	start, end := time.UnixMilli(*req.StartTime), time.UnixMilli(*req.EndTime)
	deleted, err := h.gateway.DeleteWorkouts(r.Context(), start, end)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	xhttp.WriteOK(w, deleteResponse{Result: true, Deleted: deleted})
}

// HandleHealth handles GET /health requests.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if h.health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		if err := h.health(ctx); err != nil {
			xslog.FromContext(r.Context()).WarnContext(r.Context(), "health check failed", xslog.Error(err))
			xhttp.WriteJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable"})
			return
		}
	}
	xhttp.WriteOK(w, healthResponse{Status: "ok"})
}

func (h *Handler) resolve(w http.ResponseWriter, r *http.Request) (permission.Set, []string, bool) {
	var req permissionsRequest
	if !decode(w, r, &req) {
		return nil, nil, false
	}

	read, write := req.identifiers()
	set, errs := permission.Resolve(read, write)
	if len(errs) > 0 {
		xslog.FromContext(r.Context()).WarnContext(r.Context(), "unresolved permissions",
			xslog.Count(len(errs)),
			xslog.Permissions(set),
		)
	}

	messages := make([]string, 0, len(errs))
	for _, err := range errs {
		messages = append(messages, err.Error())
	}
	return set, messages, true
}

// decode reads a JSON body into v and validates it, writing the failure
// response itself.
func decode(w http.ResponseWriter, r *http.Request, v validator.Validator) bool {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(r.Context(), w, apperr.BadRequest(apperr.CodeValidation, "failed to read request body"))
		return false
	}
	if len(body) == 0 {
		body = []byte("{}")
	}
	if err := go_json.Unmarshal(body, v); err != nil {
		writeError(r.Context(), w, apperr.BadRequest(apperr.CodeValidation, "malformed JSON body"))
		return false
	}

	if verr := validator.Validate(v); verr != nil {
		writeError(r.Context(), w, verr)
		return false
	}
	return true
}

func decodeQuery(w http.ResponseWriter, r *http.Request, req *queryRequest) (permission.Kind, bool) {
	if !decode(w, r, req) {
		return "", false
	}
	kind, err := permission.ParseKind(req.DataType)
	if err != nil {
		writeError(r.Context(), w, err)
		return "", false
	}
	return kind, true
}

func pathKind(w http.ResponseWriter, r *http.Request) (permission.Kind, bool) {
	kind, err := permission.ParseKind(r.PathValue("dataType"))
	if err != nil {
		writeError(r.Context(), w, err)
		return "", false
	}
	return kind, true
}

func writeResult(w http.ResponseWriter, result any, errs []string) {
	xhttp.WriteOK(w, response{Result: result, Errors: errs})
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	apperr.WriteError(ctx, w, toAppError(err))
}

func toAppError(err error) error {
	if appErr := apperr.AsError(err); appErr != nil {
		return appErr
	}

	var providerErr *gateway.ProviderError
	switch {
	case errors.Is(err, permission.ErrUnknownKind):
		return apperr.BadRequest(apperr.CodeUnknownPermission, err.Error())
	case errors.Is(err, gateway.ErrUnauthorized):
		return apperr.Unauthorized(apperr.CodeUnauthorized, err.Error())
	case errors.Is(err, gateway.ErrActivityUnavailable):
		return apperr.Conflict(apperr.CodeActivityUnavailable, err.Error())
	case errors.As(err, &providerErr):
		return apperr.BadGateway(apperr.CodeProvider, providerErr.Err.Error(), providerErr)
	default:
		return err
	}
}
