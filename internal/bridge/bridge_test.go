package bridge

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"
	"time"

	go_json "github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"

	"github.com/garrettladley/fitgate/internal/apperr"
	"github.com/garrettladley/fitgate/internal/gateway"
	"github.com/garrettladley/fitgate/internal/gateway/gatewaytest"
	"github.com/garrettladley/fitgate/internal/permission"
	"github.com/garrettladley/fitgate/internal/xhttp"
)

var fixedNow = time.Date(2026, time.October, 16, 15, 30, 0, 0, time.UTC)

type envelope struct {
	Result  go_json.RawMessage `json:"result"`
	Errors  []string           `json:"errors"`
	Deleted int                `json:"deleted"`
	Error   string             `json:"error"`
	Message string             `json:"message"`
	Fields  map[string]string  `json:"fields"`
}

type harness struct {
	provider   *gatewaytest.Provider
	foreground *gatewaytest.Foreground
	handler    http.Handler
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	p := gatewaytest.New()
	fg := &gatewaytest.Foreground{}
	gw := gateway.New(p, fg,
		gateway.WithClock(func() time.Time { return fixedNow }),
		gateway.WithLocation(time.UTC),
		gateway.WithLogger(logger),
	)
	return &harness{
		provider:   p,
		foreground: fg,
		handler:    NewHandler(gw).Server(logger),
	}
}

func (h *harness) do(t *testing.T, method, path, body string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequestWithContext(t.Context(), method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)

	var env envelope
	if err := go_json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("%s %s: failed to decode body %q: %v", method, path, rec.Body.String(), err)
	}
	return rec.Code, env
}

// authorize grants everything and runs /v1/authorize.
func (h *harness) authorize(t *testing.T) {
	t.Helper()
	h.provider.GrantAll = true
	if code, env := h.do(t, http.MethodPost, "/v1/authorize", `{"readPermissions":["steps"]}`); code != http.StatusOK || string(env.Result) != "true" {
		t.Fatalf("authorize = %d %s, want 200 true", code, env.Result)
	}
}

func TestAuthorize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		granted    bool
		foreground bool
		body       string
		wantStatus int
		wantResult string
		wantCode   string
		wantErrors int
	}{
		{
			name:       "already granted",
			granted:    true,
			body:       `{"readPermissions":["steps"],"writePermissions":[]}`,
			wantStatus: http.StatusOK,
			wantResult: "true",
		},
		{
			name:       "no foreground",
			body:       `{"readPermissions":[],"writePermissions":["steps"]}`,
			wantStatus: http.StatusConflict,
			wantCode:   apperr.CodeActivityUnavailable,
		},
		{
			name:       "consent through foreground",
			foreground: true,
			body:       `{"readPermissions":["steps","heart_rate"]}`,
			wantStatus: http.StatusOK,
			wantResult: "true",
		},
		{
			name:       "unknown and null identifiers are reported",
			granted:    true,
			body:       `{"readPermissions":["steps","stairs",null],"writePermissions":["weight"]}`,
			wantStatus: http.StatusOK,
			wantResult: "true",
			wantErrors: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := newHarness(t)
			h.provider.GrantAll = tt.granted
			h.foreground.Available = tt.foreground

			code, env := h.do(t, http.MethodPost, "/v1/authorize", tt.body)
			if code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", code, tt.wantStatus, env.Message)
			}
			if tt.wantCode != "" && env.Error != tt.wantCode {
				t.Errorf("error = %q, want %q", env.Error, tt.wantCode)
			}
			if tt.wantResult != "" && string(env.Result) != tt.wantResult {
				t.Errorf("result = %s, want %s", env.Result, tt.wantResult)
			}
			if len(env.Errors) != tt.wantErrors {
				t.Errorf("errors = %v, want %d entries", env.Errors, tt.wantErrors)
			}
		})
	}
}

func TestAuthorizeReportsResolveErrorsByIndex(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.provider.GrantAll = true

	_, env := h.do(t, http.MethodPost, "/v1/authorize", `{"readPermissions":["steps","stairs",null]}`)

	want := []string{
		`readPermissions[1]: unknown permission kind "stairs"`,
		"readPermissions[2] is null",
	}
	if diff := cmp.Diff(want, env.Errors); diff != "" {
		t.Errorf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestTrackingAvailable(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.provider.Grant(permission.Set{{Kind: permission.KindSteps, Access: permission.Read}})

	_, env := h.do(t, http.MethodPost, "/v1/tracking-available", `{"readPermissions":["steps"]}`)
	if string(env.Result) != "true" {
		t.Errorf("steps:read available = %s, want true", env.Result)
	}

	_, env = h.do(t, http.MethodPost, "/v1/tracking-available", `{"writePermissions":["steps"]}`)
	if string(env.Result) != "false" {
		t.Errorf("steps:write available = %s, want false", env.Result)
	}

	// availability never authorizes
	if code, env := h.do(t, http.MethodGet, "/v1/statistics/steps/today-total", ""); code != http.StatusUnauthorized || env.Error != apperr.CodeUnauthorized {
		t.Errorf("today-total after availability check = %d %s, want 401 %s", code, env.Error, apperr.CodeUnauthorized)
	}
}

func TestQueriesRequireAuthorization(t *testing.T) {
	t.Parallel()

	requests := []struct {
		method, path, body string
	}{
		{http.MethodPost, "/v1/query/total", `{"dataType":"steps","startDate":0,"endDate":1}`},
		{http.MethodPost, "/v1/query/daily-totals", `{"dataType":"steps","startDate":0,"endDate":1}`},
		{http.MethodGet, "/v1/statistics/steps/week-daily", ""},
		{http.MethodGet, "/v1/statistics/steps/week-total", ""},
		{http.MethodGet, "/v1/statistics/steps/today-total", ""},
		{http.MethodGet, "/v1/records/steps/latest", ""},
		{http.MethodPost, "/v1/workouts", `{"startTime":0,"endTime":1}`},
		{http.MethodPost, "/v1/workouts/delete", `{"startTime":0,"endTime":1}`},
	}

	h := newHarness(t)
	for _, req := range requests {
		code, env := h.do(t, req.method, req.path, req.body)
		if code != http.StatusUnauthorized || env.Error != apperr.CodeUnauthorized {
			t.Errorf("%s %s = %d %q, want 401 %q", req.method, req.path, code, env.Error, apperr.CodeUnauthorized)
		}
	}
	if calls := h.provider.DataCalls(); len(calls) != 0 {
		t.Errorf("provider data calls = %v, want none", calls)
	}
}

func TestQueryValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		path       string
		body       string
		wantStatus int
		wantCode   string
		wantFields []string
	}{
		{
			name:       "missing dates",
			path:       "/v1/query/total",
			body:       `{"dataType":"steps"}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   apperr.CodeValidation,
			wantFields: []string{"endDate", "startDate"},
		},
		{
			name:       "end before start",
			path:       "/v1/query/daily-totals",
			body:       `{"dataType":"steps","startDate":10,"endDate":5}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   apperr.CodeValidation,
			wantFields: []string{"endDate"},
		},
		{
			name:       "unknown data type",
			path:       "/v1/query/total",
			body:       `{"dataType":"stairs","startDate":0,"endDate":5}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   apperr.CodeUnknownPermission,
		},
		{
			name:       "malformed json",
			path:       "/v1/query/total",
			body:       `{"dataType":`,
			wantStatus: http.StatusBadRequest,
			wantCode:   apperr.CodeValidation,
		},
		{
			name:       "workout ends before it starts",
			path:       "/v1/workouts",
			body:       `{"startTime":10,"endTime":10,"options":{"activityType":"running"}}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   apperr.CodeValidation,
			wantFields: []string{"endTime"},
		},
		{
			name:       "workout with unknown activity",
			path:       "/v1/workouts",
			body:       `{"startTime":0,"endTime":10,"options":{"activityType":"curling","calories":-1}}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   apperr.CodeValidation,
			wantFields: []string{"options"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := newHarness(t)
			h.authorize(t)

			code, env := h.do(t, http.MethodPost, tt.path, tt.body)
			if code != tt.wantStatus || env.Error != tt.wantCode {
				t.Fatalf("response = %d %q, want %d %q", code, env.Error, tt.wantStatus, tt.wantCode)
			}

			var fields []string
			for name := range env.Fields {
				fields = append(fields, name)
			}
			slices.Sort(fields)
			if diff := cmp.Diff(tt.wantFields, fields); diff != "" {
				t.Errorf("fields mismatch (-want +got):\n%s", diff)
			}
			if n := len(h.provider.DataCalls()); n != 0 {
				t.Errorf("provider data calls = %d, want 0", n)
			}
		})
	}
}

func TestUnknownPathDataType(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.authorize(t)

	code, env := h.do(t, http.MethodGet, "/v1/statistics/stairs/week-total", "")
	if code != http.StatusBadRequest || env.Error != apperr.CodeUnknownPermission {
		t.Errorf("response = %d %q, want 400 %q", code, env.Error, apperr.CodeUnknownPermission)
	}
}

func TestWorkoutRoundTrip(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.authorize(t)

	start := time.Date(2026, time.October, 14, 14, 20, 0, 0, time.UTC)
	end := start.Add(45 * time.Minute)
	body := `{"startTime":` + ms(start) + `,"endTime":` + ms(end) + `,"options":{"name":"Lunch run","activityType":"running","calories":320.5,"distance":8000}}`

	if code, env := h.do(t, http.MethodPost, "/v1/workouts", body); code != http.StatusOK || string(env.Result) != "true" {
		t.Fatalf("write workout = %d %s %s, want 200 true", code, env.Result, env.Message)
	}

	dayStart := time.Date(2026, time.October, 13, 0, 0, 0, 0, time.UTC)
	dayEnd := time.Date(2026, time.October, 16, 0, 0, 0, 0, time.UTC)
	_, env := h.do(t, http.MethodPost, "/v1/query/daily-totals",
		`{"dataType":"calories","startDate":`+ms(dayStart)+`,"endDate":`+ms(dayEnd)+`}`)

	var got []dailyTotal
	if err := go_json.Unmarshal(env.Result, &got); err != nil {
		t.Fatalf("failed to decode result: %v", err)
	}
	want := []dailyTotal{
		{Date: dayStart.UnixMilli(), Value: 0},
		{Date: dayStart.AddDate(0, 0, 1).UnixMilli(), Value: 320.5},
		{Date: dayStart.AddDate(0, 0, 2).UnixMilli(), Value: 0},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("daily totals mismatch (-want +got):\n%s", diff)
	}

	workouts := h.provider.Workouts()
	if len(workouts) != 1 || workouts[0].Activity() != gateway.ActivityRunning || *workouts[0].Options.Name != "Lunch run" {
		t.Errorf("workouts = %+v, want one running workout named Lunch run", workouts)
	}

	code, env := h.do(t, http.MethodPost, "/v1/workouts/delete",
		`{"startTime":`+ms(dayStart)+`,"endTime":`+ms(dayEnd)+`}`)
	if code != http.StatusOK || env.Deleted != 1 || string(env.Result) != "true" {
		t.Errorf("delete = %d deleted=%d result=%s, want 200 1 true", code, env.Deleted, env.Result)
	}
}

func TestLatestRecord(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.authorize(t)

	_, env := h.do(t, http.MethodGet, "/v1/records/weight/latest", "")
	if string(env.Result) != "null" {
		t.Errorf("latest with no data = %s, want null", env.Result)
	}

	at := time.Date(2026, time.October, 15, 7, 0, 0, 0, time.UTC)
	h.provider.AddPoint(gatewaytest.Point{Kind: permission.KindWeight, Start: at, End: at, Value: 70.9})

	_, env = h.do(t, http.MethodGet, "/v1/records/weight/latest", "")
	var got record
	if err := go_json.Unmarshal(env.Result, &got); err != nil {
		t.Fatalf("failed to decode record: %v", err)
	}
	want := record{DataType: "weight", StartDate: at.UnixMilli(), EndDate: at.UnixMilli(), Value: 70.9, Source: "gatewaytest"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestStatistics(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.authorize(t)

	h.provider.AddPoint(gatewaytest.Point{Kind: permission.KindSteps, Start: fixedNow.Add(-2 * time.Hour), End: fixedNow.Add(-time.Hour), Value: 1200})
	h.provider.AddPoint(gatewaytest.Point{Kind: permission.KindSteps, Start: fixedNow.AddDate(0, 0, -3), End: fixedNow.AddDate(0, 0, -3), Value: 800})

	_, env := h.do(t, http.MethodGet, "/v1/statistics/steps/today-total", "")
	if string(env.Result) != "1200" {
		t.Errorf("today-total = %s, want 1200", env.Result)
	}

	_, env = h.do(t, http.MethodGet, "/v1/statistics/steps/week-total", "")
	if string(env.Result) != "2000" {
		t.Errorf("week-total = %s, want 2000", env.Result)
	}

	_, env = h.do(t, http.MethodGet, "/v1/statistics/steps/week-daily", "")
	var days []dailyTotal
	if err := go_json.Unmarshal(env.Result, &days); err != nil {
		t.Fatalf("failed to decode week-daily: %v", err)
	}
	if len(days) != 8 {
		t.Errorf("week-daily returned %d days, want 8", len(days))
	}
}

func TestProviderErrorIsBadGateway(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.authorize(t)
	h.provider.Err = errors.New("quota exceeded")

	code, env := h.do(t, http.MethodGet, "/v1/statistics/steps/week-total", "")
	if code != http.StatusBadGateway || env.Error != apperr.CodeProvider {
		t.Fatalf("response = %d %q, want 502 %q", code, env.Error, apperr.CodeProvider)
	}
	if env.Message != "quota exceeded" {
		t.Errorf("message = %q, want the provider message verbatim", env.Message)
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	code, _ := h.do(t, http.MethodGet, "/health", "")
	if code != http.StatusOK {
		t.Errorf("health = %d, want 200", code)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	gw := gateway.New(gatewaytest.New(), &gatewaytest.Foreground{})
	down := NewHandler(gw, WithHealthCheck(func(context.Context) error { return errors.New("store down") })).Server(logger)

	rec := httptest.NewRecorder()
	down.ServeHTTP(rec, httptest.NewRequestWithContext(t.Context(), http.MethodGet, "/health", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("health with failing check = %d, want 503", rec.Code)
	}
}

func TestServerMiddleware(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	srv := NewHandler(gateway.New(gatewaytest.New(), &gatewaytest.Foreground{})).Server(logger)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequestWithContext(t.Context(), http.MethodPost, "/v1/query/total", strings.NewReader(`{}`)))

	id := rec.Header().Get(xhttp.XRequestID)
	if id == "" {
		t.Fatal("response has no request id")
	}
	if got := rec.Header().Get(xhttp.CacheControl); got != "no-store" {
		t.Errorf("%s = %q, want no-store", xhttp.CacheControl, got)
	}

	// the access log line carries the same request id as the response
	var line struct {
		RequestID string `json:"request_id"`
		Request   struct {
			ID string `json:"id"`
		} `json:"request"`
	}
	for raw := range strings.SplitSeq(strings.TrimSpace(buf.String()), "\n") {
		if !strings.Contains(raw, `"http request"`) {
			continue
		}
		if err := go_json.Unmarshal([]byte(raw), &line); err != nil {
			t.Fatalf("failed to decode access log: %v", err)
		}
	}
	if line.RequestID != id || line.Request.ID != id {
		t.Errorf("access log ids = %q/%q, want %q", line.RequestID, line.Request.ID, id)
	}
}

func ms(t time.Time) string {
	b, _ := go_json.Marshal(t.UnixMilli())
	return string(b)
}
