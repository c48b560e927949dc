package googlefit

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/oauth2"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "ya29.test", TokenType: "Bearer"})
	return New(src, WithBaseURL(srv.URL))
}

func TestClientSendsBearerAndStringInts(t *testing.T) {
	t.Parallel()

	var gotAuth, gotBody string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		_, _ = io.WriteString(w, `{"bucket":[{"startTimeMillis":"1000","endTimeMillis":"2000","dataset":[{"dataSourceId":"s","point":[{"startTimeNanos":"5","endTimeNanos":"6","dataTypeName":"t","value":[{"intVal":42}]}]}]}]}`)
	})

	resp, err := c.Dataset.Aggregate(t.Context(), &AggregateRequest{
		AggregateBy:     []AggregateBy{{DataSourceID: "s"}},
		BucketByTime:    &BucketByTime{DurationMillis: 1000},
		StartTimeMillis: 1000,
		EndTimeMillis:   2000,
	})
	if err != nil {
		t.Fatalf("Aggregate() unexpected error: %v", err)
	}

	if gotAuth != "Bearer ya29.test" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer ya29.test")
	}
	wantBody := `{"aggregateBy":[{"dataSourceId":"s"}],"bucketByTime":{"durationMillis":"1000"},"startTimeMillis":"1000","endTimeMillis":"2000"}`
	if gotBody != wantBody {
		t.Errorf("body = %s, want %s", gotBody, wantBody)
	}

	want := &AggregateResponse{Bucket: []AggregateBucket{{
		StartTimeMillis: 1000,
		EndTimeMillis:   2000,
		Dataset: []Dataset{{
			DataSourceID: "s",
			Point:        []DataPoint{{StartTimeNanos: 5, EndTimeNanos: 6, DataTypeName: "t", Value: []Value{IntValue(42)}}},
		}},
	}}}
	if diff := cmp.Diff(want, resp); diff != "" {
		t.Errorf("Aggregate() mismatch (-want +got):\n%s", diff)
	}
}

func TestClientAPIError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		header string
		body   string
		want   APIError
	}{
		{
			name:   "google envelope",
			status: http.StatusForbidden,
			body:   `{"error":{"code":403,"message":"Request had insufficient authentication scopes.","status":"PERMISSION_DENIED"}}`,
			want:   APIError{StatusCode: 403, Status: "PERMISSION_DENIED", Message: "Request had insufficient authentication scopes."},
		},
		{
			name:   "rate limited",
			status: http.StatusTooManyRequests,
			header: "30",
			body:   `{"error":{"code":429,"message":"Quota exceeded","status":"RESOURCE_EXHAUSTED"}}`,
			want:   APIError{StatusCode: 429, Status: "RESOURCE_EXHAUSTED", Message: "Quota exceeded", RetryAfter: 30 * time.Second},
		},
		{
			name:   "plain body",
			status: http.StatusBadGateway,
			body:   "upstream down",
			want:   APIError{StatusCode: 502, Message: "upstream down"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				if tt.header != "" {
					w.Header().Set("Retry-After", tt.header)
				}
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			err := c.Session.Delete(t.Context(), "abc")
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("Delete() error = %v, want *APIError", err)
			}
			if diff := cmp.Diff(tt.want, *apiErr); diff != "" {
				t.Errorf("APIError mismatch (-want +got):\n%s", diff)
			}
			if !IsStatus(err, tt.status) {
				t.Errorf("IsStatus(%d) = false", tt.status)
			}
		})
	}
}

func TestListSessionsParams(t *testing.T) {
	t.Parallel()

	var got string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.RawQuery
		_, _ = io.WriteString(w, `{"session":[],"hasMoreData":false}`)
	})

	_, err := c.Session.List(t.Context(), &ListSessionsParams{
		StartTime:    time.Date(2026, time.October, 9, 0, 0, 0, 0, time.UTC),
		EndTime:      time.Date(2026, time.October, 16, 0, 0, 0, 0, time.UTC),
		ActivityType: []int{8},
		PageToken:    "next",
	})
	if err != nil {
		t.Fatalf("List() unexpected error: %v", err)
	}

	want := "activityType=8&endTime=2026-10-16T00%3A00%3A00Z&pageToken=next&startTime=2026-10-09T00%3A00%3A00Z"
	if got != want {
		t.Errorf("query = %q, want %q", got, want)
	}
}

func TestDatasetDelete(t *testing.T) {
	t.Parallel()

	var gotMethod, gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.EscapedPath()
		w.WriteHeader(http.StatusNoContent)
	})

	if err := c.Dataset.Delete(t.Context(), "raw:com.google.step_count.delta:1234:fitgate", 100, 200); err != nil {
		t.Fatalf("Delete() unexpected error: %v", err)
	}
	if gotMethod != http.MethodDelete {
		t.Errorf("method = %s, want DELETE", gotMethod)
	}
	if want := "/users/me/dataSources/raw:com.google.step_count.delta:1234:fitgate/datasets/100-200"; gotPath != want {
		t.Errorf("path = %s, want %s", gotPath, want)
	}
}
