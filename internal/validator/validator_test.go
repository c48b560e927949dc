package validator

import (
	"errors"
	"net/http"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/go-cmp/cmp"

	"github.com/garrettladley/fitgate/internal/apperr"
)

type rangeRequest struct {
	Start int64 `json:"startDate"`
	End   int64 `json:"endDate"`
}

func (r rangeRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Start, validation.Required),
		validation.Field(&r.End, validation.Required, validation.Min(r.Start).Error("must not be before startDate")),
	)
}

type opaque struct{ err error }

func (o opaque) Validate() error { return o.err }

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input Validator
		want  map[string]string
	}{
		{
			name:  "valid",
			input: rangeRequest{Start: 1, End: 2},
		},
		{
			name:  "missing start",
			input: rangeRequest{End: 2},
			want:  map[string]string{"startDate": "cannot be blank"},
		},
		{
			name:  "end before start",
			input: rangeRequest{Start: 5, End: 2},
			want:  map[string]string{"endDate": "must not be before startDate"},
		},
		{
			name:  "non field error",
			input: opaque{err: errors.New("body is empty")},
			want:  map[string]string{"request": "body is empty"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Validate(tt.input)
			if tt.want == nil {
				if got != nil {
					t.Fatalf("Validate() = %v, want nil", got)
				}
				return
			}
			if got == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if got.Code != apperr.CodeValidation || got.StatusCode != http.StatusUnprocessableEntity {
				t.Errorf("Validate() = %s/%d, want %s/%d", got.Code, got.StatusCode, apperr.CodeValidation, http.StatusUnprocessableEntity)
			}
			if diff := cmp.Diff(tt.want, got.Fields); diff != "" {
				t.Errorf("Validate() fields mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
