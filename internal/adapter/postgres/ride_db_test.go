package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/velogo/bike-rental-service/internal/core/domain"

	"github.com/lib/pq"
)

func TestCreateRideError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want error
	}{
		{"active ride conflict", &pq.Error{Code: "23505"}, domain.ErrRideAlreadyActive},
		{"wrapped conflict", fmt.Errorf("insert ride: %w", &pq.Error{Code: "23505"}), domain.ErrRideAlreadyActive},
		{"plain error passes through", errors.New("connection reset"), nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := createRideError(tc.err)
			if tc.want != nil {
				if !errors.Is(got, tc.want) {
					t.Errorf("err = %v, want %v", got, tc.want)
				}
				return
			}
			if got != tc.err {
				t.Errorf("err = %v, want the original error", got)
			}
		})
	}
}

func TestCreateRideErrorMissingField(t *testing.T) {
	got := createRideError(&pq.Error{Code: "23502"})
	if got == nil || errors.Is(got, domain.ErrRideAlreadyActive) {
		t.Errorf("err = %v, want a distinct missing-field error", got)
	}
}
