package domain

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAppErrorHTTPStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  *AppError
		want int
	}{
		{Validationf("bad input"), http.StatusBadRequest},
		{Stockf("out of stock"), http.StatusBadRequest},
		{Gatewayf("gateway said no"), http.StatusBadRequest},
		{NotFoundf("missing"), http.StatusNotFound},
		{Conflictf("duplicate"), http.StatusConflict},
		{Authf("who are you"), http.StatusUnauthorized},
		{Forbiddenf("not yours"), http.StatusForbidden},
		{Internal("boom", nil), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := tt.err.HTTPStatus(); got != tt.want {
			t.Errorf("%s -> HTTPStatus() = %d, want %d", tt.err.Kind, got, tt.want)
		}
	}
}

func TestPublicMessageHidesInternalDetail(t *testing.T) {
	t.Parallel()

	internal := Internal("pgx: connection refused", errors.New("dial tcp"))
	if msg := internal.PublicMessage(); msg == internal.Message {
		t.Errorf("PublicMessage() leaked internal detail: %q", msg)
	}

	public := Validationf("quantity must be a positive integer")
	if msg := public.PublicMessage(); msg != "quantity must be a positive integer" {
		t.Errorf("PublicMessage() = %q, want the validation message", msg)
	}
}

func TestKindOfUnwraps(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("checkout: %w", Stockf("insufficient stock"))
	if got := KindOf(wrapped); got != ErrKindStock {
		t.Errorf("KindOf(wrapped) = %v, want stock", got)
	}
	if got := KindOf(errors.New("plain")); got != ErrKindInternal {
		t.Errorf("KindOf(plain) = %v, want internal", got)
	}
}

func TestAsAppError(t *testing.T) {
	t.Parallel()

	ae := AsAppError(errors.New("pq: duplicate key"))
	if ae.Kind != ErrKindInternal {
		t.Errorf("Kind = %v, want internal", ae.Kind)
	}
	if ae.PublicMessage() == "pq: duplicate key" {
		t.Error("unclassified errors must not leak to clients")
	}

	orig := NotFoundf("order not found")
	if got := AsAppError(orig); got != orig {
		t.Error("AsAppError should return the original AppError")
	}
}
