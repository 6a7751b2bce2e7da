package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", Invalid("amount", "must be positive"), http.StatusBadRequest},
		{"not found", NotFound("booking", "42"), http.StatusNotFound},
		{"precondition", &PreconditionError{Op: "checkout", Reason: "pending balance"}, http.StatusConflict},
		{"unclassified", &UnclassifiedEntryError{EntryID: "e1", Kind: "bonus"}, http.StatusUnprocessableEntity},
		{"malformed", &MalformedEntryError{EntryID: "e1", Reason: "missing channel"}, http.StatusUnprocessableEntity},
		{"wrapped validation", fmt.Errorf("check in: %w", Invalid("rent", "must be positive")), http.StatusBadRequest},
		{"store", Store("get room", errors.New("connection reset")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestStoreKeepsDomainErrors(t *testing.T) {
	domainErr := Invalid("room", "not available")
	assert.Same(t, domainErr, Store("check in", domainErr))

	raw := errors.New("timeout")
	wrapped := Store("append entry", raw)
	var se *StoreError
	require.ErrorAs(t, wrapped, &se)
	assert.Equal(t, "append entry", se.Op)
	assert.ErrorIs(t, wrapped, raw)

	assert.Same(t, wrapped, Store("outer", wrapped))
	assert.NoError(t, Store("noop", nil))
}

func TestPendingOf(t *testing.T) {
	err := fmt.Errorf("checkout: %w", &PreconditionError{
		Op:      "checkout",
		Pending: decimal.NewFromInt(600),
		Reason:  "pending balance must be cleared",
	})

	pending, ok := PendingOf(err)
	require.True(t, ok)
	assert.True(t, pending.Equal(decimal.NewFromInt(600)))
	assert.Contains(t, err.Error(), "pending 600.00")

	_, ok = PendingOf(Invalid("x", "y"))
	assert.False(t, ok)
}
