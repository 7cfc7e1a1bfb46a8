package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindStatusCode(t *testing.T) {
	tcases := []struct {
		kind Kind
		code int
	}{
		{KindValidation, http.StatusBadRequest},
		{KindConflict, http.StatusConflict},
		{KindNotFound, http.StatusNotFound},
		{KindAuth, http.StatusUnauthorized},
		{KindForbidden, http.StatusForbidden},
		{KindInternal, http.StatusInternalServerError},
	}

	for _, tc := range tcases {
		t.Run(tc.kind.String(), func(t *testing.T) {
			assert.Equal(t, tc.code, tc.kind.StatusCode())
		})
	}
}

func TestErrorIs(t *testing.T) {
	sentinel := Conflict("duplicate_username", "username already taken")
	wrapped := fmt.Errorf("register: %w", sentinel.Wrap(errors.New("UNIQUE constraint failed")))

	assert.ErrorIs(t, wrapped, sentinel)
	assert.NotErrorIs(t, wrapped, Conflict("duplicate_email", "email already taken"))
	assert.Equal(t, KindConflict, KindOf(wrapped))
	assert.Contains(t, wrapped.Error(), "UNIQUE constraint failed")
}

func TestFrom(t *testing.T) {
	plain := errors.New("boom")
	e := From(plain)
	assert.Equal(t, KindInternal, e.Kind)
	assert.ErrorIs(t, e, plain)

	assert.Same(t, ErrForbidden, From(ErrForbidden))
}
