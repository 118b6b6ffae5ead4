package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/fsdevblog/luffy-streaming/internal/domain"
	"github.com/fsdevblog/luffy-streaming/internal/repository/repoargs"
	"github.com/stretchr/testify/assert"
)

func TestServiceErrStatus(t *testing.T) {
	cases := []struct {
		err        error
		wantStatus int
		wantPublic string
	}{
		{domain.NewValidationError("amount", "must be positive"), http.StatusBadRequest, "amount: must be positive"},
		{fmt.Errorf("wrap: %w", domain.NewInvalidStatusError("recharge", "APPROVED", "PENDING")), http.StatusConflict, "recharge is APPROVED, expected PENDING"},
		{fmt.Errorf("login: %w", domain.ErrPasswordMissMatch), http.StatusUnauthorized, "invalid credentials"},
		{fmt.Errorf("order: %w", domain.ErrNotEnoughBalance), http.StatusPaymentRequired, "insufficient wallet balance"},
		{domain.ErrAccountInactive, http.StatusForbidden, "account inactive"},
		{domain.ErrForbidden, http.StatusForbidden, "forbidden"},
		{fmt.Errorf("find: %w", domain.ErrRecordNotFound), http.StatusNotFound, "not found"},
		{domain.ErrOutOfStock, http.StatusConflict, "product out of stock"},
		{domain.ErrDuplicateKey, http.StatusConflict, "resource already exists"},
		{domain.ErrForeignKeyViolation, http.StatusConflict, "resource is referenced by other records"},
		{domain.ErrTooManyLoginAttempts, http.StatusTooManyRequests, "too many login attempts"},
		{domain.ErrSelfModification, http.StatusBadRequest, domain.ErrSelfModification.Error()},
		{errors.New("boom"), http.StatusInternalServerError, ""},
	}
	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			status, public := serviceErrStatus(tc.err)
			assert.Equal(t, tc.wantStatus, status)
			if tc.wantPublic == "" {
				assert.NoError(t, public)
				return
			}
			assert.EqualError(t, public, tc.wantPublic)
		})
	}
}

func TestPageQuery(t *testing.T) {
	assert.Equal(t, repoargs.Page{Limit: defaultPageLimit}, PageQuery{}.toPage())
	assert.Equal(t, repoargs.Page{Limit: 7, Offset: 14}, PageQuery{Limit: 7, Offset: 14}.toPage())
	assert.Equal(t, repoargs.Page{Limit: maxPageLimit}, PageQuery{Limit: 500}.toPage())
}
