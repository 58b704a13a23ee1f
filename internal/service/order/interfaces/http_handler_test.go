package interfaces

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"mycelium/internal/pkg/lock"
	"mycelium/internal/pkg/validation"
	cartdomain "mycelium/internal/service/cart/domain"
	catalogdomain "mycelium/internal/service/catalog/domain"
	"mycelium/internal/service/order/domain"
)

func TestWriteError(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{domain.ErrOrderNotFound, http.StatusNotFound},
		{fmt.Errorf("%w: bad email", validation.ErrInvalidRequest), http.StatusBadRequest},
		{cartdomain.ErrEmptyCart, http.StatusBadRequest},
		{fmt.Errorf("%w: \"Narnia\"", domain.ErrShippingUndetermined), http.StatusUnprocessableEntity},
		{fmt.Errorf("reserve product 1: %w", catalogdomain.ErrInsufficientStock), http.StatusConflict},
		{domain.ErrInvalidTransition, http.StatusConflict},
		{lock.ErrLockTimeout, http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		writeError(rec, tc.err)
		assert.Equal(t, tc.want, rec.Code, tc.err.Error())
	}
}
