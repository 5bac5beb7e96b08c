package errs_test

import (
	"net/http"
	"testing"

	"github.com/Astemirdum/library-circulation/circulation/internal/errs"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		code int
	}{
		{name: "out of stock", err: errors.Wrap(errs.ErrOutOfStock, "book b-1"), code: http.StatusConflict},
		{name: "catalog edit against loans", err: errors.Wrapf(errs.ErrInvariantViolation, "book %s", "b-1"), code: http.StatusConflict},
		{name: "not owner", err: errs.ErrNotOwner, code: http.StatusForbidden},
		{name: "invalid argument", err: errors.Wrap(errs.ErrInvalidArgument, "empty id"), code: http.StatusBadRequest},
		{name: "unknown", err: errors.New("connection reset"), code: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.code, errs.HTTPStatus(tt.err))
			require.NotEmpty(t, errs.Message(tt.err))
		})
	}
}
