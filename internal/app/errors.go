package app

import (
	"errors"
	"net/http"

	"github.com/atcnagpur/contentadmin/internal/records"
	"github.com/atcnagpur/contentadmin/internal/synchronizer"
)

var (
	errInvalidID      = errors.New("record id must be a positive integer")
	errInvalidVisible = errors.New("visible must be a boolean")
)

func errorStatus(err error) int {
	var (
		validationErr *synchronizer.ValidationError
		notFoundErr   *synchronizer.NotFoundError
		networkErr    *synchronizer.NetworkError
		serverErr     *synchronizer.ServerError
	)

	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.As(err, &notFoundErr), errors.Is(err, synchronizer.ErrUnknownToken):
		return http.StatusNotFound
	case errors.Is(err, synchronizer.ErrBusy), errors.Is(err, synchronizer.ErrStaleResponse):
		return http.StatusConflict
	case errors.As(err, &networkErr):
		return http.StatusGatewayTimeout
	case errors.As(err, &serverErr), errors.Is(err, records.ErrNormalization):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
