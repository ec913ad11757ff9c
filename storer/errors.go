package storer

import (
	"errors"

	"github.com/m-mizutani/goerr/v2"
)

var (
	ErrNotFound          = errors.New("recipe not found")
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
	ErrStoreFailure      = errors.New("store failure")
)

// CheckDimensions rejects vectors whose length differs from the store's.
func CheckDimensions(options Options, vector []float32) error {
	if len(vector) != options.Dimensions {
		return goerr.Wrap(
			ErrDimensionMismatch,
			"vector length does not match store",
			goerr.V("want", options.Dimensions),
			goerr.V("got", len(vector)),
		)
	}
	return nil
}

// Failure wraps a driver error as ErrStoreFailure.
func Failure(err error, msg string, opts ...goerr.Option) error {
	return goerr.Wrap(errors.Join(ErrStoreFailure, err), msg, opts...)
}
