package gp

import "errors"

var (
	// ErrDimensionMismatch is returned when an input does not have the
	// dimension of the observations already held by the model.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrNotPositiveDefinite is returned when the kernel matrix cannot be
	// Cholesky factorized, usually because of duplicate inputs and no noise.
	ErrNotPositiveDefinite = errors.New("kernel matrix is not positive definite")

	// ErrNotFitted is returned by Predict when observations exist but the
	// last factorization failed.
	ErrNotFitted = errors.New("model is not fitted")
)
