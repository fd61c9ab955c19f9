package auth

import "errors"

// Token validation failures. The auth middleware maps all of them to 401.
var (
	ErrInvalidToken     = errors.New("invalid authentication token")
	ErrExpiredToken     = errors.New("authentication token has expired")
	ErrTokenNotYetValid = errors.New("authentication token not yet valid")
	ErrMissingToken     = errors.New("authentication token is missing")

	// ErrMissingLearner means the signature checked out but the uid claim
	// is absent or not a learner id.
	ErrMissingLearner = errors.New("authentication token has no learner id")
)
