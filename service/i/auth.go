package i

import "time"

// Authenticator signs operators in and hands out API tokens.
type Authenticator interface {
	// SignIn verifies the operator key and returns a token with its lifetime.
	SignIn(operator, key string) (string, time.Duration, error)
}
