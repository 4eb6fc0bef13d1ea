package service

import (
	"errors"
	"time"

	"github.com/beka-birhanu/vinom-maze/identity"
	"github.com/beka-birhanu/vinom-maze/service/i"
)

const defaultTokenTTL = 12 * time.Hour

var ErrInvalidCredentials = errors.New("invalid operator name or key")

var _ i.Authenticator = &Auth{}

type Auth struct {
	operator  *identity.Operator
	tokenizer i.Tokenizer
	tokenTTL  time.Duration
}

// NewAuthService creates the authenticator of the single configured operator.
func NewAuthService(operator *identity.Operator, tokenizer i.Tokenizer, tokenTTL time.Duration) (*Auth, error) {
	if operator == nil {
		return nil, errors.New("operator is required")
	}
	if tokenizer == nil {
		return nil, errors.New("tokenizer is required")
	}
	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}

	return &Auth{
		operator:  operator,
		tokenizer: tokenizer,
		tokenTTL:  tokenTTL,
	}, nil
}

func (a *Auth) SignIn(name, key string) (string, time.Duration, error) {
	if name != a.operator.Name || !a.operator.VerifyKey(key) {
		return "", 0, ErrInvalidCredentials
	}

	token, err := a.tokenizer.Generate(map[string]interface{}{
		"operator": a.operator.Name,
	}, a.tokenTTL)
	if err != nil {
		return "", 0, err
	}

	return token, a.tokenTTL, nil
}
