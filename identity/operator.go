package identity

import (
	"errors"
	"regexp"

	"github.com/nbutton23/zxcvbn-go"
	"golang.org/x/crypto/bcrypt"
)

const (
	minKeyStrengthScore = 3

	namePattern   = `^[a-zA-Z0-9_]+$` // Alphanumeric with underscores
	minNameLength = 3
	maxNameLength = 20

	keyHashCost = 12
)

var (
	nameRegex = regexp.MustCompile(namePattern)

	ErrInvalidKeyHash = errors.New("operator key hash is not a bcrypt hash")
)

// Operator is the single account allowed to drive the maze engine.
type Operator struct {
	Name    string
	KeyHash string
}

// NewOperator creates an Operator from its name and the bcrypt hash of its key.
func NewOperator(name, keyHash string) (*Operator, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if _, err := bcrypt.Cost([]byte(keyHash)); err != nil {
		return nil, ErrInvalidKeyHash
	}

	return &Operator{
		Name:    name,
		KeyHash: keyHash,
	}, nil
}

// VerifyKey verifies if the given key matches the stored hash.
func (o *Operator) VerifyKey(key string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(o.KeyHash), []byte(key))
	return err == nil
}

// HashKey checks the strength of key and returns its bcrypt hash, ready for
// the OPERATOR_KEY_HASH variable.
func HashKey(key string) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(key), keyHashCost)
	return string(bytes), err
}

// validateName validates the operator name.
func validateName(name string) error {
	if len(name) < minNameLength {
		return errors.New("operator name too short")
	}
	if len(name) > maxNameLength {
		return errors.New("operator name too long")
	}
	if !nameRegex.MatchString(name) {
		return errors.New("invalid operator name format")
	}
	return nil
}

// validateKey checks the strength of the key.
func validateKey(key string) error {
	result := zxcvbn.PasswordStrength(key, nil)
	if result.Score < minKeyStrengthScore {
		return errors.New("weak operator key")
	}
	return nil
}
