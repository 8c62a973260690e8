// Package auth resolves bearer tokens to caller identities.
//
// It intentionally avoids policy decisions: the custody engine decides what an
// identity may do.
package auth

import (
	"crypto/subtle"
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

var ErrUnauthorized = errors.New("auth: unauthorized")

// Validator authenticates a token and returns the caller it names.
type Validator interface {
	Validate(token string) (common.Address, error)
}

// StaticTokens maps fixed shared tokens to identities.
// It is intended only for development and proofs of concept.
type StaticTokens map[string]common.Address

func (s StaticTokens) Validate(token string) (common.Address, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return common.Address{}, ErrUnauthorized
	}
	for stored, id := range s {
		if stored == "" {
			continue
		}
		if subtle.ConstantTimeCompare([]byte(stored), []byte(token)) == 1 {
			return id, nil
		}
	}
	return common.Address{}, ErrUnauthorized
}

// FuncValidator adapts a function into a Validator.
type FuncValidator func(token string) (common.Address, error)

func (f FuncValidator) Validate(token string) (common.Address, error) {
	return f(token)
}

// Chain tries each validator in order and returns the first identity found.
type Chain []Validator

func (c Chain) Validate(token string) (common.Address, error) {
	for _, v := range c {
		if v == nil {
			continue
		}
		if id, err := v.Validate(token); err == nil {
			return id, nil
		}
	}
	return common.Address{}, ErrUnauthorized
}
