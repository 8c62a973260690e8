package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidSubject = errors.New("auth: subject is not an address")

// JWT issues and validates HS256 tokens whose subject is the caller address.
type JWT struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
	Now    func() time.Time
}

func (j JWT) now() time.Time {
	if j.Now != nil {
		return j.Now()
	}
	return time.Now()
}

// Issue mints a token for subject.
func (j JWT) Issue(subject common.Address) (string, error) {
	if len(j.Secret) == 0 {
		return "", fmt.Errorf("%w: missing secret", ErrUnauthorized)
	}
	now := j.now()
	claims := jwt.RegisteredClaims{
		Subject:  subject.Hex(),
		Issuer:   j.Issuer,
		IssuedAt: jwt.NewNumericDate(now),
	}
	if j.TTL > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(j.TTL))
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.Secret)
}

func (j JWT) Validate(token string) (common.Address, error) {
	if len(j.Secret) == 0 || strings.TrimSpace(token) == "" {
		return common.Address{}, ErrUnauthorized
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(j.now),
	}
	if j.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(j.Issuer))
	}
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return j.Secret, nil
	}, opts...)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	if !common.IsHexAddress(claims.Subject) {
		return common.Address{}, fmt.Errorf("%w: %w", ErrUnauthorized, ErrInvalidSubject)
	}
	return common.HexToAddress(claims.Subject), nil
}
