// Package auth issues and verifies the bearer tokens the HTTP layer trusts.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/garyjia/expense-approval/internal/application/service"
	"github.com/garyjia/expense-approval/internal/domain/entity"
)

// ErrInvalidToken covers malformed, expired and mis-signed tokens.
var ErrInvalidToken = errors.New("invalid authorization token")

// Claims carried by issued tokens. Subject holds the employee UUID.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies HS256 tokens for authenticated employees.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

// NewIssuer creates a token issuer. The secret must not be blank.
func NewIssuer(secret string, ttl time.Duration) (*Issuer, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is blank")
	}
	return &Issuer{secret: []byte(secret), ttl: ttl}, nil
}

// IssueToken signs a token asserting the employee's identity and role
func (i *Issuer) IssueToken(employee *entity.Employee) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: string(employee.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   employee.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken validates a bearer token and returns the actor it asserts
func (i *Issuer) VerifyToken(tokenString string) (*service.Actor, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, ErrInvalidToken
	}

	employeeID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrInvalidToken
	}
	role, err := entity.ParseRole(claims.Role)
	if err != nil {
		return nil, ErrInvalidToken
	}

	return &service.Actor{EmployeeID: employeeID, Role: role}, nil
}
