// Package auth verifies bearer tokens and guards every operation of the API.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// ErrUnauthorized is returned for a missing, malformed or invalid credential.
var ErrUnauthorized = errors.New("Unauthorized")

type ctxKey int

const (
	authorizationKey ctxKey = iota
	claimsKey
)

// WithAuthorization stores the raw authorization header of the request.
func WithAuthorization(ctx context.Context, header string) context.Context {
	return context.WithValue(ctx, authorizationKey, header)
}

func AuthorizationFrom(ctx context.Context) string {
	header, _ := ctx.Value(authorizationKey).(string)
	return header
}

func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ClaimsFrom returns the claims the guard attached to ctx.
func ClaimsFrom(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*Claims)
	return claims, ok
}

type Guard struct {
	verifier *Verifier
	logger   *zap.Logger
}

func NewGuard(verifier *Verifier, logger *zap.Logger) *Guard {
	return &Guard{verifier: verifier, logger: logger}
}

// Authorize verifies the bearer credential found in ctx and returns a
// context carrying its claims.
func (g *Guard) Authorize(ctx context.Context) (context.Context, error) {
	header := AuthorizationFrom(ctx)
	if header == "" {
		return ctx, ErrUnauthorized
	}

	fields := strings.Fields(header)
	if len(fields) < 2 {
		return ctx, fmt.Errorf("%w: malformed authorization header", ErrUnauthorized)
	}

	claims, err := g.verifier.Verify(fields[1])
	if err != nil {
		g.logger.Debug("rejected bearer token", zap.Error(err))
		return ctx, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}

	return WithClaims(ctx, claims), nil
}
