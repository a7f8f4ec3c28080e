package mocks

import (
	"context"
	"sync"

	"github.com/sharebite/sharebite-api/internal/service/auth"
)

// MockIdentityVerifier implements auth.IdentityVerifier for testing.
type MockIdentityVerifier struct {
	VerifyFn func(ctx context.Context, token string) (*auth.Identity, error)

	// Tokens maps accepted tokens to the identity they verify as. Used when
	// VerifyFn is nil; any other token fails with auth.ErrInvalidToken.
	Tokens map[string]*auth.Identity

	mu   sync.Mutex
	seen []string
}

var _ auth.IdentityVerifier = (*MockIdentityVerifier)(nil)

// Verify implements auth.IdentityVerifier.
func (m *MockIdentityVerifier) Verify(ctx context.Context, token string) (*auth.Identity, error) {
	m.mu.Lock()
	m.seen = append(m.seen, token)
	m.mu.Unlock()

	if m.VerifyFn != nil {
		return m.VerifyFn(ctx, token)
	}
	if token == "" {
		return nil, auth.ErrMissingToken
	}
	if identity, ok := m.Tokens[token]; ok {
		return identity, nil
	}
	return nil, auth.ErrInvalidToken
}

// Seen returns the tokens passed to Verify, in call order.
func (m *MockIdentityVerifier) Seen() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.seen...)
}
