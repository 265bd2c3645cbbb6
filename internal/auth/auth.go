// Package auth provides the principal under which all entity reads and
// writes are scoped. Credential management itself lives elsewhere; the
// engine only consumes the current-principal signal.
package auth

import (
	"errors"
	"sync"

	"github.com/dgrijalva/jwt-go"
)

// Principal identifies the authenticated user context.
type Principal struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
}

// Provider reports the current principal and notifies on changes. A nil
// principal means not authenticated.
type Provider interface {
	Current() *Principal
	// Subscribe registers a callback invoked on sign-in and sign-out.
	// The returned func unsubscribes.
	Subscribe(fn func(*Principal)) func()
}

// FromToken parses a bearer token into a principal using the shared secret.
func FromToken(tokenString, secret string) (*Principal, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, errors.New("token has no subject")
	}
	email, _ := claims["email"].(string)
	return &Principal{ID: sub, Email: email}, nil
}

// MemoryProvider is an in-process provider. It backs tests and the server,
// which sets the principal per request from the parsed token.
type MemoryProvider struct {
	mu        sync.RWMutex
	principal *Principal
	subs      map[int]func(*Principal)
	nextSub   int
}

// NewMemoryProvider creates a provider with no signed-in principal.
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{subs: make(map[int]func(*Principal))}
}

// Current returns the signed-in principal, or nil.
func (p *MemoryProvider) Current() *Principal {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.principal
}

// SetPrincipal signs a principal in (or out, with nil) and notifies
// subscribers.
func (p *MemoryProvider) SetPrincipal(principal *Principal) {
	p.mu.Lock()
	p.principal = principal
	subs := make([]func(*Principal), 0, len(p.subs))
	for _, fn := range p.subs {
		subs = append(subs, fn)
	}
	p.mu.Unlock()

	for _, fn := range subs {
		fn(principal)
	}
}

// Subscribe registers a change callback.
func (p *MemoryProvider) Subscribe(fn func(*Principal)) func() {
	p.mu.Lock()
	defer p.mu.Unlock()

	id := p.nextSub
	p.nextSub++
	p.subs[id] = fn
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.subs, id)
	}
}
