package auth

import (
	"testing"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, claims jwt.MapClaims, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestFromToken(t *testing.T) {
	signed := signToken(t, jwt.MapClaims{"sub": "user-1", "email": "user@example.com"}, "secret")

	p, err := FromToken(signed, "secret")
	require.NoError(t, err)
	assert.Equal(t, "user-1", p.ID)
	assert.Equal(t, "user@example.com", p.Email)
}

func TestFromTokenRejectsWrongSecret(t *testing.T) {
	signed := signToken(t, jwt.MapClaims{"sub": "user-1"}, "secret")

	_, err := FromToken(signed, "other")
	assert.Error(t, err)
}

func TestFromTokenRequiresSubject(t *testing.T) {
	signed := signToken(t, jwt.MapClaims{"email": "user@example.com"}, "secret")

	_, err := FromToken(signed, "secret")
	assert.Error(t, err)
}

func TestFromTokenRejectsGarbage(t *testing.T) {
	_, err := FromToken("not-a-token", "secret")
	assert.Error(t, err)
}

func TestMemoryProviderNotifiesSubscribers(t *testing.T) {
	p := NewMemoryProvider()
	assert.Nil(t, p.Current())

	var seen []*Principal
	unsub := p.Subscribe(func(principal *Principal) {
		seen = append(seen, principal)
	})

	alice := &Principal{ID: "alice"}
	p.SetPrincipal(alice)
	require.Len(t, seen, 1)
	assert.Equal(t, "alice", seen[0].ID)
	assert.Equal(t, "alice", p.Current().ID)

	p.SetPrincipal(nil)
	require.Len(t, seen, 2)
	assert.Nil(t, seen[1])
	assert.Nil(t, p.Current())

	unsub()
	p.SetPrincipal(alice)
	assert.Len(t, seen, 2, "unsubscribed callbacks stop firing")
}
