package remote

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nickagee13/pantry-path/internal/auth"
	"github.com/nickagee13/pantry-path/internal/store"
)

func TestChangeBusScopesByPrincipalAndCollection(t *testing.T) {
	bus := NewChangeBus()
	alice := auth.Principal{ID: "alice"}
	bob := auth.Principal{ID: "bob"}

	var aliceGrocery, aliceInventory, bobGrocery int
	bus.Subscribe(alice, store.CollectionGrocery, func() { aliceGrocery++ })
	bus.Subscribe(alice, store.CollectionInventory, func() { aliceInventory++ })
	bus.Subscribe(bob, store.CollectionGrocery, func() { bobGrocery++ })

	bus.Notify("alice", store.CollectionGrocery)

	assert.Equal(t, 1, aliceGrocery)
	assert.Equal(t, 0, aliceInventory, "other collections stay quiet")
	assert.Equal(t, 0, bobGrocery, "other principals stay quiet")
}

func TestChangeBusUnsubscribe(t *testing.T) {
	bus := NewChangeBus()
	p := auth.Principal{ID: "alice"}

	var calls int
	unsub := bus.Subscribe(p, store.CollectionStores, func() { calls++ })

	bus.Notify("alice", store.CollectionStores)
	unsub()
	bus.Notify("alice", store.CollectionStores)

	assert.Equal(t, 1, calls)
}

func TestChangeBusMultipleSubscribers(t *testing.T) {
	bus := NewChangeBus()
	p := auth.Principal{ID: "alice"}

	var a, b int
	bus.Subscribe(p, store.CollectionGrocery, func() { a++ })
	bus.Subscribe(p, store.CollectionGrocery, func() { b++ })

	bus.Notify("alice", store.CollectionGrocery)

	assert.Equal(t, 1, a)
	assert.Equal(t, 1, b)
}

func TestChangeBusNotifyWithNoSubscribers(t *testing.T) {
	bus := NewChangeBus()
	assert.NotPanics(t, func() {
		bus.Notify("nobody", store.CollectionGrocery)
	})
}
