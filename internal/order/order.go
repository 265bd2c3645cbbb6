// Package order maintains the canonical store sequence and the interactive
// drag-reorder protocol over it.
package order

import (
	"context"
	"sync"
)

// Sequence reads the canonical store order.
type Sequence interface {
	StoreOrder() []string
}

// Reorderer persists a full permutation of the store order.
type Reorderer interface {
	ReorderStores(ctx context.Context, order []string) error
}

// Manager tracks an in-progress drag. The canonical order is never touched
// while the drag is live; only a completed drop computes and persists the
// new permutation. An interrupted drag leaves everything unchanged.
type Manager struct {
	seq     Sequence
	reorder Reorderer

	mu       sync.Mutex
	dragging bool
	dragged  string
	over     string
}

// NewManager creates a manager over the given sequence and persister.
func NewManager(seq Sequence, reorder Reorderer) *Manager {
	return &Manager{seq: seq, reorder: reorder}
}

// BeginDrag starts tracking a drag of the named store.
func (m *Manager) BeginDrag(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dragging = true
	m.dragged = name
	m.over = ""
}

// DragOver records the store currently under the pointer.
func (m *Manager) DragOver(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.dragging {
		return
	}
	m.over = name
}

// Cancel abandons the drag without changing the order.
func (m *Manager) Cancel() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reset()
}

// Dragging reports the identity being dragged, if a drag is live.
func (m *Manager) Dragging() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dragged, m.dragging
}

// Drop completes the drag: the dragged store is removed from its old
// position and reinserted at the target position, and the whole new order
// is persisted in one batch. A drop with no target, or onto itself, is a
// no-op.
func (m *Manager) Drop(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	dragged, over, live := m.dragged, m.over, m.dragging
	m.reset()
	m.mu.Unlock()

	order := m.seq.StoreOrder()
	if !live || over == "" || dragged == over {
		return order, nil
	}

	from, to := indexOf(order, dragged), indexOf(order, over)
	if from < 0 || to < 0 {
		return order, nil
	}

	next := make([]string, 0, len(order))
	next = append(next, order[:from]...)
	next = append(next, order[from+1:]...)
	if to > len(next) {
		to = len(next)
	}
	next = append(next[:to:to], append([]string{dragged}, next[to:]...)...)

	if err := m.reorder.ReorderStores(ctx, next); err != nil {
		return order, err
	}
	return next, nil
}

func (m *Manager) reset() {
	m.dragging = false
	m.dragged = ""
	m.over = ""
}

func indexOf(order []string, name string) int {
	for i, n := range order {
		if n == name {
			return i
		}
	}
	return -1
}
