// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package snapshot keeps the stack of captured node states.
package snapshot

import (
	"slices"
)

type entry[T any] struct {
	id      uint64
	capture T
}

// Manager is a stack of captures identified by sequential ids.
// Ids start at 0, strictly increase and are never reused.
// It is not safe for concurrent use.
type Manager[T any] struct {
	stack  []entry[T]
	nextID uint64
}

// New creates an empty manager.
func New[T any]() *Manager[T] {
	return &Manager[T]{}
}

// Take pushes a capture and returns its id.
// The capture must not share mutable data with the live state.
func (m *Manager[T]) Take(capture T) uint64 {
	id := m.nextID
	m.nextID++
	m.stack = append(m.stack, entry[T]{id, capture})
	metricSnapshots().AddWithLabel(1, map[string]string{"op": "take"})
	return id
}

func (m *Manager[T]) find(id uint64) (int, bool) {
	return slices.BinarySearchFunc(m.stack, id, func(e entry[T], id uint64) int {
		switch {
		case e.id < id:
			return -1
		case e.id > id:
			return 1
		default:
			return 0
		}
	})
}

// Revert returns the capture of id and discards id and every later one.
// It returns false without any change if id is not on the stack.
func (m *Manager[T]) Revert(id uint64) (T, bool) {
	i, ok := m.find(id)
	if !ok {
		var zero T
		return zero, false
	}
	capture := m.stack[i].capture
	clear(m.stack[i:])
	m.stack = m.stack[:i]
	metricSnapshots().AddWithLabel(1, map[string]string{"op": "revert"})
	return capture, true
}

// Has returns whether id is on the stack.
func (m *Manager[T]) Has(id uint64) bool {
	_, ok := m.find(id)
	return ok
}

// Len returns the number of outstanding snapshots.
func (m *Manager[T]) Len() int {
	return len(m.stack)
}

// IDs returns the outstanding ids in creation order.
func (m *Manager[T]) IDs() []uint64 {
	ids := make([]uint64, len(m.stack))
	for i, e := range m.stack {
		ids[i] = e.id
	}
	return ids
}

// Clear drops all snapshots. Ids keep increasing afterwards.
func (m *Manager[T]) Clear() {
	clear(m.stack)
	m.stack = nil
}
