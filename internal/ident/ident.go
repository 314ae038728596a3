// Package ident provides a case-insensitive, case-preserving map used
// wherever exprlang resolves symbols: variables, functions, and function
// argument names all normalize to lowercase for lookup while retaining the
// casing the caller last stored under for diagnostics.
package ident

import "strings"

// Map is a generic symbol table keyed case-insensitively on string names.
// The zero value is not usable; construct with NewMap or NewMapWithCapacity.
type Map[V any] struct {
	values   map[string]V
	original map[string]string
}

// NewMap creates an empty Map.
func NewMap[V any]() *Map[V] {
	return &Map[V]{
		values:   make(map[string]V),
		original: make(map[string]string),
	}
}

// NewMapWithCapacity creates an empty Map pre-sized for n entries.
func NewMapWithCapacity[V any](n int) *Map[V] {
	return &Map[V]{
		values:   make(map[string]V, n),
		original: make(map[string]string, n),
	}
}

// Normalize lowercases a symbol the way the map keys itself internally.
func Normalize(name string) string {
	return strings.ToLower(name)
}

// Set stores val under name, normalizing for lookup and overwriting any
// existing entry that differs only in casing.
func (m *Map[V]) Set(name string, val V) {
	key := Normalize(name)
	m.values[key] = val
	m.original[key] = name
}

// SetIfAbsent stores val under name only if no entry (under any casing)
// exists yet. Reports whether the value was stored.
func (m *Map[V]) SetIfAbsent(name string, val V) bool {
	key := Normalize(name)
	if _, ok := m.values[key]; ok {
		return false
	}
	m.values[key] = val
	m.original[key] = name
	return true
}

// Get looks up name case-insensitively.
func (m *Map[V]) Get(name string) (V, bool) {
	v, ok := m.values[Normalize(name)]
	return v, ok
}

// Has reports whether name (case-insensitively) is present.
func (m *Map[V]) Has(name string) bool {
	_, ok := m.values[Normalize(name)]
	return ok
}

// GetOriginalKey returns the casing name was last stored under, or "" if
// absent.
func (m *Map[V]) GetOriginalKey(name string) string {
	return m.original[Normalize(name)]
}

// Delete removes name (case-insensitively), a no-op if absent.
func (m *Map[V]) Delete(name string) {
	key := Normalize(name)
	delete(m.values, key)
	delete(m.original, key)
}

// Len returns the number of stored entries.
func (m *Map[V]) Len() int {
	return len(m.values)
}

// Range calls f for every entry in unspecified order, stopping early if f
// returns false. The name passed to f is the originally-stored casing.
func (m *Map[V]) Range(f func(name string, val V) bool) {
	for key, val := range m.values {
		if !f(m.original[key], val) {
			return
		}
	}
}
