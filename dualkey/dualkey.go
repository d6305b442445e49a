// Package dualkey provides an associative container addressable by either of
// two keys. Every entry carries a key pair (k1, k2); both keys are unique
// across the map and permanently paired: inserting a key that already exists
// with a different partner is a conflict, not an overwrite.
package dualkey

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrNotFound is wrapped by lookups and removals of absent keys.
var ErrNotFound = errors.New("dualkey: entry not found")

// ErrConflict is wrapped when an insert or key change would break the
// pairing invariant.
var ErrConflict = errors.New("dualkey: key conflict")

// Map is the dual-keyed container. The zero value is not usable; construct
// with New or the From helpers.
type Map[K1 comparable, K2 comparable, V any] struct {
	values map[K1]V
	k1ToK2 map[K1]K2
	k2ToK1 map[K2]K1
}

// Entry is one (key1, key2, value) triple.
type Entry[K1 comparable, K2 comparable, V any] struct {
	Key1  K1
	Key2  K2
	Value V
}

// AnyEntry is the type-erased form of Entry, used by the pretty printer.
type AnyEntry struct {
	Key1  any
	Key2  any
	Value any
}

// New returns an empty map.
func New[K1 comparable, K2 comparable, V any]() *Map[K1, K2, V] {
	return &Map[K1, K2, V]{
		values: map[K1]V{},
		k1ToK2: map[K1]K2{},
		k2ToK1: map[K2]K1{},
	}
}

// FromPairs builds a map where key1 and key2 are the same key.
func FromPairs[K comparable, V any](pairs map[K]V) (*Map[K, K, V], error) {
	m := New[K, K, V]()
	for k, v := range pairs {
		if err := m.Set(k, k, v); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// FromKeys builds a map where every (key1, key2) pair shares one value.
func FromKeys[K1 comparable, K2 comparable, V any](keys map[K1]K2, value V) (*Map[K1, K2, V], error) {
	m := New[K1, K2, V]()
	for k1, k2 := range keys {
		if err := m.Set(k1, k2, value); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Set inserts or overwrites the entry for the pair (key1, key2). Either key
// already paired with a different partner is a conflict.
func (m *Map[K1, K2, V]) Set(key1 K1, key2 K2, value V) error {
	hasK1 := m.HasKey1(key1)
	hasK2 := m.HasKey2(key2)
	switch {
	case hasK1 && !hasK2:
		return fmt.Errorf("%w: key1 %v already exists with different key2 %v", ErrConflict, key1, m.k1ToK2[key1])
	case hasK2 && !hasK1:
		return fmt.Errorf("%w: key2 %v already exists with different key1 %v", ErrConflict, key2, m.k2ToK1[key2])
	case hasK1 && m.k1ToK2[key1] != key2:
		return fmt.Errorf("%w: key1 %v exists with different key2 %v", ErrConflict, key1, m.k1ToK2[key1])
	}
	m.values[key1] = value
	m.k1ToK2[key1] = key2
	m.k2ToK1[key2] = key1
	return nil
}

// UpdateByKey1 replaces the value of an existing entry; it cannot add one.
func (m *Map[K1, K2, V]) UpdateByKey1(key1 K1, value V) error {
	if !m.HasKey1(key1) {
		return fmt.Errorf("%w: key1 %v (UpdateByKey1 cannot add entries, use Set)", ErrNotFound, key1)
	}
	m.values[key1] = value
	return nil
}

// UpdateByKey2 replaces the value of an existing entry; it cannot add one.
func (m *Map[K1, K2, V]) UpdateByKey2(key2 K2, value V) error {
	key1, ok := m.k2ToK1[key2]
	if !ok {
		return fmt.Errorf("%w: key2 %v (UpdateByKey2 cannot add entries, use Set)", ErrNotFound, key2)
	}
	m.values[key1] = value
	return nil
}

// GetByKey1 returns the value for key1.
func (m *Map[K1, K2, V]) GetByKey1(key1 K1) (V, bool) {
	v, ok := m.values[key1]
	return v, ok
}

// GetByKey2 returns the value for key2.
func (m *Map[K1, K2, V]) GetByKey2(key2 K2) (V, bool) {
	key1, ok := m.k2ToK1[key2]
	if !ok {
		var zero V
		return zero, false
	}
	return m.values[key1], true
}

// GetByKey1Or returns the value for key1, or def when absent.
func (m *Map[K1, K2, V]) GetByKey1Or(key1 K1, def V) V {
	if v, ok := m.GetByKey1(key1); ok {
		return v
	}
	return def
}

// GetByKey2Or returns the value for key2, or def when absent.
func (m *Map[K1, K2, V]) GetByKey2Or(key2 K2, def V) V {
	if v, ok := m.GetByKey2(key2); ok {
		return v
	}
	return def
}

// PopByKey1 removes the entry for key1 and returns its value.
func (m *Map[K1, K2, V]) PopByKey1(key1 K1) (V, bool) {
	key2, ok := m.k1ToK2[key1]
	if !ok {
		var zero V
		return zero, false
	}
	v := m.values[key1]
	delete(m.k1ToK2, key1)
	delete(m.k2ToK1, key2)
	delete(m.values, key1)
	return v, true
}

// PopByKey2 removes the entry for key2 and returns its value.
func (m *Map[K1, K2, V]) PopByKey2(key2 K2) (V, bool) {
	key1, ok := m.k2ToK1[key2]
	if !ok {
		var zero V
		return zero, false
	}
	v := m.values[key1]
	delete(m.k1ToK2, key1)
	delete(m.k2ToK1, key2)
	delete(m.values, key1)
	return v, true
}

// PopByKey1Or removes the entry for key1, returning def when absent.
func (m *Map[K1, K2, V]) PopByKey1Or(key1 K1, def V) V {
	if v, ok := m.PopByKey1(key1); ok {
		return v
	}
	return def
}

// PopByKey2Or removes the entry for key2, returning def when absent.
func (m *Map[K1, K2, V]) PopByKey2Or(key2 K2, def V) V {
	if v, ok := m.PopByKey2(key2); ok {
		return v
	}
	return def
}

// DeleteByKey1 removes the entry for key1, reporting whether it existed.
func (m *Map[K1, K2, V]) DeleteByKey1(key1 K1) bool {
	_, ok := m.PopByKey1(key1)
	return ok
}

// DeleteByKey2 removes the entry for key2, reporting whether it existed.
func (m *Map[K1, K2, V]) DeleteByKey2(key2 K2) bool {
	_, ok := m.PopByKey2(key2)
	return ok
}

// ChangeKey1ByKey2 re-keys the entry found via key2 to a new key1, keeping
// key2 and value.
func (m *Map[K1, K2, V]) ChangeKey1ByKey2(key2 K2, newKey1 K1) error {
	if !m.HasKey2(key2) {
		return fmt.Errorf("%w: key2 %v", ErrNotFound, key2)
	}
	if m.HasKey1(newKey1) {
		return fmt.Errorf("%w: new key1 %v already exists with different key2 %v", ErrConflict, newKey1, m.k1ToK2[newKey1])
	}
	v, _ := m.PopByKey2(key2)
	return m.Set(newKey1, key2, v)
}

// ChangeKey2ByKey1 re-keys the entry found via key1 to a new key2, keeping
// key1 and value.
func (m *Map[K1, K2, V]) ChangeKey2ByKey1(key1 K1, newKey2 K2) error {
	if !m.HasKey1(key1) {
		return fmt.Errorf("%w: key1 %v", ErrNotFound, key1)
	}
	if m.HasKey2(newKey2) {
		return fmt.Errorf("%w: new key2 %v already exists with different key1 %v", ErrConflict, newKey2, m.k2ToK1[newKey2])
	}
	v, _ := m.PopByKey1(key1)
	return m.Set(key1, newKey2, v)
}

// ChangeBothByKey1 replaces both keys of the entry found via oldKey1.
func (m *Map[K1, K2, V]) ChangeBothByKey1(oldKey1 K1, newKey1 K1, newKey2 K2) error {
	if !m.HasKey1(oldKey1) {
		return fmt.Errorf("%w: old key1 %v", ErrNotFound, oldKey1)
	}
	if err := m.checkNewPair(newKey1, newKey2, oldKey1, m.k1ToK2[oldKey1]); err != nil {
		return err
	}
	v, _ := m.PopByKey1(oldKey1)
	return m.Set(newKey1, newKey2, v)
}

// ChangeBothByKey2 replaces both keys of the entry found via oldKey2.
func (m *Map[K1, K2, V]) ChangeBothByKey2(oldKey2 K2, newKey1 K1, newKey2 K2) error {
	if !m.HasKey2(oldKey2) {
		return fmt.Errorf("%w: old key2 %v", ErrNotFound, oldKey2)
	}
	if err := m.checkNewPair(newKey1, newKey2, m.k2ToK1[oldKey2], oldKey2); err != nil {
		return err
	}
	v, _ := m.PopByKey2(oldKey2)
	return m.Set(newKey1, newKey2, v)
}

// checkNewPair rejects new keys already taken by entries other than the one
// being re-keyed.
func (m *Map[K1, K2, V]) checkNewPair(newKey1 K1, newKey2 K2, oldKey1 K1, oldKey2 K2) error {
	if m.HasKey1(newKey1) && newKey1 != oldKey1 {
		return fmt.Errorf("%w: new key1 %v already exists with different key2 %v", ErrConflict, newKey1, m.k1ToK2[newKey1])
	}
	if m.HasKey2(newKey2) && newKey2 != oldKey2 {
		return fmt.Errorf("%w: new key2 %v already exists with different key1 %v", ErrConflict, newKey2, m.k2ToK1[newKey2])
	}
	return nil
}

// HasKey1 reports whether key1 exists.
func (m *Map[K1, K2, V]) HasKey1(key1 K1) bool {
	_, ok := m.values[key1]
	return ok
}

// HasKey2 reports whether key2 exists.
func (m *Map[K1, K2, V]) HasKey2(key2 K2) bool {
	_, ok := m.k2ToK1[key2]
	return ok
}

// Key2ForKey1 returns the key2 paired with key1.
func (m *Map[K1, K2, V]) Key2ForKey1(key1 K1) (K2, bool) {
	k2, ok := m.k1ToK2[key1]
	return k2, ok
}

// Key1ForKey2 returns the key1 paired with key2.
func (m *Map[K1, K2, V]) Key1ForKey2(key2 K2) (K1, bool) {
	k1, ok := m.k2ToK1[key2]
	return k1, ok
}

// Keys1 returns all key1 values, in map order.
func (m *Map[K1, K2, V]) Keys1() []K1 {
	out := make([]K1, 0, len(m.values))
	for k := range m.values {
		out = append(out, k)
	}
	return out
}

// Keys2 returns all key2 values, in map order.
func (m *Map[K1, K2, V]) Keys2() []K2 {
	out := make([]K2, 0, len(m.k2ToK1))
	for k := range m.k2ToK1 {
		out = append(out, k)
	}
	return out
}

// KeyPair is one (key1, key2) pairing without its value.
type KeyPair[K1 comparable, K2 comparable] struct {
	Key1 K1
	Key2 K2
}

// Pairs returns all key pairings, in map order.
func (m *Map[K1, K2, V]) Pairs() []KeyPair[K1, K2] {
	out := make([]KeyPair[K1, K2], 0, len(m.k1ToK2))
	for k1, k2 := range m.k1ToK2 {
		out = append(out, KeyPair[K1, K2]{Key1: k1, Key2: k2})
	}
	return out
}

// Items1 returns a key1 -> value snapshot.
func (m *Map[K1, K2, V]) Items1() map[K1]V {
	out := make(map[K1]V, len(m.values))
	for k1, v := range m.values {
		out[k1] = v
	}
	return out
}

// Items2 returns a key2 -> value snapshot.
func (m *Map[K1, K2, V]) Items2() map[K2]V {
	out := make(map[K2]V, len(m.k2ToK1))
	for k2, k1 := range m.k2ToK1 {
		out[k2] = m.values[k1]
	}
	return out
}

// Values returns all values, in map order.
func (m *Map[K1, K2, V]) Values() []V {
	out := make([]V, 0, len(m.values))
	for _, v := range m.values {
		out = append(out, v)
	}
	return out
}

// Entries returns all (key1, key2, value) triples, in map order.
func (m *Map[K1, K2, V]) Entries() []Entry[K1, K2, V] {
	out := make([]Entry[K1, K2, V], 0, len(m.values))
	for k1, k2 := range m.k1ToK2 {
		out = append(out, Entry[K1, K2, V]{Key1: k1, Key2: k2, Value: m.values[k1]})
	}
	return out
}

// AnyEntries returns the entries type-erased; it exists so non-generic code
// (the pretty printer) can consume any Map instantiation.
func (m *Map[K1, K2, V]) AnyEntries() []AnyEntry {
	out := make([]AnyEntry, 0, len(m.values))
	for k1, k2 := range m.k1ToK2 {
		out = append(out, AnyEntry{Key1: k1, Key2: k2, Value: m.values[k1]})
	}
	return out
}

// Len returns the number of entries.
func (m *Map[K1, K2, V]) Len() int { return len(m.values) }

// Clear removes all entries.
func (m *Map[K1, K2, V]) Clear() {
	m.values = map[K1]V{}
	m.k1ToK2 = map[K1]K2{}
	m.k2ToK1 = map[K2]K1{}
}

// Clone returns a shallow copy.
func (m *Map[K1, K2, V]) Clone() *Map[K1, K2, V] {
	out := New[K1, K2, V]()
	for k1, v := range m.values {
		out.values[k1] = v
	}
	for k1, k2 := range m.k1ToK2 {
		out.k1ToK2[k1] = k2
		out.k2ToK1[k2] = k1
	}
	return out
}

// Merge copies every entry of other into m. A key of other already present
// with a different partner key is a conflict; entries whose key pair matches
// overwrite the value.
func (m *Map[K1, K2, V]) Merge(other *Map[K1, K2, V]) error {
	for _, e := range other.Entries() {
		if err := m.Set(e.Key1, e.Key2, e.Value); err != nil {
			return err
		}
	}
	return nil
}

// Merged returns a new map holding the merge of m and other.
func (m *Map[K1, K2, V]) Merged(other *Map[K1, K2, V]) (*Map[K1, K2, V], error) {
	out := m.Clone()
	if err := out.Merge(other); err != nil {
		return nil, err
	}
	return out, nil
}

// Equal reports whether both maps hold the same key pairs and values.
func (m *Map[K1, K2, V]) Equal(other *Map[K1, K2, V]) bool {
	if m.Len() != other.Len() {
		return false
	}
	for k1, k2 := range m.k1ToK2 {
		ok2, ok := other.k1ToK2[k1]
		if !ok || ok2 != k2 {
			return false
		}
		if !reflect.DeepEqual(m.values[k1], other.values[k1]) {
			return false
		}
	}
	return true
}
