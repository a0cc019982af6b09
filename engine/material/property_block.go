package material

import (
	"sort"
	"sync"
)

// PropertyBlock is a per-instance table of float overrides applied on top of a shared Material.
// Writing to a block never alters the material it is drawn with.
type PropertyBlock struct {
	mu     sync.RWMutex
	floats map[string]float32
}

// NewPropertyBlock creates an empty property block.
//
// Returns:
//   - *PropertyBlock: the new block
func NewPropertyBlock() *PropertyBlock {
	return &PropertyBlock{floats: make(map[string]float32)}
}

// SetFloat stores a float override.
//
// Parameters:
//   - name: the property name
//   - value: the value
func (b *PropertyBlock) SetFloat(name string, value float32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.floats[name] = value
}

// Float returns a float override.
//
// Parameters:
//   - name: the property name
//
// Returns:
//   - float32: the value, or 0
//   - bool: false if the property is not set
func (b *PropertyBlock) Float(name string) (float32, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	v, ok := b.floats[name]
	return v, ok
}

// Names returns the set property names in sorted order.
//
// Returns:
//   - []string: the property names
func (b *PropertyBlock) Names() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	names := make([]string, 0, len(b.floats))
	for k := range b.floats {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Clone returns an independent copy of the block.
//
// Returns:
//   - *PropertyBlock: the copy
func (b *PropertyBlock) Clone() *PropertyBlock {
	b.mu.RLock()
	defer b.mu.RUnlock()
	c := NewPropertyBlock()
	for k, v := range b.floats {
		c.floats[k] = v
	}
	return c
}
