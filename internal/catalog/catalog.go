package catalog

import (
	"sort"
	"sync/atomic"
)

// ProductInfo is one catalog entry. Weight is grams, Price is integer
// currency units.
type ProductInfo struct {
	ID       int
	Name     string
	Category Category
	Weight   float64
	Price    int
}

// Catalog is the read-only view the judgment core consumes.
type Catalog interface {
	GetProduct(id int) (ProductInfo, bool)
	GetTolerance(id int, fallback float64) float64
}

// Memory is an immutable in-memory catalog snapshot. It is safe for
// concurrent reads; reloads replace the whole snapshot (see Store).
type Memory struct {
	products map[int]ProductInfo
}

func NewMemory(products []ProductInfo) *Memory {
	m := &Memory{products: make(map[int]ProductInfo, len(products))}
	for _, p := range products {
		m.products[p.ID] = p
	}
	return m
}

// NewDefault builds a catalog from the built-in product set.
func NewDefault() *Memory {
	return NewMemory(DefaultProducts())
}

func (m *Memory) GetProduct(id int) (ProductInfo, bool) {
	p, ok := m.products[id]
	return p, ok
}

func (m *Memory) GetTolerance(id int, fallback float64) float64 {
	p, ok := m.products[id]
	if !ok {
		return CategoryUnknown.Tolerance(fallback)
	}
	return p.Category.Tolerance(fallback)
}

func (m *Memory) GetWeight(id int) float64 {
	if p, ok := m.products[id]; ok {
		return p.Weight
	}
	return 0.0
}

func (m *Memory) GetPrice(id int) int {
	if p, ok := m.products[id]; ok {
		return p.Price
	}
	return 0
}

func (m *Memory) GetName(id int) string {
	if p, ok := m.products[id]; ok {
		return p.Name
	}
	return "unknown"
}

func (m *Memory) GetCategory(id int) Category {
	if p, ok := m.products[id]; ok {
		return p.Category
	}
	return CategoryUnknown
}

// Products returns all entries sorted by id, excluding the hand class.
func (m *Memory) Products() []ProductInfo {
	out := make([]ProductInfo, 0, len(m.products))
	for _, p := range m.products {
		if p.ID == 0 {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ProductCount is the number of sellable entries (hand excluded).
func (m *Memory) ProductCount() int {
	n := len(m.products)
	if _, ok := m.products[0]; ok {
		n--
	}
	return n
}

// SearchByWeight returns products whose unit weight lies within
// target*(1±tolerance). Zero-weight entries and the hand class are skipped.
func (m *Memory) SearchByWeight(target, tolerance float64) []ProductInfo {
	minW := target * (1 - tolerance)
	maxW := target * (1 + tolerance)

	var matches []ProductInfo
	for _, p := range m.Products() {
		if p.Weight <= 0 {
			continue
		}
		if p.Weight >= minW && p.Weight <= maxW {
			matches = append(matches, p)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].ID < matches[j].ID })
	return matches
}

// Store holds the current catalog snapshot and swaps it atomically on
// reload, so in-flight judgments keep reading a consistent catalog.
type Store struct {
	current atomic.Pointer[Memory]
}

func NewStore(initial *Memory) *Store {
	s := &Store{}
	s.current.Store(initial)
	return s
}

func (s *Store) Snapshot() *Memory {
	return s.current.Load()
}

func (s *Store) Swap(next *Memory) {
	s.current.Store(next)
}

func (s *Store) GetProduct(id int) (ProductInfo, bool) {
	return s.Snapshot().GetProduct(id)
}

func (s *Store) GetTolerance(id int, fallback float64) float64 {
	return s.Snapshot().GetTolerance(id, fallback)
}
