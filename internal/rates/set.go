package rates

import (
	"errors"
	"fmt"
	"sync/atomic"
)

var (
	ErrNoTable  = errors.New("no rate table")
	ErrNoLimits = errors.New("no eligibility limits")
)

// Set is one immutable, versioned generation of rate tables and limits.
type Set struct {
	Version string
	tables  map[TableKey]*Table
	limits  map[Product]Limits
}

// NewSet indexes and validates tables and limits.
func NewSet(version string, tables []*Table, limits []Limits) (*Set, error) {
	s := &Set{
		Version: version,
		tables:  make(map[TableKey]*Table, len(tables)),
		limits:  make(map[Product]Limits, len(limits)),
	}
	for _, t := range tables {
		if _, dup := s.tables[t.Key]; dup {
			return nil, fmt.Errorf("duplicate table %s", t.Key)
		}
		s.tables[t.Key] = t
	}
	for _, l := range limits {
		if _, dup := s.limits[l.Product]; dup {
			return nil, fmt.Errorf("duplicate limits for %s", l.Product)
		}
		s.limits[l.Product] = l
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks every table and limit schedule, and that each product with
// a table also has limits.
func (s *Set) Validate() error {
	for _, t := range s.tables {
		if err := t.validate(); err != nil {
			return err
		}
		if _, ok := s.limits[t.Key.Product]; !ok {
			return fmt.Errorf("table %s: %w", t.Key, ErrNoLimits)
		}
	}
	for _, l := range s.limits {
		if err := l.validate(); err != nil {
			return err
		}
	}
	return nil
}

// Resolve picks the table for a request. A tobacco request falls back to the
// non-tobacco table when no tobacco table exists; proxy reports that case.
func (s *Set) Resolve(p Product, style PolicyStyle, tobacco bool) (t *Table, proxy bool, err error) {
	if t, ok := s.tables[TableKey{p, style, tobacco}]; ok {
		return t, false, nil
	}
	if tobacco {
		if t, ok := s.tables[TableKey{p, style, false}]; ok {
			return t, true, nil
		}
	}
	return nil, false, fmt.Errorf("%w for %s", ErrNoTable, TableKey{p, style, tobacco})
}

func (s *Set) Limits(p Product) (Limits, error) {
	l, ok := s.limits[p]
	if !ok {
		return Limits{}, fmt.Errorf("%w for %s", ErrNoLimits, p)
	}
	return l, nil
}

// Tables returns the tables ordered by product, style, then tobacco use.
func (s *Set) Tables() []*Table {
	out := make([]*Table, 0, len(s.tables))
	for _, p := range Products {
		for _, style := range Styles {
			for _, tob := range []bool{false, true} {
				if t, ok := s.tables[TableKey{p, style, tob}]; ok {
					out = append(out, t)
				}
			}
		}
	}
	return out
}

// AllLimits returns limits in product order.
func (s *Set) AllLimits() []Limits {
	out := make([]Limits, 0, len(s.limits))
	for _, p := range Products {
		if l, ok := s.limits[p]; ok {
			out = append(out, l)
		}
	}
	return out
}

// Registry serves the current Set and allows it to be replaced without a
// redeploy. Readers never block.
type Registry struct {
	cur atomic.Pointer[Set]
}

func NewRegistry(initial *Set) *Registry {
	r := &Registry{}
	r.cur.Store(initial)
	return r
}

func (r *Registry) Current() *Set {
	return r.cur.Load()
}

// Swap installs next and returns the previous set.
func (r *Registry) Swap(next *Set) *Set {
	return r.cur.Swap(next)
}

// ReloadFile parses path and swaps it in. The current set is kept on error.
func (r *Registry) ReloadFile(path string) (*Set, error) {
	next, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	r.Swap(next)
	return next, nil
}
