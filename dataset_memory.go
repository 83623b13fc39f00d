package goadjacent

import (
	"context"
	"fmt"
	"slices"
)

// MemoryDataset evaluates predicates over an in-memory slice. Getters must
// cover every column referenced by predicates and orderings.
type MemoryDataset[T any] struct {
	items      []T
	getters    Getters[T]
	predicates []Predicate
	orderings  Orderings
	limit      int
}

func NewMemoryDataset[T any](items []T, getters Getters[T]) *MemoryDataset[T] {
	return &MemoryDataset[T]{
		items:   items,
		getters: getters,
		limit:   NoLimit,
	}
}

func (d *MemoryDataset[T]) clone() *MemoryDataset[T] {
	c := *d
	c.predicates = slices.Clone(d.predicates)

	return &c
}

// Where - implements Dataset.
func (d *MemoryDataset[T]) Where(predicate Predicate) Dataset[T] {
	c := d.clone()
	c.predicates = append(c.predicates, predicate)

	return c
}

// Order - implements Dataset.
func (d *MemoryDataset[T]) Order(orderings Orderings) Dataset[T] {
	c := d.clone()
	c.orderings = orderings

	return c
}

// Limit - implements Dataset.
func (d *MemoryDataset[T]) Limit(limit int) Dataset[T] {
	c := d.clone()
	c.limit = limit

	return c
}

// Find - implements Dataset.
func (d *MemoryDataset[T]) Find(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ret := make([]T, 0, len(d.items))
	for _, item := range d.items {
		ok, err := d.matches(item)
		if err != nil {
			return nil, err
		}
		if ok {
			ret = append(ret, item)
		}
	}

	if err := d.sort(ret); err != nil {
		return nil, err
	}

	if d.limit != NoLimit && d.limit >= 0 && len(ret) > d.limit {
		ret = ret[:d.limit]
	}

	return ret, nil
}

func (d *MemoryDataset[T]) getter(item T) func(column string) (any, error) {
	return func(column string) (any, error) {
		get, ok := d.getters[column]
		if !ok {
			return nil, fmt.Errorf("cannot find getter for column '%s'", column)
		}

		return get(item), nil
	}
}

func (d *MemoryDataset[T]) matches(item T) (bool, error) {
	get := d.getter(item)
	for _, predicate := range d.predicates {
		ok, err := predicate.eval(get)
		if err != nil || !ok {
			return false, err
		}
	}

	return true, nil
}

// sort orders items stably. Absent values sort last in ascending order and
// first in descending order, like PostgreSQL's default NULLS LAST/FIRST.
func (d *MemoryDataset[T]) sort(items []T) error {
	if len(d.orderings) == 0 {
		return nil
	}

	for _, orderBy := range d.orderings {
		if _, ok := d.getters[orderBy.Column]; !ok {
			return fmt.Errorf("cannot find getter for column '%s' met in ordering", orderBy.Column)
		}
	}

	var sortErr error
	slices.SortStableFunc(items, func(a, b T) int {
		for _, orderBy := range d.orderings {
			c, err := compareOrdered(d.getters[orderBy.Column], a, b)
			if err != nil && sortErr == nil {
				sortErr = fmt.Errorf("column '%s': %w", orderBy.Column, err)
			}

			if orderBy.Direction == DirectionDESC {
				c = -c
			}
			if c != 0 {
				return c
			}
		}

		return 0
	})

	return sortErr
}

// compareOrdered compares the values get extracts from a and b, absent values
// sorting after present ones.
func compareOrdered[T any](get func(T) any, a, b T) (int, error) {
	av, aok, err := normalizeValue(get(a))
	if err != nil {
		return 0, err
	}

	bv, bok, err := normalizeValue(get(b))
	if err != nil {
		return 0, err
	}

	switch {
	case !aok && !bok:
		return 0, nil
	case !aok:
		return 1, nil
	case !bok:
		return -1, nil
	default:
		return compareValues(av, bv)
	}
}

var _ Dataset[struct{}] = (*MemoryDataset[struct{}])(nil)
