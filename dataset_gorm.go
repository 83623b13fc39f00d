package goadjacent

import (
	"context"

	"gorm.io/gorm"
)

// GORMDataset runs adjacency lookups through GORM. The wrapped *gorm.DB is
// the unrestricted candidate universe, e.g. db.Model(&Message{}) or
// db.Table("messages").
type GORMDataset[T any] struct {
	db *gorm.DB
}

func NewGORMDataset[T any](db *gorm.DB) *GORMDataset[T] {
	return newGORMDataset[T](db)
}

// newGORMDataset wraps db in a session, so chaining from it clones the
// statement instead of mutating the one shared with the receiver.
func newGORMDataset[T any](db *gorm.DB) *GORMDataset[T] {
	return &GORMDataset[T]{
		db: db.Session(&gorm.Session{}),
	}
}

// Where - implements Dataset. The predicate is added as a clause expression
// so it is ANDed with conditions already present on the statement.
func (d *GORMDataset[T]) Where(predicate Predicate) Dataset[T] {
	exp := predicate.toGORMExpression()
	if exp == nil {
		return d
	}

	return newGORMDataset[T](d.db.Clauses(exp))
}

// Order - implements Dataset.
func (d *GORMDataset[T]) Order(orderings Orderings) Dataset[T] {
	return newGORMDataset[T](orderings.Apply(d.db))
}

// Limit - implements Dataset.
func (d *GORMDataset[T]) Limit(limit int) Dataset[T] {
	return newGORMDataset[T](d.db.Limit(limit))
}

// Scopes applies GORM scopes, for narrowing that a Predicate cannot express
// (joins, subqueries).
func (d *GORMDataset[T]) Scopes(funcs ...func(*gorm.DB) *gorm.DB) *GORMDataset[T] {
	return newGORMDataset[T](d.db.Scopes(funcs...))
}

// DB returns the underlying statement.
func (d *GORMDataset[T]) DB() *gorm.DB {
	return d.db
}

// Find - implements Dataset.
func (d *GORMDataset[T]) Find(ctx context.Context) ([]T, error) {
	var items []T
	if err := d.db.WithContext(ctx).Find(&items).Error; err != nil {
		return nil, err
	}

	return items, nil
}

var _ Dataset[struct{}] = (*GORMDataset[struct{}])(nil)
