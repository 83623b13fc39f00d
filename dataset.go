package goadjacent

import "context"

// Dataset is the query collaborator adjacency lookups run against. The
// narrowing methods return a new Dataset and leave the receiver untouched.
type Dataset[T any] interface {
	// Where restricts the dataset to records satisfying the predicate.
	// Successive calls are ANDed.
	Where(predicate Predicate) Dataset[T]
	// Order sets the ordering of the result, replacing any earlier one.
	Order(orderings Orderings) Dataset[T]
	// Limit bounds the number of materialized records. NoLimit removes the bound.
	Limit(limit int) Dataset[T]
	// Find materializes the records.
	Find(ctx context.Context) ([]T, error)
}
