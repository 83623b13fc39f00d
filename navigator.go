package goadjacent

import (
	"context"
	"fmt"
	"slices"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/Alp4ka/goadjacent")

// DefaultTiebreaker is the unique column appended to every ordering.
const DefaultTiebreaker = "id"

// Scope narrows the candidate universe before the adjacency predicate is
// applied, e.g. to "messages by the same author as ref":
//
//	func(ref Message, ds goadjacent.Dataset[Message]) goadjacent.Dataset[Message] {
//		return ds.Where(goadjacent.All(goadjacent.Eq("author_id", ref.AuthorID)))
//	}
type Scope[T any] func(ref T, ds Dataset[T]) Dataset[T]

// Navigator finds records adjacent to a reference record of type T. Configure
// it once and share it; per-record state lives in Record.
type Navigator[T any] struct {
	source     Dataset[T]
	getters    Getters[T]
	ordering   Orderings
	tiebreaker string
	scope      Scope[T]
	logger     logrus.FieldLogger
}

// NewNavigator creates a navigator over source, the dataset of all records of
// the type. Getters must cover the ordering columns and the tiebreaker.
func NewNavigator[T any](source Dataset[T], getters Getters[T]) *Navigator[T] {
	return &Navigator[T]{
		source:  source,
		getters: getters,
	}
}

// WithOrdering resets previous orderings and applies the provided ones.
func (n *Navigator[T]) WithOrdering(orderBy ...OrderBy) *Navigator[T] {
	if n == nil {
		n = new(Navigator[T])
	}

	n.ordering = nil

	return n.WithSort(orderBy...)
}

// WithSort appends orderings without overwriting existing ones.
// Order is preserved as if calling:
//
//	OrderBy(o1).ThenBy(o2).ThenBy(o3)...
func (n *Navigator[T]) WithSort(orderBy ...OrderBy) *Navigator[T] {
	if n == nil {
		n = new(Navigator[T])
	}

	for _, o := range orderBy {
		idx := slices.IndexFunc(n.ordering, func(processed OrderBy) bool {
			return processed.Column == o.Column
		})

		// Remove previous occurrence (avoid duplication).
		if idx != -1 {
			n.ordering = slices.Delete(n.ordering, idx, idx+1)
		}

		n.ordering = append(n.ordering, o)
	}

	return n
}

// WithTiebreaker sets the unique column that makes the ordering total.
// An empty column restores DefaultTiebreaker.
func (n *Navigator[T]) WithTiebreaker(column string) *Navigator[T] {
	if n == nil {
		n = new(Navigator[T])
	}

	n.tiebreaker = column

	return n
}

// WithScope sets the scope applied to every seek from a reference record.
func (n *Navigator[T]) WithScope(scope Scope[T]) *Navigator[T] {
	if n == nil {
		n = new(Navigator[T])
	}

	n.scope = scope

	return n
}

// WithLogger sets the logger for debug output. Defaults to the logrus
// standard logger.
func (n *Navigator[T]) WithLogger(logger logrus.FieldLogger) *Navigator[T] {
	if n == nil {
		n = new(Navigator[T])
	}

	n.logger = logger

	return n
}

// GetTiebreaker returns the tiebreaker column.
func (n *Navigator[T]) GetTiebreaker() string {
	if n == nil || n.tiebreaker == "" {
		return DefaultTiebreaker
	}

	return n.tiebreaker
}

// GetOrdering returns the effective ordering: the configured orderings with
// the tiebreaker appended in ascending order, unless already present.
func (n *Navigator[T]) GetOrdering() Orderings {
	tiebreaker := n.GetTiebreaker()
	if n == nil {
		return Orderings{{Column: tiebreaker, Direction: DirectionASC}}
	}

	ret := slices.Clone(n.ordering)
	if _, ok := ret.find(tiebreaker); !ok {
		ret = append(ret, OrderBy{Column: tiebreaker, Direction: DirectionASC})
	}

	return ret
}

// Record wraps value as a reference record bound to the navigator.
func (n *Navigator[T]) Record(value T) *Record[T] {
	return &Record[T]{
		Value:     value,
		navigator: n,
	}
}

// PositionOf returns the position of ref within the effective ordering.
func (n *Navigator[T]) PositionOf(ref T) (*Position, error) {
	err := n.validate()
	if err != nil {
		return nil, fmt.Errorf("cannot build position: %w", err)
	}

	return positionOf(ref, n.GetOrdering(), n.getters)
}

// Predicate returns the adjacency predicate selecting records strictly after
// (SeekNext) or strictly before (SeekPrevious) ref.
func (n *Navigator[T]) Predicate(ref T, seek SeekDirection) (Predicate, error) {
	if !seek.Valid() {
		return nil, fmt.Errorf("cannot build predicate: invalid seek direction '%s'", seek)
	}

	pos, err := n.PositionOf(ref)
	if err != nil {
		return nil, err
	}

	return pos.predicate(n.GetOrdering(), seek), nil
}

// Seek returns up to count records adjacent to ref, nearest first. The scope
// is applied, then the extra conditions, then the adjacency predicate.
func (n *Navigator[T]) Seek(ctx context.Context, ref T, seek SeekDirection, count int, extra ...Condition) ([]T, error) {
	err := n.validate()
	if err != nil {
		return nil, fmt.Errorf("cannot seek: %w", err)
	}

	pos, err := positionOf(ref, n.GetOrdering(), n.getters)
	if err != nil {
		return nil, fmt.Errorf("cannot seek: %w", err)
	}

	ds := n.source
	if n.scope != nil {
		ds = n.scope(ref, ds)
	}

	return n.seek(ctx, ds, pos, seek, count, extra)
}

// SeekPosition returns up to count records adjacent to a decoded position,
// nearest first. The scope is not applied since there is no reference record;
// pass equivalent extra conditions instead.
func (n *Navigator[T]) SeekPosition(ctx context.Context, pos *Position, seek SeekDirection, count int, extra ...Condition) ([]T, error) {
	err := n.validate()
	if err != nil {
		return nil, fmt.Errorf("cannot seek: %w", err)
	}

	err = pos.validate(n.GetOrdering())
	if err != nil {
		return nil, fmt.Errorf("cannot seek: %w", err)
	}

	return n.seek(ctx, n.source, pos, seek, count, extra)
}

func (n *Navigator[T]) seek(
	ctx context.Context,
	ds Dataset[T],
	pos *Position,
	seek SeekDirection,
	count int,
	extra []Condition,
) ([]T, error) {
	if !seek.Valid() {
		return nil, fmt.Errorf("cannot seek: invalid seek direction '%s'", seek)
	}

	filter := All(extra...)
	if err := filter.validate(); err != nil {
		return nil, fmt.Errorf("cannot seek: %w", err)
	}

	count = NormalizeCount(count, DefaultCount)
	ordering := n.GetOrdering()
	logger := n.log().WithFields(logrus.Fields{
		"seek":    seek,
		"count":   count,
		"columns": lo.Map(pos.GetKeys(), func(k Key, _ int) string { return k.Column }),
	})

	// Nothing to compare against: every ordering value of the reference is absent.
	if pos.IsEmpty() {
		logger.Debug("reference has no position, nothing to seek")
		return nil, nil
	}

	ctx, span := tracer.Start(ctx, "goadjacent.Seek", trace.WithAttributes(
		attribute.String("seek", string(seek)),
		attribute.Int("count", count),
	))
	defer span.End()

	logger.Debug("seeking adjacent records")

	items, err := ds.
		Where(filter).
		Where(pos.predicate(ordering, seek)).
		Order(lo.Ternary(seek == SeekPrevious, ordering.Reverse(), ordering)).
		Limit(count).
		Find(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("cannot find %s records: %w", seek, err)
	}

	return items, nil
}

func (n *Navigator[T]) log() logrus.FieldLogger {
	if n.logger == nil {
		return logrus.StandardLogger()
	}

	return n.logger
}

func (n *Navigator[T]) validate() error {
	if n == nil {
		return fmt.Errorf("navigator is nil")
	}

	if n.source == nil {
		return fmt.Errorf("navigator has no source dataset")
	}

	ordering := n.GetOrdering()
	err := ordering.validate()
	if err != nil {
		return err
	}

	for _, column := range ordering.Columns() {
		if _, ok := n.getters[column]; !ok {
			return fmt.Errorf("cannot find getter for column '%s' met in ordering", column)
		}
	}

	return nil
}
