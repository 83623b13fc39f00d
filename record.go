package goadjacent

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

// Record is a reference record bound to a Navigator. It memoizes the last
// next and previous lookups; a Record is owned by a single goroutine.
type Record[T any] struct {
	Value T

	navigator     *Navigator[T]
	nextCache     *cacheEntry[T]
	previousCache *cacheEntry[T]
}

// cacheEntry holds the result of the largest lookup made in one direction.
type cacheEntry[T any] struct {
	count       int
	fingerprint string
	items       []T
}

// Next returns the record immediately following the reference. ok is false
// when there is none.
func (r *Record[T]) Next(ctx context.Context, extra ...Condition) (item T, ok bool, err error) {
	return r.single(ctx, SeekNext, extra)
}

// NextN returns up to count records following the reference, nearest first.
// A count below 1 means DefaultCount.
func (r *Record[T]) NextN(ctx context.Context, count int, extra ...Condition) ([]T, error) {
	return r.cached(ctx, SeekNext, count, extra)
}

// Previous returns the record immediately preceding the reference. ok is
// false when there is none.
func (r *Record[T]) Previous(ctx context.Context, extra ...Condition) (item T, ok bool, err error) {
	return r.single(ctx, SeekPrevious, extra)
}

// PreviousN returns up to count records preceding the reference, nearest
// first. A count below 1 means DefaultCount.
func (r *Record[T]) PreviousN(ctx context.Context, count int, extra ...Condition) ([]T, error) {
	return r.cached(ctx, SeekPrevious, count, extra)
}

// Around returns a window of 2*count+1 slots at most, centered on the
// reference:
//
//	[p_count ... p_2, p_1, self, n_1, n_2 ... n_count]
//
// Preceding slots without a record are nil, so the reference is always at
// index count. Following records are not padded. A count below 1 means
// DefaultAroundCount.
func (r *Record[T]) Around(ctx context.Context, count int, extra ...Condition) ([]*T, error) {
	count = NormalizeCount(count, DefaultAroundCount)

	previous, err := r.cached(ctx, SeekPrevious, count, extra)
	if err != nil {
		return nil, err
	}

	next, err := r.cached(ctx, SeekNext, count, extra)
	if err != nil {
		return nil, err
	}

	ret := make([]*T, count, 2*count+1)
	for i := range previous {
		ret[count-1-i] = &previous[i]
	}

	ret = append(ret, &r.Value)
	for i := range next {
		ret = append(ret, &next[i])
	}

	return ret, nil
}

// Reset drops the memoized lookups, e.g. after the reference value changed.
func (r *Record[T]) Reset() {
	r.nextCache = nil
	r.previousCache = nil
}

func (r *Record[T]) single(ctx context.Context, seek SeekDirection, extra []Condition) (T, bool, error) {
	items, err := r.cached(ctx, seek, 1, extra)
	if err != nil {
		return lo.Empty[T](), false, err
	}

	if len(items) == 0 {
		return lo.Empty[T](), false, nil
	}

	return items[0], true, nil
}

// cached serves a lookup from the direction's cache entry when it was made
// with the same extra conditions and at least count records; otherwise it
// seeks and replaces the entry.
func (r *Record[T]) cached(ctx context.Context, seek SeekDirection, count int, extra []Condition) ([]T, error) {
	count = NormalizeCount(count, DefaultCount)
	fingerprint, err := fingerprintOf(extra)
	if err != nil {
		return nil, fmt.Errorf("cannot seek: %w", err)
	}

	slot := r.slot(seek)

	if entry := *slot; entry != nil && entry.fingerprint == fingerprint && count <= entry.count {
		r.navigator.log().WithFields(logrus.Fields{
			"seek":  seek,
			"count": count,
		}).Debug("serving adjacent records from cache")

		return slices.Clone(entry.items[:min(count, len(entry.items))]), nil
	}

	items, err := r.navigator.Seek(ctx, r.Value, seek, count, extra...)
	if err != nil {
		return nil, err
	}

	*slot = &cacheEntry[T]{
		count:       count,
		fingerprint: fingerprint,
		items:       items,
	}

	return slices.Clone(items), nil
}

// fingerprintOf identifies extra conditions by their resolved values, so a
// condition holding a pointer stops matching once the pointee changes.
func fingerprintOf(extra []Condition) (string, error) {
	var b strings.Builder
	for _, c := range extra {
		value, _, err := normalizeValue(c.Value)
		if err != nil {
			return "", fmt.Errorf("column '%s': %w", c.Column, err)
		}

		fmt.Fprintf(&b, "%s %s %#v;", c.Column, c.Operator, value)
	}

	return b.String(), nil
}

func (r *Record[T]) slot(seek SeekDirection) **cacheEntry[T] {
	if seek == SeekPrevious {
		return &r.previousCache
	}

	return &r.nextCache
}
