// Package geoindex is an in-memory proximity index over WGS84 points.
//
// Points live in an R-tree keyed on (lng, lat). A radius query first collects
// candidates from the bounding box of the search cap (split across the
// antimeridian when needed) and then keeps only those whose great-circle
// distance to the center is within the radius. Results are ordered by
// distance, ties by insertion order.
package geoindex

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/dhconnelly/rtreego"

	"github.com/foodspot-finder/internal/domain"
	apperrors "github.com/foodspot-finder/internal/pkg/errors"
	"github.com/foodspot-finder/internal/pkg/utils"
)

const (
	dimensions  = 2
	minChildren = 25
	maxChildren = 50

	// pointTolerance is the half-size of the degenerate rectangle stored per point.
	pointTolerance = 1e-9

	// ctxCheckEvery bounds how many candidates are scored between context checks.
	ctxCheckEvery = 256
)

type item[T any] struct {
	id    string
	point domain.GeoPoint
	value T
	seq   uint64
	rect  *rtreego.Rect
}

// Bounds implements rtreego.Spatial.
func (it *item[T]) Bounds() *rtreego.Rect {
	return it.rect
}

// Hit is one query result.
type Hit[T any] struct {
	ID             string
	Point          domain.GeoPoint
	Value          T
	DistanceMeters float64
	seq            uint64
}

// Index is safe for concurrent use. Queries share a read lock; Upsert and
// Remove take the write lock.
type Index[T any] struct {
	mu      sync.RWMutex
	tree    *rtreego.Rtree
	items   map[string]*item[T]
	nextSeq uint64
}

// New returns an empty index.
func New[T any]() *Index[T] {
	return &Index[T]{
		tree:  rtreego.NewTree(dimensions, minChildren, maxChildren),
		items: make(map[string]*item[T]),
	}
}

// Upsert stores value at point under id. Moving an existing id keeps its
// original insertion order for tie-breaking.
func (x *Index[T]) Upsert(id string, point domain.GeoPoint, value T) error {
	if !utils.ValidateCoordinates(point.Lng, point.Lat) {
		return fmt.Errorf("%w: point %s out of range", apperrors.ErrValidation, point)
	}

	it := &item[T]{
		id:    id,
		point: point,
		value: value,
		rect:  rtreego.Point{point.Lng, point.Lat}.ToRect(pointTolerance),
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	if old, ok := x.items[id]; ok {
		x.tree.Delete(old)
		it.seq = old.seq
	} else {
		it.seq = x.nextSeq
		x.nextSeq++
	}

	x.tree.Insert(it)
	x.items[id] = it
	return nil
}

// Remove reports whether id was present.
func (x *Index[T]) Remove(id string) bool {
	x.mu.Lock()
	defer x.mu.Unlock()

	old, ok := x.items[id]
	if !ok {
		return false
	}
	x.tree.Delete(old)
	delete(x.items, id)
	return true
}

// Get returns the value and location stored under id.
func (x *Index[T]) Get(id string) (T, domain.GeoPoint, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	it, ok := x.items[id]
	if !ok {
		var zero T
		return zero, domain.GeoPoint{}, false
	}
	return it.value, it.point, true
}

// Len - number of indexed entities
func (x *Index[T]) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.items)
}

// Values returns every stored value in insertion order.
func (x *Index[T]) Values() []T {
	x.mu.RLock()
	defer x.mu.RUnlock()

	all := make([]*item[T], 0, len(x.items))
	for _, it := range x.items {
		all = append(all, it)
	}
	slices.SortFunc(all, func(a, b *item[T]) int {
		return compareUint(a.seq, b.seq)
	})

	out := make([]T, len(all))
	for i, it := range all {
		out[i] = it.value
	}
	return out
}

// Query returns every entry within radiusMeters of center, nearest first.
// It fails with ErrInvalidQuery for out-of-range input and returns ctx.Err()
// if the context is cancelled mid-scan. The index is never modified.
func (x *Index[T]) Query(ctx context.Context, center domain.GeoPoint, radiusMeters float64) ([]Hit[T], error) {
	return x.QueryFunc(ctx, center, radiusMeters, nil)
}

// QueryFunc is Query with an extra predicate applied to candidates before
// distance scoring. A nil keep accepts everything.
func (x *Index[T]) QueryFunc(ctx context.Context, center domain.GeoPoint, radiusMeters float64, keep func(T) bool) ([]Hit[T], error) {
	if !utils.ValidateCoordinates(center.Lng, center.Lat) {
		return nil, fmt.Errorf("%w: center %s out of range", apperrors.ErrInvalidQuery, center)
	}
	if !utils.ValidateRadius(radiusMeters) {
		return nil, fmt.Errorf("%w: radius must be a positive number of meters", apperrors.ErrInvalidQuery)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	boxes := searchBoxes(center, radiusMeters)

	x.mu.RLock()
	defer x.mu.RUnlock()

	var candidates []rtreego.Spatial
	for _, b := range boxes {
		rect, err := b.rect()
		if err != nil {
			return nil, fmt.Errorf("build search box: %w", err)
		}
		candidates = append(candidates, x.tree.SearchIntersect(rect)...)
	}

	var seen map[string]struct{}
	if len(boxes) > 1 {
		seen = make(map[string]struct{}, len(candidates))
	}

	hits := make([]Hit[T], 0, len(candidates))
	for i, c := range candidates {
		if i%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		it, ok := c.(*item[T])
		if !ok {
			continue
		}
		if seen != nil {
			if _, dup := seen[it.id]; dup {
				continue
			}
			seen[it.id] = struct{}{}
		}
		if keep != nil && !keep(it.value) {
			continue
		}

		d := Distance(center, it.point)
		if d > radiusMeters {
			continue
		}
		hits = append(hits, Hit[T]{
			ID:             it.id,
			Point:          it.point,
			Value:          it.value,
			DistanceMeters: d,
			seq:            it.seq,
		})
	}

	slices.SortFunc(hits, func(a, b Hit[T]) int {
		switch {
		case a.DistanceMeters < b.DistanceMeters:
			return -1
		case a.DistanceMeters > b.DistanceMeters:
			return 1
		}
		return compareUint(a.seq, b.seq)
	})

	return hits, nil
}

func compareUint(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
