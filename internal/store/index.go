package store

import (
	"maps"
	"slices"

	"github.com/vyrodovalexey/moviemanager/internal/model"
)

// index holds the movies keyed by ID together with their IDs in ascending
// order. ids is maintained incrementally so traversal never re-sorts.
type index struct {
	movies map[int]model.Movie
	ids    []int
}

func newIndex() *index {
	return &index{movies: make(map[int]model.Movie)}
}

// newIndexFrom builds an index that owns the given map.
func newIndexFrom(movies map[int]model.Movie) *index {
	if movies == nil {
		return newIndex()
	}
	return &index{
		movies: movies,
		ids:    slices.Sorted(maps.Keys(movies)),
	}
}

func (ix *index) len() int {
	return len(ix.ids)
}

func (ix *index) get(id int) (model.Movie, bool) {
	m, ok := ix.movies[id]
	return m, ok
}

// put inserts or replaces the movie stored under m.ID and returns the
// previous value, if any.
func (ix *index) put(m model.Movie) (model.Movie, bool) {
	prev, existed := ix.movies[m.ID]
	ix.movies[m.ID] = m
	if !existed {
		pos, _ := slices.BinarySearch(ix.ids, m.ID)
		ix.ids = slices.Insert(ix.ids, pos, m.ID)
	}
	return prev, existed
}

func (ix *index) remove(id int) (model.Movie, bool) {
	prev, existed := ix.movies[id]
	if !existed {
		return model.Movie{}, false
	}
	delete(ix.movies, id)
	if pos, found := slices.BinarySearch(ix.ids, id); found {
		ix.ids = slices.Delete(ix.ids, pos, pos+1)
	}
	return prev, true
}

func (ix *index) first() (model.Movie, error) {
	if len(ix.ids) == 0 {
		return model.Movie{}, ErrEmptyStore
	}
	return ix.movies[ix.ids[0]], nil
}

func (ix *index) last() (model.Movie, error) {
	if len(ix.ids) == 0 {
		return model.Movie{}, ErrEmptyStore
	}
	return ix.movies[ix.ids[len(ix.ids)-1]], nil
}

// neighbor returns the movie offset positions away from id in ascending ID
// order.
func (ix *index) neighbor(id, offset int) (model.Movie, error) {
	if len(ix.ids) == 0 {
		return model.Movie{}, ErrEmptyStore
	}

	pos, found := slices.BinarySearch(ix.ids, id)
	if !found {
		return model.Movie{}, ErrNotFound
	}

	target := pos + offset
	if target < 0 || target >= len(ix.ids) {
		return model.Movie{}, ErrNoNeighbor
	}

	return ix.movies[ix.ids[target]], nil
}

// ordered returns a copy of all movies in ascending ID order.
func (ix *index) ordered() []model.Movie {
	movies := make([]model.Movie, 0, len(ix.ids))
	for _, id := range ix.ids {
		movies = append(movies, ix.movies[id])
	}
	return movies
}
