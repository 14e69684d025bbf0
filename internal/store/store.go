// Package store provides the movie catalog store: an in-memory index kept
// in ascending ID order and mirrored to a single JSON document on disk.
package store

import (
	"context"
	"errors"

	"github.com/vyrodovalexey/moviemanager/internal/model"
)

// DefaultPath is the catalog file used when no path is configured.
const DefaultPath = "movie.json"

// Store errors.
var (
	ErrNotFound     = errors.New("movie not found")
	ErrDuplicateKey = errors.New("movie with this ID already exists")
	ErrEmptyStore   = errors.New("catalog is empty")
	ErrNoNeighbor   = errors.New("no adjacent movie in that direction")
	ErrIDMismatch   = errors.New("movie ID in payload does not match target ID")
	ErrPersistence  = errors.New("catalog persistence failed")
	ErrNilMovie     = errors.New("movie cannot be nil")
)

// Store defines the interface for movie catalog operations.
type Store interface {
	// List returns all movies in ascending ID order.
	List(ctx context.Context) ([]model.Movie, error)

	// Get retrieves a movie by its ID.
	Get(ctx context.Context, id int) (*model.Movie, error)

	// Count returns the number of movies in the catalog.
	Count(ctx context.Context) (int, error)

	// Add inserts a movie under its caller-assigned ID and persists the catalog.
	Add(ctx context.Context, movie *model.Movie) (*model.Movie, error)

	// Update replaces the movie stored under id and persists the catalog.
	Update(ctx context.Context, id int, movie *model.Movie) (*model.Movie, error)

	// Delete removes the movie stored under id and persists the catalog.
	Delete(ctx context.Context, id int) error

	// First returns the movie with the smallest ID.
	First(ctx context.Context) (*model.Movie, error)

	// Last returns the movie with the largest ID.
	Last(ctx context.Context) (*model.Movie, error)

	// Next returns the movie that follows id in ascending ID order.
	Next(ctx context.Context, id int) (*model.Movie, error)

	// Previous returns the movie that precedes id in ascending ID order.
	Previous(ctx context.Context, id int) (*model.Movie, error)

	// Save writes the whole catalog to the backing file.
	Save(ctx context.Context) error

	// Load replaces the catalog with the contents of the backing file and
	// returns the number of movies loaded.
	Load(ctx context.Context) (int, error)

	// Path returns the backing file path.
	Path() string
}
