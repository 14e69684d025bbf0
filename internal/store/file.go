package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/google/renameio/v2"
	"go.uber.org/zap"

	"github.com/vyrodovalexey/moviemanager/internal/model"
)

// DefaultFileMode is the permission used when the catalog file is created.
const DefaultFileMode fs.FileMode = 0o644

// FileStore implements Store with an in-memory index backed by a JSON file.
//
// Every mutation is applied to the index, the whole catalog is written to a
// temporary file that atomically replaces the backing file, and the index
// change is reverted if the write fails. The exclusive lock is held for the
// whole sequence, so readers never observe a state that is not on disk.
type FileStore struct {
	mu     sync.RWMutex
	path   string
	perm   fs.FileMode
	index  *index
	logger *zap.Logger
}

// Option configures a FileStore.
type Option func(*FileStore)

// WithFileMode sets the permission bits for the catalog file.
func WithFileMode(perm fs.FileMode) Option {
	return func(s *FileStore) {
		s.perm = perm
	}
}

// NewFileStore creates a FileStore for path and loads its contents.
// A missing file yields an empty catalog. An unreadable or corrupt file is
// logged and also yields an empty catalog.
func NewFileStore(path string, logger *zap.Logger, opts ...Option) *FileStore {
	s := newFileStore(path, logger, opts...)

	if _, err := s.Load(context.Background()); err != nil {
		s.logger.Error("failed to load catalog, starting with an empty collection", zap.Error(err))
	}

	s.logger.Info("movie store initialized", zap.Int("count", s.index.len()))

	return s
}

// OpenFileStore is like NewFileStore but fails when the existing file
// cannot be read or parsed, so that a later save cannot overwrite it.
func OpenFileStore(ctx context.Context, path string, logger *zap.Logger, opts ...Option) (*FileStore, error) {
	s := newFileStore(path, logger, opts...)

	if _, err := s.Load(ctx); err != nil {
		return nil, err
	}

	s.logger.Debug("movie store opened", zap.Int("count", s.index.len()))

	return s, nil
}

func newFileStore(path string, logger *zap.Logger, opts ...Option) *FileStore {
	if path == "" {
		path = DefaultPath
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &FileStore{
		path:   path,
		perm:   DefaultFileMode,
		index:  newIndex(),
		logger: logger.With(zap.String("catalog", path)),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// Count returns the number of movies in the catalog.
func (s *FileStore) Count(ctx context.Context) (int, error) {
	if err := checkContext(ctx, "count movies"); err != nil {
		return 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.index.len(), nil
}

// List returns all movies in ascending ID order.
func (s *FileStore) List(ctx context.Context) ([]model.Movie, error) {
	if err := checkContext(ctx, "list movies"); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.index.ordered(), nil
}

// Get retrieves a movie by its ID.
func (s *FileStore) Get(ctx context.Context, id int) (*model.Movie, error) {
	if err := checkContext(ctx, "get movie"); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	movie, exists := s.index.get(id)
	if !exists {
		return nil, ErrNotFound
	}

	return &movie, nil
}

// Add inserts movie under its ID and persists the catalog.
func (s *FileStore) Add(ctx context.Context, movie *model.Movie) (_ *model.Movie, err error) {
	defer func() { observe("add", err) }()

	if err := checkContext(ctx, "add movie"); err != nil {
		return nil, err
	}

	if movie == nil {
		return nil, fmt.Errorf("add movie: %w", ErrNilMovie)
	}

	added := *movie
	added.Sanitize()
	log := s.logger.With(zap.Int("movie_id", added.ID), zap.String("title", added.Title))

	s.mu.Lock()
	defer s.mu.Unlock()

	log.Debug("adding movie")

	if _, exists := s.index.get(added.ID); exists {
		log.Warn("movie already exists")
		return nil, ErrDuplicateKey
	}

	s.index.put(added)
	if err := s.saveLocked(); err != nil {
		s.index.remove(added.ID)
		log.Error("failed to save catalog after adding movie", zap.Error(err))
		return nil, fmt.Errorf("add movie %d: %w", added.ID, err)
	}

	log.Info("movie added")

	return &added, nil
}

// Update replaces the movie stored under id and persists the catalog.
// A zero ID in movie adopts id; any other ID must equal id.
func (s *FileStore) Update(ctx context.Context, id int, movie *model.Movie) (_ *model.Movie, err error) {
	defer func() { observe("update", err) }()

	if err := checkContext(ctx, "update movie"); err != nil {
		return nil, err
	}

	if movie == nil {
		return nil, fmt.Errorf("update movie: %w", ErrNilMovie)
	}

	log := s.logger.With(zap.Int("movie_id", id))

	updated := *movie
	switch updated.ID {
	case 0:
		updated.ID = id
	case id:
	default:
		log.Warn("movie ID mismatch", zap.Int("payload_id", updated.ID))
		return nil, fmt.Errorf("update movie %d: payload ID %d: %w", id, updated.ID, ErrIDMismatch)
	}
	updated.Sanitize()

	s.mu.Lock()
	defer s.mu.Unlock()

	log.Debug("updating movie")

	if _, exists := s.index.get(id); !exists {
		log.Warn("movie not found")
		return nil, ErrNotFound
	}

	previous, _ := s.index.put(updated)
	if err := s.saveLocked(); err != nil {
		s.index.put(previous)
		log.Error("failed to save catalog after updating movie", zap.Error(err))
		return nil, fmt.Errorf("update movie %d: %w", id, err)
	}

	log.Info("movie updated")

	return &updated, nil
}

// Delete removes the movie stored under id and persists the catalog.
func (s *FileStore) Delete(ctx context.Context, id int) (err error) {
	defer func() { observe("delete", err) }()

	if err := checkContext(ctx, "delete movie"); err != nil {
		return err
	}

	log := s.logger.With(zap.Int("movie_id", id))

	s.mu.Lock()
	defer s.mu.Unlock()

	log.Debug("deleting movie")

	removed, exists := s.index.remove(id)
	if !exists {
		log.Warn("movie not found")
		return ErrNotFound
	}

	if err := s.saveLocked(); err != nil {
		s.index.put(removed)
		log.Error("failed to save catalog after deleting movie", zap.Error(err))
		return fmt.Errorf("delete movie %d: %w", id, err)
	}

	log.Info("movie deleted")

	return nil
}

// First returns the movie with the smallest ID.
func (s *FileStore) First(ctx context.Context) (*model.Movie, error) {
	return s.traverse(ctx, "first", func(ix *index) (model.Movie, error) {
		return ix.first()
	})
}

// Last returns the movie with the largest ID.
func (s *FileStore) Last(ctx context.Context) (*model.Movie, error) {
	return s.traverse(ctx, "last", func(ix *index) (model.Movie, error) {
		return ix.last()
	})
}

// Next returns the movie that follows id in ascending ID order.
func (s *FileStore) Next(ctx context.Context, id int) (*model.Movie, error) {
	return s.traverse(ctx, "next", func(ix *index) (model.Movie, error) {
		return ix.neighbor(id, 1)
	}, zap.Int("from_id", id))
}

// Previous returns the movie that precedes id in ascending ID order.
func (s *FileStore) Previous(ctx context.Context, id int) (*model.Movie, error) {
	return s.traverse(ctx, "previous", func(ix *index) (model.Movie, error) {
		return ix.neighbor(id, -1)
	}, zap.Int("from_id", id))
}

// traverse runs a read-only lookup under the shared lock.
func (s *FileStore) traverse(
	ctx context.Context,
	operation string,
	lookup func(*index) (model.Movie, error),
	fields ...zap.Field,
) (_ *model.Movie, err error) {
	defer func() { observe(operation, err) }()

	if err := checkContext(ctx, operation+" movie"); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	log := s.logger.With(append(fields, zap.String("operation", operation))...)

	movie, err := lookup(s.index)
	if err != nil {
		log.Warn("no movie found", zap.Error(err))
		return nil, err
	}

	log.Debug("movie retrieved", zap.Int("movie_id", movie.ID), zap.String("title", movie.Title))

	return &movie, nil
}

// Save writes the whole catalog to the backing file.
func (s *FileStore) Save(ctx context.Context) (err error) {
	defer func() { observe("save", err) }()

	if err := checkContext(ctx, "save catalog"); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.saveLocked(); err != nil {
		s.logger.Error("failed to save catalog", zap.Error(err))
		return err
	}

	return nil
}

// saveLocked encodes the index and atomically replaces the backing file.
// The caller must hold the exclusive lock.
func (s *FileStore) saveLocked() error {
	s.logger.Debug("saving catalog")

	data, err := encodeCatalog(s.index)
	if err != nil {
		return fmt.Errorf("encode catalog: %w: %w", ErrPersistence, err)
	}

	if err := renameio.WriteFile(s.path, data, s.perm); err != nil {
		return fmt.Errorf("write catalog %s: %w: %w", s.path, ErrPersistence, err)
	}

	storeRecords.WithLabelValues(s.path).Set(float64(s.index.len()))
	s.logger.Debug("catalog saved", zap.Int("count", s.index.len()))

	return nil
}

// Load replaces the catalog with the contents of the backing file.
// A missing file empties the catalog without error. A file that cannot be
// read or parsed leaves the current catalog untouched.
func (s *FileStore) Load(ctx context.Context) (_ int, err error) {
	defer func() { observe("load", err) }()

	if err := checkContext(ctx, "load catalog"); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.logger.Debug("loading catalog")

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.index = newIndex()
		storeRecords.WithLabelValues(s.path).Set(0)
		s.logger.Warn("catalog file not found, starting with an empty collection")
		return 0, nil
	}
	if err != nil {
		s.logger.Error("failed to read catalog", zap.Error(err))
		return 0, fmt.Errorf("read catalog %s: %w: %w", s.path, ErrPersistence, err)
	}

	movies, err := decodeCatalog(data)
	if err != nil {
		s.logger.Error("failed to parse catalog", zap.Error(err))
		return 0, fmt.Errorf("parse catalog %s: %w: %w", s.path, ErrPersistence, err)
	}

	s.index = newIndexFrom(movies)
	storeRecords.WithLabelValues(s.path).Set(float64(s.index.len()))
	s.logger.Info("catalog loaded", zap.Int("count", s.index.len()))

	return s.index.len(), nil
}

// checkContext fails fast when ctx is already done.
func checkContext(ctx context.Context, operation string) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", operation, ctx.Err())
	default:
		return nil
	}
}
