package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/vyrodovalexey/moviemanager/internal/model"
	"github.com/vyrodovalexey/moviemanager/internal/store"
)

// maxBodyBytes caps the size of a movie request body.
const maxBodyBytes = 1 << 20

// MovieHandler serves the catalog REST API.
type MovieHandler struct {
	store    store.Store
	notifier Notifier
	logger   *zap.Logger
}

// NewMovieHandler creates a MovieHandler. A nil notifier discards events.
func NewMovieHandler(s store.Store, notifier Notifier, logger *zap.Logger) *MovieHandler {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &MovieHandler{
		store:    s,
		notifier: notifier,
		logger:   logger,
	}
}

// RegisterRoutes registers the REST API routes with the router.
// The first and last routes are registered before the {id} routes so that
// they are not parsed as movie IDs.
func (h *MovieHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)
	router.HandleFunc("/ready", h.ReadyCheck).Methods(http.MethodGet)

	router.HandleFunc("/api/v1/movies", h.ListMovies).Methods(http.MethodGet)
	router.HandleFunc("/api/v1/movies", h.AddMovie).Methods(http.MethodPost)
	router.HandleFunc("/api/v1/movies/first", h.FirstMovie).Methods(http.MethodGet)
	router.HandleFunc("/api/v1/movies/last", h.LastMovie).Methods(http.MethodGet)
	router.HandleFunc("/api/v1/movies/{id}", h.GetMovie).Methods(http.MethodGet)
	router.HandleFunc("/api/v1/movies/{id}", h.UpdateMovie).Methods(http.MethodPut)
	router.HandleFunc("/api/v1/movies/{id}", h.DeleteMovie).Methods(http.MethodDelete)
	router.HandleFunc("/api/v1/movies/{id}/next", h.NextMovie).Methods(http.MethodGet)
	router.HandleFunc("/api/v1/movies/{id}/previous", h.PreviousMovie).Methods(http.MethodGet)
	router.HandleFunc("/api/v1/catalog/save", h.SaveCatalog).Methods(http.MethodPost)
	router.HandleFunc("/api/v1/catalog/load", h.LoadCatalog).Methods(http.MethodPost)
}

// HealthCheck handles GET /health requests.
func (h *MovieHandler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	response := HealthResponse{
		Status:  "healthy",
		Version: Version,
	}
	h.writeJSON(w, http.StatusOK, model.NewSuccessResponse(response))
}

// ReadyCheck handles GET /ready requests.
func (h *MovieHandler) ReadyCheck(w http.ResponseWriter, r *http.Request) {
	count, err := h.store.Count(r.Context())
	if err != nil {
		h.logger.Warn("readiness check failed", zap.Error(err))
		h.writeError(w, http.StatusServiceUnavailable, "movie store unavailable")
		return
	}

	h.writeJSON(w, http.StatusOK, model.NewSuccessResponse(ReadyResponse{
		Status: "ready",
		Movies: count,
	}))
}

// ListMovies handles GET /api/v1/movies requests.
func (h *MovieHandler) ListMovies(w http.ResponseWriter, r *http.Request) {
	movies, err := h.store.List(r.Context())
	if err != nil {
		h.handleStoreError(w, err, "list movies")
		return
	}

	h.writeJSON(w, http.StatusOK, model.NewSuccessResponse(movies))
}

// GetMovie handles GET /api/v1/movies/{id} requests.
func (h *MovieHandler) GetMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := h.movieID(w, r)
	if !ok {
		return
	}

	movie, err := h.store.Get(r.Context(), id)
	if err != nil {
		h.handleStoreError(w, err, "get movie")
		return
	}

	h.writeJSON(w, http.StatusOK, model.NewSuccessResponse(movie))
}

// AddMovie handles POST /api/v1/movies requests.
func (h *MovieHandler) AddMovie(w http.ResponseWriter, r *http.Request) {
	var input model.Movie
	if !h.decodeMovie(w, r, &input) {
		return
	}

	if err := input.Validate(); err != nil {
		h.logger.Warn("validation failed", zap.Error(err))
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	movie, err := h.store.Add(r.Context(), &input)
	if err != nil {
		h.handleStoreError(w, err, "add movie")
		return
	}

	h.notifier.Publish(model.NewMovieEvent(model.EventMovieAdded, *movie))
	h.writeJSON(w, http.StatusCreated, model.NewSuccessResponse(movie))
}

// UpdateMovie handles PUT /api/v1/movies/{id} requests.
// A body without movieId updates the movie named in the URL.
func (h *MovieHandler) UpdateMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := h.movieID(w, r)
	if !ok {
		return
	}

	var input model.Movie
	if !h.decodeMovie(w, r, &input) {
		return
	}

	if input.ID == 0 {
		input.ID = id
	}

	if err := input.Validate(); err != nil {
		h.logger.Warn("validation failed", zap.Error(err))
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	movie, err := h.store.Update(r.Context(), id, &input)
	if err != nil {
		h.handleStoreError(w, err, "update movie")
		return
	}

	h.notifier.Publish(model.NewMovieEvent(model.EventMovieUpdated, *movie))
	h.writeJSON(w, http.StatusOK, model.NewSuccessResponse(movie))
}

// DeleteMovie handles DELETE /api/v1/movies/{id} requests.
func (h *MovieHandler) DeleteMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := h.movieID(w, r)
	if !ok {
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		h.handleStoreError(w, err, "delete movie")
		return
	}

	h.notifier.Publish(model.NewDeletedEvent(id))
	h.writeJSON(w, http.StatusNoContent, nil)
}

// FirstMovie handles GET /api/v1/movies/first requests.
func (h *MovieHandler) FirstMovie(w http.ResponseWriter, r *http.Request) {
	movie, err := h.store.First(r.Context())
	h.writeNavigation(w, movie, err, "first movie")
}

// LastMovie handles GET /api/v1/movies/last requests.
func (h *MovieHandler) LastMovie(w http.ResponseWriter, r *http.Request) {
	movie, err := h.store.Last(r.Context())
	h.writeNavigation(w, movie, err, "last movie")
}

// NextMovie handles GET /api/v1/movies/{id}/next requests.
func (h *MovieHandler) NextMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := h.movieID(w, r)
	if !ok {
		return
	}

	movie, err := h.store.Next(r.Context(), id)
	h.writeNavigation(w, movie, err, "next movie")
}

// PreviousMovie handles GET /api/v1/movies/{id}/previous requests.
func (h *MovieHandler) PreviousMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := h.movieID(w, r)
	if !ok {
		return
	}

	movie, err := h.store.Previous(r.Context(), id)
	h.writeNavigation(w, movie, err, "previous movie")
}

// SaveCatalog handles POST /api/v1/catalog/save requests.
func (h *MovieHandler) SaveCatalog(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.store.Save(ctx); err != nil {
		h.handleStoreError(w, err, "save catalog")
		return
	}

	count, err := h.store.Count(ctx)
	if err != nil {
		h.handleStoreError(w, err, "count movies")
		return
	}

	h.notifier.Publish(model.NewCatalogEvent(model.EventCatalogSaved, count))
	h.writeJSON(w, http.StatusOK, model.NewSuccessResponse(model.CatalogStatus{
		Path:  h.store.Path(),
		Count: count,
	}))
}

// LoadCatalog handles POST /api/v1/catalog/load requests.
func (h *MovieHandler) LoadCatalog(w http.ResponseWriter, r *http.Request) {
	count, err := h.store.Load(r.Context())
	if err != nil {
		h.handleStoreError(w, err, "load catalog")
		return
	}

	h.notifier.Publish(model.NewCatalogEvent(model.EventCatalogLoaded, count))
	h.writeJSON(w, http.StatusOK, model.NewSuccessResponse(model.CatalogStatus{
		Path:  h.store.Path(),
		Count: count,
	}))
}

// movieID parses the {id} route variable and writes a 400 response when it
// is not a positive integer.
func (h *MovieHandler) movieID(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := mux.Vars(r)["id"]

	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		h.logger.Warn("invalid movie ID", zap.String("id", raw))
		h.writeError(w, http.StatusBadRequest, "invalid movie ID")
		return 0, false
	}

	return id, true
}

func (h *MovieHandler) decodeMovie(w http.ResponseWriter, r *http.Request, movie *model.Movie) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(movie); err != nil {
		h.logger.Warn("invalid request body", zap.Error(err))
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}

	return true
}

func (h *MovieHandler) writeNavigation(w http.ResponseWriter, movie *model.Movie, err error, operation string) {
	if err != nil {
		h.handleStoreError(w, err, operation)
		return
	}

	h.writeJSON(w, http.StatusOK, model.NewSuccessResponse(movie))
}

// handleStoreError handles store errors and writes appropriate HTTP responses.
func (h *MovieHandler) handleStoreError(w http.ResponseWriter, err error, operation string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		h.writeError(w, http.StatusNotFound, "movie not found")
	case errors.Is(err, store.ErrEmptyStore):
		h.writeError(w, http.StatusNotFound, "catalog is empty")
	case errors.Is(err, store.ErrNoNeighbor):
		h.writeError(w, http.StatusNotFound, "no more movies in that direction")
	case errors.Is(err, store.ErrDuplicateKey):
		h.writeError(w, http.StatusConflict, "movie with this ID already exists")
	case errors.Is(err, store.ErrIDMismatch):
		h.writeError(w, http.StatusBadRequest, "movie ID in body does not match the URL")
	case errors.Is(err, store.ErrPersistence):
		h.logger.Error("catalog persistence failed", zap.String("operation", operation), zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "failed to persist catalog")
	default:
		h.logger.Error("store operation failed", zap.String("operation", operation), zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// writeJSON writes a JSON response with the given status code.
func (h *MovieHandler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}

// writeError writes an error response with the given status code and message.
func (h *MovieHandler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, model.ErrorResponse{
		Code:    status,
		Message: message,
	})
}
