// Package model defines data structures used throughout the application.
package model

import (
	"errors"
	"time"
)

// Validation errors for Movie.
var (
	ErrInvalidMovieID  = errors.New("movie ID must be a positive integer")
	ErrEmptyTitle      = errors.New("title cannot be empty")
	ErrTitleTooLong    = errors.New("title cannot exceed 255 characters")
	ErrGenreTooLong    = errors.New("genre cannot exceed 255 characters")
	ErrDirectorTooLong = errors.New("director cannot exceed 255 characters")
	ErrInvalidYear     = errors.New("released year must be between 1888 and 9999")
	ErrInvalidText     = errors.New("text fields must be valid UTF-8")
)

// Validation constants.
const (
	MaxTextLength   = 255
	MinReleasedYear = 1888
	MaxReleasedYear = 9999
)

// Movie is one catalog entry. ID is caller-assigned and is the sort key.
// The validate tags must stay in line with the validation constants.
type Movie struct {
	ID           int    `json:"movieId" validate:"gt=0"`
	Title        string `json:"title" validate:"required,utf8,max=255"`
	Genre        string `json:"genre" validate:"utf8,max=255"`
	ReleasedYear int    `json:"releasedYear" validate:"omitempty,min=1888,max=9999"`
	Director     string `json:"director" validate:"utf8,max=255"`
}

// APIResponse is a generic wrapper for API responses.
type APIResponse[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// NewSuccessResponse creates a successful API response.
func NewSuccessResponse[T any](data T) APIResponse[T] {
	return APIResponse[T]{
		Success: true,
		Data:    data,
	}
}

// ErrorResponse represents an error response structure.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// CatalogStatus is returned by the save and load endpoints.
type CatalogStatus struct {
	Path  string `json:"path"`
	Count int    `json:"count"`
}

// ChangeEvent is pushed to change feed subscribers after the catalog changes.
type ChangeEvent struct {
	Type      string    `json:"type"`
	MovieID   int       `json:"movieId,omitempty"`
	Movie     *Movie    `json:"movie,omitempty"`
	Count     int       `json:"count,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Change event types.
const (
	EventMovieAdded    = "movie_added"
	EventMovieUpdated  = "movie_updated"
	EventMovieDeleted  = "movie_deleted"
	EventCatalogLoaded = "catalog_loaded"
	EventCatalogSaved  = "catalog_saved"
)

// NewMovieEvent creates a change event that carries a movie snapshot.
func NewMovieEvent(eventType string, movie Movie) ChangeEvent {
	return ChangeEvent{
		Type:      eventType,
		MovieID:   movie.ID,
		Movie:     &movie,
		Timestamp: time.Now().UTC(),
	}
}

// NewDeletedEvent creates a change event for a removed movie.
func NewDeletedEvent(id int) ChangeEvent {
	return ChangeEvent{
		Type:      EventMovieDeleted,
		MovieID:   id,
		Timestamp: time.Now().UTC(),
	}
}

// NewCatalogEvent creates a catalog-wide change event.
func NewCatalogEvent(eventType string, count int) ChangeEvent {
	return ChangeEvent{
		Type:      eventType,
		Count:     count,
		Timestamp: time.Now().UTC(),
	}
}
