// Package model defines data structures used throughout the application.
package model

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestMovie_Validate(t *testing.T) {
	tests := []struct {
		name    string
		movie   Movie
		wantErr error
	}{
		{
			name:    "valid movie",
			movie:   Movie{ID: 1, Title: "Alien", Genre: "Sci-Fi", ReleasedYear: 1979, Director: "Ridley Scott"},
			wantErr: nil,
		},
		{
			name:    "valid movie - unknown year",
			movie:   Movie{ID: 2, Title: "Untitled"},
			wantErr: nil,
		},
		{
			name:    "valid movie - max title length",
			movie:   Movie{ID: 3, Title: strings.Repeat("a", MaxTextLength)},
			wantErr: nil,
		},
		{
			name:    "valid movie - earliest year",
			movie:   Movie{ID: 4, Title: "Roundhay Garden Scene", ReleasedYear: MinReleasedYear},
			wantErr: nil,
		},
		{
			name:    "invalid - zero id",
			movie:   Movie{ID: 0, Title: "Alien"},
			wantErr: ErrInvalidMovieID,
		},
		{
			name:    "invalid - negative id",
			movie:   Movie{ID: -5, Title: "Alien"},
			wantErr: ErrInvalidMovieID,
		},
		{
			name:    "invalid - empty title",
			movie:   Movie{ID: 1},
			wantErr: ErrEmptyTitle,
		},
		{
			name:    "invalid - title too long",
			movie:   Movie{ID: 1, Title: strings.Repeat("a", MaxTextLength+1)},
			wantErr: ErrTitleTooLong,
		},
		{
			name:    "invalid - genre too long",
			movie:   Movie{ID: 1, Title: "Alien", Genre: strings.Repeat("g", MaxTextLength+1)},
			wantErr: ErrGenreTooLong,
		},
		{
			name:    "invalid - director too long",
			movie:   Movie{ID: 1, Title: "Alien", Director: strings.Repeat("d", MaxTextLength+1)},
			wantErr: ErrDirectorTooLong,
		},
		{
			name:    "invalid - year before cinema",
			movie:   Movie{ID: 1, Title: "Alien", ReleasedYear: 1200},
			wantErr: ErrInvalidYear,
		},
		{
			name:    "invalid - negative year",
			movie:   Movie{ID: 1, Title: "Alien", ReleasedYear: -1},
			wantErr: ErrInvalidYear,
		},
		{
			name:    "invalid - title not utf-8",
			movie:   Movie{ID: 1, Title: "bad\xffutf8"},
			wantErr: ErrInvalidText,
		},
		{
			name:    "invalid - genre not utf-8",
			movie:   Movie{ID: 1, Title: "Alien", Genre: "\xc3"},
			wantErr: ErrInvalidText,
		},
		{
			name:    "invalid - director not utf-8",
			movie:   Movie{ID: 1, Title: "Alien", Director: "Ridley\xfe"},
			wantErr: ErrInvalidText,
		},
		{
			name:    "valid movie - multibyte text",
			movie:   Movie{ID: 1, Title: "Amélie", Director: "黒澤明"},
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			err := tt.movie.Validate()

			// Assert
			if err != tt.wantErr {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestMovie_JSONFieldNames(t *testing.T) {
	// Arrange
	movie := Movie{ID: 7, Title: "Heat", Genre: "Crime", ReleasedYear: 1995, Director: "Michael Mann"}

	// Act
	data, err := json.Marshal(movie)

	// Assert
	if err != nil {
		t.Fatalf("json.Marshal() unexpected error: %v", err)
	}

	var result map[string]interface{}
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("json.Unmarshal() unexpected error: %v", err)
	}

	want := map[string]interface{}{
		"movieId":      float64(7),
		"title":        "Heat",
		"genre":        "Crime",
		"releasedYear": float64(1995),
		"director":     "Michael Mann",
	}
	if len(result) != len(want) {
		t.Fatalf("got %d fields, want %d: %v", len(result), len(want), result)
	}
	for key, value := range want {
		if result[key] != value {
			t.Errorf("%s = %v, want %v", key, result[key], value)
		}
	}
}

func TestNewSuccessResponse(t *testing.T) {
	// Act
	resp := NewSuccessResponse(Movie{ID: 1, Title: "Heat"})

	// Assert
	if !resp.Success {
		t.Error("Success should be true")
	}
	if resp.Data.ID != 1 {
		t.Errorf("Data.ID = %d, want 1", resp.Data.ID)
	}
	if resp.Error != "" {
		t.Errorf("Error = %q, want empty", resp.Error)
	}
}

func TestNewMovieEvent(t *testing.T) {
	// Arrange
	movie := Movie{ID: 3, Title: "Ran"}

	// Act
	event := NewMovieEvent(EventMovieAdded, movie)
	movie.Title = "changed"

	// Assert
	if event.Type != EventMovieAdded {
		t.Errorf("Type = %s, want %s", event.Type, EventMovieAdded)
	}
	if event.MovieID != 3 {
		t.Errorf("MovieID = %d, want 3", event.MovieID)
	}
	if event.Movie == nil || event.Movie.Title != "Ran" {
		t.Error("event should carry a snapshot of the movie")
	}
	if event.Timestamp.IsZero() {
		t.Error("Timestamp should be set")
	}
}

func TestNewDeletedEvent(t *testing.T) {
	// Act
	event := NewDeletedEvent(9)

	// Assert
	if event.Type != EventMovieDeleted {
		t.Errorf("Type = %s, want %s", event.Type, EventMovieDeleted)
	}
	if event.MovieID != 9 {
		t.Errorf("MovieID = %d, want 9", event.MovieID)
	}
	if event.Movie != nil {
		t.Error("deleted event should not carry a movie")
	}
}

func TestNewCatalogEvent(t *testing.T) {
	// Act
	event := NewCatalogEvent(EventCatalogLoaded, 12)

	// Assert
	if event.Type != EventCatalogLoaded {
		t.Errorf("Type = %s, want %s", event.Type, EventCatalogLoaded)
	}
	if event.Count != 12 {
		t.Errorf("Count = %d, want 12", event.Count)
	}

	data, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("json.Marshal() unexpected error: %v", err)
	}
	if strings.Contains(string(data), "movieId") {
		t.Errorf("catalog event should omit movieId: %s", data)
	}
}

func TestMovie_ValidateFirstFailingField(t *testing.T) {
	// Arrange
	movie := Movie{ID: 0, Title: "", ReleasedYear: 20000}

	// Act
	err := movie.Validate()

	// Assert
	if err != ErrInvalidMovieID {
		t.Errorf("Validate() error = %v, want %v", err, ErrInvalidMovieID)
	}
}

func TestMovie_ValidateCountsCharacters(t *testing.T) {
	// Arrange
	movie := Movie{ID: 1, Title: strings.Repeat("é", MaxTextLength)}

	// Act
	err := movie.Validate()

	// Assert
	if err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}
}

func TestMovie_Sanitize(t *testing.T) {
	// Arrange
	movie := Movie{ID: 1, Title: "bad\xffutf8", Genre: "Drama", Director: "\xc3\x28"}

	// Act
	movie.Sanitize()

	// Assert
	if movie.Title != "bad\uFFFDutf8" {
		t.Errorf("Title = %q, want %q", movie.Title, "bad\uFFFDutf8")
	}
	if movie.Genre != "Drama" {
		t.Errorf("Genre = %q, want %q", movie.Genre, "Drama")
	}
	if movie.Director != "\uFFFD(" {
		t.Errorf("Director = %q, want %q", movie.Director, "\uFFFD(")
	}
	if err := movie.Validate(); err != nil {
		t.Errorf("Validate() after Sanitize() error = %v, want nil", err)
	}
}
