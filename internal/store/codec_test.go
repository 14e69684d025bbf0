package store

import (
	"strings"
	"testing"

	"github.com/vyrodovalexey/moviemanager/internal/model"
)

func TestEncodeCatalog_Layout(t *testing.T) {
	// Arrange
	ix := newIndex()
	ix.put(model.Movie{ID: 2, Title: "B", Genre: "Drama", ReleasedYear: 2001, Director: "Y"})

	// Act
	data, err := encodeCatalog(ix)

	// Assert
	if err != nil {
		t.Fatalf("encodeCatalog() unexpected error: %v", err)
	}

	want := `{
  "2": {
    "movieId": 2,
    "title": "B",
    "genre": "Drama",
    "releasedYear": 2001,
    "director": "Y"
  }
}`
	if string(data) != want {
		t.Errorf("encodeCatalog() =\n%s\nwant\n%s", data, want)
	}
}

func TestEncodeCatalog_Empty(t *testing.T) {
	data, err := encodeCatalog(newIndex())
	if err != nil {
		t.Fatalf("encodeCatalog() unexpected error: %v", err)
	}
	if strings.TrimSpace(string(data)) != "{}" {
		t.Errorf("encodeCatalog() = %s, want {}", data)
	}

	movies, err := decodeCatalog(data)
	if err != nil {
		t.Fatalf("decodeCatalog() unexpected error: %v", err)
	}
	if len(movies) != 0 {
		t.Errorf("decodeCatalog() returned %d movies, want 0", len(movies))
	}
}

func TestDecodeCatalog(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantCount int
		wantErr   bool
	}{
		{"empty input", "", 0, false},
		{"json null", "null", 0, false},
		{"empty object", "{}", 0, false},
		{"two movies", `{"1": {"movieId": 1, "title": "A"}, "2": {"movieId": 2, "title": "B"}}`, 2, false},
		{"unknown fields ignored", `{"1": {"movieId": 1, "title": "A", "rating": 5}}`, 1, false},
		{"truncated", `{"1": {`, 0, true},
		{"wrong field type", `{"1": {"movieId": "one"}}`, 0, true},
		{"non-numeric key", `{"x": {"movieId": 1}}`, 0, true},
		{"negative key", `{"-3": {"movieId": -3, "title": "A"}}`, 1, false},
		{"colliding keys", `{"7": {"movieId": 7}, "07": {"movieId": 7}}`, 0, true},
		{"null entry", `{"5": null}`, 0, true},
		{"null among valid entries", `{"1": {"movieId": 1, "title": "A"}, "5": null}`, 0, true},
		{"empty entry body", `{"5": {}}`, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			movies, err := decodeCatalog([]byte(tt.input))
			if tt.wantErr {
				if err == nil {
					t.Error("decodeCatalog() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("decodeCatalog() unexpected error: %v", err)
			}
			if len(movies) != tt.wantCount {
				t.Errorf("decodeCatalog() returned %d movies, want %d", len(movies), tt.wantCount)
			}
		})
	}
}
