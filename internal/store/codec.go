package store

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/vyrodovalexey/moviemanager/internal/model"
)

// document is the on-disk layout: decimal ID string to movie.
// Entries are pointers so that a null body can be told apart from an empty one.
type document map[string]*model.Movie

// encodeCatalog renders the index as an indented JSON object.
func encodeCatalog(ix *index) ([]byte, error) {
	doc := make(document, ix.len())
	for _, id := range ix.ids {
		movie := ix.movies[id]
		doc[strconv.Itoa(id)] = &movie
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal catalog: %w", err)
	}

	return data, nil
}

// decodeCatalog parses a catalog document. Empty input and a JSON null
// decode to an empty catalog. The object key is authoritative for the ID.
// An entry whose body is null is rejected.
func decodeCatalog(data []byte) (map[int]model.Movie, error) {
	movies := make(map[int]model.Movie)
	if len(bytes.TrimSpace(data)) == 0 {
		return movies, nil
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal catalog: %w", err)
	}

	for key, movie := range doc {
		id, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("invalid movie key %q: %w", key, err)
		}
		if movie == nil {
			return nil, fmt.Errorf("movie key %q has no body", key)
		}
		if _, dup := movies[id]; dup {
			return nil, fmt.Errorf("movie key %q duplicates ID %d", key, id)
		}
		movie.ID = id
		movies[id] = *movie
	}

	return movies, nil
}
