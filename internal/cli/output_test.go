package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyrodovalexey/moviemanager/internal/model"
	"github.com/vyrodovalexey/moviemanager/internal/store"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	err := formatter.Success(model.Movie{ID: 1, Title: "Alien"})
	require.NoError(t, err)

	var resp struct {
		Status string      `json:"status"`
		Data   model.Movie `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "Alien", resp.Data.Title)
}

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	err := formatter.Error(ErrCodeNotFound, "movie not found", nil)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
	assert.Equal(t, "movie not found", resp.Error.Message)
	assert.Nil(t, resp.Error.Details)
}

func TestOutputFormatter_TextError(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		want    string
	}{
		{"quiet", false, "Error [E008]: write failed\n"},
		{"verbose", true, "Error [E008]: write failed\nDetails: disk full\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			formatter := &OutputFormatter{Format: "text", Writer: buf, Verbose: tt.verbose}

			require.NoError(t, formatter.Error(ErrCodePersistence, "write failed", "disk full"))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestOutputFormatter_TextSuccess(t *testing.T) {
	tests := []struct {
		name string
		data any
		want string
	}{
		{
			name: "movie pointer",
			data: &model.Movie{ID: 2, Title: "Heat", Genre: "Crime", ReleasedYear: 1995, Director: "Michael Mann"},
			want: "Movie ID:      2\nTitle:         Heat\nGenre:         Crime\nReleased Year: 1995\nDirector:      Michael Mann\n",
		},
		{
			name: "unknown year",
			data: model.Movie{ID: 3, Title: "Untitled"},
			want: "Movie ID:      3\nTitle:         Untitled\nGenre:         \nReleased Year: -\nDirector:      \n",
		},
		{
			name: "list",
			data: []model.Movie{{ID: 1, Title: "A"}, {ID: 2, Title: "B"}},
			want: "Movie ID:      1\nTitle:         A\nGenre:         \nReleased Year: -\nDirector:      \n" +
				"\n" +
				"Movie ID:      2\nTitle:         B\nGenre:         \nReleased Year: -\nDirector:      \n",
		},
		{name: "empty list", data: []model.Movie{}, want: "No movies in catalog\n"},
		{name: "stringer", data: deleteResult{MovieID: 4, Deleted: true}, want: "Deleted movie 4\n"},
		{name: "plain string", data: "done", want: "done\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			formatter := &OutputFormatter{Format: "text", Writer: buf}

			require.NoError(t, formatter.Success(tt.data))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestOutputFormatter_VerboseLog(t *testing.T) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}

	quiet := &OutputFormatter{Writer: out, ErrWriter: errOut}
	quiet.VerboseLog("hidden %d", 1)
	assert.Empty(t, out.String())
	assert.Empty(t, errOut.String())

	loud := &OutputFormatter{Writer: out, ErrWriter: errOut, Verbose: true}
	loud.VerboseLog("shown %d", 2)
	assert.Empty(t, out.String())
	assert.Equal(t, "shown 2\n", errOut.String())

	fallback := &OutputFormatter{Writer: out, Verbose: true}
	assert.Equal(t, out, fallback.GetErrWriter())
}

func TestExitError(t *testing.T) {
	cause := errors.New("disk full")

	plain := NewExitError(ExitFailure, "movie not found")
	assert.Equal(t, "movie not found", plain.Error())
	assert.Nil(t, plain.Unwrap())

	wrapped := WrapExitError(ExitCommandError, "save failed", cause)
	assert.Equal(t, "save failed: disk full", wrapped.Error())
	assert.ErrorIs(t, wrapped, cause)
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"exit error", NewExitError(ExitCommandError, "bad"), ExitCommandError},
		{"wrapped exit error", fmt.Errorf("run: %w", NewExitError(ExitFailure, "missing")), ExitFailure},
		{"plain error", errors.New("boom"), ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetExitCode(tt.err))
		})
	}
}

func TestClassifyStoreError(t *testing.T) {
	tests := []struct {
		err      error
		wantCode string
		wantExit int
	}{
		{store.ErrNotFound, ErrCodeNotFound, ExitFailure},
		{store.ErrEmptyStore, ErrCodeEmpty, ExitFailure},
		{store.ErrNoNeighbor, ErrCodeNoNeighbor, ExitFailure},
		{store.ErrDuplicateKey, ErrCodeDuplicate, ExitFailure},
		{store.ErrIDMismatch, ErrCodeIDMismatch, ExitCommandError},
		{fmt.Errorf("write: %w: %w", store.ErrPersistence, errors.New("eio")), ErrCodePersistence, ExitCommandError},
		{errors.New("other"), ErrCodeGeneric, ExitCommandError},
	}

	for _, tt := range tests {
		t.Run(tt.wantCode, func(t *testing.T) {
			code, exitCode, message := classifyStoreError(tt.err)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantExit, exitCode)
			assert.NotEmpty(t, message)
		})
	}
}
