package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/vyrodovalexey/moviemanager/internal/model"
	"github.com/vyrodovalexey/moviemanager/internal/store"
)

// lookupFunc fetches one movie from an open store.
type lookupFunc func(ctx context.Context, s *store.FileStore, id int) (*model.Movie, error)

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	return newLookupCommand(rootOpts, "show <id>", "Show one movie", true,
		func(ctx context.Context, s *store.FileStore, id int) (*model.Movie, error) {
			return s.Get(ctx, id)
		})
}

// NewFirstCommand creates the first command.
func NewFirstCommand(rootOpts *RootOptions) *cobra.Command {
	return newLookupCommand(rootOpts, "first", "Show the movie with the lowest ID", false,
		func(ctx context.Context, s *store.FileStore, _ int) (*model.Movie, error) {
			return s.First(ctx)
		})
}

// NewLastCommand creates the last command.
func NewLastCommand(rootOpts *RootOptions) *cobra.Command {
	return newLookupCommand(rootOpts, "last", "Show the movie with the highest ID", false,
		func(ctx context.Context, s *store.FileStore, _ int) (*model.Movie, error) {
			return s.Last(ctx)
		})
}

// NewNextCommand creates the next command.
func NewNextCommand(rootOpts *RootOptions) *cobra.Command {
	return newLookupCommand(rootOpts, "next <id>", "Show the movie after the given ID", true,
		func(ctx context.Context, s *store.FileStore, id int) (*model.Movie, error) {
			return s.Next(ctx, id)
		})
}

// NewPrevCommand creates the prev command.
func NewPrevCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := newLookupCommand(rootOpts, "prev <id>", "Show the movie before the given ID", true,
		func(ctx context.Context, s *store.FileStore, id int) (*model.Movie, error) {
			return s.Previous(ctx, id)
		})
	cmd.Aliases = []string{"previous"}
	return cmd
}

func newLookupCommand(rootOpts *RootOptions, use, short string, takesID bool, lookup lookupFunc) *cobra.Command {
	args := cobra.NoArgs
	if takesID {
		args = cobra.ExactArgs(1)
	}

	return &cobra.Command{
		Use:           use,
		Short:         short,
		Args:          args,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookup(rootOpts, args, lookup, cmd)
		},
	}
}

func runLookup(opts *RootOptions, args []string, lookup lookupFunc, cmd *cobra.Command) error {
	var id int
	if len(args) == 1 {
		parsed, err := parseID(newFormatter(opts, cmd), args[0])
		if err != nil {
			return err
		}
		id = parsed
	}

	s, err := openSession(opts, cmd)
	if err != nil {
		return err
	}
	defer s.close()

	movie, err := lookup(s.ctx, s.store, id)
	if err != nil {
		return storeFailure(s.formatter, err)
	}

	return s.formatter.Success(movie)
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Aliases:       []string{"ls"},
		Short:         "List all movies in ID order",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer s.close()

			movies, err := s.store.List(s.ctx)
			if err != nil {
				return storeFailure(s.formatter, err)
			}

			s.formatter.VerboseLog("Found %d movie(s)", len(movies))
			return s.formatter.Success(movies)
		},
	}
}
