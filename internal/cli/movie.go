package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vyrodovalexey/moviemanager/internal/model"
)

// movieFlags are the editable movie fields.
type movieFlags struct {
	ID       int
	Title    string
	Genre    string
	Year     int
	Director string
}

func (f *movieFlags) register(cmd *cobra.Command, withID bool) {
	if withID {
		cmd.Flags().IntVar(&f.ID, "id", 0, "movie ID (positive integer)")
	}
	cmd.Flags().StringVarP(&f.Title, "title", "t", "", "title")
	cmd.Flags().StringVarP(&f.Genre, "genre", "g", "", "genre")
	cmd.Flags().IntVarP(&f.Year, "year", "y", 0, "released year")
	cmd.Flags().StringVarP(&f.Director, "director", "d", "", "director")
}

// apply copies the flags the user set onto movie.
func (f *movieFlags) apply(cmd *cobra.Command, movie *model.Movie) {
	changed := cmd.Flags().Changed
	if changed("title") {
		movie.Title = f.Title
	}
	if changed("genre") {
		movie.Genre = f.Genre
	}
	if changed("year") {
		movie.ReleasedYear = f.Year
	}
	if changed("director") {
		movie.Director = f.Director
	}
}

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &movieFlags{}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a movie to the catalog",
		Example: `  moviectl add --id 1 --title "Alien" --genre Sci-Fi --year 1979 --director "Ridley Scott"`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAdd(rootOpts, flags, cmd)
		},
	}

	flags.register(cmd, true)
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func runAdd(opts *RootOptions, flags *movieFlags, cmd *cobra.Command) error {
	movie := model.Movie{ID: flags.ID}
	flags.apply(cmd, &movie)

	formatter := newFormatter(opts, cmd)
	if err := movie.Validate(); err != nil {
		return invalidInput(formatter, err.Error())
	}

	s, err := openSession(opts, cmd)
	if err != nil {
		return err
	}
	defer s.close()

	added, err := s.store.Add(s.ctx, &movie)
	if err != nil {
		return storeFailure(s.formatter, err)
	}

	s.formatter.VerboseLog("Added movie %d", added.ID)
	return s.formatter.Success(added)
}

// NewUpdateCommand creates the update command.
func NewUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &movieFlags{}

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of an existing movie",
		Long: `Change fields of an existing movie.

Only the fields given as flags change; the others keep their current
values. The movie ID itself cannot be changed.`,
		Example:       `  moviectl update 1 --year 1979`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpdate(rootOpts, flags, args[0], cmd)
		},
	}

	flags.register(cmd, false)

	return cmd
}

func runUpdate(opts *RootOptions, flags *movieFlags, arg string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	id, err := parseID(formatter, arg)
	if err != nil {
		return err
	}

	s, err := openSession(opts, cmd)
	if err != nil {
		return err
	}
	defer s.close()

	current, err := s.store.Get(s.ctx, id)
	if err != nil {
		return storeFailure(s.formatter, err)
	}

	movie := *current
	flags.apply(cmd, &movie)
	if err := movie.Validate(); err != nil {
		return invalidInput(s.formatter, err.Error())
	}

	updated, err := s.store.Update(s.ctx, id, &movie)
	if err != nil {
		return storeFailure(s.formatter, err)
	}

	s.formatter.VerboseLog("Updated movie %d", updated.ID)
	return s.formatter.Success(updated)
}

// deleteResult is the output of the delete command.
type deleteResult struct {
	MovieID int  `json:"movieId"`
	Deleted bool `json:"deleted"`
}

func (r deleteResult) String() string {
	return fmt.Sprintf("Deleted movie %d", r.MovieID)
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "delete <id>",
		Aliases:       []string{"rm"},
		Short:         "Delete a movie from the catalog",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(rootOpts, args[0], cmd)
		},
	}
}

func runDelete(opts *RootOptions, arg string, cmd *cobra.Command) error {
	id, err := parseID(newFormatter(opts, cmd), arg)
	if err != nil {
		return err
	}

	s, err := openSession(opts, cmd)
	if err != nil {
		return err
	}
	defer s.close()

	if err := s.store.Delete(s.ctx, id); err != nil {
		return storeFailure(s.formatter, err)
	}

	return s.formatter.Success(deleteResult{MovieID: id, Deleted: true})
}
