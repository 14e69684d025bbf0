package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// catalogResult is the output of the save and load commands.
type catalogResult struct {
	Action string `json:"action"`
	Path   string `json:"path"`
	Count  int    `json:"count"`
}

func (r catalogResult) String() string {
	switch r.Action {
	case "saved":
		return fmt.Sprintf("Saved %d movie(s) to %s", r.Count, r.Path)
	default:
		return fmt.Sprintf("Loaded %d movie(s) from %s", r.Count, r.Path)
	}
}

// NewSaveCommand creates the save command.
func NewSaveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "save",
		Short: "Rewrite the catalog file",
		Long: `Rewrite the catalog file from its parsed contents.

Changes are already saved as they are made; save normalizes the file
layout (sorted keys, two-space indentation).`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer s.close()

			if err := s.store.Save(s.ctx); err != nil {
				return storeFailure(s.formatter, err)
			}

			count, err := s.store.Count(s.ctx)
			if err != nil {
				return storeFailure(s.formatter, err)
			}

			return s.formatter.Success(catalogResult{Action: "saved", Path: s.store.Path(), Count: count})
		},
	}
}

// NewLoadCommand creates the load command.
func NewLoadCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "load",
		Short:         "Read the catalog file and report how many movies it holds",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer s.close()

			count, err := s.store.Load(s.ctx)
			if err != nil {
				return storeFailure(s.formatter, err)
			}

			return s.formatter.Success(catalogResult{Action: "loaded", Path: s.store.Path(), Count: count})
		},
	}
}
