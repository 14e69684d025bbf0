package cli

import (
	"github.com/spf13/cobra"

	"github.com/vyrodovalexey/moviemanager/internal/tui"
)

// NewBrowseCommand creates the browse command.
func NewBrowseCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse the catalog interactively",
		Long: `Browse the catalog one movie at a time in the terminal.

Keys: f first, l last, n next, p previous, d delete, r reload, q quit.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer s.close()

			if err := tui.Run(s.ctx, s.store, cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
				_ = s.formatter.Error(ErrCodeGeneric, "browser failed", err.Error())
				return WrapExitError(ExitCommandError, "browser failed", err)
			}
			return nil
		},
	}
}
