package cli

import (
	"bufio"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vyrodovalexey/moviemanager/internal/auth"
)

// hashResult is the output of the hash-password command.
type hashResult struct {
	Hash string `json:"hash"`
}

func (r hashResult) String() string {
	return r.Hash
}

// NewHashPasswordCommand creates the hash-password command.
func NewHashPasswordCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print a bcrypt hash for APP_BASIC_AUTH_USERS",
		Long: `Print a bcrypt hash for use in APP_BASIC_AUTH_USERS.

The password is read from the first line of standard input when it is
not given as an argument, which keeps it out of shell history.`,
		Example:       `  echo -n s3cret | moviectl hash-password`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)

			var password string
			if len(args) == 1 {
				password = args[0]
			} else {
				scanner := bufio.NewScanner(cmd.InOrStdin())
				if scanner.Scan() {
					password = strings.TrimRight(scanner.Text(), "\r")
				}
			}

			if password == "" {
				return invalidInput(formatter, "password must not be empty")
			}

			hash, err := auth.HashPassword(password)
			if err != nil {
				_ = formatter.Error(ErrCodeGeneric, "failed to hash password", err.Error())
				return WrapExitError(ExitCommandError, "failed to hash password", err)
			}

			return formatter.Success(hashResult{Hash: hash})
		},
	}
}
