package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/vyrodovalexey/moviemanager/internal/store"
)

// session holds what a catalog command needs for one invocation.
type session struct {
	ctx       context.Context
	formatter *OutputFormatter
	store     *store.FileStore
	logger    *zap.Logger
}

// newFormatter builds the formatter for cmd from the global flags.
func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// openSession opens the catalog named by --file. A catalog file that exists
// but cannot be parsed is an error, so it is never overwritten.
func openSession(opts *RootOptions, cmd *cobra.Command) (*session, error) {
	formatter := newFormatter(opts, cmd)
	logger := newLogger(cmd.ErrOrStderr(), opts.Verbose)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	formatter.VerboseLog("Using catalog %s", opts.File)

	s, err := store.OpenFileStore(ctx, opts.File, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, storeFailure(formatter, err)
	}

	return &session{
		ctx:       ctx,
		formatter: formatter,
		store:     s,
		logger:    logger,
	}, nil
}

func (s *session) close() {
	_ = s.logger.Sync()
}

// newLogger returns a console logger for diagnostics on w. Only errors are
// shown unless verbose is set.
func newLogger(w io.Writer, verbose bool) *zap.Logger {
	level := zapcore.ErrorLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(w),
		zap.NewAtomicLevelAt(level),
	)

	return zap.New(core)
}

// storeFailure reports err through formatter and converts it to an
// ExitError carrying the matching exit code.
func storeFailure(formatter *OutputFormatter, err error) error {
	code, exitCode, message := classifyStoreError(err)

	var details any
	if code == ErrCodePersistence || code == ErrCodeGeneric {
		details = err.Error()
	}

	_ = formatter.Error(code, message, details)
	return WrapExitError(exitCode, message, err)
}

func classifyStoreError(err error) (code string, exitCode int, message string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return ErrCodeNotFound, ExitFailure, "movie not found"
	case errors.Is(err, store.ErrEmptyStore):
		return ErrCodeEmpty, ExitFailure, "catalog is empty"
	case errors.Is(err, store.ErrNoNeighbor):
		return ErrCodeNoNeighbor, ExitFailure, "no more movies in that direction"
	case errors.Is(err, store.ErrDuplicateKey):
		return ErrCodeDuplicate, ExitFailure, "movie with this ID already exists"
	case errors.Is(err, store.ErrIDMismatch):
		return ErrCodeIDMismatch, ExitCommandError, "movie ID does not match the target ID"
	case errors.Is(err, store.ErrPersistence):
		return ErrCodePersistence, ExitCommandError, "catalog file could not be read or written"
	default:
		return ErrCodeGeneric, ExitCommandError, "catalog operation failed"
	}
}

// invalidInput reports a usage problem.
func invalidInput(formatter *OutputFormatter, message string) error {
	_ = formatter.Error(ErrCodeInvalidInput, message, nil)
	return NewExitError(ExitCommandError, message)
}

// parseID parses a movie ID argument.
func parseID(formatter *OutputFormatter, arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, invalidInput(formatter, fmt.Sprintf("invalid movie ID %q: must be a positive integer", arg))
	}
	return id, nil
}
