package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/itsatony/go-versaprompt"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// exitError carries the exit code for a failed command. An empty msg means
// the command already reported the failure on stdout.
type exitError struct {
	code int
	msg  string
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return e.msg
	}
	return e.msg + ": " + e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func newExitError(code int, msg string, err error) *exitError {
	return &exitError{code: code, msg: msg, err: err}
}

func usageError(msg string) *exitError {
	return newExitError(ExitCodeUsageError, msg, nil)
}

// cliContext holds the streams and global flags shared by all commands.
type cliContext struct {
	stdin         io.Reader
	stdout        io.Writer
	stderr        io.Writer
	storageDriver string
	storageDSN    string
	verbose       bool
}

// run is the main entry point for the CLI, separated for testing
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cli := &cliContext{stdin: stdin, stdout: stdout, stderr: stderr}
	root := newRootCmd(cli)
	root.SetArgs(args)

	err := root.Execute()
	if err == nil {
		return ExitCodeSuccess
	}

	var exitErr *exitError
	if errors.As(err, &exitErr) {
		switch {
		case exitErr.msg == "":
		case exitErr.err == nil:
			fmt.Fprintln(stderr, exitErr.msg)
		default:
			fmt.Fprintf(stderr, FmtErrorWithCause, exitErr.msg, exitErr.err)
		}
		return exitErr.code
	}

	// flag, argument and unknown command errors from cobra
	fmt.Fprintln(stderr, err)
	fmt.Fprintln(stderr, root.UsageString())
	return ExitCodeUsageError
}

func newRootCmd(cli *cliContext) *cobra.Command {
	root := &cobra.Command{
		Use:           CLIName,
		Short:         HelpRootShort,
		Long:          HelpRootLong,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	root.SetIn(cli.stdin)
	root.SetOut(cli.stdout)
	root.SetErr(cli.stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&cli.storageDriver, FlagStorage, os.Getenv(EnvStorage), HelpFlagStorage)
	flags.StringVar(&cli.storageDSN, FlagDSN, os.Getenv(EnvStorageDSN), HelpFlagDSN)
	flags.BoolVarP(&cli.verbose, FlagVerbose, FlagVerboseShort, false, HelpFlagVerbose)

	root.AddCommand(
		newRenderCmd(cli),
		newVarsCmd(cli),
		newValidateCmd(cli),
		newSaveCmd(cli),
		newVersionCmd(cli),
	)
	return root
}

// newLogger returns a console logger on stderr in verbose mode, otherwise a
// no-op logger.
func (c *cliContext) newLogger() *zap.Logger {
	if !c.verbose {
		return zap.NewNop()
	}
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(c.stderr),
		zap.DebugLevel,
	)
	return zap.New(core)
}

// newEngine builds an engine, opening the configured storage if any.
func (c *cliContext) newEngine(opts ...versaprompt.Option) (*versaprompt.Engine, error) {
	opts = append([]versaprompt.Option{versaprompt.WithLogger(c.newLogger())}, opts...)

	if c.storageDriver != "" {
		storage, err := versaprompt.OpenStorage(c.storageDriver, c.storageDSN)
		if err != nil {
			return nil, newExitError(ExitCodeError, ErrMsgOpenStorageFailed, err)
		}
		opts = append(opts, versaprompt.WithStorage(storage))
	}

	engine, err := versaprompt.New(opts...)
	if err != nil {
		return nil, newExitError(ExitCodeError, ErrMsgEngineFailed, err)
	}
	return engine, nil
}

func validateFormat(format string, allowed ...string) error {
	for _, f := range allowed {
		if format == f {
			return nil
		}
	}
	return newExitError(ExitCodeUsageError, ErrMsgInvalidFormat, errors.New(format))
}
