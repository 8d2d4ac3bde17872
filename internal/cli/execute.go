package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
)

func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		asJSON := flagBool(cmd, "json")
		exitErr := NormalizeError(err)
		_ = writeCLIError(cmd.ErrOrStderr(), exitErr, asJSON)
		return exitErr.Code
	}
	return 0
}

func flagBool(cmd interface {
	Flags() *pflag.FlagSet
	PersistentFlags() *pflag.FlagSet
	InheritedFlags() *pflag.FlagSet
}, name string) bool {
	if value, ok := getBool(cmd.Flags(), name); ok {
		return value
	}
	if value, ok := getBool(cmd.PersistentFlags(), name); ok {
		return value
	}
	if value, ok := getBool(cmd.InheritedFlags(), name); ok {
		return value
	}
	return false
}

func getBool(flags *pflag.FlagSet, name string) (bool, bool) {
	if flags == nil {
		return false, false
	}
	if flags.Lookup(name) == nil {
		return false, false
	}
	value, err := flags.GetBool(name)
	if err != nil {
		return false, false
	}
	return value, true
}
