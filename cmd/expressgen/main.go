package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"goa.design/clue/log"
)

var version = "0.3.0"

func newRootCmd() *cobra.Command {
	var (
		debug     bool
		logFormat string
	)
	rootCmd := &cobra.Command{
		Use:           "expressgen",
		Short:         "Generate Express + Mongoose CRUD services",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := logContext(cmd.Context(), logFormat, debug)
			if err != nil {
				return err
			}
			cmd.SetContext(ctx)
			return nil
		},
	}
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logs")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: terminal, text or json (default: terminal on a TTY, json otherwise)")

	rootCmd.AddCommand(newInitCmd(), newPlanCmd(), newDoctorCmd(), newVersionCmd())
	return rootCmd
}

func logContext(ctx context.Context, format string, debug bool) (context.Context, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	var formatFunc log.FormatFunc
	switch format {
	case "":
		formatFunc = log.FormatJSON
		if log.IsTerminal() {
			formatFunc = log.FormatTerminal
		}
	case "terminal":
		formatFunc = log.FormatTerminal
	case "text":
		formatFunc = log.FormatText
	case "json":
		formatFunc = log.FormatJSON
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
	ctx = log.Context(ctx, log.WithFormat(formatFunc), log.WithOutput(os.Stderr))
	if debug {
		ctx = log.Context(ctx, log.WithDebug())
		log.Debugf(ctx, "debug logs enabled")
	}
	return ctx, nil
}

func main() {
	ctx := log.Context(context.Background(), log.WithOutput(os.Stderr))
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		log.Errorf(ctx, err, "expressgen failed")
		os.Exit(1)
	}
}
