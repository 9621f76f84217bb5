// Command courseimport converts course spreadsheets to JSON and writes blank
// templates, without a database.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/JonMunkholm/courseimport/internal/logging"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:   "courseimport",
		Short: "Convert course content spreadsheets to JSON",
		Long: `courseimport detects which content template a spreadsheet follows
(quiz, conversation, vocabulary or practice sentences) and converts its rows
to JSON records. Accepts .xlsx, .xls and .csv, optionally compressed.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Records go to stdout, so logs stay on stderr.
			logging.Setup(cmd.ErrOrStderr(), logLevel, "text")
		},
	}

	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level: debug, info, warn, error")

	root.AddCommand(newConvertCmd(), newTemplateCmd(), newSchemasCmd())
	return root
}
