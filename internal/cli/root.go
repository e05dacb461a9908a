// Package cli implements the weblog command.
package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

// Main runs the weblog command with the program's arguments and returns its
// exit status.
func Main() int {
	root := NewRootCommand()
	if err := root.Execute(); err != nil {
		var r reported
		if !errors.As(err, &r) {
			fmt.Fprintln(root.ErrOrStderr(), "Error:", err)
		}
		return 1
	}
	return 0
}

// reported marks an error that has already been written to the log.
type reported struct {
	err error
}

func (r reported) Error() string { return r.err.Error() }

func (r reported) Unwrap() error { return r.err }

// NewRootCommand returns the weblog command with all its subcommands.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "weblog",
		Short: "Summarise web server access logs",
		Long: `weblog reads a web server access log in Common or Combined Log Format and
reports how many distinct addresses made requests, which addresses made the
most, and which routes were requested most often.

Settings come from flags, WEBLOG_* environment variables, a .env file in the
current directory, or a YAML file given with --config, in that order of
precedence.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("config", "", "config file (YAML)")
	root.PersistentFlags().String("env-file", ".env", "file of KEY=value settings to load into the environment")
	root.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	root.PersistentFlags().String("log-format", "text", "log format: text, json")

	root.AddCommand(newAnalyzeCommand())
	root.AddCommand(newGenerateCommand())
	return root
}
