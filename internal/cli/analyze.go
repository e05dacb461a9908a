package cli

import (
	"log/slog"

	"github.com/bitfield/weblog"
	"github.com/bitfield/weblog/internal/config"
	"github.com/bitfield/weblog/internal/logging"
	"github.com/spf13/cobra"
)

// flagKeys maps command-line flags to configuration keys.
var flagKeys = map[string]string{
	"file":       "file",
	"exec":       "exec",
	"encoding":   "encoding",
	"top-active": "top_active",
	"top-routes": "top_routes",
	"filter":     "filter",
	"by":         "by",
	"top-by":     "top_by",
	"output":     "output",
	"chunk-size": "chunk_size",
	"log-level":  "log.level",
	"log-format": "log.format",
}

func newAnalyzeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "analyze [file]",
		Aliases: []string{"analyse"},
		Short:   "Report the busiest addresses and routes in an access log",
		Long: `Analyze reads an access log and reports the number of unique client
addresses, the most active addresses, and the most visited routes. Lines that
are not in the log format are reported as warnings and skipped.

Compressed logs (gzip or zstd) are decompressed automatically.`,
		Example: `  weblog analyze access.log
  weblog analyze --top-active 10 --top-routes 5 access.log.gz
  weblog analyze --encoding latin1 --output json access.log
  weblog analyze --filter '.status >= 500' --by user_agent access.log
  weblog analyze --exec 'journalctl -u nginx -o cat'`,
		Args: cobra.MaximumNArgs(1),
		RunE: runAnalyze,
	}

	f := cmd.Flags()
	f.StringP("file", "f", "", "access log to read")
	f.String("exec", "", "command whose output to read instead of a file")
	f.StringP("encoding", "e", "utf-8", "text encoding of the log")
	f.IntP("top-active", "a", weblog.DefaultTop, "number of most active addresses to report")
	f.IntP("top-routes", "r", weblog.DefaultTop, "number of most visited routes to report")
	f.String("filter", "", "jq expression selecting the records to analyze")
	f.String("by", "", "also rank the values of this field")
	f.Int("top-by", weblog.DefaultTop, "number of values to report for --by")
	f.StringP("output", "o", weblog.FormatTable, "output format: table, json, yaml")
	f.Int("chunk-size", weblog.DefaultChunkSize, "bytes to read from the input at a time")
	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	logger := logging.New(cmd.ErrOrStderr(), logging.ParseLevel(cfg.Log.Level), cfg.Log.Format)
	if err := analyze(cmd, cfg, logger); err != nil {
		logger.Error("analysis failed", logging.Error(err))
		return reported{err}
	}
	return nil
}

func analyze(cmd *cobra.Command, cfg config.Config, logger *slog.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	var p *weblog.Pipe
	if cfg.Exec != "" {
		p = weblog.Exec(cfg.Exec)
	} else {
		p = weblog.File(cfg.File)
	}
	p = p.WithEncoding(cfg.Encoding).WithChunkSize(cfg.ChunkSize).WithLogger(logger)
	if cfg.Filter != "" {
		p = p.WithQuery(cfg.Filter)
	}

	logger.Info("parsing log", logging.Source(p.Name()), logging.Encoding(cfg.Encoding))
	report, err := p.Analyze(cfg.Options())
	if err != nil {
		return err
	}
	logger.Debug("writing results", logging.FieldOutput, cfg.Output, "run_id", report.RunID)
	return report.Write(cmd.OutOrStdout(), cfg.Output)
}

// loadConfig assembles the configuration from the .env file, the config file,
// the environment and the command's flags. A positional argument names the
// log file, taking precedence over everything else.
func loadConfig(cmd *cobra.Command, args []string) (config.Config, error) {
	flags := cmd.Flags()
	envFile, _ := flags.GetString("env-file")
	if err := config.LoadEnvFile(envFile, flags.Changed("env-file")); err != nil {
		return config.Config{}, err
	}
	v := config.New()
	for name, key := range flagKeys {
		if flag := flags.Lookup(name); flag != nil {
			if err := v.BindPFlag(key, flag); err != nil {
				return config.Config{}, err
			}
		}
	}
	if len(args) > 0 {
		v.Set("file", args[0])
	}
	cfgFile, _ := flags.GetString("config")
	return config.Load(v, cfgFile)
}
