package cli

import (
	"io"
	"time"

	"github.com/bitfield/weblog"
	"github.com/spf13/cobra"
)

func newGenerateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write random access log lines",
		Long: `Generate writes random lines in Combined Log Format to standard output,
optionally compressed, for trying out weblog analyze. A few addresses and
routes occur much more often than the rest. With --malformed, some lines are
deliberately broken.`,
		Example: `  weblog generate -n 1000 > access.log
  weblog generate -n 100000 --compress zstd > access.log.zst
  weblog generate --seed 42 --malformed 0.05 | weblog analyze /dev/stdin`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lines, _ := cmd.Flags().GetInt("lines")
			seed, _ := cmd.Flags().GetInt64("seed")
			addresses, _ := cmd.Flags().GetInt("addresses")
			routes, _ := cmd.Flags().GetInt("routes")
			malformed, _ := cmd.Flags().GetFloat64("malformed")
			compress, _ := cmd.Flags().GetString("compress")

			if seed == 0 {
				seed = time.Now().UnixNano()
			}
			w, err := weblog.NewCompressor(cmd.OutOrStdout(), compress)
			if err != nil {
				return err
			}
			g := weblog.NewGenerator(seed, addresses, routes).WithMalformed(malformed)
			if _, err := io.Copy(w, weblog.Generate(g, lines)); err != nil {
				w.Close()
				return err
			}
			return w.Close()
		},
	}

	cmd.Flags().IntP("lines", "n", 100, "number of lines to write")
	cmd.Flags().Int64("seed", 0, "random seed (0 picks one)")
	cmd.Flags().Int("addresses", 20, "number of distinct client addresses")
	cmd.Flags().Int("routes", 20, "number of distinct routes")
	cmd.Flags().Float64("malformed", 0, "fraction of lines to break, between 0 and 1")
	cmd.Flags().String("compress", "none", "compression: none, gzip, zstd")
	return cmd
}
