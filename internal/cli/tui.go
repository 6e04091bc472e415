package cli

import (
	"io"
	"os"

	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"

	"cputable/internal/engine"
	"cputable/internal/tui"
)

func newTUICommand(g *globalFlags) *cobra.Command {
	var logFile string
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Browse the table interactively in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.resolve()
			if err != nil {
				return err
			}

			// The terminal belongs to the UI; logs go to a file or nowhere.
			out := io.Discard
			if cfg.Debug && logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}
			log.SetOutput(out)
			defer log.SetOutput(os.Stdout)

			vm := engine.NewViewModel(cfg.Bindings())
			records, err := engine.LoadFile(cmd.Context(), cfg.Dataset.Path, cfg.LoadOptions())
			if err != nil {
				return err
			}
			if err := vm.LoadDataset(records); err != nil {
				return err
			}
			return tui.Run(vm, cfg.RenderOptions())
		},
	}
	cmd.Flags().StringVar(&logFile, "log-file", "cputable-debug.log", "where --debug logs go while the UI runs")
	return cmd
}
