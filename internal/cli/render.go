package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/labstack/gommon/log"
	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"

	"cputable/internal/engine"
	"cputable/internal/render"
)

type renderFlags struct {
	search       string
	manufacturer string
	platform     string
	cores        string
	sortColumn   string
	descending   bool
	format       string
	output       string
}

func newRenderCommand(g *globalFlags) *cobra.Command {
	var f renderFlags
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render one filtered and sorted view to a file",
		Long: "Render one view of the dataset as an HTML table fragment, a full " +
			"HTML page or JSON. Output is written atomically.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.resolve()
			if err != nil {
				return err
			}
			ds, err := loadDataset(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			if err := renderView(&buf, ds, f, cfg.RenderOptions()); err != nil {
				return err
			}
			if f.output == "" || f.output == "-" {
				_, err := cmd.OutOrStdout().Write(buf.Bytes())
				return err
			}
			if err := atomic.WriteFile(f.output, &buf); err != nil {
				return fmt.Errorf("write %s: %w", f.output, err)
			}
			log.Infof("Wrote %s", f.output)
			return nil
		},
	}
	cmd.Flags().SortFlags = false
	cmd.Flags().StringVarP(&f.search, "search", "s", "", "model search text")
	cmd.Flags().StringVar(&f.manufacturer, "manufacturer", "", "manufacturer filter")
	cmd.Flags().StringVar(&f.platform, "platform", "", "platform filter")
	cmd.Flags().StringVar(&f.cores, "cores", "", "core count filter")
	cmd.Flags().StringVar(&f.sortColumn, "sort", "", "column to sort by (name or id)")
	cmd.Flags().BoolVar(&f.descending, "desc", false, "sort descending")
	cmd.Flags().StringVarP(&f.format, "format", "f", "page", `output format ("page", "html" or "json")`)
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (default stdout)")
	return cmd
}

// renderView computes the view selected by f and writes it in f.format.
func renderView(w io.Writer, ds *engine.Dataset, f renderFlags, opts render.Options) error {
	filter := engine.FilterState{
		Search:       f.search,
		Manufacturer: f.manufacturer,
		Platform:     f.platform,
		Cores:        f.cores,
	}
	sort := engine.SortState{Column: f.sortColumn}
	if f.descending {
		sort.Direction = engine.Descending
	}

	m := engine.FromDataset(ds)
	if err := m.Restore(filter, sort); err != nil {
		return err
	}

	switch f.format {
	case "page":
		return render.WritePage(w, render.NewPageData(m, opts))
	case "html":
		return render.WriteTable(w, render.Table(m.View(), m.Sort(), opts), nil)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(render.Response(m, opts))
	}
	return fmt.Errorf("invalid format %q (must be \"page\", \"html\" or \"json\")", f.format)
}
