package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"cputable/internal/api"
	"cputable/internal/config"
)

const shutdownTimeout = 5 * time.Second

func newServeCommand(g *globalFlags) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the table over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.resolve()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			return serve(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (default from config, :8080)")
	return cmd
}

// NewServer builds the Echo instance with the table routes registered. The
// handler answers 503 until a dataset is published with SetData.
func NewServer(cfg config.Config) (*echo.Echo, *api.Handler) {
	e := echo.New()
	e.HideBanner = true
	e.Logger = log.New("echo")
	if cfg.Debug {
		e.Logger.SetLevel(log.DEBUG)
	}
	e.Use(middleware.CORS())
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())

	h := api.NewHandler(nil, cfg.RenderOptions())
	h.RegisterRoutes(e)
	return e, h
}

// serve starts listening at once and loads the dataset in the background.
// A failed load stops the server.
func serve(ctx context.Context, cfg config.Config) error {
	e, h := NewServer(cfg)
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Infof("Server ready on %s (data loading in background...)", cfg.Server.Addr)
		if err := e.Start(cfg.Server.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		t0 := time.Now()
		log.Info("BACKGROUND: Loading dataset...")
		ds, err := loadDataset(ctx, cfg)
		if err != nil {
			return err
		}
		h.SetData(ds)
		log.Infof("BACKGROUND: Dataset ready in %v (%d records). API is fully ready.", time.Since(t0), ds.Len())
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(sctx)
	})

	return g.Wait()
}
