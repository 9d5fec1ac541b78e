package commands

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/kin/am"
	"github.com/teranos/kin/errors"
	"github.com/teranos/kin/logger"
	"github.com/teranos/kin/server"
	"github.com/teranos/kin/sym"
	"github.com/teranos/kin/version"
)

func newServeCmd() *cobra.Command {
	var (
		addr    string
		noWatch bool
	)

	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"server"},
		Short:   sym.Serve + " Start the kin HTTP and websocket server",
		Long: sym.Serve + ` serve - Start the kin server

Endpoints:
  GET /api/parse?q=PHRASE
  GET /api/suggest?q=PREFIX&limit=N
  GET /api/graph?q=PHRASE&format=dot|json
  GET /health
  GET /metrics       Prometheus metrics
  GET /ws            Type-ahead websocket

The active config file is watched; rate limits and suggestion limits apply
on save without a restart.`,
		Example: `  kin serve
  kin serve --addr 0.0.0.0:8080
  KIN_SERVER_RATE_LIMIT=5 kin serve -v`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			cfg := *loaded
			if addr != "" {
				cfg.Server.BindAddress = addr
			}

			// Request logs are the point of running a server; default to info
			verbosity, _ := cmd.Flags().GetCount("verbose")
			if verbosity == 0 {
				verbosity = 1
				if err := logger.Initialize(cfg.Log.JSON, verbosity); err != nil {
					return errors.Wrap(err, "failed to initialize logger")
				}
			}

			srv, err := server.New(&cfg)
			if err != nil {
				return errors.Wrap(err, "failed to create server")
			}

			watched := ""
			if !noWatch {
				watched, _ = cmd.Flags().GetString("config")
				if watched == "" {
					watched = am.ActiveConfigPath()
				}
				if watched != "" {
					if err := srv.WatchConfig(watched); err != nil {
						logger.Warnw("Config watching disabled", logger.FieldFile, watched, logger.FieldError, err)
						watched = ""
					}
				}
			}

			printStartupBanner(cmd.OutOrStdout(), &cfg, verbosity, watched)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.Start(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default: server.bind_address)")
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "Do not reload the config file on change")
	return cmd
}

// printStartupBanner prints the user-friendly startup message
func printStartupBanner(w io.Writer, cfg *am.Config, verbosity int, watched string) {
	info := version.Get()

	lines := []string{
		fmt.Sprintf("Version:   %s (commit %s)", info.Version, info.Short()),
		fmt.Sprintf("Listening: http://%s", cfg.Server.BindAddress),
		fmt.Sprintf("Verbosity: %s", logger.LevelName(verbosity)),
	}
	if cfg.Server.RateLimit > 0 {
		lines = append(lines, fmt.Sprintf("Rate:      %g req/s per client (burst %d)", cfg.Server.RateLimit, cfg.Server.RateBurst))
	} else {
		lines = append(lines, "Rate:      unlimited")
	}
	if watched != "" {
		lines = append(lines, fmt.Sprintf("Config:    %s (watching)", watched))
	}

	box := pterm.DefaultBox.WithTitle(sym.Serve + " kin").Sprint(strings.Join(lines, "\n"))
	fmt.Fprintf(w, "\n%s\n\n", box)
	fmt.Fprintln(w, pterm.LightBlue("Press Ctrl+C to stop"))
}
