package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/wordcloud/pkg/cache"
	"github.com/matzehuels/wordcloud/pkg/pipeline"
	"github.com/matzehuels/wordcloud/pkg/server"
)

// serveCommand starts the HTTP shell over the configured session store.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	var noCache bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve word cloud sessions over HTTP",
		Long: `Serve exposes sessions over a JSON API: create a session, edit its names
and settings, fetch SVG or PNG previews and download the PDF export.
Sessions live in the configured store, so several instances can share them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Server.Addr
			}

			store, err := cfg.OpenStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			var layoutCache cache.Cache = cache.NewNullCache()
			if !noCache {
				lru, err := cache.NewLRUCache(cfg.Server.CacheSize)
				if err != nil {
					return err
				}
				layoutCache = lru
			}
			runner := pipeline.NewRunner(layoutCache, buildKeyer(), c.Logger)
			defer runner.Close()

			srv := server.New(store, runner,
				server.WithLogger(c.Logger),
				server.WithPipelineOptions(cfg.PipelineOptions()),
				server.WithDebounce(cfg.Debounce()),
				server.WithMaxWait(cfg.MaxWait()),
				server.WithMaxSessions(cfg.Server.MaxOpen),
			)
			defer srv.Close()

			printInfo("Serving sessions from the %s store", store.Backend())
			printKeyValue("Listening", StyleLink.Render(displayURL(addr)))
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the in-memory layout cache")
	return cmd
}

// displayURL turns a listen address into a clickable URL.
func displayURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr
}
