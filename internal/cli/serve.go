package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/minescope/bedrockver/internal/server"
	"github.com/minescope/bedrockver/pkg/bedrock"
)

// defaultServeAddr is the listen address used when neither the flag nor the
// config file sets one.
const defaultServeAddr = ":8080"

// serveCommand creates the serve command exposing channel reports over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr  string
		fetch fetchFlags
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve channel reports as a JSON API",
		Long: `Start an HTTP server that exposes the version checker as a small JSON API.

Endpoints:
  GET /v1/versions/{channel}         full report for a channel (stable, preview)
  GET /v1/versions/{channel}/latest  just the latest version
  GET /healthz                       liveness probe

Every request fetches fresh data from the download links endpoint, so the
retry and timeout flags apply per request.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(fetch.configPath)
			if err != nil {
				return err
			}
			opts, err := fetch.apply(cmd, cfg)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("addr") && cfg.Serve.Addr != "" {
				addr = cfg.Serve.Addr
			}
			return c.runServe(cmd.Context(), opts, addr)
		},
	}

	fetch.register(cmd)
	cmd.Flags().StringVar(&addr, "addr", defaultServeAddr, "listen address")

	return cmd
}

// runServe blocks until the server shuts down or ctx is cancelled.
func (c *CLI) runServe(ctx context.Context, opts bedrock.Options, addr string) error {
	client := c.newClient(opts)

	srv := server.New(server.Config{
		Addr:   addr,
		Source: client,
		Logger: c.Logger,
	})

	printNewline()
	printInfo("Listening on %s", StyleHighlight.Render(addr))
	printKeyValue("Source", StyleLink.Render(client.Endpoint()))
	printKeyValue("Channels", "stable, preview")
	printNextStep("Try", curlHint(addr))
	printNewline()

	if err := srv.Run(ctx); err != nil {
		return err
	}
	printSuccess("Server stopped")
	return nil
}

// curlHint builds a copyable example request for the configured address.
func curlHint(addr string) string {
	host := addr
	if strings.HasPrefix(addr, ":") {
		host = "localhost" + addr
	}
	return "curl http://" + host + "/v1/versions/stable"
}
