package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/repolens/repolens/internal/server"
	"github.com/repolens/repolens/pkg/analyzer"
	"github.com/repolens/repolens/pkg/github"
	"github.com/repolens/repolens/pkg/service"
	"github.com/repolens/repolens/pkg/store"
)

// shutdownTimeout bounds graceful drain of in-flight requests.
const shutdownTimeout = 10 * time.Second

// newServeCmd creates the "serve" command, which runs the HTTP API until
// interrupted.
func newServeCmd(configPath *string) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the analysis HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if addr != "" {
				cfg.Addr = addr
			}

			client := github.NewClient(cfg.GitHubToken)
			agg := analyzer.New(client, analyzer.WithLogger(logger))
			st := store.New(store.WithTTL(cfg.CacheTTL.Duration))
			svc := service.New(agg, st, service.WithLogger(logger))
			srv := server.New(cfg.Addr, svc, logger)

			if cfg.GitHubToken == "" {
				printWarning("No GitHub token configured, using unauthenticated rate limits")
			}

			errCh := make(chan error, 1)
			go func() { errCh <- srv.Start() }()

			select {
			case err := <-errCh:
				return err
			case <-cmd.Context().Done():
				ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				return srv.Shutdown(ctx)
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}
