package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/treekit/treekit/internal/api"
	"github.com/treekit/treekit/pkg/cache"
	"github.com/treekit/treekit/pkg/pipeline"
)

// serveCommand creates the serve command running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		noCache  bool
		redisURL string
		mongoURI string
		mongoDB  string
		scope    string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP JSON API",
		Long: `Run the HTTP JSON API.

Exposes the layout and consensus pipeline over HTTP:

  POST /v1/layout     compute coordinates for a tree document
  POST /v1/consensus  build a consensus tree from a collection
  GET  /healthz       liveness probe

By default results are cached in the local file cache. For hosted
deployments, point --redis or --mongo at a shared backend; --scope prefixes
cache keys for namespace isolation between instances.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := c.serveCache(ctx, noCache, redisURL, mongoURI, mongoDB)
			if err != nil {
				return fmt.Errorf("initialize cache: %w", err)
			}

			var keyer cache.Keyer
			if scope != "" {
				keyer = cache.NewScopedKeyer(nil, scope+":")
			}

			runner := pipeline.NewRunner(store, keyer, c.Logger)
			defer runner.Close()

			server := api.NewServer(runner, c.Logger)
			return server.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&redisURL, "redis", os.Getenv("TREEKIT_REDIS_URL"), "Redis cache URL (redis://host:port/db)")
	cmd.Flags().StringVar(&mongoURI, "mongo", os.Getenv("TREEKIT_MONGO_URI"), "MongoDB cache URI (mongodb://host:port)")
	cmd.Flags().StringVar(&mongoDB, "mongo-db", "treekit", "MongoDB database name")
	cmd.Flags().StringVar(&scope, "scope", "", "cache key prefix for namespace isolation")

	return cmd
}

// serveCache picks the cache backend from the serve flags. Precedence:
// disabled, Redis, MongoDB, local file cache.
func (c *CLI) serveCache(ctx context.Context, noCache bool, redisURL, mongoURI, mongoDB string) (cache.Cache, error) {
	switch {
	case noCache:
		return cache.NewNullCache(), nil
	case redisURL != "":
		c.Logger.Info("using redis cache")
		return cache.NewRedisCache(ctx, redisURL)
	case mongoURI != "":
		c.Logger.Info("using mongodb cache")
		return cache.NewMongoCache(ctx, mongoURI, mongoDB)
	default:
		dir, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	}
}
