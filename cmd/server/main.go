// Command server runs the tutorial site and its authoring tools.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/p-n-ai/pai-tutorials/internal/assets"
	"github.com/p-n-ai/pai-tutorials/internal/platform/cache"
	"github.com/p-n-ai/pai-tutorials/internal/platform/config"
	"github.com/p-n-ai/pai-tutorials/internal/platform/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// app carries the configuration shared by every command.
type app struct {
	envFile string
	cfg     *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:          "tutorials",
		Short:        "Tutorial site server",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// The server logs to stdout; tools keep stdout for their output.
			w := cmd.ErrOrStderr()
			if cmd.Name() == "serve" || cmd.Parent() == nil {
				w = cmd.OutOrStdout()
			}
			return a.setup(w)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}
	root.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "optional .env file to load before reading TUTOR_* variables")

	root.AddCommand(
		newServeCmd(a),
		newResolveCmd(a),
		newCheckCmd(a),
		newPushCmd(a),
		newVersionCmd(),
	)
	return root
}

func (a *app) setup(logOut io.Writer) error {
	if err := config.LoadDotEnv(a.envFile); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := logging.Setup(logOut, cfg.Log); err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}

// source is an asset source that can report its health.
type source interface {
	assets.Source
	HealthCheck(ctx context.Context) error
}

// openSource opens the configured asset source. The returned func releases it.
func openSource(ctx context.Context, cfg *config.Config) (source, func(), error) {
	switch cfg.Assets.Source {
	case "redis":
		c, err := cache.New(ctx, cfg.Cache.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to asset cache: %w", err)
		}
		return assets.NewRedisSource(c, cfg.Cache.KeyPrefix), func() { c.Close() }, nil
	default:
		src, err := assets.NewDirSource(cfg.Assets.Dir)
		if err != nil {
			return nil, nil, err
		}
		return src, func() {}, nil
	}
}
