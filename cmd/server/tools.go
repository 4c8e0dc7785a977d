package main

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/p-n-ai/pai-tutorials/internal/assets"
	"github.com/p-n-ai/pai-tutorials/internal/platform/cache"
	"github.com/p-n-ai/pai-tutorials/internal/tutorial"
)

// version is set via -ldflags at build time.
var version = "(devel)"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the current version",
		Args:  cobra.NoArgs,
		// Needs no configuration.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "tutorials", version)
		},
	}
}

func newResolveCmd(a *app) *cobra.Command {
	var render bool
	cmd := &cobra.Command{
		Use:   "resolve <course> [topic]",
		Short: "Resolve a tutorial and print it",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			course, topic := args[0], ""
			if len(args) == 2 {
				topic = args[1]
			}

			src, closeSource, err := openSource(ctx, a.cfg)
			if err != nil {
				return err
			}
			defer closeSource()

			loader := assets.NewLoader(src)
			resolver := tutorial.NewResolver(tutorial.ResolverConfig{
				Loader:       loader,
				AssetBaseURL: a.cfg.Assets.BaseURL,
			})
			t, err := resolver.Resolve(ctx, course, topic)
			if err != nil {
				return err
			}

			if !render {
				out, err := json.MarshalIndent(t, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(out))
				return nil
			}

			body, err := loader.Content(ctx, course, topic)
			if err != nil {
				return err
			}
			r, err := glamour.NewTermRenderer(
				glamour.WithAutoStyle(),
				glamour.WithWordWrap(80),
			)
			if err != nil {
				return fmt.Errorf("creating renderer: %w", err)
			}
			out, err := r.Render(string(body))
			if err != nil {
				return fmt.Errorf("rendering %s/%s: %w", course, topic, err)
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().BoolVar(&render, "render", false, "render the markdown body to the terminal instead of printing JSON")
	return cmd
}

// errInvalidAssets is returned by check when any asset fails validation.
var errInvalidAssets = errors.New("invalid assets")

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate every asset in TUTOR_ASSETS_DIR",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := assets.NewDirSource(a.cfg.Assets.Dir)
			if err != nil {
				return err
			}
			return checkTree(cmd, src)
		},
	}
}

func checkTree(cmd *cobra.Command, src *assets.DirSource) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	var checked, invalid int
	err := src.Walk(func(name string) error {
		ok, err := assets.Check(ctx, src, name)
		if !ok {
			return nil
		}
		checked++
		if err != nil {
			invalid++
			fmt.Fprintf(out, "FAIL %s: %v\n", name, err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walking %s: %w", src.Root(), err)
	}

	fmt.Fprintf(out, "%d assets checked, %d invalid\n", checked, invalid)
	if invalid > 0 {
		return fmt.Errorf("%w: %d of %d", errInvalidAssets, invalid, checked)
	}
	return nil
}

func newPushCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "push",
		Short: "Validate TUTOR_ASSETS_DIR and copy it into the asset cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			src, err := assets.NewDirSource(a.cfg.Assets.Dir)
			if err != nil {
				return err
			}
			if err := checkTree(cmd, src); err != nil {
				return err
			}

			c, err := cache.New(ctx, a.cfg.Cache.URL)
			if err != nil {
				return fmt.Errorf("connecting to asset cache: %w", err)
			}
			defer c.Close()

			n, err := assets.Mirror(ctx, src, assets.NewRedisSource(c, a.cfg.Cache.KeyPrefix))
			if err != nil {
				return fmt.Errorf("pushing assets: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "pushed %d assets\n", n)
			return nil
		},
	}
}
