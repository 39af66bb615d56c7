package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/NielsdaWheelz/wsgen/internal/catalog"
	"github.com/NielsdaWheelz/wsgen/internal/config"
	"github.com/NielsdaWheelz/wsgen/internal/errors"
	"github.com/NielsdaWheelz/wsgen/internal/render"
	"github.com/NielsdaWheelz/wsgen/internal/version"
)

func newCatalogCmd(env *Env) *cobra.Command {
	var (
		category string
		jsonOut  bool
	)
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List template bundles and shared config definitions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := env.catalog()
			if err != nil {
				return err
			}
			if category != "" && !slices.Contains(catalog.Categories, catalog.Category(category)) {
				names := make([]string, len(catalog.Categories))
				for i, c := range catalog.Categories {
					names[i] = string(c)
				}
				return errors.WithHint(
					errors.NewWithDetails(errors.EUsage, "unknown category", map[string]string{"category": category}),
					"categories: "+strings.Join(names, ", "))
			}
			listing := render.NewCatalogListing(cat, catalog.Category(category))
			if jsonOut {
				return render.WriteJSON(env.Stdout, listing)
			}
			return render.WriteCatalogHuman(env.Stdout, listing)
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "only list one category, e.g. framework")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the listing as JSON")
	return cmd
}

func newConfigCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect wsgen's own configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show [target]",
		Short: "Print the resolved configuration as TOML",
		Long: `Print the configuration after merging defaults, ~/.config/wsgen/config.toml,
<target>/.wsgen.toml and WSGEN_* environment variables.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := resolveTarget(env, args)
			if err != nil {
				return err
			}
			cfg, err := config.Load(config.Options{UserDir: env.UserConfigDir, Target: target})
			if err != nil {
				return err
			}
			out, err := cfg.MarshalTOML()
			if err != nil {
				return errors.Wrap(errors.EInternal, "failed to encode config", err)
			}
			for _, src := range cfg.Sources {
				fmt.Fprintf(env.Stdout, "# from %s\n", src)
			}
			_, err = env.Stdout.Write(out)
			return err
		},
	})
	return cmd
}

func newVersionCmd(env *Env) *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := version.Get()
			if jsonOut {
				return render.WriteJSON(env.Stdout, info)
			}
			_, err := fmt.Fprintf(env.Stdout, "%s %s %s\n", info, info.GoVersion, info.Platform)
			return err
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print as JSON")
	return cmd
}
