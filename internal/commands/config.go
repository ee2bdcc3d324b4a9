package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/diogo/chatbtc/internal/config"
	apierrors "github.com/diogo/chatbtc/internal/errors"
	"github.com/diogo/chatbtc/internal/render"
)

// NewConfigCmd creates the config command and its subcommands
func NewConfigCmd(deps *Dependencies, root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and edit the configuration",
		Long: `Inspect and edit the chatbtc configuration.

Values are read from the config file, then overridden by CHATBTC_*
environment variables (VITE_BASE_URL, VITE_API_KEY and VITE_SPEC_HASH are
accepted too).`,
	}

	cmd.AddCommand(newConfigShowCmd(deps, root))
	cmd.AddCommand(newConfigPathCmd(deps, root))
	cmd.AddCommand(newConfigSetCmd(deps, root))

	return cmd
}

func newConfigShowCmd(deps *Dependencies, root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration with the API key masked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(root.configPath)
			if err != nil {
				return err
			}

			out, err := yaml.Marshal(cfg.Masked())
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}
			fmt.Fprint(deps.Stdout, string(out))
			return nil
		},
	}
}

func newConfigPathCmd(deps *Dependencies, root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := root.configPath
			if path == "" {
				var err error
				if path, err = config.GetConfigPath(); err != nil {
					return err
				}
			}
			fmt.Fprintln(deps.Stdout, path)
			return nil
		},
	}
}

func newConfigSetCmd(deps *Dependencies, root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set one configuration value",
		Long: fmt.Sprintf(`Set one configuration value in the config file.

Available keys: %s
Available themes: %s`,
			strings.Join(config.AvailableKeys(), ", "),
			strings.Join(render.TUIThemeNames(), ", ")),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]

			if key == config.KeyTheme {
				if _, ok := render.GetTUIThemeByName(value); !ok {
					return apierrors.NewConfigError(key,
						fmt.Sprintf("unknown theme %q (available: %s)", value, strings.Join(render.TUIThemeNames(), ", ")))
				}
			}

			if err := config.SetValue(root.configPath, key, value); err != nil {
				return err
			}

			shown := value
			if key == config.KeyAPIKey {
				shown = config.MaskSecret(value)
			}
			fmt.Fprintln(deps.Stdout, successStyle().Render(fmt.Sprintf("✓ %s = %s", key, shown)))
			return nil
		},
	}
}
