package render

import (
	"github.com/diogo/chatbtc/internal/config"
)

// OptionsFromConfig builds render options from the loaded configuration.
// GLAMOUR_STYLE is already folded into cfg.Markdown.Style by the loader.
func OptionsFromConfig(cfg config.Config) Options {
	opts := DefaultOptions()
	if cfg.Markdown.Style != "" {
		opts.Style = cfg.Markdown.Style
	}
	return opts
}

// OptionsFromConfigWithWidth builds options from config with a specific width.
func OptionsFromConfigWithWidth(cfg config.Config, width int) Options {
	return OptionsFromConfig(cfg).WithWidth(width)
}
