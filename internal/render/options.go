// Package render turns answer text into styled terminal output and holds the
// color themes of the chat view.
package render

import "github.com/charmbracelet/glamour"

// minWidth keeps very narrow windows from wrapping every word
const minWidth = 20

// Options configures how answer markdown is drawn. Options is comparable and
// identifies the renderers built from it.
type Options struct {
	// Width is the wrap column
	Width int

	// Style is a glamour standard style name ("dark", "light", "dracula",
	// "tokyo-night", "notty", ...) or a path to a JSON style file
	Style string

	// Emoji converts :shortcodes: to unicode characters
	Emoji bool

	// KeepNewlines keeps the line breaks of the answer as sent
	KeepNewlines bool
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Width:        80,
		Style:        "dark",
		Emoji:        true,
		KeepNewlines: true,
	}
}

// WithWidth returns a copy wrapping at width.
func (o Options) WithWidth(width int) Options {
	o.Width = width
	return o
}

// WithStyle returns a copy using style.
func (o Options) WithStyle(style string) Options {
	o.Style = style
	return o
}

// normalized fills an empty style and raises the width to minWidth
func (o Options) normalized() Options {
	if o.Style == "" {
		o.Style = DefaultOptions().Style
	}
	if o.Width < minWidth {
		o.Width = minWidth
	}
	return o
}

// termOptions maps o to glamour options. WithStylePath resolves glamour's
// standard style names before trying the filesystem, so both forms work.
func (o Options) termOptions() []glamour.TermRendererOption {
	opts := []glamour.TermRendererOption{
		glamour.WithStylePath(o.Style),
		glamour.WithWordWrap(o.Width),
	}
	if o.Emoji {
		opts = append(opts, glamour.WithEmoji())
	}
	if o.KeepNewlines {
		opts = append(opts, glamour.WithPreservedNewLines())
	}
	return opts
}
