package commands

import (
	"github.com/spf13/cobra"

	"github.com/diogo/chatbtc/internal/chat"
	"github.com/diogo/chatbtc/internal/render"
	"github.com/diogo/chatbtc/internal/tui"
)

// NewChatCmd creates the chat command
func NewChatCmd(deps *Dependencies, root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start the chat window",
		Long: `Start the chat window. This is also what running chatbtc without a
command does.

Enter sends the question; Shift+Enter (or Alt+Enter, Ctrl+J) inserts a
newline. Ctrl+Y copies the last answer. Esc or Ctrl+C quits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, deps, root)
		},
	}
}

func runChat(cmd *cobra.Command, deps *Dependencies, root *rootOptions) error {
	env, err := root.setup(deps)
	if err != nil {
		return err
	}
	defer env.Close()

	session := chat.NewSession(
		chat.WithLogger(env.logger),
		chat.WithParentContext(cmd.Context()),
	)

	return deps.TUI.RunChat(session, env.service,
		tui.WithLogger(env.logger),
		tui.WithMarkdown(render.OptionsFromConfig(env.cfg)),
		tui.WithClipboard(deps.Clipboard),
	)
}
