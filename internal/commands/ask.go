package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/diogo/chatbtc/internal/chat"
	"github.com/diogo/chatbtc/internal/models"
	"github.com/diogo/chatbtc/internal/render"
)

// errNoQuestion is returned when ask gets no argument, file or piped input
var errNoQuestion = errors.New("no question given: pass it as an argument, with -f, or on stdin")

// answerFailure is the error message a failed submit left in the transcript
type answerFailure struct {
	message string
}

func (e *answerFailure) Error() string { return e.message }

// askOptions holds the ask flags
type askOptions struct {
	file string
	raw  bool
	copy bool
}

// NewAskCmd creates the ask command
func NewAskCmd(deps *Dependencies, root *rootOptions) *cobra.Command {
	o := &askOptions{}

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask a single question and print the answer",
		Long: `Ask a single question and print the answer.

The question is taken from the argument, then from --file, then from stdin
when it is piped. A failed request prints the same message the chat window
would show and exits with status 1.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			question, err := readQuestion(deps, o.file, args)
			if err != nil {
				return err
			}
			return runAsk(cmd, deps, root, o, question)
		},
	}

	cmd.Flags().StringVarP(&o.file, "file", "f", "", "Read the question from file")
	cmd.Flags().BoolVarP(&o.raw, "raw", "r", false, "Print only the answer text, without decoration")
	cmd.Flags().BoolVarP(&o.copy, "copy", "c", false, "Copy the answer to the clipboard")

	return cmd
}

// readQuestion resolves the question from args, file or piped stdin
func readQuestion(deps *Dependencies, file string, args []string) (string, error) {
	switch {
	case len(args) > 0:
		return args[0], nil

	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("failed to read file: %w", err)
		}
		return string(data), nil

	case deps.StdinPiped():
		data, err := io.ReadAll(deps.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	return "", errNoQuestion
}

// runAsk runs one submit through a fresh session and prints its outcome
func runAsk(cmd *cobra.Command, deps *Dependencies, root *rootOptions, o *askOptions, question string) error {
	if strings.TrimSpace(question) == "" {
		return chat.ErrEmptyInput
	}

	env, err := root.setup(deps)
	if err != nil {
		return err
	}
	defer env.Close()

	session := chat.NewSession(
		chat.WithLogger(env.logger),
		chat.WithParentContext(cmd.Context()),
	)
	defer session.Close()
	session.UpdateInput(question)

	var spin *spinner
	if !o.raw && deps.Interactive() {
		spin = newSpinner(deps.Stderr, "Asking "+models.AppName)
		spin.start()
	}

	startTime := time.Now()
	if err := session.Submit(cmd.Context(), env.service); err != nil {
		spin.stopWithError()
		return err
	}

	msgs := session.Messages()
	outcome := msgs[len(msgs)-1]
	env.logger.Debug("ask finished",
		zap.Stringer("kind", outcome.Kind),
		zap.Duration("took", time.Since(startTime)))

	if outcome.Kind == models.KindError {
		spin.stopWithError()
		return &answerFailure{message: outcome.Text}
	}
	spin.stopWithSuccess("Done")

	answer := outcome.Text

	if o.copy || env.cfg.CopyToClipboard {
		copyAnswer(deps, answer, o.raw)
	}

	// Raw output mode: output only the answer text
	if o.raw {
		fmt.Fprintln(deps.Stdout, answer)
		return nil
	}

	printAnswer(deps, env, answer)
	return nil
}

// copyAnswer puts the answer on the clipboard. A failure is only a warning.
func copyAnswer(deps *Dependencies, answer string, quiet bool) {
	if err := deps.Clipboard(answer); err != nil {
		warnMsg := lipgloss.NewStyle().Foreground(render.GetTUITheme().Error).Render(
			fmt.Sprintf("⚠ Failed to copy to clipboard: %v", err),
		)
		fmt.Fprintln(deps.Stderr, warnMsg)
		return
	}
	if !quiet {
		fmt.Fprintln(deps.Stderr, successStyle().Render("✓ Copied to clipboard"))
	}
}

// printAnswer writes the answer as a labeled, markdown-rendered block
func printAnswer(deps *Dependencies, env *environment, answer string) {
	bubbleWidth := deps.TermWidth() - 4
	if bubbleWidth < 40 {
		bubbleWidth = 40
	}
	if bubbleWidth > 120 {
		bubbleWidth = 120
	}
	contentWidth := bubbleWidth - 4

	ks := render.GetTUITheme().Answer

	label := lipgloss.NewStyle().
		Foreground(ks.LabelColor).
		Bold(true).
		Render("₿ " + ks.Label)

	rendered := render.Answer(answer, render.OptionsFromConfigWithWidth(env.cfg, contentWidth))

	bubble := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(ks.LabelColor).
		Padding(0, 1).
		Width(bubbleWidth).
		Render(rendered)

	fmt.Fprintln(deps.Stdout, label)
	fmt.Fprintln(deps.Stdout, bubble)
}
