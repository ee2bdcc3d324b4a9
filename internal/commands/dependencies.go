package commands

import (
	"io"
	"os"

	"github.com/atotto/clipboard"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/diogo/chatbtc/internal/api"
	"github.com/diogo/chatbtc/internal/chat"
	"github.com/diogo/chatbtc/internal/config"
	"github.com/diogo/chatbtc/internal/tui"
)

// AnswerService is an answer service the commands own and must close
type AnswerService interface {
	chat.AnswerService
	Close()
}

// TUIInterface defines the methods required from the TUI package.
type TUIInterface interface {
	RunChat(session *chat.Session, service chat.AnswerService, opts ...tui.ModelOption) error
}

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	// NewService builds the answer service from the loaded configuration.
	NewService func(cfg config.Config, logger *zap.Logger) (AnswerService, error)

	// TUI is the terminal user interface.
	TUI TUIInterface

	// Clipboard writes text to the system clipboard.
	Clipboard func(string) error

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// StdinPiped reports whether stdin carries data rather than a terminal.
	StdinPiped func() bool
	// Interactive reports whether stderr is a terminal, which enables the
	// progress spinner.
	Interactive func() bool
	// TermWidth returns the width used to wrap rendered answers.
	TermWidth func() int
}

// DefaultTUI is the production implementation of TUIInterface.
type DefaultTUI struct{}

func (d *DefaultTUI) RunChat(session *chat.Session, service chat.AnswerService, opts ...tui.ModelOption) error {
	return tui.RunChat(session, service, opts...)
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		NewService:  newAnswerClient,
		TUI:         &DefaultTUI{},
		Clipboard:   clipboard.WriteAll,
		Stdin:       os.Stdin,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
		StdinPiped:  stdinPiped,
		Interactive: stderrIsTTY,
		TermWidth:   getTerminalWidth,
	}
}

// withDefaults fills the fields a test left empty
func (d *Dependencies) withDefaults() *Dependencies {
	def := NewDependencies()
	if d == nil {
		return def
	}
	out := *d
	if out.NewService == nil {
		out.NewService = def.NewService
	}
	if out.TUI == nil {
		out.TUI = def.TUI
	}
	if out.Clipboard == nil {
		out.Clipboard = def.Clipboard
	}
	if out.Stdin == nil {
		out.Stdin = def.Stdin
	}
	if out.Stdout == nil {
		out.Stdout = def.Stdout
	}
	if out.Stderr == nil {
		out.Stderr = def.Stderr
	}
	if out.StdinPiped == nil {
		out.StdinPiped = def.StdinPiped
	}
	if out.Interactive == nil {
		out.Interactive = def.Interactive
	}
	if out.TermWidth == nil {
		out.TermWidth = def.TermWidth
	}
	return &out
}

// newAnswerClient builds the HTTP answer client
func newAnswerClient(cfg config.Config, logger *zap.Logger) (AnswerService, error) {
	pipeline, err := cfg.Pipeline()
	if err != nil {
		return nil, err
	}
	client, err := api.NewClient(cfg,
		api.WithLogger(logger),
		api.WithPipeline(pipeline),
		api.WithTimeout(cfg.Timeout),
	)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// stdinPiped returns true if stdin is not a character device
func stdinPiped() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// stderrIsTTY returns true if stderr is connected to a terminal
func stderrIsTTY() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}

// getTerminalWidth returns the terminal width or a default value
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // default width
	}
	return width
}
