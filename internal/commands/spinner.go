package commands

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/chatbtc/internal/render"
)

// Gradient colors for animation, orange to amber
var gradientColors = []lipgloss.Color{
	lipgloss.Color("#DD6B20"),
	lipgloss.Color("#ED8936"),
	lipgloss.Color("#F6AD55"),
	lipgloss.Color("#FBD38D"),
	lipgloss.Color("#F6E05E"),
	lipgloss.Color("#FBD38D"),
	lipgloss.Color("#F6AD55"),
	lipgloss.Color("#ED8936"),
}

// spinner handles the animated loading indicator on stderr. A nil spinner
// is valid and draws nothing.
type spinner struct {
	out     io.Writer
	message string
	stop    chan struct{}
	done    chan struct{}
	mu      sync.Mutex
	frame   int
	stopped bool // Flag to prevent double-close
}

// newSpinner creates a new animated spinner writing to out
func newSpinner(out io.Writer, message string) *spinner {
	return &spinner{
		out:     out,
		message: message,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// start begins the animation
func (s *spinner) start() {
	if s == nil {
		return
	}
	go func() {
		defer close(s.done)

		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		// Hide cursor
		fmt.Fprint(s.out, "\033[?25l")

		for {
			select {
			case <-s.stop:
				// Clear line and show cursor
				fmt.Fprint(s.out, "\r\033[K\033[?25h")
				return
			case <-ticker.C:
				s.mu.Lock()
				s.render()
				s.frame++
				s.mu.Unlock()
			}
		}
	}()
}

// render draws the current animation frame
func (s *spinner) render() {
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

	spinColor := gradientColors[s.frame%len(gradientColors)]
	spinnerChar := lipgloss.NewStyle().Foreground(spinColor).Bold(true).Render(chars[s.frame%len(chars)])

	theme := render.GetTUITheme()
	var dots strings.Builder
	numDots := (s.frame / 3) % 4
	for i := 0; i < 3; i++ {
		if i < numDots {
			dotColor := gradientColors[(s.frame+i)%len(gradientColors)]
			dots.WriteString(lipgloss.NewStyle().Foreground(dotColor).Render("●"))
		} else {
			dots.WriteString(lipgloss.NewStyle().Foreground(theme.TextMute).Render("○"))
		}
	}

	msg := lipgloss.NewStyle().Foreground(theme.Text).Render(s.message)

	fmt.Fprintf(s.out, "\r\033[K%s %s %s", spinnerChar, msg, dots.String())
}

// stopOnce safely closes the stop channel only once
func (s *spinner) stopOnce() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.stopped {
		close(s.stop)
		s.stopped = true
	}
}

// stopWithSuccess stops the spinner and shows success message
func (s *spinner) stopWithSuccess(message string) {
	if s == nil {
		return
	}
	s.stopOnce()
	<-s.done

	fmt.Fprintln(s.out, successStyle().Render("✓ "+message))
}

// stopWithError stops the spinner and clears its line
func (s *spinner) stopWithError() {
	if s == nil {
		return
	}
	s.stopOnce()
	<-s.done
}

// successStyle is used for confirmations written to stderr
func successStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#68D391")).Bold(true)
}
