package render

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Markdown renders markdown content for terminal display.
func Markdown(content string, opts Options) (string, error) {
	opts = opts.normalized()

	tr, err := renderers.acquire(opts)
	if err != nil {
		return "", err
	}
	defer renderers.release(opts, tr)

	return tr.Render(content)
}

// Answer renders an answer body for a chat block. The blank lines glamour
// adds around the document are dropped; on a render failure the raw text is
// returned so an answer is never lost.
func Answer(content string, opts Options) string {
	out, err := Markdown(content, opts)
	if err != nil {
		return content
	}
	return trimBlankLines(out)
}

// trimBlankLines drops leading and trailing lines that hold only whitespace
// or escape sequences
func trimBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	start, end := 0, len(lines)
	for start < end && isBlank(lines[start]) {
		start++
	}
	for end > start && isBlank(lines[end-1]) {
		end--
	}
	return strings.Join(lines[start:end], "\n")
}

func isBlank(line string) bool {
	return strings.TrimSpace(ansi.Strip(line)) == ""
}
