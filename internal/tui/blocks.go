package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/chatbtc/internal/chat"
	"github.com/diogo/chatbtc/internal/models"
	"github.com/diogo/chatbtc/internal/render"
)

// Block is one labeled entry of the transcript as it is drawn
type Block struct {
	Kind   models.Kind
	Text   string
	Style  render.KindStyle
	Typing bool
}

// Blocks maps a snapshot to the blocks to draw, using the active theme.
func Blocks(snap chat.Snapshot) []Block {
	return ThemedBlocks(snap, render.GetTUITheme())
}

// ThemedBlocks maps a snapshot to blocks with an explicit theme. One block per
// message in order, plus a trailing typing block styled as an answer while a
// response is pending.
func ThemedBlocks(snap chat.Snapshot, theme render.TUITheme) []Block {
	blocks := make([]Block, 0, len(snap.Messages)+1)
	for _, msg := range snap.Messages {
		blocks = append(blocks, Block{
			Kind:  msg.Kind,
			Text:  msg.Text,
			Style: theme.StyleFor(msg.Kind),
		})
	}
	if snap.Awaiting {
		blocks = append(blocks, Block{
			Kind:   models.KindAnswer,
			Style:  theme.StyleFor(models.KindAnswer),
			Typing: true,
		})
	}
	return blocks
}

// blockRenderer draws blocks at a given width
type blockRenderer struct {
	width    int
	markdown render.Options
	typing   string
}

// bubbleWidth is the width of one block inside the messages area
func (r blockRenderer) bubbleWidth() int {
	w := r.width * 4 / 5
	if w < 20 {
		w = r.width
	}
	return w
}

// render draws one block, aligned inside the full width
func (r blockRenderer) render(b Block) string {
	width := r.bubbleWidth()
	inner := width - 2
	if inner < 1 {
		inner = 1
	}

	label := labelStyle(b.Style).Render(b.Style.Label)

	var body string
	switch {
	case b.Typing:
		body = bodyStyle(b.Style).Render(r.typing)
	case b.Kind == models.KindAnswer:
		body = render.Answer(b.Text, r.markdown.WithWidth(inner))
	default:
		body = bodyStyle(b.Style).Width(inner).Render(b.Text)
	}

	box := blockStyle(b.Style, width).Render(lipgloss.JoinVertical(lipgloss.Left, label, body))

	pos := lipgloss.Left
	if b.Style.AlignRight {
		pos = lipgloss.Right
	}
	return lipgloss.PlaceHorizontal(r.width, pos, box)
}

// blockCache holds drawn message blocks by position and width. Messages
// never change once appended, so an entry stays valid until resize.
type blockCache map[blockKey]string

type blockKey struct {
	index int
	width int
}

// renderAll draws the whole transcript. Typing blocks are never cached.
func (r blockRenderer) renderAll(blocks []Block, cache blockCache) string {
	rendered := make([]string, len(blocks))
	for i, b := range blocks {
		k := blockKey{index: i, width: r.width}
		if out, ok := cache[k]; ok && !b.Typing {
			rendered[i] = out
			continue
		}
		rendered[i] = r.render(b)
		if cache != nil && !b.Typing {
			cache[k] = rendered[i]
		}
	}
	return strings.Join(rendered, "\n\n")
}
