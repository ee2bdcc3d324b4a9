package render

import (
	"sync"

	"github.com/charmbracelet/glamour"
)

// maxIdle bounds the idle renderers kept per option set
const maxIdle = 4

// rendererSet hands out glamour renderers by options. A TermRenderer keeps
// state across Render calls, so one is never used by two callers at once:
// acquire takes it out of the set and release puts it back.
type rendererSet struct {
	mu    sync.Mutex
	idle  map[Options][]*glamour.TermRenderer
	built int
}

var renderers = newRendererSet()

func newRendererSet() *rendererSet {
	return &rendererSet{idle: make(map[Options][]*glamour.TermRenderer)}
}

// acquire returns an idle renderer for opts or builds a new one
func (s *rendererSet) acquire(opts Options) (*glamour.TermRenderer, error) {
	s.mu.Lock()
	if list := s.idle[opts]; len(list) > 0 {
		tr := list[len(list)-1]
		s.idle[opts] = list[:len(list)-1]
		s.mu.Unlock()
		return tr, nil
	}
	s.mu.Unlock()

	tr, err := glamour.NewTermRenderer(opts.termOptions()...)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.built++
	s.mu.Unlock()
	return tr, nil
}

// release makes tr available again; extra renderers beyond maxIdle are dropped
func (s *rendererSet) release(opts Options, tr *glamour.TermRenderer) {
	if tr == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.idle[opts]) < maxIdle {
		s.idle[opts] = append(s.idle[opts], tr)
	}
}

// idleCount returns the idle renderers held for opts
func (s *rendererSet) idleCount(opts Options) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.idle[opts])
}

// builtCount returns how many renderers were ever built
func (s *rendererSet) builtCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.built
}

// ResetRenderers drops every idle renderer.
func ResetRenderers() {
	renderers.mu.Lock()
	renderers.idle = make(map[Options][]*glamour.TermRenderer)
	renderers.mu.Unlock()
}
