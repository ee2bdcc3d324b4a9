package commands

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestSpinnerLifecycle_StopWithSuccess(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(&buf, "Asking")
	s.start()
	// Let it spin briefly
	time.Sleep(50 * time.Millisecond)
	s.stopWithSuccess("done")

	if !strings.Contains(buf.String(), "✓ done") {
		t.Errorf("expected success line, got %q", buf.String())
	}
}

func TestSpinnerLifecycle_StopWithError(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(&buf, "Asking")
	s.start()
	time.Sleep(30 * time.Millisecond)
	// Should stop cleanly on error (no panic)
	s.stopWithError()

	if strings.Contains(buf.String(), "✓") {
		t.Errorf("error stop must not print a success mark, got %q", buf.String())
	}
}

func TestSpinner_DoubleStop(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(&buf, "Asking")
	s.start()
	s.stopWithError()
	// A second stop must not panic on a closed channel
	s.stopOnce()
}

func TestSpinner_Nil(t *testing.T) {
	var s *spinner
	s.start()
	s.stopWithSuccess("done")
	s.stopWithError()
}
