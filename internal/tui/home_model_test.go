package tui

import (
	"strings"
	"testing"

	"nugget-cli/internal/app"
)

func TestHomeSelectionMovesWithinBounds(t *testing.T) {
	application := testApplication(t)
	h := newHomeModel(NewTheme(""))
	h.setNuggets([]app.Nugget{ready("n1", "one"), ready("n2", "two")})

	keys := defaultKeyMap()
	h, _ = h.handleKey(keyPress("down"), keys, application)
	if h.selected != 1 {
		t.Fatalf("expected selection 1, got %d", h.selected)
	}
	h, _ = h.handleKey(keyPress("down"), keys, application)
	if h.selected != 1 {
		t.Fatalf("selection must clamp at the last item, got %d", h.selected)
	}
	h, _ = h.handleKey(keyPress("up"), keys, application)
	h, _ = h.handleKey(keyPress("up"), keys, application)
	if h.selected != 0 {
		t.Fatalf("selection must clamp at 0, got %d", h.selected)
	}
}

func TestHomeEnterStartsSingleSession(t *testing.T) {
	application := testApplication(t)
	h := newHomeModel(NewTheme(""))
	h.setNuggets([]app.Nugget{ready("n1", "one")})

	_, cmd := h.handleKey(keyPress("enter"), defaultKeyMap(), application)
	if cmd == nil {
		t.Fatal("expected a session-start command")
	}
	msg := cmd()
	started, ok := msg.(sessionStartedMsg)
	if !ok {
		t.Fatalf("expected sessionStartedMsg, got %T", msg)
	}
	if _, total := started.engine.Position(); total != 1 {
		t.Fatalf("expected a one-card session, got %d", total)
	}
}

func TestHomeViewListsTitles(t *testing.T) {
	h := newHomeModel(NewTheme(""))
	h.setNuggets([]app.Nugget{ready("n1", "A Readable Title")})

	out := h.view(100, 20)
	if !strings.Contains(out, "A Readable Title") {
		t.Fatalf("expected title in view, got: %q", out)
	}
}
