package tui

import (
	"testing"

	"nugget-cli/internal/app"

	tea "github.com/charmbracelet/bubbletea"
)

func testApplication(t *testing.T) *app.Application {
	t.Helper()
	cfg := app.DefaultConfig()
	cfg.DataDir = t.TempDir()
	application, err := app.NewApplication(cfg, true)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(application.Close)
	return application
}

func sessionOf(t *testing.T, nuggets ...app.Nugget) sessionModel {
	t.Helper()
	application := testApplication(t)
	engine := app.NewSessionEngine(&app.Session{Nuggets: nuggets}, application.Client, nil, nil, nil)
	return newSessionModel(application, engine, NewTheme(""), defaultKeyMap())
}

func ready(id, title string) app.Nugget {
	return app.Nugget{NuggetID: id, Title: title, Summary: "s", IsReady: true, SourceURL: "https://example.com/" + id}
}

func keyPress(k string) tea.KeyMsg {
	switch k {
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

func TestSessionAdvanceKeyMovesCursor(t *testing.T) {
	s := sessionOf(t, ready("n1", "one"), ready("n2", "two"))

	sm, _ := s.handleKey(keyPress("right"))
	idx, total := sm.engine.Position()
	if idx != 1 || total != 2 {
		t.Fatalf("expected position 1/2, got %d/%d", idx, total)
	}
	card, ok := sm.engine.Current()
	if !ok || card.NuggetID != "n2" {
		t.Fatalf("expected n2 under cursor, got %+v ok=%v", card, ok)
	}
}

func TestSessionBackKeyClamps(t *testing.T) {
	s := sessionOf(t, ready("n1", "one"))

	sm, _ := s.handleKey(keyPress("left"))
	if idx, _ := sm.engine.Position(); idx != 0 {
		t.Fatalf("back at index 0 must be a no-op, got %d", idx)
	}
}

func TestSessionSkipKeyDoesNotCredit(t *testing.T) {
	s := sessionOf(t, ready("n1", "one"), ready("n2", "two"))

	sm, _ := s.handleKey(keyPress("s"))
	if ids := sm.engine.CompletedNuggetIDs(); len(ids) != 0 {
		t.Fatalf("skip must not credit completion, got %v", ids)
	}
}

func TestSessionLastAdvanceTriggersClose(t *testing.T) {
	s := sessionOf(t, ready("n1", "one"))

	sm, cmd := s.handleKey(keyPress("right"))
	if !sm.engine.Done() {
		t.Fatal("expected terminal state after advancing past the only card")
	}
	if cmd == nil {
		t.Fatal("expected a completion command at terminal state")
	}
}

func TestSessionEscapeDismisses(t *testing.T) {
	s := sessionOf(t, ready("n1", "one"), ready("n2", "two"))

	_, cmd := s.handleKey(keyPress("esc"))
	if cmd == nil {
		t.Fatal("expected dismiss command")
	}
}

func TestSessionPollUpdateRederivesCards(t *testing.T) {
	s := sessionOf(t, ready("n1", "one"))

	sm, _ := s.update(pollUpdateMsg{status: app.SessionStatus{
		Nuggets:            []app.Nugget{ready("n1", "one"), ready("n2", "two")},
		ProcessingComplete: true,
	}})
	if _, total := sm.engine.Position(); total != 2 {
		t.Fatalf("expected 2 cards after poll replacement, got %d", total)
	}
	if sm.polling {
		t.Fatal("polling flag must clear on processing-complete")
	}
}

func TestSessionViewRendersCompletion(t *testing.T) {
	s := sessionOf(t, ready("n1", "one"))
	s.engine.Advance()

	out := s.view(80, 24)
	if out == "" {
		t.Fatal("expected completion view output")
	}
}
