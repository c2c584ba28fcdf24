package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"nugget-cli/internal/app"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// sessionModel drives one review session: the swipeable card stack,
// the progress bar, and the processing indicator while the backend is
// still summarizing part of the batch.
type sessionModel struct {
	app    *app.Application
	engine *app.SessionEngine
	poller *app.Poller
	theme  Theme
	keys   keyMap
	md     *MarkdownRenderer

	polling bool
	closing bool
}

func newSessionModel(application *app.Application, engine *app.SessionEngine, theme Theme, keys keyMap) sessionModel {
	return sessionModel{
		app:     application,
		engine:  engine,
		poller:  engine.Poller(),
		theme:   theme,
		keys:    keys,
		md:      NewMarkdownRenderer(),
		polling: engine.Poller() != nil,
	}
}

func (s *sessionModel) Init() tea.Cmd {
	if s.poller == nil {
		return nil
	}
	return s.waitPoll()
}

// waitPoll blocks on the poller's update channel and feeds each status
// into the update loop, so all session mutation stays on the bubbletea
// goroutine.
func (s *sessionModel) waitPoll() tea.Cmd {
	p := s.poller
	return func() tea.Msg {
		st, ok := <-p.Updates()
		if !ok {
			return pollStoppedMsg{}
		}
		return pollUpdateMsg{st}
	}
}

func (s *sessionModel) update(msg tea.Msg) (*sessionModel, tea.Cmd) {
	switch msg := msg.(type) {
	case pollUpdateMsg:
		s.engine.ApplyStatus(msg.status)
		if msg.status.ProcessingComplete {
			s.polling = false
			return s, nil
		}
		return s, s.waitPoll()
	case pollStoppedMsg:
		s.polling = false
		return s, nil
	}
	return s, nil
}

func (s *sessionModel) handleKey(msg tea.KeyMsg) (*sessionModel, tea.Cmd) {
	if s.engine.Done() {
		// Any navigation key on the completion screen dismisses it.
		switch {
		case key.Matches(msg, s.keys.Close), key.Matches(msg, s.keys.Advance), key.Matches(msg, s.keys.Skip):
			return s, s.dismiss()
		}
		return s, nil
	}

	switch {
	case key.Matches(msg, s.keys.Advance):
		s.engine.Advance()
		if s.engine.Done() {
			// Terminal state reached: report in the background while
			// the completion screen shows.
			return s, s.closeCmd()
		}
		return s, nil

	case key.Matches(msg, s.keys.Skip):
		s.engine.Skip()
		if s.engine.Done() {
			return s, s.closeCmd()
		}
		return s, nil

	case key.Matches(msg, s.keys.Back):
		s.engine.Back()
		return s, nil

	case key.Matches(msg, s.keys.Open):
		if card, ok := s.engine.Current(); ok && card.SourceURL != "" {
			cfg := s.app.Config
			return s, func() tea.Msg {
				_ = app.OpenArticle(context.Background(), cfg.OpenCommand, card.SourceURL, card.Title)
				return nil
			}
		}
		return s, nil

	case key.Matches(msg, s.keys.Close):
		return s, s.dismiss()
	}
	return s, nil
}

// closeCmd reports the session's completions in the background. The UI
// never waits on it: submission failures are logged inside the engine
// and the screen moves on regardless.
func (s *sessionModel) closeCmd() tea.Cmd {
	if s.closing {
		return nil
	}
	s.closing = true
	e := s.engine
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		e.Finish(ctx)
		return nil
	}
}

// dismiss leaves the session screen immediately and fires the
// completion report if it has not gone out yet.
func (s *sessionModel) dismiss() tea.Cmd {
	finish := s.closeCmd()
	leave := func() tea.Msg { return sessionClosedMsg{} }
	if finish == nil {
		return leave
	}
	return tea.Batch(finish, leave)
}

func (s *sessionModel) view(width, height int) string {
	if s.engine.Done() {
		return s.completionView(width)
	}

	card, ok := s.engine.Current()
	if !ok {
		return s.theme.ListMeta.Render("no cards to review")
	}

	cardW := min(width-4, 78)
	var b strings.Builder

	b.WriteString(s.kindLine(card))
	b.WriteString("\n")
	if card.Title != "" {
		b.WriteString(s.theme.CardTitle.Render(card.Title))
		b.WriteString("\n\n")
	}
	if card.Summary != "" {
		b.WriteString(s.md.Render(card.Summary, cardW-6))
		b.WriteString("\n")
	}
	for _, kp := range card.KeyPoints {
		b.WriteString(s.theme.CardKeyPoint.Render("  • " + kp))
		b.WriteString("\n")
	}
	if card.Question != "" {
		b.WriteString("\n")
		b.WriteString(s.theme.CardQuestion.Render(card.Question))
		b.WriteString("\n")
	}
	if card.SourceURL != "" {
		b.WriteString("\n")
		b.WriteString(s.theme.CardSource.Render(card.SourceURL))
	}

	body := s.theme.Card.Width(cardW).Render(b.String())
	return lipgloss.JoinVertical(lipgloss.Left, body, s.progressLine(width))
}

func (s *sessionModel) kindLine(card app.Card) string {
	var badge string
	switch card.Kind {
	case app.CardGroupOverview:
		badge = s.theme.CardKindBadge.Render(fmt.Sprintf("digest · %d articles", card.Total))
	case app.CardIndividual:
		badge = s.theme.CardKindBadge.Render(fmt.Sprintf("article %d/%d", card.Index+1, card.Total))
	default:
		badge = s.theme.CardKindBadge.Render("nugget")
	}
	if card.Category != "" {
		badge += s.theme.CardCategory.Render("  " + card.Category)
	}
	return badge
}

func (s *sessionModel) progressLine(width int) string {
	idx, total := s.engine.Position()
	if total == 0 {
		return ""
	}
	dots := make([]string, total)
	for i := range dots {
		if i < idx {
			dots[i] = s.theme.ProgressDone.Render("●")
		} else if i == idx {
			dots[i] = s.theme.ProgressDone.Render("◉")
		} else {
			dots[i] = s.theme.Progress.Render("○")
		}
	}
	line := strings.Join(dots, " ") + s.theme.ListMeta.Render(fmt.Sprintf("  %d/%d", idx+1, total))
	if s.polling {
		line += s.theme.CardCategory.Render("  ⟳ summarizing…")
	}
	return line
}

func (s *sessionModel) completionView(width int) string {
	completed := len(s.engine.CompletedNuggetIDs())
	var b strings.Builder
	b.WriteString(s.theme.CardTitle.Render("Session complete"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("You reviewed %d nugget(s).\n", completed))
	b.WriteString(s.theme.ListMeta.Render("press esc to return"))
	return s.theme.Card.Width(min(width-4, 50)).Render(b.String())
}
