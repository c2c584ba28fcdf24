package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit    key.Binding
	Back    key.Binding
	Advance key.Binding
	Skip    key.Binding
	Open    key.Binding
	Close   key.Binding

	Up      key.Binding
	Down    key.Binding
	Select  key.Binding
	Session key.Binding
	Smart   key.Binding
	Save    key.Binding
	Feeds   key.Binding
	Stats   key.Binding
	Delete  key.Binding
	Add     key.Binding
	Remove  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "Q"), key.WithHelp("Q", "quit")),
		Back:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "back")),
		Advance: key.NewBinding(key.WithKeys("right", "l", " ", "enter"), key.WithHelp("→", "next")),
		Skip:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "skip")),
		Open:    key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open article")),
		Close:   key.NewBinding(key.WithKeys("esc", "q"), key.WithHelp("esc", "close")),

		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓", "down")),
		Select:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "review")),
		Session: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "review session")),
		Smart:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "smart session")),
		Save:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "save link")),
		Feeds:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "feeds")),
		Stats:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "stats")),
		Delete:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Add:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Remove:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "remove")),
	}
}

// footerHelp is the one-line hint rendered at the bottom of each screen.
func footerHelp(screen screen) string {
	switch screen {
	case screenSession:
		return "→ next | ← back | s skip | o open | esc close"
	case screenFeeds:
		return "a add | x remove | esc home | Q quit"
	case screenStats:
		return "esc home | Q quit"
	default:
		return "r session | / smart | n save | f feeds | t stats | d delete | Q quit"
	}
}
